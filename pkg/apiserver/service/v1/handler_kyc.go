package v1

import (
	"errors"
	"foodcourt/internal/kyc"
	"foodcourt/internal/models"
	"foodcourt/pkg/api"

	"github.com/emicklei/go-restful/v3"
)

func (h *Handler) kycList(req *restful.Request, resp *restful.Response) {
	token := getToken(req)
	if token == "" {
		api.HandleUnauthorized(resp, errors.New("access token not found"))
		return
	}

	submissions, err := kyc.List(req.QueryParameter("state"), token)
	if err != nil {
		if errors.Is(err, kyc.ErrForbidden) {
			api.HandleUnauthorized(resp, err)
			return
		}
		api.HandleError(resp, err)
		return
	}

	_ = resp.WriteEntity(models.NewResponse(api.OK, api.Success, submissions))
}

func (h *Handler) kycDetail(req *restful.Request, resp *restful.Response) {
	token := getToken(req)
	if token == "" {
		api.HandleUnauthorized(resp, errors.New("access token not found"))
		return
	}

	submissionID := req.PathParameter(ParamSubmissionID)
	if submissionID == "" {
		api.HandleError(resp, errors.New("submission is empty"))
		return
	}

	submission, err := kyc.Detail(submissionID, token)
	if err != nil {
		if errors.Is(err, kyc.ErrForbidden) {
			api.HandleUnauthorized(resp, err)
			return
		}
		api.HandleError(resp, err)
		return
	}

	_ = resp.WriteEntity(models.NewResponse(api.OK, api.Success, submission))
}

func (h *Handler) kycReview(req *restful.Request, resp *restful.Response) {
	token := getToken(req)
	if token == "" {
		api.HandleUnauthorized(resp, errors.New("access token not found"))
		return
	}

	submissionID := req.PathParameter(ParamSubmissionID)
	if submissionID == "" {
		api.HandleError(resp, errors.New("submission is empty"))
		return
	}

	var review models.KycReviewRequest
	err := req.ReadEntity(&review)
	if err != nil {
		api.HandleError(resp, err)
		return
	}

	submission, err := kyc.Review(submissionID, review.Decision, review.Remark, token)
	if err != nil {
		if errors.Is(err, kyc.ErrForbidden) {
			api.HandleUnauthorized(resp, err)
			return
		}
		respErr(resp, err)
		return
	}

	_ = resp.WriteEntity(models.NewResponse(api.OK, api.Success, submission))
}
