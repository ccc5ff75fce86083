package v1

import (
	"errors"
	"fmt"
	"foodcourt/internal/backend"
	"foodcourt/internal/constants"
	"foodcourt/internal/kyc"
	"foodcourt/internal/models"
	"foodcourt/internal/reports"
	"foodcourt/pkg/api"
	"time"

	"github.com/emicklei/go-restful/v3"
)

const defaultReportDays = 30

func reportPeriod(req *restful.Request) (string, string) {
	from := req.QueryParameter("from")
	to := req.QueryParameter("to")
	if to == "" {
		to = time.Now().Format("2006-01-02")
	}
	if from == "" {
		from = time.Now().AddDate(0, 0, -defaultReportDays).Format("2006-01-02")
	}

	return from, to
}

func (h *Handler) revenue(req *restful.Request, resp *restful.Response) {
	token := getToken(req)
	if token == "" {
		api.HandleUnauthorized(resp, errors.New("access token not found"))
		return
	}

	vendorID, err := vendorFromPath(req)
	if err != nil {
		api.HandleError(resp, err)
		return
	}

	from, to := reportPeriod(req)
	report, err := reports.Revenue(vendorID, from, to, token)
	if err != nil {
		api.HandleError(resp, err)
		return
	}

	_ = resp.WriteEntity(models.NewResponse(api.OK, api.Success, report))
}

func (h *Handler) shareholders(req *restful.Request, resp *restful.Response) {
	token := getToken(req)
	if token == "" {
		api.HandleUnauthorized(resp, errors.New("access token not found"))
		return
	}

	vendorID, err := vendorFromPath(req)
	if err != nil {
		api.HandleError(resp, err)
		return
	}

	body, err := backend.Profile(vendorID, token)
	if err != nil {
		api.HandleError(resp, fmt.Errorf("get profile err:%v, resp:%s", err, body))
		return
	}
	profile, err := backend.ParseProfile(body)
	if err != nil {
		api.HandleError(resp, err)
		return
	}

	from, to := reportPeriod(req)
	report, err := reports.Revenue(vendorID, from, to, token)
	if err != nil {
		api.HandleError(resp, err)
		return
	}

	statements, err := reports.ShareholderStatements(profile, report.Net)
	if err != nil {
		respErr(resp, err)
		return
	}

	_ = resp.WriteEntity(models.NewResponse(api.OK, api.Success, statements))
}

func (h *Handler) revenueOverview(req *restful.Request, resp *restful.Response) {
	token := getToken(req)
	if token == "" {
		api.HandleUnauthorized(resp, errors.New("access token not found"))
		return
	}

	if _, err := kyc.EnsureReviewer(token); err != nil {
		api.HandleUnauthorized(resp, err)
		return
	}

	from, to := reportPeriod(req)
	body, err := backend.Settlements(constants.VendorAll, from, to, token)
	if err != nil {
		api.HandleError(resp, fmt.Errorf("get settlements err:%v, resp:%s", err, body))
		return
	}
	rows, err := backend.ParseSettlements(body)
	if err != nil {
		api.HandleError(resp, err)
		return
	}

	overview, err := reports.OverviewByVendor(from, to, rows)
	if err != nil {
		api.HandleError(resp, err)
		return
	}

	_ = resp.WriteEntity(models.NewResponse(api.OK, api.Success, overview))
}

func (h *Handler) settlementsCSV(req *restful.Request, resp *restful.Response) {
	token := getToken(req)
	if token == "" {
		api.HandleUnauthorized(resp, errors.New("access token not found"))
		return
	}

	vendorID, err := vendorFromPath(req)
	if err != nil {
		api.HandleError(resp, err)
		return
	}

	from, to := reportPeriod(req)
	body, err := backend.Settlements(vendorID, from, to, token)
	if err != nil {
		api.HandleError(resp, fmt.Errorf("get settlements err:%v, resp:%s", err, body))
		return
	}
	rows, err := backend.ParseSettlements(body)
	if err != nil {
		api.HandleError(resp, err)
		return
	}

	data, err := reports.SettlementCSV(rows)
	if err != nil {
		api.HandleError(resp, err)
		return
	}

	resp.AddHeader("Content-Type", "text/csv")
	resp.AddHeader("Content-Disposition", fmt.Sprintf("attachment; filename=settlements-%s-%s-%s.csv", vendorID, from, to))
	_, _ = resp.Write(data)
}
