package v1

import (
	"errors"
	"foodcourt/internal/history"
	"foodcourt/internal/models"
	"foodcourt/pkg/api"
	"foodcourt/pkg/utils"
	"strconv"

	"github.com/emicklei/go-restful/v3"
	"github.com/golang/glog"
)

func (h *Handler) transactions(req *restful.Request, resp *restful.Response) {
	token := getToken(req)
	if token == "" {
		api.HandleUnauthorized(resp, errors.New("access token not found"))
		return
	}

	if h.historyModule == nil {
		respErrWithCode(resp, errors.New("payment history is not available"), 500)
		return
	}

	vendorID, err := vendorFromPath(req)
	if err != nil {
		api.HandleError(resp, err)
		return
	}

	offset, size := utils.VerifyFromAndSize(req.QueryParameter("page"), req.QueryParameter("size"))

	condition := &history.QueryCondition{
		VendorID:      vendorID,
		Status:        req.QueryParameter("status"),
		PaymentType:   req.QueryParameter("payment_type"),
		TransactionID: req.QueryParameter("txn"),
		Limit:         size,
		Offset:        offset,
	}

	if from := req.QueryParameter("from"); from != "" {
		condition.StartTime, err = strconv.ParseInt(from, 10, 64)
		if err != nil {
			glog.Infof("from error: %s", err.Error())
			condition.StartTime = 0
		}
	}
	if to := req.QueryParameter("to"); to != "" {
		condition.EndTime, err = strconv.ParseInt(to, 10, 64)
		if err != nil {
			glog.Infof("to error: %s", err.Error())
			condition.EndTime = 0
		}
	}

	records, err := h.historyModule.QueryRecords(condition)
	if err != nil {
		api.HandleError(resp, err)
		return
	}

	count, err := h.historyModule.GetRecordCount(condition)
	if err != nil {
		glog.Warningf("GetRecordCount err:%s", err.Error())
		count = int64(len(records))
	}

	_ = resp.WriteEntity(models.NewResponse(api.OK, api.Success, models.NewListResultWithCount(records, count)))
}
