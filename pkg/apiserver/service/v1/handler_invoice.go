package v1

import (
	"errors"
	"fmt"
	"foodcourt/internal/constants"
	"foodcourt/internal/models"
	"foodcourt/internal/notify"
	"foodcourt/pkg/api"
	"net/http"
	"path/filepath"
	"time"

	"github.com/emicklei/go-restful/v3"
)

func (h *Handler) invoiceDetail(req *restful.Request, resp *restful.Response) {
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

	transactionID := req.PathParameter(ParamTxnID)
	if transactionID == "" {
		api.HandleError(resp, errors.New("txn is empty"))
		return
	}

	inv, _, err := h.invoiceManager.ForTransaction(vendorID, transactionID, token)
	if err != nil {
		api.HandleError(resp, err)
		return
	}

	_ = resp.WriteEntity(models.NewResponse(api.OK, api.Success, inv))
}

func (h *Handler) invoiceDownload(req *restful.Request, resp *restful.Response) {
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

	transactionID := req.PathParameter(ParamTxnID)
	if transactionID == "" {
		api.HandleError(resp, errors.New("txn is empty"))
		return
	}

	inv, pdf, err := h.invoiceManager.ForTransaction(vendorID, transactionID, token)
	if err != nil {
		api.HandleError(resp, err)
		return
	}

	// Wrapper webviews cannot stream attachments, the file goes to the
	// wrapper pickup directory instead and the path is returned.
	bridge := notify.BridgeFor(req.Request.UserAgent(), constants.BridgeFileDir)
	if bridge.IsEmbedded() {
		path, err := bridge.SaveFile(inv.Number+".pdf", pdf)
		if err != nil {
			api.HandleError(resp, err)
			return
		}
		_ = resp.WriteEntity(models.NewResponse(api.OK, api.Success, models.ExportData{Path: path}))
		return
	}

	resp.AddHeader("Content-Type", "application/pdf")
	resp.AddHeader("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", inv.Number))
	_, _ = resp.Write(pdf)
}

func (h *Handler) invoiceExport(req *restful.Request, resp *restful.Response) {
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

	var period models.ExportRequest
	err = req.ReadEntity(&period)
	if err != nil {
		api.HandleError(resp, err)
		return
	}
	if period.From <= 0 || period.To <= 0 || period.To < period.From {
		respErr(resp, errors.New("invalid export period"))
		return
	}

	zipPath, err := h.invoiceManager.ExportRange(vendorID, token,
		time.Unix(period.From, 0), time.Unix(period.To, 0), constants.InvoiceLocalDir)
	if err != nil {
		api.HandleError(resp, err)
		return
	}

	resp.AddHeader("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filepath.Base(zipPath)))
	http.ServeFile(resp.ResponseWriter, req.Request, zipPath)
}
