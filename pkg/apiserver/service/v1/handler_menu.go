package v1

import (
	"errors"
	"fmt"
	"foodcourt/internal/backend"
	"foodcourt/internal/constants"
	"foodcourt/internal/menu"
	"foodcourt/internal/models"
	"foodcourt/internal/notify"
	"foodcourt/internal/qr"
	"foodcourt/pkg/api"
	"io"

	"github.com/emicklei/go-restful/v3"
)

func (h *Handler) menu(req *restful.Request, resp *restful.Response) {
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

	payload, err := menu.FetchVendorMenu(vendorID, token)
	if err != nil {
		api.HandleError(resp, err)
		return
	}

	_ = resp.WriteEntity(models.NewResponse(api.OK, api.Success, payload))
}

func (h *Handler) importMenu(req *restful.Request, resp *restful.Response) {
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

	data, err := io.ReadAll(req.Request.Body)
	if err != nil {
		api.HandleError(resp, err)
		return
	}
	if len(data) == 0 {
		api.HandleError(resp, errors.New("menu body is empty"))
		return
	}

	payload, err := menu.Import(vendorID, token, data)
	if err != nil {
		respErr(resp, err)
		return
	}

	items := 0
	for _, section := range payload.Sections {
		items += len(section.Items)
	}

	_ = resp.WriteEntity(models.NewResponse(api.OK, api.Success, models.MenuImportData{
		Sections: len(payload.Sections),
		Items:    items,
		Version:  payload.UpdatedAt,
	}))
}

func (h *Handler) menuLink(req *restful.Request, resp *restful.Response) {
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

	tableID := req.QueryParameter("table")

	_ = resp.WriteEntity(models.NewResponse(api.OK, api.Success, models.MenuLinkData{
		Link: menu.PublicLink(vendorID, tableID),
	}))
}

func (h *Handler) menuQR(req *restful.Request, resp *restful.Response) {
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

	tableID := req.QueryParameter("table")
	size := parseQRSize(req)

	if req.QueryParameter("format") == "datauri" {
		uri, err := qr.DataURI(menu.PublicLink(vendorID, tableID), size)
		if err != nil {
			api.HandleError(resp, err)
			return
		}
		_ = resp.WriteEntity(models.NewResponse(api.OK, api.Success, models.MenuLinkData{Link: uri}))
		return
	}

	png, err := qr.MenuQR(vendorID, tableID, size)
	if err != nil {
		api.HandleError(resp, err)
		return
	}

	resp.AddHeader("Content-Type", "image/png")
	_, _ = resp.Write(png)
}

func (h *Handler) counterQR(req *restful.Request, resp *restful.Response) {
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
	if profile.VPA == "" {
		respErr(resp, errors.New("vendor has no upi vpa configured"))
		return
	}

	amount := req.QueryParameter("amount")
	note := req.QueryParameter("note")

	if req.QueryParameter("format") == "intent" {
		intent := qr.UPIIntent(profile.VPA, profile.Name, amount, note)
		bridge := notify.BridgeFor(req.Request.UserAgent(), constants.BridgeFileDir)
		if bridge.IsEmbedded() {
			if err := bridge.OpenExternal(intent); err != nil {
				respErr(resp, err)
				return
			}
		}
		_ = resp.WriteEntity(models.NewResponse(api.OK, api.Success, models.MenuLinkData{Link: intent}))
		return
	}

	png, err := qr.UPIQR(profile.VPA, profile.Name, amount, note, parseQRSize(req))
	if err != nil {
		api.HandleError(resp, err)
		return
	}

	resp.AddHeader("Content-Type", "image/png")
	_, _ = resp.Write(png)
}
