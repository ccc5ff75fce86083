package v1

import (
	"errors"
	"fmt"
	"foodcourt/internal/backend"
	"foodcourt/internal/models"
	"foodcourt/internal/notify"
	"foodcourt/pkg/api"
	"foodcourt/pkg/utils"

	"github.com/emicklei/go-restful/v3"
)

const serviceVersion = "1.0.0"

func (h *Handler) profile(req *restful.Request, resp *restful.Response) {
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

	respJsonWithOriginBody(resp, body)
}

func (h *Handler) settings(req *restful.Request, resp *restful.Response) {
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

	body, err := backend.GetSettings(vendorID, token)
	if err != nil {
		api.HandleError(resp, fmt.Errorf("get settings err:%v, resp:%s", err, body))
		return
	}

	settings, err := backend.ParseSettings(body)
	if err != nil {
		api.HandleError(resp, err)
		return
	}

	_ = resp.WriteEntity(models.NewResponse(api.OK, api.Success, settings))
}

func (h *Handler) updateSettings(req *restful.Request, resp *restful.Response) {
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

	var settings backend.VendorSettings
	err = req.ReadEntity(&settings)
	if err != nil {
		api.HandleError(resp, err)
		return
	}

	body, err := backend.UpdateSettings(vendorID, token, &settings)
	if err != nil {
		api.HandleError(resp, fmt.Errorf("update settings err:%v, resp:%s", err, body))
		return
	}

	updated, err := backend.ParseSettings(body)
	if err != nil {
		api.HandleError(resp, err)
		return
	}

	_ = resp.WriteEntity(models.NewResponse(api.OK, api.Success, updated))
}

func (h *Handler) version(req *restful.Request, resp *restful.Response) {
	userAgent := req.Request.UserAgent()
	bridgeVersion, embedded := notify.DetectBridgeVersion(userAgent)

	upgradeRequired := false
	if embedded {
		upgradeRequired = utils.NeedUpgrade(bridgeVersion, notify.MinBridgeVersion, false)
	}

	_ = resp.WriteEntity(models.NewResponse(api.OK, api.Success, models.VersionData{
		Version:          serviceVersion,
		MinBridgeVersion: notify.MinBridgeVersion,
		BridgeVersion:    bridgeVersion,
		BridgeSupported:  notify.BridgeSupported(userAgent),
		UpgradeRequired:  upgradeRequired,
	}))
}
