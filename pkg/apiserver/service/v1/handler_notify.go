package v1

import (
	"errors"
	"foodcourt/internal/models"
	"foodcourt/internal/notify"
	"foodcourt/internal/types"
	"foodcourt/pkg/api"

	"github.com/emicklei/go-restful/v3"
)

func (h *Handler) devices(req *restful.Request, resp *restful.Response) {
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

	_ = resp.WriteEntity(models.NewResponse(api.OK, api.Success, h.deviceRegistry.Devices(vendorID)))
}

func (h *Handler) registerDevice(req *restful.Request, resp *restful.Response) {
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

	var device models.DeviceRegisterRequest
	err = req.ReadEntity(&device)
	if err != nil {
		api.HandleError(resp, err)
		return
	}

	appVersion, _ := notify.DetectBridgeVersion(req.Request.UserAgent())

	err = h.deviceRegistry.Register(vendorID, types.DeviceToken{
		Token:      device.Token,
		Platform:   device.Platform,
		AppVersion: appVersion,
	})
	if err != nil {
		respErr(resp, err)
		return
	}

	_ = resp.WriteEntity(models.ResponseBase{Code: api.OK, Msg: api.Success})
}

func (h *Handler) unregisterDevice(req *restful.Request, resp *restful.Response) {
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

	var device models.DeviceRegisterRequest
	err = req.ReadEntity(&device)
	if err != nil {
		api.HandleError(resp, err)
		return
	}

	err = h.deviceRegistry.Unregister(vendorID, device.Token)
	if err != nil {
		respErr(resp, err)
		return
	}

	_ = resp.WriteEntity(models.ResponseBase{Code: api.OK, Msg: api.Success})
}

func (h *Handler) bridgeBegin(req *restful.Request, resp *restful.Response) {
	token := getToken(req)
	if token == "" {
		api.HandleUnauthorized(resp, errors.New("access token not found"))
		return
	}

	_ = resp.WriteEntity(models.NewResponse(api.OK, api.Success, models.BridgeBeginData{
		RequestID: h.tokenExchange.Begin(),
	}))
}

func (h *Handler) bridgeAwait(req *restful.Request, resp *restful.Response) {
	token := getToken(req)
	if token == "" {
		api.HandleUnauthorized(resp, errors.New("access token not found"))
		return
	}

	requestID := req.PathParameter(ParamRequestID)
	if requestID == "" {
		api.HandleError(resp, errors.New("request is empty"))
		return
	}

	value, err := h.tokenExchange.Await(req.Request.Context(), requestID, notify.DefaultExchangeTimeout)
	if err != nil {
		if errors.Is(err, notify.ErrExchangeTimeout) {
			respErrWithCode(resp, err, 408)
			return
		}
		api.HandleError(resp, err)
		return
	}

	_ = resp.WriteEntity(models.NewResponse(api.OK, api.Success, models.BridgeAwaitData{Token: value}))
}

// bridgeCallback is called by the wrapper app itself, so it is gated on the
// wrapper user agent instead of the dashboard token.
func (h *Handler) bridgeCallback(req *restful.Request, resp *restful.Response) {
	if _, ok := notify.DetectBridgeVersion(req.Request.UserAgent()); !ok {
		api.HandleUnauthorized(resp, errors.New("wrapper user agent required"))
		return
	}

	var callback models.BridgeCallbackRequest
	err := req.ReadEntity(&callback)
	if err != nil {
		api.HandleError(resp, err)
		return
	}
	if callback.RequestID == "" || callback.Token == "" {
		api.HandleError(resp, errors.New("request_id and token are required"))
		return
	}

	if !h.tokenExchange.Resolve(callback.RequestID, callback.Token) {
		respErr(resp, errors.New("unknown or expired exchange"))
		return
	}

	_ = resp.WriteEntity(models.ResponseBase{Code: api.OK, Msg: api.Success})
}
