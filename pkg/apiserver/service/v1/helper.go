package v1

import (
	"encoding/json"
	"errors"
	"foodcourt/internal/qr"
	"foodcourt/pkg/api"
	"net/http"
	"strconv"

	"github.com/emicklei/go-restful/v3"
	"github.com/golang/glog"
)

func respErr(resp *restful.Response, err error) {
	respErrWithCode(resp, err, 400)
}

func respErrWithCode(resp *restful.Response, err error, code int) {
	if code == 200 {
		code = 400
	}
	_ = resp.WriteHeaderAndEntity(http.StatusOK, api.Error{
		Code: code,
		Msg:  err.Error(),
	})
}

func respJsonWithOriginBody(resp *restful.Response, body string) {
	glog.Info("body:", body)
	info := make(map[string]interface{})
	err := json.Unmarshal([]byte(body), &info)
	if err != nil {
		resInfo := map[string]any{
			"code":    500,
			"message": body,
		}
		_ = resp.WriteAsJson(resInfo)
		return
	}

	_ = resp.WriteAsJson(info)
}

func vendorFromPath(req *restful.Request) (string, error) {
	vendorID := req.PathParameter(ParamVendorID)
	if vendorID == "" {
		return "", errors.New("vendor is empty")
	}

	return vendorID, nil
}

// parseQRSize clamps the requested image size to something the encoder
// can render.
func parseQRSize(req *restful.Request) int {
	size, err := strconv.Atoi(req.QueryParameter("size"))
	if err != nil || size <= 0 {
		return qr.DefaultSize
	}
	if size > 1024 {
		size = 1024
	}

	return size
}
