// Copyright 2023 foodcourt
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package v1

import (
	"fmt"
	"foodcourt/internal/backend"
	"foodcourt/internal/history"
	"foodcourt/internal/models"
	"net/http"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
)

const (
	APIRootPath       = "/foodcourt"
	Version           = "v1"
	ParamVendorID     = "vendor"
	ParamTxnID        = "txn"
	ParamSubmissionID = "submission"
	ParamRequestID    = "request"
)

var (
	ModuleTags = []string{"foodcourt"}
)

func newWebService() *restful.WebService {
	webservice := restful.WebService{}

	webservice.Path(fmt.Sprintf("%s/%s", APIRootPath, Version)).
		Produces(restful.MIME_JSON)

	return &webservice
}

func AddToContainer(c *restful.Container, historyModule *history.HistoryModule) error {
	ws := newWebService()
	handler := newHandler(historyModule)

	ws.Route(ws.GET("/vendors/{"+ParamVendorID+"}/menu").
		To(handler.menu).
		Doc("get the vendor menu").
		Metadata(restfulspec.KeyOpenAPITags, ModuleTags).
		Param(ws.PathParameter(ParamVendorID, "the id of a vendor")).
		Returns(http.StatusOK, "success to get the vendor menu", &models.MenuResponse{}))

	ws.Route(ws.POST("/vendors/{"+ParamVendorID+"}/menu").
		To(handler.importMenu).
		Consumes("application/x-yaml", "text/yaml", restful.MIME_JSON).
		Doc("import a menu definition and publish it").
		Metadata(restfulspec.KeyOpenAPITags, ModuleTags).
		Param(ws.PathParameter(ParamVendorID, "the id of a vendor")).
		Returns(http.StatusOK, "success to import the menu", &models.MenuImportResponse{}))

	ws.Route(ws.GET("/vendors/{"+ParamVendorID+"}/menu/link").
		To(handler.menuLink).
		Doc("get the public ordering link of a vendor table").
		Metadata(restfulspec.KeyOpenAPITags, ModuleTags).
		Param(ws.PathParameter(ParamVendorID, "the id of a vendor")).
		Param(ws.QueryParameter("table", "table id")).
		Returns(http.StatusOK, "success to get the public link", &models.MenuLinkResponse{}))

	ws.Route(ws.GET("/vendors/{"+ParamVendorID+"}/menu/qr").
		To(handler.menuQR).
		Produces("image/png", restful.MIME_JSON).
		Doc("get the table qr code of a vendor").
		Metadata(restfulspec.KeyOpenAPITags, ModuleTags).
		Param(ws.PathParameter(ParamVendorID, "the id of a vendor")).
		Param(ws.QueryParameter("table", "table id")).
		Param(ws.QueryParameter("size", "image size in pixels")).
		Param(ws.QueryParameter("format", "png or datauri")).
		Returns(http.StatusOK, "success to get the qr code", nil))

	ws.Route(ws.GET("/vendors/{"+ParamVendorID+"}/counter-qr").
		To(handler.counterQR).
		Produces("image/png", restful.MIME_JSON).
		Doc("get a upi qr code for counter payment").
		Metadata(restfulspec.KeyOpenAPITags, ModuleTags).
		Param(ws.PathParameter(ParamVendorID, "the id of a vendor")).
		Param(ws.QueryParameter("amount", "amount to collect")).
		Param(ws.QueryParameter("note", "payment note")).
		Param(ws.QueryParameter("size", "image size in pixels")).
		Param(ws.QueryParameter("format", "png or intent")).
		Returns(http.StatusOK, "success to get the qr code", nil))

	ws.Route(ws.GET("/vendors/{"+ParamVendorID+"}/invoices/{"+ParamTxnID+"}").
		To(handler.invoiceDetail).
		Doc("get the invoice of a settled transaction").
		Metadata(restfulspec.KeyOpenAPITags, ModuleTags).
		Param(ws.PathParameter(ParamVendorID, "the id of a vendor")).
		Param(ws.PathParameter(ParamTxnID, "the transaction id")).
		Returns(http.StatusOK, "success to get the invoice", &models.InvoiceResponse{}))

	ws.Route(ws.GET("/vendors/{"+ParamVendorID+"}/invoices/{"+ParamTxnID+"}/download").
		To(handler.invoiceDownload).
		Produces("application/pdf", restful.MIME_JSON).
		Doc("download the invoice pdf of a settled transaction").
		Metadata(restfulspec.KeyOpenAPITags, ModuleTags).
		Param(ws.PathParameter(ParamVendorID, "the id of a vendor")).
		Param(ws.PathParameter(ParamTxnID, "the transaction id")).
		Returns(http.StatusOK, "success to download the invoice", nil))

	ws.Route(ws.POST("/vendors/{"+ParamVendorID+"}/invoices/export").
		To(handler.invoiceExport).
		Reads(models.ExportRequest{}).
		Produces("application/zip", restful.MIME_JSON).
		Doc("export the invoices of a period as a zip archive").
		Metadata(restfulspec.KeyOpenAPITags, ModuleTags).
		Param(ws.PathParameter(ParamVendorID, "the id of a vendor")).
		Returns(http.StatusOK, "success to export the invoices", nil))

	ws.Route(ws.GET("/vendors/{"+ParamVendorID+"}/transactions").
		To(handler.transactions).
		Doc("get the payment history of a vendor").
		Metadata(restfulspec.KeyOpenAPITags, ModuleTags).
		Param(ws.PathParameter(ParamVendorID, "the id of a vendor")).
		Param(ws.QueryParameter("status", "payment status")).
		Param(ws.QueryParameter("payment_type", "payment type")).
		Param(ws.QueryParameter("txn", "transaction id")).
		Param(ws.QueryParameter("from", "start of the period, unix seconds")).
		Param(ws.QueryParameter("to", "end of the period, unix seconds")).
		Param(ws.QueryParameter("page", "page")).
		Param(ws.QueryParameter("size", "size")).
		Returns(http.StatusOK, "success to get the payment history", &models.TransactionsResponse{}))

	ws.Route(ws.GET("/vendors/{"+ParamVendorID+"}/reports/revenue").
		To(handler.revenue).
		Doc("get the revenue report of a period").
		Metadata(restfulspec.KeyOpenAPITags, ModuleTags).
		Param(ws.PathParameter(ParamVendorID, "the id of a vendor")).
		Param(ws.QueryParameter("from", "start date, YYYY-MM-DD")).
		Param(ws.QueryParameter("to", "end date, YYYY-MM-DD")).
		Returns(http.StatusOK, "success to get the revenue report", &models.RevenueResponse{}))

	ws.Route(ws.GET("/vendors/{"+ParamVendorID+"}/reports/shareholders").
		To(handler.shareholders).
		Doc("get the shareholder statements of a period").
		Metadata(restfulspec.KeyOpenAPITags, ModuleTags).
		Param(ws.PathParameter(ParamVendorID, "the id of a vendor")).
		Param(ws.QueryParameter("from", "start date, YYYY-MM-DD")).
		Param(ws.QueryParameter("to", "end date, YYYY-MM-DD")).
		Returns(http.StatusOK, "success to get the shareholder statements", &models.ShareholderResponse{}))

	ws.Route(ws.GET("/reports/overview").
		To(handler.revenueOverview).
		Doc("get the revenue of every vendor in a period, system role only").
		Metadata(restfulspec.KeyOpenAPITags, ModuleTags).
		Param(ws.QueryParameter("from", "start date, YYYY-MM-DD")).
		Param(ws.QueryParameter("to", "end date, YYYY-MM-DD")).
		Returns(http.StatusOK, "success to get the revenue overview", &models.OverviewResponse{}))

	ws.Route(ws.GET("/vendors/{"+ParamVendorID+"}/reports/settlements.csv").
		To(handler.settlementsCSV).
		Produces("text/csv", restful.MIME_JSON).
		Doc("download the settlement rows of a period as csv").
		Metadata(restfulspec.KeyOpenAPITags, ModuleTags).
		Param(ws.PathParameter(ParamVendorID, "the id of a vendor")).
		Param(ws.QueryParameter("from", "start date, YYYY-MM-DD")).
		Param(ws.QueryParameter("to", "end date, YYYY-MM-DD")).
		Returns(http.StatusOK, "success to download the settlements", nil))

	ws.Route(ws.GET("/vendors/{"+ParamVendorID+"}/profile").
		To(handler.profile).
		Doc("get the vendor profile").
		Metadata(restfulspec.KeyOpenAPITags, ModuleTags).
		Param(ws.PathParameter(ParamVendorID, "the id of a vendor")).
		Returns(http.StatusOK, "success to get the vendor profile", &models.Response{}))

	ws.Route(ws.GET("/vendors/{"+ParamVendorID+"}/settings").
		To(handler.settings).
		Doc("get the vendor settings").
		Metadata(restfulspec.KeyOpenAPITags, ModuleTags).
		Param(ws.PathParameter(ParamVendorID, "the id of a vendor")).
		Returns(http.StatusOK, "success to get the vendor settings", &models.SettingsResponse{}))

	ws.Route(ws.POST("/vendors/{"+ParamVendorID+"}/settings").
		To(handler.updateSettings).
		Reads(backend.VendorSettings{}).
		Doc("update the vendor settings").
		Metadata(restfulspec.KeyOpenAPITags, ModuleTags).
		Param(ws.PathParameter(ParamVendorID, "the id of a vendor")).
		Returns(http.StatusOK, "success to update the vendor settings", &models.SettingsResponse{}))

	ws.Route(ws.GET("/kyc/submissions").
		To(handler.kycList).
		Doc("get the kyc submission list").
		Metadata(restfulspec.KeyOpenAPITags, ModuleTags).
		Param(ws.QueryParameter("state", "submission state")).
		Returns(http.StatusOK, "success to get the kyc submission list", &models.KycListResponse{}))

	ws.Route(ws.GET("/kyc/submissions/{"+ParamSubmissionID+"}").
		To(handler.kycDetail).
		Doc("get a kyc submission with its documents").
		Metadata(restfulspec.KeyOpenAPITags, ModuleTags).
		Param(ws.PathParameter(ParamSubmissionID, "the id of a submission")).
		Returns(http.StatusOK, "success to get the kyc submission", &models.KycDetailResponse{}))

	ws.Route(ws.POST("/kyc/submissions/{"+ParamSubmissionID+"}/review").
		To(handler.kycReview).
		Reads(models.KycReviewRequest{}).
		Doc("approve or reject a kyc submission").
		Metadata(restfulspec.KeyOpenAPITags, ModuleTags).
		Param(ws.PathParameter(ParamSubmissionID, "the id of a submission")).
		Returns(http.StatusOK, "success to review the kyc submission", &models.KycDetailResponse{}))

	ws.Route(ws.GET("/vendors/{"+ParamVendorID+"}/devices").
		To(handler.devices).
		Doc("get the registered push devices of a vendor").
		Metadata(restfulspec.KeyOpenAPITags, ModuleTags).
		Param(ws.PathParameter(ParamVendorID, "the id of a vendor")).
		Returns(http.StatusOK, "success to get the devices", &models.DevicesResponse{}))

	ws.Route(ws.POST("/vendors/{"+ParamVendorID+"}/devices").
		To(handler.registerDevice).
		Reads(models.DeviceRegisterRequest{}).
		Doc("register a push device token for a vendor").
		Metadata(restfulspec.KeyOpenAPITags, ModuleTags).
		Param(ws.PathParameter(ParamVendorID, "the id of a vendor")).
		Returns(http.StatusOK, "success to register the device", &models.ResponseBase{}))

	ws.Route(ws.POST("/vendors/{"+ParamVendorID+"}/devices/unregister").
		To(handler.unregisterDevice).
		Reads(models.DeviceRegisterRequest{}).
		Doc("unregister a push device token of a vendor").
		Metadata(restfulspec.KeyOpenAPITags, ModuleTags).
		Param(ws.PathParameter(ParamVendorID, "the id of a vendor")).
		Returns(http.StatusOK, "success to unregister the device", &models.ResponseBase{}))

	ws.Route(ws.POST("/bridge/exchange").
		To(handler.bridgeBegin).
		Doc("begin a push token exchange with the wrapper app").
		Metadata(restfulspec.KeyOpenAPITags, ModuleTags).
		Returns(http.StatusOK, "success to begin the exchange", &models.BridgeBeginResponse{}))

	ws.Route(ws.GET("/bridge/exchange/{"+ParamRequestID+"}").
		To(handler.bridgeAwait).
		Doc("wait for the wrapper app to deliver the push token").
		Metadata(restfulspec.KeyOpenAPITags, ModuleTags).
		Param(ws.PathParameter(ParamRequestID, "the id of an exchange")).
		Returns(http.StatusOK, "success to get the push token", &models.BridgeAwaitResponse{}))

	ws.Route(ws.POST("/bridge/exchange/callback").
		To(handler.bridgeCallback).
		Reads(models.BridgeCallbackRequest{}).
		Doc("deliver the push token from the wrapper app").
		Metadata(restfulspec.KeyOpenAPITags, ModuleTags).
		Returns(http.StatusOK, "success to deliver the push token", &models.ResponseBase{}))

	ws.Route(ws.GET("/version").
		To(handler.version).
		Doc("get the service version and wrapper requirements").
		Metadata(restfulspec.KeyOpenAPITags, ModuleTags).
		Returns(http.StatusOK, "success to get the version", &models.VersionResponse{}))

	c.Add(ws)

	return nil
}
