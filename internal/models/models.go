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

package models

import (
	"foodcourt/internal/backend"
	"foodcourt/internal/history"
	"foodcourt/internal/invoice"
	"foodcourt/internal/reports"
	"foodcourt/internal/types"
)

type ListResult struct {
	Items      any   `json:"items"`
	TotalItems int   `json:"totalItems"`
	TotalCount int64 `json:"totalCount,omitempty"`
}

func NewListResultWithCount[T any](items []T, count int64) *ListResult {
	return &ListResult{
		Items:      items,
		TotalItems: len(items),
		TotalCount: count,
	}
}

type Response struct {
	Code int    `json:"code"`
	Msg  string `json:"message"`
	Data any    `json:"data,omitempty"`
}

func NewResponse(code int, msg string, data any) *Response {
	return &Response{
		Code: code,
		Msg:  msg,
		Data: data,
	}
}

type ResponseBase struct {
	Code int    `json:"code"`
	Msg  string `json:"message,omitempty"`
}

type MenuResponse struct {
	ResponseBase
	Data backend.MenuPayload `json:"data"`
}

type MenuImportData struct {
	Sections int    `json:"sections"`
	Items    int    `json:"items"`
	Version  string `json:"version,omitempty"`
}

type MenuImportResponse struct {
	ResponseBase
	Data MenuImportData `json:"data"`
}

type MenuLinkData struct {
	Link string `json:"link"`
}

type MenuLinkResponse struct {
	ResponseBase
	Data MenuLinkData `json:"data"`
}

type InvoiceResponse struct {
	ResponseBase
	Data invoice.Invoice `json:"data"`
}

type ExportRequest struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
}

type ExportData struct {
	Path string `json:"path"`
}

type ExportResponse struct {
	ResponseBase
	Data ExportData `json:"data"`
}

type KycListResponse struct {
	ResponseBase
	Data []backend.KycSubmission `json:"data"`
}

type KycDetailResponse struct {
	ResponseBase
	Data backend.KycSubmission `json:"data"`
}

type KycReviewRequest struct {
	Decision string `json:"decision"`
	Remark   string `json:"remark,omitempty"`
}

type RevenueResponse struct {
	ResponseBase
	Data reports.RevenueReport `json:"data"`
}

type ShareholderResponse struct {
	ResponseBase
	Data []reports.ShareholderStatement `json:"data"`
}

type OverviewResponse struct {
	ResponseBase
	Data map[string]*reports.RevenueReport `json:"data"`
}

type SettingsResponse struct {
	ResponseBase
	Data backend.VendorSettings `json:"data"`
}

type TransactionsResponse struct {
	ResponseBase
	Data ListResult `json:"data"`
}

type TransactionCountResponse struct {
	ResponseBase
	Data int64 `json:"data"`
}

type DeviceRegisterRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform,omitempty"`
}

type DevicesResponse struct {
	ResponseBase
	Data []*types.DeviceToken `json:"data"`
}

type BridgeBeginData struct {
	RequestID string `json:"request_id"`
}

type BridgeBeginResponse struct {
	ResponseBase
	Data BridgeBeginData `json:"data"`
}

type BridgeAwaitData struct {
	Token string `json:"token"`
}

type BridgeAwaitResponse struct {
	ResponseBase
	Data BridgeAwaitData `json:"data"`
}

type BridgeCallbackRequest struct {
	RequestID string `json:"request_id"`
	Token     string `json:"token"`
}

type VersionData struct {
	Version          string `json:"version"`
	MinBridgeVersion string `json:"min_bridge_version"`
	BridgeVersion    string `json:"bridge_version,omitempty"`
	BridgeSupported  bool   `json:"bridge_supported"`
	UpgradeRequired  bool   `json:"upgrade_required"`
}

type VersionResponse struct {
	ResponseBase
	Data VersionData `json:"data"`
}

type RecordsResult struct {
	Items      []*history.PaymentRecord `json:"items"`
	TotalItems int                      `json:"totalItems"`
	TotalCount int64                    `json:"totalCount,omitempty"`
}
