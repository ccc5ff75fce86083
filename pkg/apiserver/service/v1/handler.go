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
	"foodcourt/internal/constants"
	"foodcourt/internal/history"
	"foodcourt/internal/invoice"
	"foodcourt/internal/notify"

	"github.com/emicklei/go-restful/v3"
	"github.com/golang/glog"
)

type Handler struct {
	historyModule  *history.HistoryModule
	invoiceManager *invoice.Manager
	deviceRegistry *notify.DeviceRegistry
	tokenExchange  *notify.Exchange
}

func newHandler(historyModule *history.HistoryModule) *Handler {
	var source invoice.RecordSource
	if historyModule != nil {
		source = historyModule
	}

	return &Handler{
		historyModule:  historyModule,
		invoiceManager: invoice.NewManager(source),
		deviceRegistry: notify.NewDeviceRegistry(),
		tokenExchange:  notify.NewExchange(),
	}
}

func getToken(req *restful.Request) string {
	cookie, err := req.Request.Cookie(constants.AuthorizationTokenCookieKey)
	if err != nil {
		token := req.Request.Header.Get(constants.AuthorizationTokenKey)
		if token == "" {
			glog.Warningf("req.Request.Cookie err:%s", err)
		}

		return token
	}

	return cookie.Value
}
