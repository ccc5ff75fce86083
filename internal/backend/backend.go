package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/golang/glog"

	"foodcourt/internal/constants"
	"foodcourt/pkg/utils"
)

func FetchMenu(vendorID, token string) (string, error) {
	coreHost, corePort := constants.GetCoreAPIHostAndPort()
	url := fmt.Sprintf(constants.CoreMenuURLTempl, coreHost, corePort, vendorID)

	return utils.SendHttpRequestWithToken(http.MethodGet, url, token, nil)
}

func PushMenu(vendorID, token string, payload *MenuPayload) (string, error) {
	coreHost, corePort := constants.GetCoreAPIHostAndPort()
	url := fmt.Sprintf(constants.CoreMenuPushURLTempl, coreHost, corePort, vendorID)

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	return utils.SendHttpRequestWithToken(http.MethodPost, url, token, bytes.NewBuffer(jsonData))
}

func SubmitOrder(submission *OrderSubmission, token string) (string, error) {
	coreHost, corePort := constants.GetCoreAPIHostAndPort()
	url := fmt.Sprintf(constants.CoreOrderSubmitURLTempl, coreHost, corePort, submission.VendorID)

	jsonData, err := json.Marshal(submission)
	if err != nil {
		return "", err
	}

	return utils.SendHttpRequestWithToken(http.MethodPost, url, token, bytes.NewBuffer(jsonData))
}

func GetOrder(orderID, token string) (string, error) {
	coreHost, corePort := constants.GetCoreAPIHostAndPort()
	url := fmt.Sprintf(constants.CoreOrderURLTempl, coreHost, corePort, orderID)

	return utils.SendHttpRequestWithToken(http.MethodGet, url, token, nil)
}

func Profile(vendorID, token string) (string, error) {
	coreHost, corePort := constants.GetCoreAPIHostAndPort()
	url := fmt.Sprintf(constants.CoreVendorProfileURLTempl, coreHost, corePort, vendorID)

	return utils.SendHttpRequestWithToken(http.MethodGet, url, token, nil)
}

func GetSettings(vendorID, token string) (string, error) {
	coreHost, corePort := constants.GetCoreAPIHostAndPort()
	url := fmt.Sprintf(constants.CoreVendorSettingsURLTempl, coreHost, corePort, vendorID)

	return utils.SendHttpRequestWithToken(http.MethodGet, url, token, nil)
}

func UpdateSettings(vendorID, token string, settings *VendorSettings) (string, error) {
	coreHost, corePort := constants.GetCoreAPIHostAndPort()
	url := fmt.Sprintf(constants.CoreVendorSettingsURLTempl, coreHost, corePort, vendorID)

	jsonData, err := json.Marshal(settings)
	if err != nil {
		return "", err
	}

	return utils.SendHttpRequestWithToken(http.MethodPost, url, token, bytes.NewBuffer(jsonData))
}

func KycList(state, token string) (string, error) {
	coreHost, corePort := constants.GetCoreAPIHostAndPort()
	url := fmt.Sprintf(constants.CoreKycListURLTempl, coreHost, corePort, state)

	return utils.SendHttpRequestWithToken(http.MethodGet, url, token, nil)
}

func KycDetail(submissionID, token string) (string, error) {
	coreHost, corePort := constants.GetCoreAPIHostAndPort()
	url := fmt.Sprintf(constants.CoreKycDetailURLTempl, coreHost, corePort, submissionID)

	return utils.SendHttpRequestWithToken(http.MethodGet, url, token, nil)
}

func SubmitKycReview(submissionID, token string, review *KycReview) (string, error) {
	coreHost, corePort := constants.GetCoreAPIHostAndPort()
	url := fmt.Sprintf(constants.CoreKycReviewURLTempl, coreHost, corePort, submissionID)

	jsonData, err := json.Marshal(review)
	if err != nil {
		return "", err
	}

	return utils.SendHttpRequestWithToken(http.MethodPost, url, token, bytes.NewBuffer(jsonData))
}

func Settlements(vendorID, from, to, token string) (string, error) {
	coreHost, corePort := constants.GetCoreAPIHostAndPort()
	url := fmt.Sprintf(constants.CoreSettlementsURLTempl, coreHost, corePort, vendorID, from, to)

	return utils.SendHttpRequestWithToken(http.MethodGet, url, token, nil)
}

func ParseMenu(str string) (*MenuPayload, error) {
	var menu MenuPayload
	err := json.Unmarshal([]byte(str), &menu)
	if err != nil {
		glog.Warningf("json.Unmarshal %s, err:%s", str, err.Error())
		return nil, err
	}

	return &menu, nil
}

func ParseOrderReceipt(str string) (*OrderReceipt, error) {
	var receipt OrderReceipt
	err := json.Unmarshal([]byte(str), &receipt)
	if err != nil {
		glog.Warningf("json.Unmarshal %s, err:%s", str, err.Error())
		return nil, err
	}

	return &receipt, nil
}

func ParseProfile(str string) (*VendorProfile, error) {
	var profile VendorProfile
	err := json.Unmarshal([]byte(str), &profile)
	if err != nil {
		glog.Warningf("json.Unmarshal %s, err:%s", str, err.Error())
		return nil, err
	}

	return &profile, nil
}

func ParseSettings(str string) (*VendorSettings, error) {
	var settings VendorSettings
	err := json.Unmarshal([]byte(str), &settings)
	if err != nil {
		glog.Warningf("json.Unmarshal %s, err:%s", str, err.Error())
		return nil, err
	}

	return &settings, nil
}

func ParseKycList(str string) (submissions []KycSubmission, err error) {
	err = json.Unmarshal([]byte(str), &submissions)
	if err != nil {
		glog.Warningf("json.Unmarshal %s, err:%s", str, err.Error())
		return
	}

	return
}

func ParseKycSubmission(str string) (*KycSubmission, error) {
	var submission KycSubmission
	err := json.Unmarshal([]byte(str), &submission)
	if err != nil {
		glog.Warningf("json.Unmarshal %s, err:%s", str, err.Error())
		return nil, err
	}

	return &submission, nil
}

func ParseSettlements(str string) (rows []SettlementRow, err error) {
	err = json.Unmarshal([]byte(str), &rows)
	if err != nil {
		glog.Warningf("json.Unmarshal %s, err:%s", str, err.Error())
		return
	}

	return
}

func ConvertSettlementsToVendorMap(rows []SettlementRow) (vendorMap map[string][]SettlementRow) {
	vendorMap = make(map[string][]SettlementRow)
	for _, row := range rows {
		vendorMap[row.VendorID] = append(vendorMap[row.VendorID], row)
	}

	return
}
