package constants

import "os"

const (
	AuthorizationTokenCookieKey = "auth_token"
	AuthorizationTokenKey       = "X-Authorization"
	APIServerListenAddress      = ":81"
	PublicServerListenAddress   = ":82"

	DataPath        = "./data"
	InvoiceLocalDir = "./data/invoices"
	BridgeFileDir   = "./data/bridge"
	MenuFileName    = "menu.yaml"
)

const (
	CoreVerifyPaymentURLTempl = "http://%s:%s/core/v1/verify-payment/%s"

	CoreMenuURLTempl        = "http://%s:%s/core/v1/vendors/%s/menu"
	CoreMenuPushURLTempl    = "http://%s:%s/core/v1/vendors/%s/menu"
	CoreOrderSubmitURLTempl = "http://%s:%s/core/v1/vendors/%s/orders"
	CoreOrderURLTempl       = "http://%s:%s/core/v1/orders/%s"

	CoreVendorProfileURLTempl  = "http://%s:%s/core/v1/vendors/%s/profile"
	CoreVendorSettingsURLTempl = "http://%s:%s/core/v1/vendors/%s/settings"

	CoreKycListURLTempl   = "http://%s:%s/core/v1/kyc/submissions?state=%s"
	CoreKycDetailURLTempl = "http://%s:%s/core/v1/kyc/submissions/%s"
	CoreKycReviewURLTempl = "http://%s:%s/core/v1/kyc/submissions/%s/review"

	CoreSettlementsURLTempl = "http://%s:%s/core/v1/vendors/%s/settlements?from=%s&to=%s"

	CoreHostEnv = "CORE_API_SERVICE_HOST"
	CorePortEnv = "CORE_API_SERVICE_PORT"

	DefaultPage     = 1
	DefaultPageSize = 100
	DefaultFrom     = 0
)

const (
	PaymentRedirectPathTempl = "/payment/status/%s"
	DashboardPathTempl       = "/dashboard/%s"
	PublicMenuURLTempl       = "https://%s/menu/%s?table=%s"
	UPIIntentTempl           = "upi://pay?pa=%s&pn=%s&am=%s&cu=INR&tn=%s"
)

const (
	NatsSubjectPaymentResolved = "foodcourt.payment.resolved"
	NatsSubjectOrderPlaced     = "foodcourt.order.placed"
)

const (
	RedisKeyCartPrefix        = "foodcourt:cart:"
	RedisKeyMenuPrefix        = "foodcourt:menu:"
	RedisKeyDeviceTokenPrefix = "foodcourt:devices:"
	RedisKeyPaymentPrefix     = "foodcourt:payment:"
	RedisKeyInvoiceSeqPrefix  = "foodcourt:invoiceseq:"
)

const (
	RoleVendor = "vendor"
	RoleSystem = "system"

	// VendorSelf resolves to the token owner's own profile on the core API.
	VendorSelf = "me"
	// VendorAll selects every vendor, the core API only honors it for
	// system tokens.
	VendorAll = "all"
)

const (
	KycStatePending  = "pending"
	KycStateApproved = "approved"
	KycStateRejected = "rejected"
)

var (
	ValidKycStates = []string{KycStatePending, KycStateApproved, KycStateRejected}
)

func GetCoreAPIHostAndPort() (string, string) {
	return os.Getenv(CoreHostEnv), os.Getenv(CorePortEnv)
}
