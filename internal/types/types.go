package types

import "time"

// PaymentResolvedUpdate is published on the event bus whenever a payment
// session reaches a terminal status.
type PaymentResolvedUpdate struct {
	TransactionID string `json:"transaction_id"`
	OrderID       string `json:"order_id,omitempty"`
	VendorID      string `json:"vendor_id,omitempty"`
	Status        string `json:"status"`
	Amount        string `json:"amount,omitempty"`
	PaymentType   string `json:"payment_type,omitempty"`
	UTR           string `json:"utr,omitempty"`
	VPA           string `json:"vpa,omitempty"`
	PayerName     string `json:"payer_name,omitempty"`
	Timestamp     int64  `json:"timestamp"`
}

// OrderPlacedUpdate is published when checkout hands an order to the core API.
type OrderPlacedUpdate struct {
	OrderID       string `json:"order_id"`
	VendorID      string `json:"vendor_id"`
	TransactionID string `json:"transaction_id"`
	Table         string `json:"table,omitempty"`
	ItemCount     int    `json:"item_count"`
	GrandTotal    string `json:"grand_total"`
	Timestamp     int64  `json:"timestamp"`
}

// CartLine is one item row in a customer cart. UnitPrice is a decimal string;
// arithmetic on it goes through shopspring/decimal, never float64.
type CartLine struct {
	ItemID    string `json:"item_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Veg       bool   `json:"veg,omitempty"`
	Note      string `json:"note,omitempty"`
}

// Cart is a customer's in-progress order for one vendor.
type Cart struct {
	ID        string     `json:"id"`
	VendorID  string     `json:"vendor_id"`
	TableID   string     `json:"table_id,omitempty"`
	Lines     []CartLine `json:"lines"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// DeviceToken is one registered push target for a vendor account.
type DeviceToken struct {
	Token        string    `json:"token"`
	Platform     string    `json:"platform"`
	AppVersion   string    `json:"app_version,omitempty"`
	RegisteredAt time.Time `json:"registered_at"`
}

// PushMessage is the payload handed to the FCM client.
type PushMessage struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}
