package backend

// core API response types

type MenuItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       string   `json:"price"`
	Veg         bool     `json:"veg"`
	SoldOut     bool     `json:"sold_out"`
	Tags        []string `json:"tags,omitempty"`
}

type MenuSection struct {
	Name  string     `json:"name"`
	Items []MenuItem `json:"items"`
}

type MenuPayload struct {
	VendorID  string        `json:"vendor_id"`
	UpdatedAt string        `json:"updated_at,omitempty"`
	Sections  []MenuSection `json:"sections"`
}

type OrderLine struct {
	ItemID    string `json:"item_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Note      string `json:"note,omitempty"`
}

type OrderSubmission struct {
	VendorID        string      `json:"vendor_id"`
	TableID         string      `json:"table_id,omitempty"`
	ClientTxnID     string      `json:"client_txn_id"`
	Lines           []OrderLine `json:"lines"`
	Subtotal        string      `json:"subtotal"`
	PackagingCharge string      `json:"packaging_charge,omitempty"`
	ServiceCharge   string      `json:"service_charge,omitempty"`
	GrandTotal      string      `json:"grand_total"`
	Note            string      `json:"note,omitempty"`
}

type OrderReceipt struct {
	OrderID     string `json:"order_id"`
	ClientTxnID string `json:"client_txn_id"`
	PaymentURL  string `json:"payment_url"`
	Amount      string `json:"amount"`
	ExpiresAt   string `json:"expires_at,omitempty"`
}

type Shareholder struct {
	Name    string `json:"name"`
	Percent string `json:"percent"`
}

type VendorProfile struct {
	VendorID     string        `json:"vendor_id"`
	Name         string        `json:"name"`
	Role         string        `json:"role"`
	VPA          string        `json:"vpa,omitempty"`
	Phone        string        `json:"phone,omitempty"`
	Address      string        `json:"address,omitempty"`
	GSTIN        string        `json:"gstin,omitempty"`
	Shareholders []Shareholder `json:"shareholders,omitempty"`
}

type VendorSettings struct {
	PackagingCharge string `json:"packaging_charge"`
	ServicePercent  string `json:"service_percent"`
	AcceptingOrders bool   `json:"accepting_orders"`
	CounterOnly     bool   `json:"counter_only"`
}

type KycDocument struct {
	Type       string `json:"type"`
	URL        string `json:"url"`
	UploadedAt string `json:"uploaded_at,omitempty"`
}

type KycSubmission struct {
	ID          string        `json:"id"`
	VendorID    string        `json:"vendor_id"`
	VendorName  string        `json:"vendor_name"`
	State       string        `json:"state"`
	Documents   []KycDocument `json:"documents,omitempty"`
	SubmittedAt string        `json:"submitted_at"`
	Remark      string        `json:"remark,omitempty"`
}

type KycReview struct {
	Decision string `json:"decision"`
	Remark   string `json:"remark,omitempty"`
}

type SettlementRow struct {
	TransactionID string `json:"transaction_id"`
	OrderID       string `json:"order_id,omitempty"`
	VendorID      string `json:"vendor_id"`
	Amount        string `json:"amount"`
	PaymentType   string `json:"payment_type"`
	Status        string `json:"status"`
	UTR           string `json:"utr,omitempty"`
	SettledAt     string `json:"settled_at"`
}

// service token types

type PermissionRequire struct {
	Group    string   `json:"group"`
	DataType string   `json:"dataType"`
	Version  string   `json:"version"`
	Ops      []string `json:"ops"`
}

type AccessTokenRequest struct {
	AppKey    string            `json:"app_key"`
	Timestamp int64             `json:"timestamp"`
	Token     string            `json:"token"`
	Perm      PermissionRequire `json:"perm"`
}

type Header struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type AccessToken struct {
	AccessToken string `json:"access_token"`
}

type AccessTokenResp struct {
	Header

	Data AccessToken `json:"data,omitempty"`
}
