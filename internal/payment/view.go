package payment

// Action names the buttons a status view may enable.
const (
	ActionRetryCheck = "retry_check"
	ActionBackToMenu = "back_to_menu"
	ActionNewPayment = "new_payment"
	ActionViewOrder  = "view_order"
)

// ViewModel is what the status page renders. It is derived state only; the
// session stays the single source of truth.
type ViewModel struct {
	SessionID string             `json:"session_id"`
	Phase     Phase              `json:"phase"`
	Status    Status             `json:"status,omitempty"`
	Icon      string             `json:"icon"`
	Headline  string             `json:"headline"`
	Detail    string             `json:"detail,omitempty"`
	Color     string             `json:"color"`
	Actions   []string           `json:"actions"`
	ErrorCode ErrorCode          `json:"error_code,omitempty"`
	Txn       *TransactionDetail `json:"transaction,omitempty"`
	Redirect  string             `json:"redirect_to,omitempty"`
}

var errorHeadlines = map[ErrorCode]string{
	CodeMissingIdentifier: "Transaction reference missing",
	CodeNotFound:          "We could not find this payment",
	CodeServer:            "The payment service is having trouble",
	CodeNetwork:           "Network problem while checking your payment",
	CodeUnknown:           "Something went wrong",
}

var errorDetails = map[ErrorCode]string{
	CodeMissingIdentifier: "Go back to the menu and start the payment again.",
	CodeNotFound:          "If money left your account it will be returned automatically.",
	CodeServer:            "Your money is safe. Please check again in a moment.",
	CodeNetwork:           "Check your connection and try again.",
	CodeUnknown:           "Please try checking the status again.",
}

// BuildView maps a session onto its view model.
func BuildView(session *Session) ViewModel {
	view := ViewModel{
		SessionID: session.ID,
		Phase:     session.Phase,
		Actions:   []string{},
		Redirect:  session.RedirectTo,
	}
	if session.Snapshot != nil {
		view.Status = session.Snapshot.Status
		view.Txn = session.Snapshot.Detail
	}

	switch session.Phase {
	case PhaseLoading, PhaseVerifying:
		view.Icon = "spinner"
		view.Color = "blue"
		view.Headline = "Checking your payment"
		view.Detail = "Hold on, this only takes a moment."

	case PhasePolling:
		view.Icon = "spinner"
		view.Color = "blue"
		if view.Status == StatusScanning {
			view.Headline = "Payment in progress"
			view.Detail = "Waiting for your bank to confirm. Do not close this page."
		} else {
			view.Headline = "Waiting for payment"
			view.Detail = "Complete the payment in your UPI app. Do not close this page."
		}
		view.Actions = []string{ActionBackToMenu}

	case PhaseResolved:
		switch {
		case view.Status == StatusSuccess:
			view.Icon = "check"
			view.Color = "green"
			view.Headline = "Payment successful"
			view.Detail = successDetail(view.Txn)
			view.Actions = []string{ActionViewOrder, ActionBackToMenu}
		case view.Status == StatusFailure:
			view.Icon = "cross"
			view.Color = "red"
			view.Headline = "Payment failed"
			view.Detail = "No money was taken, or it will be returned automatically."
			view.Actions = []string{ActionNewPayment, ActionBackToMenu}
		default:
			// budget exhausted on a non-terminal status
			view.Icon = "clock"
			view.Color = "amber"
			view.Headline = "Payment still processing"
			view.Detail = "The bank has not confirmed yet. You can check again or come back later."
			view.Actions = []string{ActionRetryCheck, ActionBackToMenu}
		}

	case PhaseError:
		view.Icon = "alert"
		view.Color = "red"
		view.ErrorCode = session.ErrorCode
		view.Headline = errorHeadlines[session.ErrorCode]
		view.Detail = errorDetails[session.ErrorCode]
		if view.Headline == "" {
			view.Headline = errorHeadlines[CodeUnknown]
			view.Detail = errorDetails[CodeUnknown]
		}
		if session.Retryable {
			view.Actions = []string{ActionRetryCheck, ActionBackToMenu}
		} else {
			view.Actions = []string{ActionBackToMenu}
		}
	}

	return view
}

func successDetail(txn *TransactionDetail) string {
	if txn == nil {
		return "Your payment is confirmed."
	}
	detail := "Paid " + txn.Amount
	if txn.UTR != "" {
		detail += ", reference " + txn.UTR
	}
	return detail + "."
}
