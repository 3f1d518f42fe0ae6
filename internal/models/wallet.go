package models

// WalletState is the wallet view owned by the wallet controller.
type WalletState struct {
	// Balance is the current balance in whole display units.
	Balance int64 `json:"balance"`
	// Loading is true while a balance fetch is outstanding.
	Loading bool `json:"loading"`
	// Charging is true while a charge initiation is outstanding.
	Charging bool `json:"charging"`
}

// Charge initiation result statuses.
const (
	ChargeStatusRedirect = "redirect"
	ChargeStatusError    = "error"
)

// ChargeResult is the remote's answer to a charge initiation.
type ChargeResult struct {
	Status string `json:"status"`
	// PaymentURL is the external processor checkout target. When set, the
	// whole page must navigate there.
	PaymentURL string `json:"payment_url,omitempty"`
	// ErrorMessage carries a user-facing reason when no redirect is issued.
	ErrorMessage string `json:"error,omitempty"`
}

// Charge transaction statuses used by the local development backend.
const (
	ChargePending   = "pending"
	ChargeCompleted = "completed"
	ChargeCancelled = "cancelled"
	ChargeFailed    = "failed"
)

// ChargeTransaction is a pending or settled top-up recorded by the local
// development backend.
type ChargeTransaction struct {
	// ID is an opaque transaction identifier (UUID).
	ID string `json:"transaction_id" gorm:"column:id;primaryKey"`
	// Username is the account the top-up credits.
	Username string `json:"username" gorm:"column:username;index"`
	// Amount is the charge amount in whole display units.
	Amount int64 `json:"amount" gorm:"column:amount"`
	// Status is one of the Charge* constants above.
	Status string `json:"status" gorm:"column:status;index"`
	// CreatedAt is the Unix timestamp of charge initiation.
	CreatedAt int64 `json:"created_at" gorm:"column:created_at;index"`
}
