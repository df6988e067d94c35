package domain

import (
	"encoding/json"
	"time"
)

// PaymentStatus represents the current status of a payment.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusSuccess  PaymentStatus = "success"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusCanceled PaymentStatus = "canceled"
)

// IsTerminal reports whether the status is one a payment cannot leave
// through verification. Only re-initiation (with a fresh tx_ref) moves a
// payment out of a terminal status.
func (s PaymentStatus) IsTerminal() bool {
	return s != PaymentStatusPending
}

// Payment represents a payment attempt for a booking. A booking has at
// most one payment row; retries reuse the row with a fresh tx_ref.
type Payment struct {
	ID        string
	BookingID string
	Amount    float64
	Currency  string

	// TxRef is our locally generated reference, sent to the gateway and
	// used to correlate callbacks and verification lookups.
	TxRef string

	// GatewayRef is the reference assigned by the gateway, captured from
	// the verification response when present.
	GatewayRef string

	CheckoutURL string
	Status      PaymentStatus

	// Raw gateway payloads, kept for audit.
	InitResponse   json.RawMessage
	VerifyResponse json.RawMessage

	CreatedAt time.Time
	UpdatedAt time.Time
}
