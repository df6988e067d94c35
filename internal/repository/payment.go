package repository

import (
	"context"
	"encoding/json"

	"travel/internal/domain"
)

// PaymentRepository defines the persistence operations for payments.
type PaymentRepository interface {
	// Create persists a new payment in pending status.
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByBookingID retrieves the payment for a booking.
	// Returns nil if the booking has no payment yet.
	GetByBookingID(ctx context.Context, bookingID string) (*domain.Payment, error)

	// GetByTxRef retrieves a payment by its local transaction reference.
	GetByTxRef(ctx context.Context, txRef string) (*domain.Payment, error)

	// ResetForRetry assigns a fresh tx_ref and moves the payment back to
	// pending in a single write, clearing the stale checkout URL and
	// gateway reference from the previous attempt.
	ResetForRetry(ctx context.Context, id, txRef string, amount float64) error

	// SaveInitiation records the outcome of a gateway initialize call:
	// the raw response, the checkout URL (empty on failure) and the
	// resulting status.
	SaveInitiation(ctx context.Context, id string, checkoutURL string, raw json.RawMessage, status domain.PaymentStatus) error

	// RecordVerification applies a verification result atomically. The
	// raw payload is always stored, the gateway reference is stored when
	// non-empty, and status changes to the mapped value only if the row
	// is currently pending. It returns the updated payment together with
	// the status the row held before this call, read under the same row
	// lock so concurrent callers observe the pending->success edge at
	// most once.
	RecordVerification(ctx context.Context, txRef string, status domain.PaymentStatus, gatewayRef string, raw json.RawMessage) (*domain.Payment, domain.PaymentStatus, error)
}
