package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"travel/internal/domain"
	"travel/internal/repository"
)

// PaymentRepository is a PostgreSQL implementation of repository.PaymentRepository.
type PaymentRepository struct {
	q Querier
}

// NewPaymentRepository creates a new PostgreSQL payment repository.
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{q: db}
}

// NewPaymentRepositoryWithTx creates a payment repository using a transaction.
func NewPaymentRepositoryWithTx(tx *sql.Tx) *PaymentRepository {
	return &PaymentRepository{q: tx}
}

const paymentColumns = `id, booking_id, amount, currency, tx_ref, gateway_ref, checkout_url, status, init_response, verify_response, created_at, updated_at`

// Create persists a new payment in pending status.
func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (id, booking_id, amount, currency, tx_ref, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	`

	_, err := r.q.ExecContext(ctx, query,
		payment.ID,
		payment.BookingID,
		payment.Amount,
		payment.Currency,
		payment.TxRef,
		payment.Status,
		payment.CreatedAt,
	)

	return err
}

// GetByBookingID retrieves the payment for a booking.
// Returns nil if the booking has no payment yet.
func (r *PaymentRepository) GetByBookingID(ctx context.Context, bookingID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE booking_id = $1`

	payment, err := scanPayment(r.q.QueryRowContext(ctx, query, bookingID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return payment, nil
}

// GetByTxRef retrieves a payment by its local transaction reference.
func (r *PaymentRepository) GetByTxRef(ctx context.Context, txRef string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE tx_ref = $1`

	payment, err := scanPayment(r.q.QueryRowContext(ctx, query, txRef))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return payment, nil
}

// ResetForRetry assigns a fresh tx_ref and moves the payment back to pending
// in a single write. The previous attempt's checkout URL and gateway
// reference are cleared so the row never mixes state from two attempts.
func (r *PaymentRepository) ResetForRetry(ctx context.Context, id, txRef string, amount float64) error {
	query := `
		UPDATE payments
		SET tx_ref = $1, amount = $2, status = $3, checkout_url = '', gateway_ref = '', updated_at = NOW()
		WHERE id = $4
	`

	result, err := r.q.ExecContext(ctx, query, txRef, amount, domain.PaymentStatusPending, id)
	if err != nil {
		return err
	}

	return requireRow(result)
}

// SaveInitiation records the outcome of a gateway initialize call.
func (r *PaymentRepository) SaveInitiation(ctx context.Context, id string, checkoutURL string, raw json.RawMessage, status domain.PaymentStatus) error {
	query := `
		UPDATE payments
		SET checkout_url = $1, init_response = $2, status = $3, updated_at = NOW()
		WHERE id = $4
	`

	result, err := r.q.ExecContext(ctx, query, checkoutURL, []byte(raw), status, id)
	if err != nil {
		return err
	}

	return requireRow(result)
}

// RecordVerification applies a verification result atomically. The row is
// locked, its previous status captured, the audit payload and gateway
// reference stored, and the status changed only if the row is still
// pending. Terminal statuses stay as they are; a new attempt needs a new
// tx_ref via ResetForRetry.
//
// Returning the previous status from the same statement is what lets the
// caller detect the pending->success edge exactly once under concurrency.
func (r *PaymentRepository) RecordVerification(ctx context.Context, txRef string, status domain.PaymentStatus, gatewayRef string, raw json.RawMessage) (*domain.Payment, domain.PaymentStatus, error) {
	query := `
		UPDATE payments p
		SET status = CASE WHEN old.status = 'pending' THEN $2 ELSE old.status END,
		    verify_response = $3,
		    gateway_ref = CASE WHEN $4 <> '' THEN $4 ELSE p.gateway_ref END,
		    updated_at = NOW()
		FROM (SELECT id, status FROM payments WHERE tx_ref = $1 FOR UPDATE) old
		WHERE p.id = old.id
		RETURNING old.status, p.id, p.booking_id, p.amount, p.currency, p.tx_ref, p.gateway_ref, p.checkout_url, p.status, p.init_response, p.verify_response, p.created_at, p.updated_at
	`

	var (
		payment  domain.Payment
		previous domain.PaymentStatus
		initRaw  []byte
		verRaw   []byte
	)
	err := r.q.QueryRowContext(ctx, query, txRef, status, []byte(raw), gatewayRef).Scan(
		&previous,
		&payment.ID,
		&payment.BookingID,
		&payment.Amount,
		&payment.Currency,
		&payment.TxRef,
		&payment.GatewayRef,
		&payment.CheckoutURL,
		&payment.Status,
		&initRaw,
		&verRaw,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", repository.ErrNotFound
		}
		return nil, "", err
	}

	payment.InitResponse = json.RawMessage(initRaw)
	payment.VerifyResponse = json.RawMessage(verRaw)

	return &payment, previous, nil
}

// scanPayment scans a payment row in paymentColumns order.
func scanPayment(row *sql.Row) (*domain.Payment, error) {
	var (
		payment domain.Payment
		initRaw []byte
		verRaw  []byte
	)
	err := row.Scan(
		&payment.ID,
		&payment.BookingID,
		&payment.Amount,
		&payment.Currency,
		&payment.TxRef,
		&payment.GatewayRef,
		&payment.CheckoutURL,
		&payment.Status,
		&initRaw,
		&verRaw,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	payment.InitResponse = json.RawMessage(initRaw)
	payment.VerifyResponse = json.RawMessage(verRaw)

	return &payment, nil
}
