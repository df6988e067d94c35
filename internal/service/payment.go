package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"travel/internal/domain"
	"travel/internal/gateway"
	"travel/internal/repository"
)

// Gateway is the interface for the payment gateway client.
type Gateway interface {
	Initiate(ctx context.Context, req gateway.InitiateRequest) (string, json.RawMessage, error)
	Verify(ctx context.Context, txRef string) (*gateway.VerifyResult, error)
}

// InitiationLocker serializes concurrent payment initiations per booking.
type InitiationLocker interface {
	AcquireInitiationLock(ctx context.Context, bookingID string, ttl time.Duration) (bool, error)
	ReleaseInitiationLock(ctx context.Context, bookingID string) error
}

// TxRefDecision says what to do with the transaction reference when a
// payment is (re-)initiated.
type TxRefDecision int

const (
	// TxRefCreate: no payment exists yet, create one with a fresh tx_ref.
	TxRefCreate TxRefDecision = iota

	// TxRefReuse: a pending payment exists, keep its tx_ref.
	TxRefReuse

	// TxRefRegenerate: a terminal payment exists, start a new attempt
	// under a fresh tx_ref.
	TxRefRegenerate
)

// DecideTxRef derives the reference decision from the existing payment, if
// any. Pure function of its input.
func DecideTxRef(existing *domain.Payment) TxRefDecision {
	switch {
	case existing == nil:
		return TxRefCreate
	case existing.Status == domain.PaymentStatusPending:
		return TxRefReuse
	default:
		return TxRefRegenerate
	}
}

// NewTxRef builds a booking-scoped transaction reference with a random
// suffix.
func NewTxRef(bookingID string) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("booking-%s-%s", bookingID, suffix)
}

const initiationLockTTL = 30 * time.Second

// PaymentService owns the payment lifecycle: initiation against the
// gateway, reconciliation of callback/verify results, and the
// edge-triggered success notification.
type PaymentService struct {
	bookingRepo repository.BookingRepository
	paymentRepo repository.PaymentRepository
	gateway     Gateway
	dispatcher  NotificationDispatcher
	locks       InitiationLocker

	currency    string
	callbackURL string
	returnURL   string
}

// NewPaymentService creates a new PaymentService. locks may be nil, in
// which case concurrent initiations for one booking race on the store's
// unique booking constraint instead of failing fast.
func NewPaymentService(
	bookingRepo repository.BookingRepository,
	paymentRepo repository.PaymentRepository,
	gw Gateway,
	dispatcher NotificationDispatcher,
	locks InitiationLocker,
	currency, callbackURL, returnURL string,
) *PaymentService {
	return &PaymentService{
		bookingRepo: bookingRepo,
		paymentRepo: paymentRepo,
		gateway:     gw,
		dispatcher:  dispatcher,
		locks:       locks,
		currency:    currency,
		callbackURL: callbackURL,
		returnURL:   returnURL,
	}
}

// InitiatePaymentRequest contains the parameters for initiating a payment.
type InitiatePaymentRequest struct {
	BookingID   string
	Email       string
	FirstName   string
	LastName    string
	PhoneNumber string
}

// InitiateForBooking creates or reuses the payment for a booking and asks
// the gateway for a checkout URL. A pending payment keeps its tx_ref; a
// terminal one is reset to pending under a fresh tx_ref before the gateway
// call. On gateway failure the payment is marked failed with the raw error
// context persisted, and the error is returned.
func (s *PaymentService) InitiateForBooking(ctx context.Context, req InitiatePaymentRequest) (*domain.Payment, error) {
	if req.BookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	if s.locks != nil {
		ok, err := s.locks.AcquireInitiationLock(ctx, booking.ID, initiationLockTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrPaymentInProgress
		}
		defer func() {
			if err := s.locks.ReleaseInitiationLock(ctx, booking.ID); err != nil {
				log.Printf("failed to release initiation lock for booking %s: %v", booking.ID, err)
			}
		}()
	}

	existing, err := s.paymentRepo.GetByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	var payment *domain.Payment
	switch DecideTxRef(existing) {
	case TxRefCreate:
		payment = &domain.Payment{
			ID:        uuid.New().String(),
			BookingID: booking.ID,
			Amount:    booking.TotalAmount,
			Currency:  s.currency,
			TxRef:     NewTxRef(booking.ID),
			Status:    domain.PaymentStatusPending,
			CreatedAt: time.Now(),
		}
		if err := s.paymentRepo.Create(ctx, payment); err != nil {
			return nil, err
		}

	case TxRefReuse:
		payment = existing

	case TxRefRegenerate:
		payment = existing
		payment.TxRef = NewTxRef(booking.ID)
		payment.Amount = booking.TotalAmount
		payment.Status = domain.PaymentStatusPending
		payment.CheckoutURL = ""
		payment.GatewayRef = ""
		if err := s.paymentRepo.ResetForRetry(ctx, payment.ID, payment.TxRef, payment.Amount); err != nil {
			return nil, err
		}
	}

	checkoutURL, raw, gwErr := s.gateway.Initiate(ctx, gateway.InitiateRequest{
		Amount:      payment.Amount,
		Currency:    payment.Currency,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		TxRef:       payment.TxRef,
		CallbackURL: s.callbackURL,
		ReturnURL:   s.returnURL,
		Title:       "Booking payment",
		Description: fmt.Sprintf("Payment for booking %s", booking.ID),
	})
	if gwErr != nil {
		if raw == nil {
			raw, _ = json.Marshal(map[string]string{"error": gwErr.Error()})
		}
		payment.Status = domain.PaymentStatusFailed
		payment.InitResponse = raw
		if err := s.paymentRepo.SaveInitiation(ctx, payment.ID, "", raw, domain.PaymentStatusFailed); err != nil {
			return nil, err
		}
		return nil, gwErr
	}

	payment.CheckoutURL = checkoutURL
	payment.InitResponse = raw
	payment.Status = domain.PaymentStatusPending
	if err := s.paymentRepo.SaveInitiation(ctx, payment.ID, checkoutURL, raw, domain.PaymentStatusPending); err != nil {
		return nil, err
	}

	return payment, nil
}

// ReconcileByReference verifies a transaction server-side and applies the
// result to the local payment. The audit payload is stored on every call;
// the status only changes while the payment is pending. The success
// notification fires exactly once, on the pending->success edge, and never
// blocks or fails the reconciliation.
func (s *PaymentService) ReconcileByReference(ctx context.Context, txRef string) (*domain.Payment, error) {
	if txRef == "" {
		return nil, ErrInvalidTxRef
	}

	// Confirm the reference is ours before hitting the gateway.
	if _, err := s.paymentRepo.GetByTxRef(ctx, txRef); err != nil {
		return nil, err
	}

	result, err := s.gateway.Verify(ctx, txRef)
	if err != nil {
		// No partial update: verification can be retried later.
		return nil, err
	}

	payment, previous, err := s.paymentRepo.RecordVerification(ctx, txRef, result.Status, result.Reference, result.Raw)
	if err != nil {
		return nil, err
	}

	if previous != domain.PaymentStatusSuccess && payment.Status == domain.PaymentStatusSuccess {
		s.dispatchSuccess(ctx, payment)
	}

	return payment, nil
}

// GetByTxRef retrieves a payment by its transaction reference.
func (s *PaymentService) GetByTxRef(ctx context.Context, txRef string) (*domain.Payment, error) {
	if txRef == "" {
		return nil, ErrInvalidTxRef
	}

	return s.paymentRepo.GetByTxRef(ctx, txRef)
}

// dispatchSuccess enqueues the success notification without blocking the
// caller. Any failure along the way is logged and dropped.
func (s *PaymentService) dispatchSuccess(ctx context.Context, payment *domain.Payment) {
	if s.dispatcher == nil {
		return
	}

	booking, err := s.bookingRepo.GetByID(ctx, payment.BookingID)
	if err != nil {
		log.Printf("skipping success notification for payment %s: %v", payment.ID, err)
		return
	}

	s.dispatcher.DispatchPaymentSuccess(ctx, payment, booking)
}
