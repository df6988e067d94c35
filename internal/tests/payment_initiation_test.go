package tests

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"travel/internal/domain"
	"travel/internal/gateway"
	"travel/internal/service"
)

// ──────────────────────────────────────────────
// PAYMENT INITIATION
// ──────────────────────────────────────────────

const (
	testCallbackURL = "https://travel.example/api/payments/callback/"
	testReturnURL   = "https://travel.example/"
)

func newPaymentService(bookingRepo *MockBookingRepository, paymentRepo *MockPaymentRepository, gw *MockGateway, dispatcher *MockDispatcher, locker *MockLocker) *service.PaymentService {
	var lockArg service.InitiationLocker
	if locker != nil {
		lockArg = locker
	}
	return service.NewPaymentService(bookingRepo, paymentRepo, gw, dispatcher, lockArg, "ETB", testCallbackURL, testReturnURL)
}

func addBooking(bookingRepo *MockBookingRepository, id string, total float64) *domain.Booking {
	booking := &domain.Booking{
		ID:          id,
		ListingID:   "listing-1",
		UserName:    "Jane Doe",
		UserEmail:   "jane@example.com",
		CheckIn:     time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		CheckOut:    time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		TotalAmount: total,
		CreatedAt:   time.Now(),
	}
	bookingRepo.AddBooking(booking)
	return booking
}

func TestInitiate_CreatesPendingPaymentWithCheckoutURL(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	paymentRepo := NewMockPaymentRepository()
	gw := NewMockGateway()
	gw.CheckoutURL = "https://pay/x"
	gw.InitiateRaw = []byte(`{"data":{"checkout_url":"https://pay/x"}}`)

	addBooking(bookingRepo, "booking-1", 300)

	svc := newPaymentService(bookingRepo, paymentRepo, gw, NewMockDispatcher(), nil)

	payment, err := svc.InitiateForBooking(context.Background(), service.InitiatePaymentRequest{
		BookingID: "booking-1",
		Email:     "jane@example.com",
		FirstName: "Jane",
		LastName:  "Doe",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if payment.Status != domain.PaymentStatusPending {
		t.Errorf("expected status pending, got %s", payment.Status)
	}
	if payment.CheckoutURL != "https://pay/x" {
		t.Errorf("expected checkout URL https://pay/x, got %s", payment.CheckoutURL)
	}
	if payment.Amount != 300 {
		t.Errorf("expected amount 300, got %.2f", payment.Amount)
	}
	if payment.Currency != "ETB" {
		t.Errorf("expected currency ETB, got %s", payment.Currency)
	}
	if !strings.HasPrefix(payment.TxRef, "booking-booking-1-") {
		t.Errorf("tx_ref %q not scoped to booking", payment.TxRef)
	}

	// The gateway call carries our reference and callback URLs.
	sent := gw.LastInitiateRequest()
	if sent.TxRef != payment.TxRef {
		t.Errorf("gateway saw tx_ref %q, payment has %q", sent.TxRef, payment.TxRef)
	}
	if sent.CallbackURL != testCallbackURL {
		t.Errorf("unexpected callback URL %q", sent.CallbackURL)
	}
}

func TestInitiate_PendingPaymentKeepsTxRef(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	paymentRepo := NewMockPaymentRepository()
	gw := NewMockGateway()

	addBooking(bookingRepo, "booking-1", 300)

	svc := newPaymentService(bookingRepo, paymentRepo, gw, NewMockDispatcher(), nil)

	req := service.InitiatePaymentRequest{
		BookingID: "booking-1",
		Email:     "jane@example.com",
		FirstName: "Jane",
		LastName:  "Doe",
	}

	first, err := svc.InitiateForBooking(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := svc.InitiateForBooking(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.TxRef != second.TxRef {
		t.Errorf("pending re-initiation changed tx_ref: %q -> %q", first.TxRef, second.TxRef)
	}
	if first.ID != second.ID {
		t.Errorf("pending re-initiation created a second payment")
	}
	// Re-initiation still goes to the gateway for a fresh checkout URL.
	if gw.InitiateCallCount != 2 {
		t.Errorf("expected 2 gateway calls, got %d", gw.InitiateCallCount)
	}
}

func TestInitiate_TerminalPaymentGetsFreshTxRef(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	paymentRepo := NewMockPaymentRepository()
	gw := NewMockGateway()

	addBooking(bookingRepo, "booking-1", 300)
	paymentRepo.AddPayment(&domain.Payment{
		ID:        "payment-1",
		BookingID: "booking-1",
		Amount:    300,
		Currency:  "ETB",
		TxRef:     "booking-booking-1-deadbeef",
		Status:    domain.PaymentStatusFailed,
	})

	svc := newPaymentService(bookingRepo, paymentRepo, gw, NewMockDispatcher(), nil)

	payment, err := svc.InitiateForBooking(context.Background(), service.InitiatePaymentRequest{
		BookingID: "booking-1",
		Email:     "jane@example.com",
		FirstName: "Jane",
		LastName:  "Doe",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if payment.ID != "payment-1" {
		t.Errorf("retry should reuse the payment row, got new ID %s", payment.ID)
	}
	if payment.TxRef == "booking-booking-1-deadbeef" {
		t.Error("retry of a failed payment kept the old tx_ref")
	}
	if payment.Status != domain.PaymentStatusPending {
		t.Errorf("expected status pending, got %s", payment.Status)
	}
	if paymentRepo.ResetCallCount != 1 {
		t.Errorf("expected 1 reset, got %d", paymentRepo.ResetCallCount)
	}
}

func TestInitiate_UnknownBooking(t *testing.T) {
	t.Parallel()

	svc := newPaymentService(NewMockBookingRepository(), NewMockPaymentRepository(), NewMockGateway(), NewMockDispatcher(), nil)

	_, err := svc.InitiateForBooking(context.Background(), service.InitiatePaymentRequest{
		BookingID: "missing",
		Email:     "jane@example.com",
		FirstName: "Jane",
		LastName:  "Doe",
	})
	if !errors.Is(err, service.ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
}

func TestInitiate_GatewayTimeoutMarksPaymentFailed(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	paymentRepo := NewMockPaymentRepository()
	gw := NewMockGateway()
	gw.InitiateError = fmt.Errorf("%w: context deadline exceeded", gateway.ErrUnreachable)
	gw.InitiateRaw = nil

	addBooking(bookingRepo, "booking-1", 300)

	svc := newPaymentService(bookingRepo, paymentRepo, gw, NewMockDispatcher(), nil)

	_, err := svc.InitiateForBooking(context.Background(), service.InitiatePaymentRequest{
		BookingID: "booking-1",
		Email:     "jane@example.com",
		FirstName: "Jane",
		LastName:  "Doe",
	})
	if !errors.Is(err, gateway.ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}

	stored, err := paymentRepo.GetByBookingID(context.Background(), "booking-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored == nil {
		t.Fatal("payment row should exist after failed initiation")
	}
	if stored.Status != domain.PaymentStatusFailed {
		t.Errorf("expected status failed, got %s", stored.Status)
	}
	if stored.CheckoutURL != "" {
		t.Errorf("no checkout URL should be persisted, got %q", stored.CheckoutURL)
	}
	if len(stored.InitResponse) == 0 {
		t.Error("error context should be persisted for audit")
	}
}

func TestInitiate_HeldLockConflicts(t *testing.T) {
	t.Parallel()

	bookingRepo := NewMockBookingRepository()
	gw := NewMockGateway()
	locker := NewMockLocker()
	locker.Fail = true

	addBooking(bookingRepo, "booking-1", 300)

	svc := newPaymentService(bookingRepo, NewMockPaymentRepository(), gw, NewMockDispatcher(), locker)

	_, err := svc.InitiateForBooking(context.Background(), service.InitiatePaymentRequest{
		BookingID: "booking-1",
		Email:     "jane@example.com",
		FirstName: "Jane",
		LastName:  "Doe",
	})
	if !errors.Is(err, service.ErrPaymentInProgress) {
		t.Fatalf("expected ErrPaymentInProgress, got %v", err)
	}
	if gw.InitiateCallCount != 0 {
		t.Errorf("gateway should not be called while the lock is held, got %d calls", gw.InitiateCallCount)
	}
}

// ──────────────────────────────────────────────
// TX_REF DECISION
// ──────────────────────────────────────────────

func TestDecideTxRef(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		existing *domain.Payment
		want     service.TxRefDecision
	}{
		{"no payment", nil, service.TxRefCreate},
		{"pending", &domain.Payment{Status: domain.PaymentStatusPending}, service.TxRefReuse},
		{"success", &domain.Payment{Status: domain.PaymentStatusSuccess}, service.TxRefRegenerate},
		{"failed", &domain.Payment{Status: domain.PaymentStatusFailed}, service.TxRefRegenerate},
		{"canceled", &domain.Payment{Status: domain.PaymentStatusCanceled}, service.TxRefRegenerate},
	}

	for _, tc := range cases {
		if got := service.DecideTxRef(tc.existing); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestNewTxRef(t *testing.T) {
	t.Parallel()

	a := service.NewTxRef("booking-1")
	b := service.NewTxRef("booking-1")

	if !strings.HasPrefix(a, "booking-booking-1-") {
		t.Errorf("tx_ref %q missing booking prefix", a)
	}
	if a == b {
		t.Error("two generated tx_refs collided")
	}
}
