package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"travel/internal/domain"
	"travel/internal/queue"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationPaymentSuccess NotificationType = "PAYMENT_SUCCESS"
)

// enqueueTimeout bounds the background publish of a single notification.
const enqueueTimeout = 10 * time.Second

// Notification is one outbound notification task. It is serialized as-is
// onto the task queue; the consumer renders and sends the actual email.
type Notification struct {
	Type      NotificationType `json:"type"`
	Recipient string           `json:"recipient"`
	Subject   string           `json:"subject"`
	Body      string           `json:"body"`
	Data      map[string]any   `json:"data"`
	CreatedAt time.Time        `json:"created_at"`
}

// NotificationDispatcher enqueues notifications for asynchronous delivery.
type NotificationDispatcher interface {
	DispatchPaymentSuccess(ctx context.Context, payment *domain.Payment, booking *domain.Booking)
}

// NotificationService enqueues notification tasks onto an at-least-once
// delivery queue. Enqueue failures are logged and swallowed: notification
// delivery must never fail the operation that triggered it.
type NotificationService struct {
	publisher queue.Publisher
}

// NewNotificationService creates a new NotificationService. A nil publisher
// degrades to log-only delivery.
func NewNotificationService(publisher queue.Publisher) *NotificationService {
	return &NotificationService{publisher: publisher}
}

// DispatchPaymentSuccess enqueues the payment-received email for a booking.
// It returns immediately; the publish runs in the background on a detached
// context so a slow or dead broker never holds up the caller's response.
func (s *NotificationService) DispatchPaymentSuccess(ctx context.Context, payment *domain.Payment, booking *domain.Booking) {
	notification := Notification{
		Type:      NotificationPaymentSuccess,
		Recipient: booking.UserEmail,
		Subject:   fmt.Sprintf("Payment received for booking %s", booking.ID),
		Body: fmt.Sprintf(
			"Hi %s,\n\nWe've received your payment of %.2f %s for booking %s (tx_ref: %s).\n\nThank you!",
			booking.UserName, payment.Amount, payment.Currency, booking.ID, payment.TxRef,
		),
		Data: map[string]any{
			"payment_id": payment.ID,
			"booking_id": booking.ID,
			"tx_ref":     payment.TxRef,
			"amount":     payment.Amount,
			"currency":   payment.Currency,
		},
		CreatedAt: time.Now(),
	}

	go func() {
		enqueueCtx, cancel := context.WithTimeout(context.Background(), enqueueTimeout)
		defer cancel()
		s.enqueue(enqueueCtx, notification)
	}()
}

func (s *NotificationService) enqueue(ctx context.Context, notification Notification) {
	log.Printf("[NOTIFICATION] Type=%s, Recipient=%s, Subject=%s",
		notification.Type, notification.Recipient, notification.Subject)

	if s.publisher == nil {
		return
	}

	body, err := json.Marshal(notification)
	if err != nil {
		log.Printf("failed to encode notification: %v", err)
		return
	}

	if err := s.publisher.Publish(ctx, body); err != nil {
		log.Printf("failed to enqueue notification: %v", err)
	}
}
