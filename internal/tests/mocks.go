package tests

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"travel/internal/domain"
	"travel/internal/gateway"
	internalRedis "travel/internal/redis"
	"travel/internal/repository"
	"travel/internal/service"
)

// The mocks and the real Redis stores must satisfy the service-side
// contracts they stand in for.
var (
	_ repository.ListingRepository   = (*MockListingRepository)(nil)
	_ repository.BookingRepository   = (*MockBookingRepository)(nil)
	_ repository.ReviewRepository    = (*MockReviewRepository)(nil)
	_ repository.PaymentRepository   = (*MockPaymentRepository)(nil)
	_ service.Gateway                = (*MockGateway)(nil)
	_ service.NotificationDispatcher = (*MockDispatcher)(nil)
	_ service.InitiationLocker       = (*MockLocker)(nil)
	_ service.InitiationLocker       = (*internalRedis.LockStore)(nil)
)

// ──────────────────────────────────────────────
// MOCK LISTING REPOSITORY
// ──────────────────────────────────────────────

// MockListingRepository is a mock implementation of ListingRepository.
type MockListingRepository struct {
	mu       sync.RWMutex
	listings map[string]*domain.Listing
}

// NewMockListingRepository creates a new mock listing repository.
func NewMockListingRepository() *MockListingRepository {
	return &MockListingRepository{
		listings: make(map[string]*domain.Listing),
	}
}

// AddListing adds a listing to the mock repository.
func (m *MockListingRepository) AddListing(listing *domain.Listing) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listings[listing.ID] = listing
}

func (m *MockListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listings[listing.ID] = listing
	return nil
}

func (m *MockListingRepository) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	listing, ok := m.listings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *listing
	return &copy, nil
}

func (m *MockListingRepository) GetAll(ctx context.Context) ([]*domain.Listing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Listing, 0, len(m.listings))
	for _, l := range m.listings {
		copy := *l
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockListingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.listings[listing.ID]; !ok {
		return repository.ErrNotFound
	}
	m.listings[listing.ID] = listing
	return nil
}

func (m *MockListingRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.listings[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.listings, id)
	return nil
}

// ──────────────────────────────────────────────
// MOCK BOOKING REPOSITORY
// ──────────────────────────────────────────────

// MockBookingRepository is a mock implementation of BookingRepository.
type MockBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking
}

// NewMockBookingRepository creates a new mock booking repository.
func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{
		bookings: make(map[string]*domain.Booking),
	}
}

// AddBooking adds a booking to the mock repository.
func (m *MockBookingRepository) AddBooking(booking *domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = booking
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[booking.ID] = booking
	return nil
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	booking, ok := m.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *booking
	return &copy, nil
}

func (m *MockBookingRepository) GetAll(ctx context.Context) ([]*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Booking, 0, len(m.bookings))
	for _, b := range m.bookings {
		copy := *b
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[booking.ID]; !ok {
		return repository.ErrNotFound
	}
	m.bookings[booking.ID] = booking
	return nil
}

func (m *MockBookingRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.bookings, id)
	return nil
}

// ──────────────────────────────────────────────
// MOCK REVIEW REPOSITORY
// ──────────────────────────────────────────────

// MockReviewRepository is a mock implementation of ReviewRepository.
type MockReviewRepository struct {
	mu      sync.RWMutex
	reviews map[string]*domain.Review
}

// NewMockReviewRepository creates a new mock review repository.
func NewMockReviewRepository() *MockReviewRepository {
	return &MockReviewRepository{
		reviews: make(map[string]*domain.Review),
	}
}

func (m *MockReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *review
	m.reviews[review.ID] = &copy
	return nil
}

func (m *MockReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	review, ok := m.reviews[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *review
	return &copy, nil
}

func (m *MockReviewRepository) GetByListing(ctx context.Context, listingID string) ([]*domain.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Review, 0)
	for _, r := range m.reviews {
		if r.ListingID == listingID {
			copy := *r
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockReviewRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reviews[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.reviews, id)
	return nil
}

// ──────────────────────────────────────────────
// MOCK PAYMENT REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentRepository is a mock implementation of PaymentRepository.
// RecordVerification applies its read-modify-write under the mutex, mirroring
// the row-level locking of the real store.
type MockPaymentRepository struct {
	mu       sync.Mutex
	payments map[string]*domain.Payment // keyed by payment ID

	// Counters for verification
	CreateCallCount int32
	ResetCallCount  int32

	// Error injection
	CreateError error
	ResetError  error
}

// NewMockPaymentRepository creates a new mock payment repository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[string]*domain.Payment),
	}
}

// AddPayment adds a payment to the mock repository.
func (m *MockPaymentRepository) AddPayment(payment *domain.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[payment.ID] = payment
}

// GetPayment returns a payment for test assertions.
func (m *MockPaymentRepository) GetPayment(id string) *domain.Payment {
	m.mu.Lock()
	defer m.mu.Unlock()
	payment, ok := m.payments[id]
	if !ok {
		return nil
	}
	copy := *payment
	return &copy
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *payment
	m.payments[payment.ID] = &copy
	return nil
}

func (m *MockPaymentRepository) GetByBookingID(ctx context.Context, bookingID string) (*domain.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payments {
		if p.BookingID == bookingID {
			copy := *p
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *MockPaymentRepository) GetByTxRef(ctx context.Context, txRef string) (*domain.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payments {
		if p.TxRef == txRef {
			copy := *p
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockPaymentRepository) ResetForRetry(ctx context.Context, id, txRef string, amount float64) error {
	atomic.AddInt32(&m.ResetCallCount, 1)
	if m.ResetError != nil {
		return m.ResetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	payment, ok := m.payments[id]
	if !ok {
		return repository.ErrNotFound
	}
	payment.TxRef = txRef
	payment.Amount = amount
	payment.Status = domain.PaymentStatusPending
	payment.CheckoutURL = ""
	payment.GatewayRef = ""
	payment.UpdatedAt = time.Now()
	return nil
}

func (m *MockPaymentRepository) SaveInitiation(ctx context.Context, id string, checkoutURL string, raw json.RawMessage, status domain.PaymentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	payment, ok := m.payments[id]
	if !ok {
		return repository.ErrNotFound
	}
	payment.CheckoutURL = checkoutURL
	payment.InitResponse = raw
	payment.Status = status
	payment.UpdatedAt = time.Now()
	return nil
}

func (m *MockPaymentRepository) RecordVerification(ctx context.Context, txRef string, status domain.PaymentStatus, gatewayRef string, raw json.RawMessage) (*domain.Payment, domain.PaymentStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payments {
		if p.TxRef != txRef {
			continue
		}
		previous := p.Status
		if previous == domain.PaymentStatusPending {
			p.Status = status
		}
		p.VerifyResponse = raw
		if gatewayRef != "" {
			p.GatewayRef = gatewayRef
		}
		p.UpdatedAt = time.Now()
		copy := *p
		return &copy, previous, nil
	}
	return nil, "", repository.ErrNotFound
}

// ──────────────────────────────────────────────
// MOCK GATEWAY
// ──────────────────────────────────────────────

// MockGateway is a mock implementation of the payment gateway client.
type MockGateway struct {
	mu sync.Mutex

	// Initiate behavior
	CheckoutURL   string
	InitiateRaw   json.RawMessage
	InitiateError error

	// Verify behavior
	VerifyResult *gateway.VerifyResult
	VerifyError  error

	// Counters and captured input
	InitiateCallCount int32
	VerifyCallCount   int32
	LastInitiate      gateway.InitiateRequest
}

// NewMockGateway creates a mock gateway that succeeds by default.
func NewMockGateway() *MockGateway {
	return &MockGateway{
		CheckoutURL: "https://checkout.example/pay",
		InitiateRaw: json.RawMessage(`{"data":{"checkout_url":"https://checkout.example/pay"}}`),
	}
}

func (m *MockGateway) Initiate(ctx context.Context, req gateway.InitiateRequest) (string, json.RawMessage, error) {
	atomic.AddInt32(&m.InitiateCallCount, 1)
	m.mu.Lock()
	m.LastInitiate = req
	m.mu.Unlock()
	if m.InitiateError != nil {
		return "", m.InitiateRaw, m.InitiateError
	}
	return m.CheckoutURL, m.InitiateRaw, nil
}

func (m *MockGateway) Verify(ctx context.Context, txRef string) (*gateway.VerifyResult, error) {
	atomic.AddInt32(&m.VerifyCallCount, 1)
	if m.VerifyError != nil {
		return nil, m.VerifyError
	}
	if m.VerifyResult != nil {
		result := *m.VerifyResult
		return &result, nil
	}
	return &gateway.VerifyResult{
		Status: domain.PaymentStatusPending,
		Raw:    json.RawMessage(`{}`),
	}, nil
}

// LastInitiateRequest returns the most recent initiate request.
func (m *MockGateway) LastInitiateRequest() gateway.InitiateRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.LastInitiate
}

// ──────────────────────────────────────────────
// MOCK NOTIFICATION DISPATCHER
// ──────────────────────────────────────────────

// MockDispatcher counts success notifications.
type MockDispatcher struct {
	DispatchCallCount int32

	mu            sync.Mutex
	lastPaymentID string
	lastRecipient string
}

// NewMockDispatcher creates a new mock dispatcher.
func NewMockDispatcher() *MockDispatcher {
	return &MockDispatcher{}
}

func (m *MockDispatcher) DispatchPaymentSuccess(ctx context.Context, payment *domain.Payment, booking *domain.Booking) {
	atomic.AddInt32(&m.DispatchCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastPaymentID = payment.ID
	m.lastRecipient = booking.UserEmail
}

// Dispatched returns the number of dispatched notifications.
func (m *MockDispatcher) Dispatched() int32 {
	return atomic.LoadInt32(&m.DispatchCallCount)
}

// LastRecipient returns the recipient of the most recent notification.
func (m *MockDispatcher) LastRecipient() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastRecipient
}

// ──────────────────────────────────────────────
// MOCK INITIATION LOCKER
// ──────────────────────────────────────────────

// MockLocker is an in-memory implementation of the initiation lock.
type MockLocker struct {
	mu    sync.Mutex
	held  map[string]bool
	Fail  bool // acquire always fails when set
	Error error
}

// NewMockLocker creates a new mock locker.
func NewMockLocker() *MockLocker {
	return &MockLocker{held: make(map[string]bool)}
}

func (m *MockLocker) AcquireInitiationLock(ctx context.Context, bookingID string, ttl time.Duration) (bool, error) {
	if m.Error != nil {
		return false, m.Error
	}
	if m.Fail {
		return false, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held[bookingID] {
		return false, nil
	}
	m.held[bookingID] = true
	return true, nil
}

func (m *MockLocker) ReleaseInitiationLock(ctx context.Context, bookingID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.held, bookingID)
	return nil
}
