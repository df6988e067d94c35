package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"travel/internal/domain"
	"travel/internal/repository"
)

// BookingService handles booking operations.
type BookingService struct {
	bookingRepo repository.BookingRepository
	listingRepo repository.ListingRepository
}

// NewBookingService creates a new BookingService.
func NewBookingService(bookingRepo repository.BookingRepository, listingRepo repository.ListingRepository) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		listingRepo: listingRepo,
	}
}

// CreateBookingRequest contains the parameters for creating a booking.
type CreateBookingRequest struct {
	ListingID string
	UserName  string
	UserEmail string
	CheckIn   time.Time
	CheckOut  time.Time
}

// Create creates a booking. Check-out must be strictly after check-in; the
// total amount is nights times the listing's nightly price, computed here
// and fixed for the life of the booking.
func (s *BookingService) Create(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	if req.ListingID == "" {
		return nil, ErrInvalidListingID
	}
	if req.UserName == "" || req.UserEmail == "" {
		return nil, ErrInvalidUserIdentity
	}
	if !req.CheckOut.After(req.CheckIn) {
		return nil, ErrInvalidDateRange
	}

	listing, err := s.listingRepo.GetByID(ctx, req.ListingID)
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		ID:        uuid.New().String(),
		ListingID: listing.ID,
		UserName:  req.UserName,
		UserEmail: req.UserEmail,
		CheckIn:   req.CheckIn,
		CheckOut:  req.CheckOut,
		CreatedAt: time.Now(),
	}
	booking.TotalAmount = float64(booking.Nights()) * listing.PricePerNight

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	return booking, nil
}

// Get retrieves a booking by ID.
func (s *BookingService) Get(ctx context.Context, id string) (*domain.Booking, error) {
	if id == "" {
		return nil, ErrInvalidBookingID
	}

	return s.bookingRepo.GetByID(ctx, id)
}

// GetAll retrieves all bookings.
func (s *BookingService) GetAll(ctx context.Context) ([]*domain.Booking, error) {
	return s.bookingRepo.GetAll(ctx)
}

// UpdateDates moves a booking's date range and recomputes its total.
func (s *BookingService) UpdateDates(ctx context.Context, id string, checkIn, checkOut time.Time) (*domain.Booking, error) {
	if id == "" {
		return nil, ErrInvalidBookingID
	}
	if !checkOut.After(checkIn) {
		return nil, ErrInvalidDateRange
	}

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	listing, err := s.listingRepo.GetByID(ctx, booking.ListingID)
	if err != nil {
		return nil, err
	}

	booking.CheckIn = checkIn
	booking.CheckOut = checkOut
	booking.TotalAmount = float64(booking.Nights()) * listing.PricePerNight

	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}

	return booking, nil
}

// Delete removes a booking and, through the store cascade, its payment.
func (s *BookingService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidBookingID
	}

	return s.bookingRepo.Delete(ctx, id)
}
