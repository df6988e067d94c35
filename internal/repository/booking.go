package repository

import (
	"context"

	"travel/internal/domain"
)

// BookingRepository defines the persistence operations for bookings.
type BookingRepository interface {
	// Create persists a new booking.
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByID retrieves a booking by ID.
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// GetAll retrieves all bookings.
	GetAll(ctx context.Context) ([]*domain.Booking, error)

	// Update replaces the mutable fields of a booking.
	Update(ctx context.Context, booking *domain.Booking) error

	// Delete removes a booking and, through the cascade, its payment.
	Delete(ctx context.Context, id string) error
}
