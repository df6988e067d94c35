package repository

import (
	"context"

	"travel/internal/domain"
)

// ReviewRepository defines the persistence operations for reviews.
type ReviewRepository interface {
	// Create persists a new review.
	Create(ctx context.Context, review *domain.Review) error

	// GetByID retrieves a review by ID.
	GetByID(ctx context.Context, id string) (*domain.Review, error)

	// GetByListing retrieves all reviews for a listing.
	GetByListing(ctx context.Context, listingID string) ([]*domain.Review, error)

	// Delete removes a review.
	Delete(ctx context.Context, id string) error
}
