package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"travel/internal/domain"
	"travel/internal/repository"
)

// ReviewService handles review operations.
type ReviewService struct {
	reviewRepo  repository.ReviewRepository
	listingRepo repository.ListingRepository
}

// NewReviewService creates a new ReviewService.
func NewReviewService(reviewRepo repository.ReviewRepository, listingRepo repository.ListingRepository) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		listingRepo: listingRepo,
	}
}

// CreateReviewRequest contains the parameters for creating a review.
type CreateReviewRequest struct {
	ListingID string
	UserName  string
	Rating    int
	Comment   string
}

// Create creates a review for a listing. Rating is bounded to [1,5].
func (s *ReviewService) Create(ctx context.Context, req CreateReviewRequest) (*domain.Review, error) {
	if req.ListingID == "" {
		return nil, ErrInvalidListingID
	}
	if req.UserName == "" {
		return nil, ErrInvalidUserIdentity
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}

	if _, err := s.listingRepo.GetByID(ctx, req.ListingID); err != nil {
		return nil, err
	}

	review := &domain.Review{
		ID:        uuid.New().String(),
		ListingID: req.ListingID,
		UserName:  req.UserName,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now(),
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	return review, nil
}

// GetByListing retrieves all reviews for a listing.
func (s *ReviewService) GetByListing(ctx context.Context, listingID string) ([]*domain.Review, error) {
	if listingID == "" {
		return nil, ErrInvalidListingID
	}

	return s.reviewRepo.GetByListing(ctx, listingID)
}

// Delete removes a review.
func (s *ReviewService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidReviewID
	}

	return s.reviewRepo.Delete(ctx, id)
}
