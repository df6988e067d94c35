package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"travel/internal/domain"
	"travel/internal/redis"
	"travel/internal/repository"
)

// ListingService handles listing operations.
type ListingService struct {
	listingRepo repository.ListingRepository
	cache       *redis.CacheStore
}

// NewListingService creates a new ListingService. cache may be nil.
func NewListingService(listingRepo repository.ListingRepository, cache *redis.CacheStore) *ListingService {
	return &ListingService{
		listingRepo: listingRepo,
		cache:       cache,
	}
}

// CreateListingRequest contains the parameters for creating a listing.
type CreateListingRequest struct {
	Title         string
	Description   string
	Location      string
	PricePerNight float64
}

// Validate checks the request fields.
func (r CreateListingRequest) Validate() error {
	if r.Title == "" {
		return ErrInvalidTitle
	}
	if r.PricePerNight <= 0 {
		return ErrInvalidPrice
	}
	return nil
}

// Create creates a new listing.
func (s *ListingService) Create(ctx context.Context, req CreateListingRequest) (*domain.Listing, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	listing := &domain.Listing{
		ID:            uuid.New().String(),
		Title:         req.Title,
		Description:   req.Description,
		Location:      req.Location,
		PricePerNight: req.PricePerNight,
		CreatedAt:     time.Now(),
	}

	if err := s.listingRepo.Create(ctx, listing); err != nil {
		return nil, err
	}

	return listing, nil
}

// Get retrieves a listing, consulting the cache first.
func (s *ListingService) Get(ctx context.Context, id string) (*domain.Listing, error) {
	if id == "" {
		return nil, ErrInvalidListingID
	}

	if s.cache != nil {
		cached, err := s.cache.GetListing(ctx, id)
		if err != nil {
			log.Printf("listing cache read failed: %v", err)
		}
		if cached != nil {
			return cached, nil
		}
	}

	listing, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetListing(ctx, listing); err != nil {
			log.Printf("listing cache write failed: %v", err)
		}
	}

	return listing, nil
}

// GetAll retrieves all listings.
func (s *ListingService) GetAll(ctx context.Context) ([]*domain.Listing, error) {
	return s.listingRepo.GetAll(ctx)
}

// Update replaces the mutable fields of a listing and invalidates the cache.
func (s *ListingService) Update(ctx context.Context, id string, req CreateListingRequest) (*domain.Listing, error) {
	if id == "" {
		return nil, ErrInvalidListingID
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	listing, err := s.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	listing.Title = req.Title
	listing.Description = req.Description
	listing.Location = req.Location
	listing.PricePerNight = req.PricePerNight

	if err := s.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}

	s.invalidate(ctx, id)

	return listing, nil
}

// Delete removes a listing and invalidates the cache.
func (s *ListingService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidListingID
	}

	if err := s.listingRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *ListingService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateListing(ctx, id); err != nil {
		log.Printf("listing cache invalidation failed: %v", err)
	}
}
