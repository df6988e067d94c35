package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"travel/internal/domain"
	"travel/internal/repository"
	"travel/internal/service"
)

// ──────────────────────────────────────────────
// BOOKINGS
// ──────────────────────────────────────────────

func addListing(listingRepo *MockListingRepository, id string, price float64) *domain.Listing {
	listing := &domain.Listing{
		ID:            id,
		Title:         "Lakeside Cabin",
		Description:   "A quiet cabin by the lake",
		Location:      "Bahir Dar",
		PricePerNight: price,
		CreatedAt:     time.Now(),
	}
	listingRepo.AddListing(listing)
	return listing
}

func TestCreateBooking_ComputesTotalFromNights(t *testing.T) {
	t.Parallel()

	listingRepo := NewMockListingRepository()
	bookingRepo := NewMockBookingRepository()
	addListing(listingRepo, "listing-1", 100)

	svc := service.NewBookingService(bookingRepo, listingRepo)

	booking, err := svc.Create(context.Background(), service.CreateBookingRequest{
		ListingID: "listing-1",
		UserName:  "Jane Doe",
		UserEmail: "jane@example.com",
		CheckIn:   time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		CheckOut:  time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Nights() != 3 {
		t.Errorf("expected 3 nights, got %d", booking.Nights())
	}
	if booking.TotalAmount != 300 {
		t.Errorf("expected total 300, got %.2f", booking.TotalAmount)
	}
	if booking.ID == "" {
		t.Error("booking should get an ID")
	}
}

func TestCreateBooking_RejectsInvertedDates(t *testing.T) {
	t.Parallel()

	listingRepo := NewMockListingRepository()
	addListing(listingRepo, "listing-1", 100)

	svc := service.NewBookingService(NewMockBookingRepository(), listingRepo)

	cases := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
	}{
		{
			"check-out before check-in",
			time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		},
		{
			"same day",
			time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range cases {
		_, err := svc.Create(context.Background(), service.CreateBookingRequest{
			ListingID: "listing-1",
			UserName:  "Jane Doe",
			UserEmail: "jane@example.com",
			CheckIn:   tc.checkIn,
			CheckOut:  tc.checkOut,
		})
		if !errors.Is(err, service.ErrInvalidDateRange) {
			t.Errorf("%s: expected ErrInvalidDateRange, got %v", tc.name, err)
		}
	}
}

func TestCreateBooking_RequiresUserIdentity(t *testing.T) {
	t.Parallel()

	listingRepo := NewMockListingRepository()
	addListing(listingRepo, "listing-1", 100)

	svc := service.NewBookingService(NewMockBookingRepository(), listingRepo)

	_, err := svc.Create(context.Background(), service.CreateBookingRequest{
		ListingID: "listing-1",
		UserName:  "",
		UserEmail: "jane@example.com",
		CheckIn:   time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		CheckOut:  time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, service.ErrInvalidUserIdentity) {
		t.Fatalf("expected ErrInvalidUserIdentity, got %v", err)
	}
}

func TestCreateBooking_UnknownListing(t *testing.T) {
	t.Parallel()

	svc := service.NewBookingService(NewMockBookingRepository(), NewMockListingRepository())

	_, err := svc.Create(context.Background(), service.CreateBookingRequest{
		ListingID: "missing",
		UserName:  "Jane Doe",
		UserEmail: "jane@example.com",
		CheckIn:   time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		CheckOut:  time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateBookingDates_RecomputesTotal(t *testing.T) {
	t.Parallel()

	listingRepo := NewMockListingRepository()
	bookingRepo := NewMockBookingRepository()
	addListing(listingRepo, "listing-1", 100)

	svc := service.NewBookingService(bookingRepo, listingRepo)

	booking, err := svc.Create(context.Background(), service.CreateBookingRequest{
		ListingID: "listing-1",
		UserName:  "Jane Doe",
		UserEmail: "jane@example.com",
		CheckIn:   time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		CheckOut:  time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := svc.UpdateDates(context.Background(), booking.ID,
		time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.TotalAmount != 500 {
		t.Errorf("expected recomputed total 500, got %.2f", updated.TotalAmount)
	}
}

// ──────────────────────────────────────────────
// REVIEWS
// ──────────────────────────────────────────────

func TestCreateReview_RatingBounds(t *testing.T) {
	t.Parallel()

	listingRepo := NewMockListingRepository()
	addListing(listingRepo, "listing-1", 100)

	svc := service.NewReviewService(NewMockReviewRepository(), listingRepo)

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Create(context.Background(), service.CreateReviewRequest{
			ListingID: "listing-1",
			UserName:  "Jane Doe",
			Rating:    rating,
		})
		if !errors.Is(err, service.ErrInvalidRating) {
			t.Errorf("rating %d: expected ErrInvalidRating, got %v", rating, err)
		}
	}

	review, err := svc.Create(context.Background(), service.CreateReviewRequest{
		ListingID: "listing-1",
		UserName:  "Jane Doe",
		Rating:    5,
		Comment:   "Wonderful stay",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if review.Rating != 5 {
		t.Errorf("expected rating 5, got %d", review.Rating)
	}
}

func TestCreateReview_UnknownListing(t *testing.T) {
	t.Parallel()

	svc := service.NewReviewService(NewMockReviewRepository(), NewMockListingRepository())

	_, err := svc.Create(context.Background(), service.CreateReviewRequest{
		ListingID: "missing",
		UserName:  "Jane Doe",
		Rating:    4,
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetReviewsByListing(t *testing.T) {
	t.Parallel()

	listingRepo := NewMockListingRepository()
	reviewRepo := NewMockReviewRepository()
	addListing(listingRepo, "listing-1", 100)
	addListing(listingRepo, "listing-2", 150)

	svc := service.NewReviewService(reviewRepo, listingRepo)

	for _, listingID := range []string{"listing-1", "listing-1", "listing-2"} {
		if _, err := svc.Create(context.Background(), service.CreateReviewRequest{
			ListingID: listingID,
			UserName:  "Jane Doe",
			Rating:    4,
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	reviews, err := svc.GetByListing(context.Background(), "listing-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reviews) != 2 {
		t.Errorf("expected 2 reviews, got %d", len(reviews))
	}
}
