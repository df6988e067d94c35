// Command seed populates the database with sample listings, a booking and a
// couple of reviews for local development.
package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/google/uuid"

	"travel/internal/app"
	"travel/internal/config"
	"travel/internal/domain"
	"travel/internal/repository/postgres"
)

var sampleListings = []domain.Listing{
	{
		Title:         "Beautiful Beach House",
		Description:   "A stunning beach house with ocean views and modern amenities.",
		Location:      "Malibu, California",
		PricePerNight: 250,
	},
	{
		Title:         "Mountain Cabin Retreat",
		Description:   "Cozy cabin in the mountains perfect for a peaceful getaway.",
		Location:      "Aspen, Colorado",
		PricePerNight: 180,
	},
	{
		Title:         "City Center Apartment",
		Description:   "Modern apartment in the heart of the city with great amenities.",
		Location:      "New York, NY",
		PricePerNight: 320,
	},
	{
		Title:         "Lakeside Cottage",
		Description:   "Charming cottage by the lake with fishing and boating access.",
		Location:      "Lake Tahoe, California",
		PricePerNight: 200,
	},
}

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := app.NewDatabase(ctx, cfg.Database, nil)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("Seeding database...")

	listingRepo := postgres.NewListingRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)

	var seeded []*domain.Listing
	for _, sample := range sampleListings {
		existing, err := findListingByTitle(ctx, db, sample.Title)
		if err != nil {
			log.Fatalf("failed to look up listing: %v", err)
		}
		if existing != nil {
			seeded = append(seeded, existing)
			continue
		}

		listing := sample
		listing.ID = uuid.New().String()
		listing.CreatedAt = time.Now()
		if err := listingRepo.Create(ctx, &listing); err != nil {
			log.Fatalf("failed to create listing: %v", err)
		}
		log.Printf("Created listing: %s", listing.Title)
		seeded = append(seeded, &listing)
	}

	if len(seeded) == 0 {
		log.Println("No listings to seed bookings against")
		return
	}

	// One booking a week out on the first listing.
	first := seeded[0]
	checkIn := midnight(time.Now().AddDate(0, 0, 7))
	checkOut := checkIn.AddDate(0, 0, 3)

	booking := &domain.Booking{
		ID:        uuid.New().String(),
		ListingID: first.ID,
		UserName:  "Test User",
		UserEmail: "test@example.com",
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		CreatedAt: time.Now(),
	}
	booking.TotalAmount = float64(booking.Nights()) * first.PricePerNight

	if err := bookingRepo.Create(ctx, booking); err != nil {
		log.Fatalf("failed to create booking: %v", err)
	}
	log.Printf("Created booking %s for %s (%.2f)", booking.ID, first.Title, booking.TotalAmount)

	// Reviews on the first two listings.
	for _, listing := range seeded[:2] {
		review := &domain.Review{
			ID:        uuid.New().String(),
			ListingID: listing.ID,
			UserName:  "Test User",
			Rating:    5,
			Comment:   "Amazing place! Highly recommended.",
			CreatedAt: time.Now(),
		}
		if err := reviewRepo.Create(ctx, review); err != nil {
			log.Fatalf("failed to create review: %v", err)
		}
		log.Printf("Created review for %s", listing.Title)
	}

	log.Println("Successfully seeded database!")
}

// findListingByTitle makes the seeder idempotent per listing title.
func findListingByTitle(ctx context.Context, db *sql.DB, title string) (*domain.Listing, error) {
	query := `
		SELECT id, title, description, location, price_per_night, created_at
		FROM listings WHERE title = $1
	`

	var listing domain.Listing
	err := db.QueryRowContext(ctx, query, title).Scan(
		&listing.ID,
		&listing.Title,
		&listing.Description,
		&listing.Location,
		&listing.PricePerNight,
		&listing.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// midnight truncates t to the start of its day.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
