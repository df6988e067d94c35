package domain

import "time"

// Listing represents a travel listing that can be booked per night.
type Listing struct {
	ID            string
	Title         string
	Description   string
	Location      string
	PricePerNight float64
	CreatedAt     time.Time
}
