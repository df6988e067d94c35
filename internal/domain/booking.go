package domain

import "time"

// Booking represents a stay at a listing for a date range.
// UserName/UserEmail identify the guest; there is no account system here.
type Booking struct {
	ID        string
	ListingID string
	UserName  string
	UserEmail string
	CheckIn   time.Time
	CheckOut  time.Time

	// TotalAmount is nights * the listing's nightly price, fixed at
	// creation time.
	TotalAmount float64

	CreatedAt time.Time
}

// Nights returns the number of nights between check-in and check-out.
func (b *Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}
