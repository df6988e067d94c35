package domain

import "time"

// Review is a user review for a listing. Rating is bounded to [1,5].
type Review struct {
	ID        string
	ListingID string
	UserName  string
	Rating    int
	Comment   string
	CreatedAt time.Time
}
