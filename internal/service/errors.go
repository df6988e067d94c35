package service

import "errors"

var (
	// ErrInvalidListingID is returned when listing ID is empty.
	ErrInvalidListingID = errors.New("invalid listing id")

	// ErrInvalidBookingID is returned when booking ID is empty.
	ErrInvalidBookingID = errors.New("invalid booking id")

	// ErrBookingNotFound is returned when the referenced booking does not exist.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrInvalidReviewID is returned when review ID is empty.
	ErrInvalidReviewID = errors.New("invalid review id")

	// ErrInvalidTitle is returned when a listing title is empty.
	ErrInvalidTitle = errors.New("invalid listing title")

	// ErrInvalidPrice is returned when a nightly price is not positive.
	ErrInvalidPrice = errors.New("invalid nightly price")

	// ErrInvalidDateRange is returned when check-out is not after check-in.
	ErrInvalidDateRange = errors.New("check-out must be after check-in")

	// ErrInvalidRating is returned when a review rating is outside [1,5].
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrInvalidUserIdentity is returned when a guest name or email is missing.
	ErrInvalidUserIdentity = errors.New("user name and email are required")

	// ErrInvalidTxRef is returned when a transaction reference is empty.
	ErrInvalidTxRef = errors.New("invalid transaction reference")

	// ErrInvalidPhoneNumber is returned when a phone number is not exactly 10 digits.
	ErrInvalidPhoneNumber = errors.New("phone number must be exactly 10 digits")

	// ErrPaymentInProgress is returned when another initiation for the same
	// booking holds the lock.
	ErrPaymentInProgress = errors.New("payment initiation already in progress")
)
