package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"travel/internal/gateway"
	"travel/internal/repository"
	"travel/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository/gateway errors to HTTP
// status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request. An unknown booking on initiation
	// is the caller passing a bad booking_id, so it maps to 400 rather
	// than 404.
	case errors.Is(err, service.ErrInvalidListingID),
		errors.Is(err, service.ErrInvalidBookingID),
		errors.Is(err, service.ErrInvalidReviewID),
		errors.Is(err, service.ErrBookingNotFound),
		errors.Is(err, service.ErrInvalidTitle),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrInvalidUserIdentity),
		errors.Is(err, service.ErrInvalidTxRef),
		errors.Is(err, service.ErrInvalidPhoneNumber):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, service.ErrPaymentInProgress):
		return http.StatusConflict

	// Upstream gateway failures
	case errors.Is(err, gateway.ErrUnreachable),
		errors.Is(err, gateway.ErrRejected),
		errors.Is(err, gateway.ErrMalformedResponse):
		return http.StatusBadGateway

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
