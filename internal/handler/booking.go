package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"travel/internal/domain"
	"travel/internal/service"
)

// BookingHandler handles HTTP requests for bookings.
type BookingHandler struct {
	bookingService *service.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

const dateLayout = "2006-01-02"

// BookingRequest is the HTTP request body for creating a booking.
type BookingRequest struct {
	ListingID string `json:"listing_id"`
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
}

// BookingDatesRequest is the HTTP request body for moving a booking.
type BookingDatesRequest struct {
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
}

// BookingResponse is the HTTP response for booking data.
type BookingResponse struct {
	ID          string    `json:"id"`
	ListingID   string    `json:"listing_id"`
	UserName    string    `json:"user_name"`
	UserEmail   string    `json:"user_email"`
	CheckIn     string    `json:"check_in"`
	CheckOut    string    `json:"check_out"`
	TotalAmount float64   `json:"total_amount"`
	CreatedAt   time.Time `json:"created_at"`
}

func toBookingResponse(booking *domain.Booking) BookingResponse {
	return BookingResponse{
		ID:          booking.ID,
		ListingID:   booking.ListingID,
		UserName:    booking.UserName,
		UserEmail:   booking.UserEmail,
		CheckIn:     booking.CheckIn.Format(dateLayout),
		CheckOut:    booking.CheckOut.Format(dateLayout),
		TotalAmount: booking.TotalAmount,
		CreatedAt:   booking.CreatedAt,
	}
}

// parseDates parses the check-in/check-out date strings.
func parseDates(checkIn, checkOut string) (time.Time, time.Time, bool) {
	in, err := time.Parse(dateLayout, checkIn)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	out, err := time.Parse(dateLayout, checkOut)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return in, out, true
}

// Create handles POST /api/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	var req BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	checkIn, checkOut, ok := parseDates(req.CheckIn, req.CheckOut)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "check_in and check_out must be YYYY-MM-DD dates"})
		return
	}

	booking, err := h.bookingService.Create(c.Request.Context(), service.CreateBookingRequest{
		ListingID: req.ListingID,
		UserName:  req.UserName,
		UserEmail: req.UserEmail,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toBookingResponse(booking))
}

// GetAll handles GET /api/bookings
func (h *BookingHandler) GetAll(c *gin.Context) {
	bookings, err := h.bookingService.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]BookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		responses = append(responses, toBookingResponse(booking))
	}

	respondJSON(c, http.StatusOK, responses)
}

// Get handles GET /api/bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	booking, err := h.bookingService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// Update handles PUT /api/bookings/:id
func (h *BookingHandler) Update(c *gin.Context) {
	var req BookingDatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	checkIn, checkOut, ok := parseDates(req.CheckIn, req.CheckOut)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "check_in and check_out must be YYYY-MM-DD dates"})
		return
	}

	booking, err := h.bookingService.UpdateDates(c.Request.Context(), c.Param("id"), checkIn, checkOut)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// Delete handles DELETE /api/bookings/:id
func (h *BookingHandler) Delete(c *gin.Context) {
	if err := h.bookingService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
