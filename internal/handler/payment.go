package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"travel/internal/domain"
	"travel/internal/service"
)

// PaymentHandler handles HTTP requests for payments.
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// InitiatePaymentRequest is the HTTP request body for initiating a payment.
type InitiatePaymentRequest struct {
	BookingID   string `json:"booking_id"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
}

// InitiatePaymentResponse is the HTTP response for a successful initiation.
type InitiatePaymentResponse struct {
	TxRef       string `json:"tx_ref"`
	CheckoutURL string `json:"checkout_url"`
	Status      string `json:"status"`
}

// ReconcileResponse is the HTTP response for callback/verify requests.
type ReconcileResponse struct {
	TxRef     string          `json:"tx_ref"`
	Status    string          `json:"status"`
	BookingID string          `json:"booking_id"`
	Raw       json.RawMessage `json:"raw,omitempty"`
}

// PaymentResponse is the HTTP response for payment lookups.
type PaymentResponse struct {
	TxRef       string  `json:"tx_ref"`
	BookingID   string  `json:"booking_id"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	GatewayRef  string  `json:"gateway_ref,omitempty"`
	CheckoutURL string  `json:"checkout_url,omitempty"`
	Status      string  `json:"status"`
}

// validPhoneNumber reports whether s is exactly 10 digits.
func validPhoneNumber(s string) bool {
	if len(s) != 10 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Initiate handles POST /api/payments/initiate/
func (h *PaymentHandler) Initiate(c *gin.Context) {
	var req InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.BookingID == "" || req.Email == "" || req.FirstName == "" || req.LastName == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "booking_id, email, first_name and last_name are required"})
		return
	}

	if req.PhoneNumber != "" && !validPhoneNumber(req.PhoneNumber) {
		respondError(c, service.ErrInvalidPhoneNumber)
		return
	}

	payment, err := h.paymentService.InitiateForBooking(c.Request.Context(), service.InitiatePaymentRequest{
		BookingID:   req.BookingID,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, InitiatePaymentResponse{
		TxRef:       payment.TxRef,
		CheckoutURL: payment.CheckoutURL,
		Status:      string(payment.Status),
	})
}

// Callback handles GET /api/payments/callback/
//
// The gateway hits this URL after checkout with trx_ref (or tx_ref) in the
// query. The caller is untrusted, so nothing from the query besides the
// reference is used: the status comes from a server-side verification.
func (h *PaymentHandler) Callback(c *gin.Context) {
	txRef := c.Query("trx_ref")
	if txRef == "" {
		txRef = c.Query("tx_ref")
	}
	if txRef == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing trx_ref"})
		return
	}

	h.reconcile(c, txRef)
}

// Verify handles GET /api/payments/verify/
func (h *PaymentHandler) Verify(c *gin.Context) {
	txRef := c.Query("tx_ref")
	if txRef == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing tx_ref"})
		return
	}

	h.reconcile(c, txRef)
}

func (h *PaymentHandler) reconcile(c *gin.Context, txRef string) {
	payment, err := h.paymentService.ReconcileByReference(c.Request.Context(), txRef)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, ReconcileResponse{
		TxRef:     payment.TxRef,
		Status:    string(payment.Status),
		BookingID: payment.BookingID,
		Raw:       payment.VerifyResponse,
	})
}

// Get handles GET /api/payments/:tx_ref
func (h *PaymentHandler) Get(c *gin.Context) {
	payment, err := h.paymentService.GetByTxRef(c.Request.Context(), c.Param("tx_ref"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toPaymentResponse(payment))
}

func toPaymentResponse(payment *domain.Payment) PaymentResponse {
	return PaymentResponse{
		TxRef:       payment.TxRef,
		BookingID:   payment.BookingID,
		Amount:      payment.Amount,
		Currency:    payment.Currency,
		GatewayRef:  payment.GatewayRef,
		CheckoutURL: payment.CheckoutURL,
		Status:      string(payment.Status),
	}
}
