// Package gateway wraps the Chapa payment API's initialize and verify
// endpoints. It translates local payment intents into gateway payloads and
// gateway responses into normalized results; it never touches local state.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"travel/internal/domain"
)

var (
	// ErrUnreachable is returned on transport failures and timeouts.
	// The caller may retry the whole operation.
	ErrUnreachable = errors.New("payment gateway unreachable")

	// ErrRejected is returned when the gateway answers with a non-2xx
	// status. The raw body is still returned for audit.
	ErrRejected = errors.New("payment gateway rejected request")

	// ErrMalformedResponse is returned when a 2xx response does not carry
	// the fields we need in any known location.
	ErrMalformedResponse = errors.New("malformed payment gateway response")
)

const defaultTimeout = 30 * time.Second

// Client is an HTTP client for the Chapa transaction API.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

// NewClient creates a gateway client. A zero timeout falls back to 30s.
func NewClient(baseURL, secretKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		secretKey:  secretKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// InitiateRequest contains the parameters for initializing a transaction.
type InitiateRequest struct {
	Amount      float64
	Currency    string
	Email       string
	FirstName   string
	LastName    string
	PhoneNumber string
	TxRef       string
	CallbackURL string
	ReturnURL   string
	Title       string
	Description string
}

// initiatePayload is the wire format of the initialize request.
type initiatePayload struct {
	Amount        string        `json:"amount"`
	Currency      string        `json:"currency"`
	Email         string        `json:"email"`
	FirstName     string        `json:"first_name"`
	LastName      string        `json:"last_name"`
	TxRef         string        `json:"tx_ref"`
	CallbackURL   string        `json:"callback_url"`
	ReturnURL     string        `json:"return_url"`
	Customization customization `json:"customization"`
	PhoneNumber   string        `json:"phone_number,omitempty"`
}

type customization struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// VerifyResult is the normalized outcome of a verification lookup.
type VerifyResult struct {
	Status domain.PaymentStatus

	// Reference is the gateway-assigned transaction reference, empty when
	// the response does not carry one.
	Reference string

	Raw json.RawMessage
}

// Initiate initializes a transaction and returns the checkout URL the payer
// should be redirected to, along with the raw response body for audit. The
// raw body is returned even when err is non-nil, as long as one was read.
func (c *Client) Initiate(ctx context.Context, req InitiateRequest) (string, json.RawMessage, error) {
	payload := initiatePayload{
		Amount:      fmt.Sprintf("%.2f", req.Amount),
		Currency:    req.Currency,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		TxRef:       req.TxRef,
		CallbackURL: req.CallbackURL,
		ReturnURL:   req.ReturnURL,
		Customization: customization{
			Title:       req.Title,
			Description: req.Description,
		},
		PhoneNumber: req.PhoneNumber,
	}

	raw, err := c.post(ctx, c.baseURL+"/v1/transaction/initialize", payload)
	if err != nil {
		return "", raw, err
	}

	doc, err := decodeObject(raw)
	if err != nil {
		return "", raw, err
	}

	checkoutURL := extractString(doc, checkoutURLPaths)
	if checkoutURL == "" {
		return "", raw, fmt.Errorf("%w: missing checkout_url", ErrMalformedResponse)
	}

	return checkoutURL, raw, nil
}

// Verify looks up a transaction by our tx_ref and normalizes its status.
// Missing or unrecognized status values map to pending.
func (c *Client) Verify(ctx context.Context, txRef string) (*VerifyResult, error) {
	raw, err := c.get(ctx, c.baseURL+"/v1/transaction/verify/"+txRef)
	if err != nil {
		return nil, err
	}

	doc, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}

	return &VerifyResult{
		Status:    NormalizeStatus(extractString(doc, statusPaths)),
		Reference: extractString(doc, referencePaths),
		Raw:       raw,
	}, nil
}

func (c *Client) post(ctx context.Context, url string, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

func (c *Client) get(ctx context.Context, url string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	return c.do(req)
}

func (c *Client) do(req *http.Request) (json.RawMessage, error) {
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return raw, fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}

	return raw, nil
}

// decodeObject parses a response body into a generic JSON object for the
// extraction rules.
func decodeObject(raw json.RawMessage) (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return doc, nil
}
