package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"travel/internal/domain"
)

func testInitiateRequest() InitiateRequest {
	return InitiateRequest{
		Amount:      300,
		Currency:    "ETB",
		Email:       "jane@example.com",
		FirstName:   "Jane",
		LastName:    "Doe",
		TxRef:       "booking-1-abc12345",
		CallbackURL: "https://travel.example/api/payments/callback/",
		ReturnURL:   "https://travel.example/",
		Title:       "Booking payment",
		Description: "Payment for booking 1",
	}
}

func TestInitiate_NestedCheckoutURL(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"status":"success","data":{"checkout_url":"https://pay/x"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test", time.Second)

	url, raw, err := client.Initiate(context.Background(), testInitiateRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://pay/x" {
		t.Errorf("expected checkout URL https://pay/x, got %q", url)
	}
	if len(raw) == 0 {
		t.Error("raw response should be returned")
	}

	if gotPath != "/v1/transaction/initialize" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotAuth != "Bearer sk_test" {
		t.Errorf("unexpected authorization header %q", gotAuth)
	}
	if gotBody["amount"] != "300.00" {
		t.Errorf("amount should be a formatted string, got %v", gotBody["amount"])
	}
	if gotBody["tx_ref"] != "booking-1-abc12345" {
		t.Errorf("unexpected tx_ref %v", gotBody["tx_ref"])
	}
}

func TestInitiate_TopLevelCheckoutURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"checkout_url":"https://pay/y"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test", time.Second)

	url, _, err := client.Initiate(context.Background(), testInitiateRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://pay/y" {
		t.Errorf("expected checkout URL https://pay/y, got %q", url)
	}
}

func TestInitiate_MissingCheckoutURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","data":{}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test", time.Second)

	_, raw, err := client.Initiate(context.Background(), testInitiateRequest())
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
	if len(raw) == 0 {
		t.Error("raw response should be returned for audit even on error")
	}
}

func TestInitiate_RejectedRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"invalid key"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_bad", time.Second)

	_, raw, err := client.Initiate(context.Background(), testInitiateRequest())
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
	if len(raw) == 0 {
		t.Error("rejection body should be returned for audit")
	}
}

func TestInitiate_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test", 20*time.Millisecond)

	_, _, err := client.Initiate(context.Background(), testInitiateRequest())
	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
}

func TestVerify_DeepestStatusWins(t *testing.T) {
	var gotPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"status":"success","data":{"data":{"status":"declined","reference":"CHP123"}}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test", time.Second)

	result, err := client.Verify(context.Background(), "booking-1-abc12345")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != domain.PaymentStatusFailed {
		t.Errorf("innermost status must win, got %s", result.Status)
	}
	if result.Reference != "CHP123" {
		t.Errorf("expected reference CHP123, got %q", result.Reference)
	}
	if gotPath != "/v1/transaction/verify/booking-1-abc12345" {
		t.Errorf("unexpected path %q", gotPath)
	}
}

func TestVerify_TopLevelFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"paid","reference":"CHP456"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test", time.Second)

	result, err := client.Verify(context.Background(), "booking-1-abc12345")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != domain.PaymentStatusSuccess {
		t.Errorf("expected success, got %s", result.Status)
	}
	if result.Reference != "CHP456" {
		t.Errorf("expected reference CHP456, got %q", result.Reference)
	}
}

func TestVerify_MissingStatusMapsToPending(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test", time.Second)

	result, err := client.Verify(context.Background(), "booking-1-abc12345")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != domain.PaymentStatusPending {
		t.Errorf("missing status must map to pending, got %s", result.Status)
	}
}

func TestVerify_NonJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>gateway down</html>`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "sk_test", time.Second)

	_, err := client.Verify(context.Background(), "booking-1-abc12345")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestNormalizeStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want domain.PaymentStatus
	}{
		{"success", domain.PaymentStatusSuccess},
		{"SUCCESS", domain.PaymentStatusSuccess},
		{"completed", domain.PaymentStatusSuccess},
		{"paid", domain.PaymentStatusSuccess},
		{"failed", domain.PaymentStatusFailed},
		{"declined", domain.PaymentStatusFailed},
		{"canceled", domain.PaymentStatusCanceled},
		{"cancelled", domain.PaymentStatusCanceled},
		{"pending", domain.PaymentStatusPending},
		{"processing", domain.PaymentStatusPending},
		{"", domain.PaymentStatusPending},
	}

	for _, tc := range cases {
		if got := NormalizeStatus(tc.raw); got != tc.want {
			t.Errorf("NormalizeStatus(%q) = %s, want %s", tc.raw, got, tc.want)
		}
	}
}

func TestLookup_NonObjectAlongPath(t *testing.T) {
	doc := map[string]any{"data": "not-an-object"}
	if got := lookup(doc, fieldPath{"data", "checkout_url"}); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
	if got := lookup(doc, fieldPath{"missing"}); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}
