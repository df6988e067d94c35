package gateway

import (
	"strings"

	"travel/internal/domain"
)

// fieldPath is one candidate location of a value inside a decoded JSON
// document. The gateway moves fields around between API revisions, so each
// field of interest carries an ordered list of paths; the first non-empty
// hit wins.
type fieldPath []string

var (
	checkoutURLPaths = []fieldPath{
		{"data", "checkout_url"},
		{"checkout_url"},
	}
	statusPaths = []fieldPath{
		{"data", "data", "status"},
		{"data", "status"},
		{"status"},
	}
	referencePaths = []fieldPath{
		{"data", "data", "reference"},
		{"data", "reference"},
		{"reference"},
	}
)

// extractString applies candidate paths in order and returns the first
// non-empty string found.
func extractString(doc map[string]any, paths []fieldPath) string {
	for _, path := range paths {
		if value := lookup(doc, path); value != "" {
			return value
		}
	}
	return ""
}

// lookup walks one path through nested objects. Anything that is not an
// object along the way, or not a string at the end, yields "".
func lookup(doc map[string]any, path fieldPath) string {
	current := any(doc)
	for _, key := range path {
		object, ok := current.(map[string]any)
		if !ok {
			return ""
		}
		current = object[key]
	}

	value, _ := current.(string)
	return value
}

// NormalizeStatus maps the gateway's status vocabulary onto ours.
// Unknown or missing values map to pending, never to a terminal status.
func NormalizeStatus(raw string) domain.PaymentStatus {
	switch strings.ToLower(raw) {
	case "success", "completed", "paid":
		return domain.PaymentStatusSuccess
	case "failed", "declined":
		return domain.PaymentStatusFailed
	case "canceled", "cancelled":
		return domain.PaymentStatusCanceled
	default:
		return domain.PaymentStatusPending
	}
}
