package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidReceipt signals a missing or malformed purchase receipt.
	ErrInvalidReceipt = errors.New("invalid receipt")
	// ErrReceiptMismatch signals a receipt presented for content it was not verified against.
	ErrReceiptMismatch = errors.New("receipt content mismatch")
	// ErrVerificationUnavailable signals a transient failure reaching the verification service.
	ErrVerificationUnavailable = errors.New("verification unavailable")
	// ErrInvalidFilter signals a search filter that failed validation.
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrUnknownCategory signals a category name not present in the search schema.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrSchemaUnavailable signals that the search schema could not be fetched.
	ErrSchemaUnavailable = errors.New("schema unavailable")
	// ErrListingNotFound signals a missing classified ad.
	ErrListingNotFound = errors.New("listing not found")
	// ErrPostNotFound signals a missing premium post.
	ErrPostNotFound = errors.New("post not found")
	// ErrPaymentRequired signals premium content requested without a valid entitlement.
	ErrPaymentRequired = errors.New("payment required")
)

// FilterValidationError wraps ErrInvalidFilter with the offending field,
// a human-readable reason, and the allowed values for enum-backed rules.
type FilterValidationError struct {
	Field   string
	Reason  string
	Allowed []string
}

func (e *FilterValidationError) Error() string {
	if len(e.Allowed) > 0 {
		return fmt.Sprintf("invalid %q: %s (valid values: %s)", e.Field, e.Reason, strings.Join(e.Allowed, ", "))
	}
	return fmt.Sprintf("invalid %q: %s", e.Field, e.Reason)
}

func (e *FilterValidationError) Unwrap() error { return ErrInvalidFilter }

// NewFilterValidationError creates a filter validation error for a field.
func NewFilterValidationError(field, reason string, allowed ...string) error {
	return &FilterValidationError{Field: field, Reason: reason, Allowed: allowed}
}
