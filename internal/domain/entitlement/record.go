package entitlement

import (
	"fmt"
	"time"
)

// Record is the cached outcome of a successful receipt verification
// (immutable value object). A record binds a receipt key to the single
// content reference it was verified against.
type Record struct {
	receiptKey string
	contentRef string
	verifiedAt time.Time
	expiresAt  time.Time
}

// New validates and creates a Record valid for the given TTL from now.
func New(receiptKey, contentRef string, ttl time.Duration) (Record, error) {
	if receiptKey == "" {
		return Record{}, fmt.Errorf("receipt key is required")
	}
	if contentRef == "" {
		return Record{}, fmt.Errorf("content ref is required")
	}
	if ttl <= 0 {
		return Record{}, fmt.Errorf("ttl must be positive")
	}
	now := time.Now().UTC()
	return Record{
		receiptKey: receiptKey,
		contentRef: contentRef,
		verifiedAt: now,
		expiresAt:  now.Add(ttl),
	}, nil
}

// Reconstruct creates a Record without validation (storage hydration).
func Reconstruct(receiptKey, contentRef string, verifiedAt, expiresAt time.Time) Record {
	return Record{
		receiptKey: receiptKey,
		contentRef: contentRef,
		verifiedAt: verifiedAt,
		expiresAt:  expiresAt,
	}
}

// ReceiptKey returns the hashed receipt key.
func (r Record) ReceiptKey() string { return r.receiptKey }

// ContentRef returns the content reference the receipt was verified against.
func (r Record) ContentRef() string { return r.contentRef }

// VerifiedAt returns the verification time.
func (r Record) VerifiedAt() time.Time { return r.verifiedAt }

// ExpiresAt returns the expiry time.
func (r Record) ExpiresAt() time.Time { return r.expiresAt }

// Expired reports whether the record has passed its expiry at the given time.
func (r Record) Expired(now time.Time) bool {
	return !now.Before(r.expiresAt)
}
