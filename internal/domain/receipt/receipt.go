package receipt

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/kailas-cloud/tradex/internal/domain"
)

// Receipt is an opaque proof-of-purchase token from an external storefront
// (immutable value object). The raw payload is never persisted; storage and
// cache lookups use the derived key only.
type Receipt struct {
	raw string
	key string
}

// New validates and creates a Receipt. The key is a stable sha256 hex digest
// of the raw payload.
func New(raw string) (Receipt, error) {
	if raw == "" {
		return Receipt{}, domain.ErrInvalidReceipt
	}
	sum := sha256.Sum256([]byte(raw))
	return Receipt{raw: raw, key: hex.EncodeToString(sum[:])}, nil
}

// Raw returns the raw receipt payload.
func (r Receipt) Raw() string { return r.raw }

// Key returns the derived receipt key.
func (r Receipt) Key() string { return r.key }

// IsZero reports whether the receipt is empty.
func (r Receipt) IsZero() bool { return r.raw == "" }
