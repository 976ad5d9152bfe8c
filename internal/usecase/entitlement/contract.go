package entitlement

import (
	"context"
	"time"

	doment "github.com/kailas-cloud/tradex/internal/domain/entitlement"
	"github.com/kailas-cloud/tradex/internal/domain/receipt"
)

// Cache is the durable entitlement record store.
type Cache interface {
	Get(ctx context.Context, receiptKey string) (doment.Record, bool, error)
	Put(ctx context.Context, rec doment.Record, ttl time.Duration) error
}

// Verifier checks a receipt's purchase manifest for a content ref.
type Verifier interface {
	Verify(ctx context.Context, rcpt receipt.Receipt, contentRef string) (bool, error)
}
