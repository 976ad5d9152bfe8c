package entitlement

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tradex/internal/domain"
	doment "github.com/kailas-cloud/tradex/internal/domain/entitlement"
	"github.com/kailas-cloud/tradex/internal/domain/receipt"
	"github.com/kailas-cloud/tradex/internal/metrics"
)

// Service decides whether a receipt unlocks a piece of premium content:
// cache lookup, mismatch detection, remote verification, cache population.
type Service struct {
	cache    Cache
	verifier Verifier
	ttl      time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// New creates an entitlement service. ttl bounds how long a successful
// verification stays cached.
func New(cache Cache, verifier Verifier, ttl time.Duration, logger *zap.Logger) *Service {
	return &Service{
		cache:    cache,
		verifier: verifier,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
	}
}

// Authorize reports whether the receipt grants access to contentRef.
//
// A cached, unexpired record for the same receipt key must name the same
// contentRef; anything else is ErrReceiptMismatch, never a silent grant.
// Failed verifications are not cached so the caller can retry once upstream
// state changes. Transient verifier failures surface as
// ErrVerificationUnavailable, never as a denial.
func (s *Service) Authorize(ctx context.Context, rcpt receipt.Receipt, contentRef string) (bool, error) {
	if rcpt.IsZero() {
		return false, domain.ErrInvalidReceipt
	}
	if contentRef == "" {
		return false, fmt.Errorf("%w: content ref is required", domain.ErrInvalidReceipt)
	}

	rec, found, err := s.cache.Get(ctx, rcpt.Key())
	if err != nil {
		return false, fmt.Errorf("entitlement lookup: %w", err)
	}

	if found && !rec.Expired(s.now()) {
		if rec.ContentRef() != contentRef {
			metrics.EntitlementCacheTotal.WithLabelValues("mismatch").Inc()
			return false, fmt.Errorf("%w: receipt bound to another product", domain.ErrReceiptMismatch)
		}
		metrics.EntitlementCacheTotal.WithLabelValues("hit").Inc()
		return true, nil
	}
	metrics.EntitlementCacheTotal.WithLabelValues("miss").Inc()

	purchased, err := s.verifier.Verify(ctx, rcpt, contentRef)
	if err != nil {
		return false, fmt.Errorf("verify receipt: %w", err)
	}
	if !purchased {
		return false, nil
	}

	newRec, err := doment.New(rcpt.Key(), contentRef, s.ttl)
	if err != nil {
		return false, fmt.Errorf("build entitlement record: %w", err)
	}
	if err := s.cache.Put(ctx, newRec, s.ttl); err != nil {
		// The verification itself succeeded; a failed cache write only costs
		// a repeat verification on the next request.
		s.logger.Warn("entitlement cache write failed",
			zap.String("receipt_key", rcpt.Key()),
			zap.String("content_ref", contentRef),
			zap.Error(err))
	}

	return true, nil
}
