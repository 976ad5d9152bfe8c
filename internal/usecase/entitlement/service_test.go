package entitlement

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tradex/internal/domain"
	doment "github.com/kailas-cloud/tradex/internal/domain/entitlement"
	"github.com/kailas-cloud/tradex/internal/domain/receipt"
)

// --- Mocks ---

type mockCache struct {
	records  map[string]doment.Record
	getErr   error
	putErr   error
	getCalls int
	putCalls int
}

func newMockCache() *mockCache {
	return &mockCache{records: make(map[string]doment.Record)}
}

func (m *mockCache) Get(_ context.Context, receiptKey string) (doment.Record, bool, error) {
	m.getCalls++
	if m.getErr != nil {
		return doment.Record{}, false, m.getErr
	}
	rec, ok := m.records[receiptKey]
	return rec, ok, nil
}

func (m *mockCache) Put(_ context.Context, rec doment.Record, _ time.Duration) error {
	m.putCalls++
	if m.putErr != nil {
		return m.putErr
	}
	m.records[rec.ReceiptKey()] = rec
	return nil
}

type mockVerifier struct {
	purchased bool
	err       error
	calls     int
}

func (m *mockVerifier) Verify(_ context.Context, _ receipt.Receipt, _ string) (bool, error) {
	m.calls++
	return m.purchased, m.err
}

func newTestService(cache *mockCache, verifier *mockVerifier) *Service {
	return New(cache, verifier, 365*24*time.Hour, zap.NewNop())
}

func mustReceipt(t *testing.T, raw string) receipt.Receipt {
	t.Helper()
	r, err := receipt.New(raw)
	if err != nil {
		t.Fatalf("build receipt: %v", err)
	}
	return r
}

// --- Tests ---

func TestAuthorize_ZeroReceipt(t *testing.T) {
	svc := newTestService(newMockCache(), &mockVerifier{})

	_, err := svc.Authorize(context.Background(), receipt.Receipt{}, "sku1")
	if !errors.Is(err, domain.ErrInvalidReceipt) {
		t.Errorf("expected ErrInvalidReceipt, got %v", err)
	}
}

func TestAuthorize_EmptyContentRef(t *testing.T) {
	svc := newTestService(newMockCache(), &mockVerifier{})

	_, err := svc.Authorize(context.Background(), mustReceipt(t, "raw"), "")
	if !errors.Is(err, domain.ErrInvalidReceipt) {
		t.Errorf("expected ErrInvalidReceipt, got %v", err)
	}
}

func TestAuthorize_VerifiesOnceThenCaches(t *testing.T) {
	cache := newMockCache()
	verifier := &mockVerifier{purchased: true}
	svc := newTestService(cache, verifier)
	rcpt := mustReceipt(t, "raw-receipt")

	for i := 0; i < 3; i++ {
		granted, err := svc.Authorize(context.Background(), rcpt, "sku1")
		if err != nil {
			t.Fatalf("call %d: unexpected error: %v", i, err)
		}
		if !granted {
			t.Fatalf("call %d: expected grant", i)
		}
	}

	if verifier.calls != 1 {
		t.Errorf("expected exactly 1 verify call, got %d", verifier.calls)
	}
	if cache.putCalls != 1 {
		t.Errorf("expected exactly 1 cache write, got %d", cache.putCalls)
	}
}

func TestAuthorize_CachedMismatchIsHardError(t *testing.T) {
	cache := newMockCache()
	verifier := &mockVerifier{purchased: true}
	svc := newTestService(cache, verifier)
	rcpt := mustReceipt(t, "raw-receipt")

	if _, err := svc.Authorize(context.Background(), rcpt, "sku1"); err != nil {
		t.Fatalf("priming call failed: %v", err)
	}

	granted, err := svc.Authorize(context.Background(), rcpt, "sku2")
	if !errors.Is(err, domain.ErrReceiptMismatch) {
		t.Errorf("expected ErrReceiptMismatch, got %v", err)
	}
	if granted {
		t.Error("mismatch must never grant")
	}
	if verifier.calls != 1 {
		t.Errorf("mismatch must not trigger re-verification, got %d calls", verifier.calls)
	}
}

func TestAuthorize_DenialNotCached(t *testing.T) {
	cache := newMockCache()
	verifier := &mockVerifier{purchased: false}
	svc := newTestService(cache, verifier)
	rcpt := mustReceipt(t, "raw-receipt")

	granted, err := svc.Authorize(context.Background(), rcpt, "sku1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if granted {
		t.Error("expected denial")
	}
	if cache.putCalls != 0 {
		t.Errorf("denial must not be cached, got %d writes", cache.putCalls)
	}

	// A later purchase must be visible: the second call verifies again.
	verifier.purchased = true
	granted, err = svc.Authorize(context.Background(), rcpt, "sku1")
	if err != nil || !granted {
		t.Fatalf("expected grant after upstream change, got (%v, %v)", granted, err)
	}
	if verifier.calls != 2 {
		t.Errorf("expected 2 verify calls, got %d", verifier.calls)
	}
}

func TestAuthorize_VerifierUnavailable(t *testing.T) {
	cache := newMockCache()
	verifier := &mockVerifier{err: domain.ErrVerificationUnavailable}
	svc := newTestService(cache, verifier)

	granted, err := svc.Authorize(context.Background(), mustReceipt(t, "raw"), "sku1")
	if !errors.Is(err, domain.ErrVerificationUnavailable) {
		t.Errorf("expected ErrVerificationUnavailable, got %v", err)
	}
	if granted {
		t.Error("transient failure must not grant")
	}
	if cache.putCalls != 0 {
		t.Error("transient failure must not be cached")
	}
}

func TestAuthorize_ExpiredRecordReverifies(t *testing.T) {
	cache := newMockCache()
	verifier := &mockVerifier{purchased: true}
	svc := newTestService(cache, verifier)
	rcpt := mustReceipt(t, "raw-receipt")

	expired := doment.Reconstruct(rcpt.Key(), "sku1",
		time.Now().Add(-48*time.Hour), time.Now().Add(-24*time.Hour))
	cache.records[rcpt.Key()] = expired

	granted, err := svc.Authorize(context.Background(), rcpt, "sku1")
	if err != nil || !granted {
		t.Fatalf("expected grant, got (%v, %v)", granted, err)
	}
	if verifier.calls != 1 {
		t.Errorf("expired record must re-verify, got %d calls", verifier.calls)
	}
	if cache.putCalls != 1 {
		t.Errorf("expected fresh record written, got %d writes", cache.putCalls)
	}
}

func TestAuthorize_CacheWriteFailureStillGrants(t *testing.T) {
	cache := newMockCache()
	cache.putErr = errors.New("write refused")
	verifier := &mockVerifier{purchased: true}
	svc := newTestService(cache, verifier)

	granted, err := svc.Authorize(context.Background(), mustReceipt(t, "raw"), "sku1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !granted {
		t.Error("a verified purchase must grant even if the cache write fails")
	}
}
