package entitlement

import (
	"testing"
	"time"
)

func TestNew_Validation(t *testing.T) {
	if _, err := New("", "sku1", time.Hour); err == nil {
		t.Error("expected error for empty receipt key")
	}
	if _, err := New("key", "", time.Hour); err == nil {
		t.Error("expected error for empty content ref")
	}
	if _, err := New("key", "sku1", 0); err == nil {
		t.Error("expected error for non-positive ttl")
	}
}

func TestNew_SetsExpiry(t *testing.T) {
	rec, err := New("key", "sku1", 24*time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.ReceiptKey() != "key" || rec.ContentRef() != "sku1" {
		t.Errorf("unexpected record fields: %q %q", rec.ReceiptKey(), rec.ContentRef())
	}
	got := rec.ExpiresAt().Sub(rec.VerifiedAt())
	if got != 24*time.Hour {
		t.Errorf("expected 24h between verification and expiry, got %v", got)
	}
}

func TestExpired(t *testing.T) {
	verifiedAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	expiresAt := verifiedAt.Add(time.Hour)
	rec := Reconstruct("key", "sku1", verifiedAt, expiresAt)

	if rec.Expired(verifiedAt) {
		t.Error("record should not be expired at verification time")
	}
	if rec.Expired(expiresAt.Add(-time.Second)) {
		t.Error("record should not be expired just before expiry")
	}
	if !rec.Expired(expiresAt) {
		t.Error("record should be expired exactly at expiry")
	}
	if !rec.Expired(expiresAt.Add(time.Second)) {
		t.Error("record should be expired after expiry")
	}
}
