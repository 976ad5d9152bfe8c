package entitlement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/tradex/internal/db"
	doment "github.com/kailas-cloud/tradex/internal/domain/entitlement"
)

// store is the consumer interface for entitlement records (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetNXWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
}

// Store implements the entitlement cache on top of DB (SET NX EX + GET).
// Records are keyed by the hashed receipt key; raw receipts never touch
// storage.
type Store struct {
	store     store
	keyPrefix string
}

// New creates an entitlement store.
func New(s store, keyPrefix string) *Store {
	return &Store{store: s, keyPrefix: keyPrefix}
}

// Get retrieves the record for a receipt key. The second return is false on
// a cache miss.
func (s *Store) Get(ctx context.Context, receiptKey string) (doment.Record, bool, error) {
	data, err := s.store.Get(ctx, s.key(receiptKey))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return doment.Record{}, false, nil
		}
		return doment.Record{}, false, fmt.Errorf("entitlement GET %s: %w", receiptKey, err)
	}

	var dto recordDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return doment.Record{}, false, fmt.Errorf("entitlement GET %s parse: %w", receiptKey, err)
	}

	return dto.toDomain(), true, nil
}

// Put stores a record with the given TTL. SET NX makes an unexpired record
// immutable: when two verifications of the same receipt race, the first
// record written stays and the loser's Put is a no-op.
func (s *Store) Put(ctx context.Context, rec doment.Record, ttl time.Duration) error {
	data, err := json.Marshal(fromDomain(rec))
	if err != nil {
		return fmt.Errorf("entitlement marshal %s: %w", rec.ReceiptKey(), err)
	}

	if _, err := s.store.SetNXWithTTL(ctx, s.key(rec.ReceiptKey()), data, ttl); err != nil {
		return fmt.Errorf("entitlement SET %s: %w", rec.ReceiptKey(), err)
	}
	return nil
}

func (s *Store) key(receiptKey string) string {
	return fmt.Sprintf("%sentitlement:%s", s.keyPrefix, receiptKey)
}

// recordDTO is the storage shape of an entitlement record.
type recordDTO struct {
	ReceiptKey string `json:"receipt_key"`
	ContentRef string `json:"content_ref"`
	VerifiedAt int64  `json:"verified_at"` // unix seconds
	ExpiresAt  int64  `json:"expires_at"`
}

func fromDomain(rec doment.Record) recordDTO {
	return recordDTO{
		ReceiptKey: rec.ReceiptKey(),
		ContentRef: rec.ContentRef(),
		VerifiedAt: rec.VerifiedAt().Unix(),
		ExpiresAt:  rec.ExpiresAt().Unix(),
	}
}

func (d recordDTO) toDomain() doment.Record {
	return doment.Reconstruct(
		d.ReceiptKey, d.ContentRef,
		time.Unix(d.VerifiedAt, 0).UTC(), time.Unix(d.ExpiresAt, 0).UTC(),
	)
}
