package hits

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/tradex/internal/db"
)

// store is the consumer interface for hit counters (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	IncrBy(ctx context.Context, key string, val int64) error
}

// Store implements the popularity counter on top of DB (atomic INCRBY).
type Store struct {
	store     store
	keyPrefix string
}

// New creates a hit counter store.
func New(s store, keyPrefix string) *Store {
	return &Store{store: s, keyPrefix: keyPrefix}
}

// IncrBy atomically increments the counter for a content ref.
func (s *Store) IncrBy(ctx context.Context, contentRef string, val int64) error {
	if err := s.store.IncrBy(ctx, s.key(contentRef), val); err != nil {
		return fmt.Errorf("hits INCRBY %s: %w", contentRef, err)
	}
	return nil
}

// Get returns the current counter value. Returns 0 if the key does not exist.
func (s *Store) Get(ctx context.Context, contentRef string) (int64, error) {
	data, err := s.store.Get(ctx, s.key(contentRef))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("hits GET %s: %w", contentRef, err)
	}

	val, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("hits GET %s parse: %w", contentRef, err)
	}
	return val, nil
}

func (s *Store) key(contentRef string) string {
	return fmt.Sprintf("%shits:%s", s.keyPrefix, contentRef)
}
