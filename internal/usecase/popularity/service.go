// Package popularity implements sampled hit counting and popular ranking.
package popularity

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/kailas-cloud/tradex/internal/domain"
	"github.com/kailas-cloud/tradex/internal/metrics"
)

// Counter is the durable hit counter store.
type Counter interface {
	IncrBy(ctx context.Context, contentRef string, val int64) error
}

// PostRepository serves the popular ranking query.
type PostRepository interface {
	Popular(ctx context.Context, since int64, offset, limit int) (domain.PostPage, error)
}

// popularWindow bounds the ranking to recent posts.
const popularWindow = 30 * 24 * time.Hour

// Service trades counting precision for write volume: only one in every
// sampleRate views reaches storage, incrementing by sampleRate so the
// expected value is unchanged. The increment itself is atomic, so
// concurrent sampled writers never lose updates.
type Service struct {
	counter    Counter
	posts      PostRepository
	sampleRate int
	intn       func(int) int
	now        func() time.Time
}

// New creates a popularity service. sampleRate N means an expected 1/N of
// calls write; N <= 1 disables sampling and counts every hit.
func New(counter Counter, posts PostRepository, sampleRate int) *Service {
	if sampleRate < 1 {
		sampleRate = 1
	}
	return &Service{
		counter:    counter,
		posts:      posts,
		sampleRate: sampleRate,
		intn:       rand.Intn,
		now:        time.Now,
	}
}

// Hit records a content view with 1/N sampling.
func (s *Service) Hit(ctx context.Context, contentRef string) error {
	if s.sampleRate > 1 && s.intn(s.sampleRate) != 0 {
		metrics.HitSamplesTotal.WithLabelValues("skipped").Inc()
		return nil
	}

	if err := s.counter.IncrBy(ctx, contentRef, int64(s.sampleRate)); err != nil {
		return fmt.Errorf("record hit %s: %w", contentRef, err)
	}
	metrics.HitSamplesTotal.WithLabelValues("sampled").Inc()
	return nil
}

// Top returns recently published posts ranked by hits.
func (s *Service) Top(ctx context.Context, offset, limit int) (domain.PostPage, error) {
	since := s.now().Add(-popularWindow).Unix()
	page, err := s.posts.Popular(ctx, since, offset, limit)
	if err != nil {
		return domain.PostPage{}, fmt.Errorf("popular posts: %w", err)
	}

	// List projections never carry full content.
	for i := range page.Posts {
		page.Posts[i].Content = ""
	}
	return page, nil
}
