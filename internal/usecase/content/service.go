// Package content serves the premium catalogue: categories, post lists and
// receipt-gated single posts.
package content

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/kailas-cloud/tradex/internal/domain"
	"github.com/kailas-cloud/tradex/internal/domain/receipt"
	"github.com/kailas-cloud/tradex/internal/logger"
)

// Service handles premium content access.
type Service struct {
	repo Repository
	auth Authorizer
	hits HitRecorder
}

// New creates a content service.
func New(repo Repository, auth Authorizer, hits HitRecorder) *Service {
	return &Service{repo: repo, auth: auth, hits: hits}
}

// Categories returns the premium category list.
func (s *Service) Categories(ctx context.Context) ([]domain.PostCategory, error) {
	cats, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("premium categories: %w", err)
	}
	return cats, nil
}

// PostsByCategory lists posts in a category. Content is withheld; lists
// must not give the premium material away.
func (s *Service) PostsByCategory(ctx context.Context, categoryID, offset, limit int) (domain.PostPage, error) {
	page, err := s.repo.ListByCategory(ctx, categoryID, offset, limit)
	if err != nil {
		return domain.PostPage{}, fmt.Errorf("list posts: %w", err)
	}
	for i := range page.Posts {
		page.Posts[i].Content = ""
	}
	return page, nil
}

// GetPost returns a single post with content. Free posts need no receipt.
// Locked posts require a receipt whose verified purchase covers the post's
// SKU; a missing receipt or a negative verification is ErrPaymentRequired,
// while mismatch and transient verifier errors pass through unchanged.
func (s *Service) GetPost(ctx context.Context, id int64, rawReceipt string) (domain.Post, error) {
	post, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Post{}, err
	}

	if !post.Free {
		if rawReceipt == "" {
			return domain.Post{}, domain.ErrPaymentRequired
		}
		rcpt, err := receipt.New(rawReceipt)
		if err != nil {
			return domain.Post{}, err
		}
		granted, err := s.auth.Authorize(ctx, rcpt, post.SKU)
		if err != nil {
			return domain.Post{}, err
		}
		if !granted {
			return domain.Post{}, domain.ErrPaymentRequired
		}
	}

	// A counter failure never withholds content the caller is entitled to.
	if err := s.hits.Hit(ctx, strconv.FormatInt(post.ID, 10)); err != nil {
		logger.FromContext(ctx).Warn("record post hit failed",
			zap.Int64("post_id", post.ID), zap.Error(err))
	}
	return post, nil
}
