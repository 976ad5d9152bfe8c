package content

import (
	"context"

	"github.com/kailas-cloud/tradex/internal/domain"
	"github.com/kailas-cloud/tradex/internal/domain/receipt"
)

// Repository is the premium post store.
type Repository interface {
	Get(ctx context.Context, id int64) (domain.Post, error)
	ListByCategory(ctx context.Context, categoryID, offset, limit int) (domain.PostPage, error)
	Categories(ctx context.Context) ([]domain.PostCategory, error)
}

// Authorizer decides whether a receipt unlocks a content ref.
type Authorizer interface {
	Authorize(ctx context.Context, rcpt receipt.Receipt, contentRef string) (bool, error)
}

// HitRecorder records a view of a single post.
type HitRecorder interface {
	Hit(ctx context.Context, contentRef string) error
}
