package search

import (
	"context"

	"github.com/kailas-cloud/tradex/internal/domain"
	"github.com/kailas-cloud/tradex/internal/domain/query"
	domschema "github.com/kailas-cloud/tradex/internal/domain/schema"
)

// SchemaProvider fetches the current search schema. It is external,
// operator-managed configuration and must be re-fetched per request.
type SchemaProvider interface {
	Fetch(ctx context.Context) (domschema.Schema, error)
}

// Repository executes compiled predicates against the listing store.
type Repository interface {
	Search(ctx context.Context, pred query.Predicate, offset, limit int) (domain.AdPage, error)
	List(ctx context.Context, listingType domain.ListingType, offset, limit int) (domain.AdPage, error)
	Get(ctx context.Context, id int64) (domain.Ad, error)
}

// HitRecorder records a view of a single listing.
type HitRecorder interface {
	Hit(ctx context.Context, contentRef string) error
}
