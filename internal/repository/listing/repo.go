package listing

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/tradex/internal/db"
	"github.com/kailas-cloud/tradex/internal/domain"
	"github.com/kailas-cloud/tradex/internal/domain/query"
	domschema "github.com/kailas-cloud/tradex/internal/domain/schema"
)

// store is the consumer interface for listings (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	Del(ctx context.Context, key string) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchList(ctx context.Context, q *db.Query) (*db.SearchResult, error)
}

// Repo implements the classified-ads content store over JSON documents and
// an FT.SEARCH index. Predicates arrive as structured data and are rendered
// to an escaped query string here, at the storage boundary.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a listing repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

// EnsureIndex creates the ad index if absent. Extra fields from the search
// schema are indexed per their input kind (range fields numeric, the rest
// text).
func (r *Repo) EnsureIndex(ctx context.Context, extraFields []domschema.Field) error {
	exists, err := r.store.IndexExists(ctx, r.indexName())
	if err != nil {
		return fmt.Errorf("check ad index: %w", err)
	}
	if exists {
		return nil
	}

	def := &db.IndexDefinition{
		Name:     r.indexName(),
		Prefixes: []string{r.docPrefix()},
		Fields: []db.IndexField{
			{Name: "title", Type: db.IndexFieldText},
			{Name: "details", Type: db.IndexFieldText},
			{Name: "category_id", Type: db.IndexFieldTag},
			{Name: "category_parent_id", Type: db.IndexFieldTag},
			{Name: "price", Type: db.IndexFieldNumeric},
			{Name: "listing_type", Type: db.IndexFieldTag},
			{Name: "postcode", Type: db.IndexFieldTag},
			{Name: "state", Type: db.IndexFieldTag},
			{Name: "country", Type: db.IndexFieldTag},
			{Name: "posted_at", Type: db.IndexFieldNumeric, Sortable: true},
		},
	}
	for _, f := range extraFields {
		ft := db.IndexFieldText
		if f.Kind == domschema.KindRange {
			ft = db.IndexFieldNumeric
		}
		def.Fields = append(def.Fields, db.IndexField{Name: f.Name, Type: ft})
	}

	if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create ad index: %w", err)
	}
	return nil
}

// Put stores an ad document.
func (r *Repo) Put(ctx context.Context, ad domain.Ad) error {
	data, err := marshalAd(ad)
	if err != nil {
		return fmt.Errorf("marshal ad %d: %w", ad.ID, err)
	}
	if err := r.store.JSONSet(ctx, r.docKey(ad.ID), "$", data); err != nil {
		return fmt.Errorf("put ad %d: %w", ad.ID, err)
	}
	return nil
}

// Get retrieves a single ad by id.
func (r *Repo) Get(ctx context.Context, id int64) (domain.Ad, error) {
	data, err := r.store.JSONGet(ctx, r.docKey(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.Ad{}, domain.ErrListingNotFound
		}
		return domain.Ad{}, fmt.Errorf("get ad %d: %w", id, err)
	}
	return unmarshalAd(data)
}

// Delete removes an ad document.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	if err := r.store.Del(ctx, r.docKey(id)); err != nil {
		return fmt.Errorf("delete ad %d: %w", id, err)
	}
	return nil
}

// Search executes a compiled predicate, newest ads first.
func (r *Repo) Search(ctx context.Context, pred query.Predicate, offset, limit int) (domain.AdPage, error) {
	rendered, err := Render(pred)
	if err != nil {
		return domain.AdPage{}, fmt.Errorf("render predicate: %w", err)
	}
	return r.run(ctx, rendered, offset, limit)
}

// List returns ads, optionally restricted to one listing type, newest first.
func (r *Repo) List(ctx context.Context, listingType domain.ListingType, offset, limit int) (domain.AdPage, error) {
	q := "*"
	if listingType != "" {
		q = fmt.Sprintf("@listing_type:{%s}", db.EscapeTag(string(listingType)))
	}
	return r.run(ctx, q, offset, limit)
}

func (r *Repo) run(ctx context.Context, rendered string, offset, limit int) (domain.AdPage, error) {
	sr, err := r.store.SearchList(ctx, &db.Query{
		IndexName:    r.indexName(),
		Query:        rendered,
		Offset:       offset,
		Limit:        limit,
		SortBy:       "posted_at",
		SortDesc:     true,
		ReturnFields: []string{"$"},
	})
	if err != nil {
		return domain.AdPage{}, fmt.Errorf("search ads: %w", err)
	}

	ads := make([]domain.Ad, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		doc, ok := entry.Fields["$"]
		if !ok {
			continue
		}
		ad, err := unmarshalAd([]byte(doc))
		if err != nil {
			return domain.AdPage{}, fmt.Errorf("parse ad %s: %w", entry.Key, err)
		}
		ads = append(ads, ad)
	}

	return domain.AdPage{Ads: ads, Total: sr.Total}, nil
}

// Key patterns: tradex:ad:{id}, tradex:ad:idx

func (r *Repo) docKey(id int64) string {
	return fmt.Sprintf("%sad:%d", r.keyPrefix, id)
}

func (r *Repo) docPrefix() string {
	return r.keyPrefix + "ad:"
}

func (r *Repo) indexName() string {
	return r.keyPrefix + "ad:idx"
}
