package premium

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/tradex/internal/db"
	"github.com/kailas-cloud/tradex/internal/domain"
)

// store is the consumer interface for premium posts (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	JSONNumIncrBy(ctx context.Context, key, path string, val int64) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchList(ctx context.Context, q *db.Query) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// Repo implements the premium content store: JSON post documents with an FT
// index over category and the hits counter for popular ranking.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a premium content repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

// EnsureIndex creates the post index if absent.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, r.indexName())
	if err != nil {
		return fmt.Errorf("check post index: %w", err)
	}
	if exists {
		return nil
	}

	def := &db.IndexDefinition{
		Name:     r.indexName(),
		Prefixes: []string{r.docPrefix()},
		Fields: []db.IndexField{
			{Name: "title", Type: db.IndexFieldText},
			{Name: "category_id", Type: db.IndexFieldTag},
			{Name: "free", Type: db.IndexFieldTag},
			{Name: "hits", Type: db.IndexFieldNumeric, Sortable: true},
			{Name: "published_at", Type: db.IndexFieldNumeric, Sortable: true},
		},
	}
	if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create post index: %w", err)
	}
	return nil
}

// Put stores a post document.
func (r *Repo) Put(ctx context.Context, post domain.Post) error {
	data, err := marshalPost(post)
	if err != nil {
		return fmt.Errorf("marshal post %d: %w", post.ID, err)
	}
	if err := r.store.JSONSet(ctx, r.docKey(post.ID), "$", data); err != nil {
		return fmt.Errorf("put post %d: %w", post.ID, err)
	}
	return nil
}

// Get retrieves a single post by id, content included.
func (r *Repo) Get(ctx context.Context, id int64) (domain.Post, error) {
	data, err := r.store.JSONGet(ctx, r.docKey(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.Post{}, domain.ErrPostNotFound
		}
		return domain.Post{}, fmt.Errorf("get post %d: %w", id, err)
	}
	return unmarshalPost(data)
}

// ListByCategory returns posts in a category, newest first.
func (r *Repo) ListByCategory(ctx context.Context, categoryID, offset, limit int) (domain.PostPage, error) {
	q := fmt.Sprintf("@category_id:{%s}", db.EscapeTag(strconv.Itoa(categoryID)))
	return r.run(ctx, q, "published_at", offset, limit)
}

// Popular returns posts published since the given unix time with at least
// one recorded hit, most hit first.
func (r *Repo) Popular(ctx context.Context, since int64, offset, limit int) (domain.PostPage, error) {
	q := fmt.Sprintf("@hits:[1 +inf] @published_at:[%d +inf]", since)
	return r.run(ctx, q, "hits", offset, limit)
}

// IncrBy atomically bumps a post's hit count inside its document, keeping
// the popular ranking index current. contentRef is the post id.
func (r *Repo) IncrBy(ctx context.Context, contentRef string, val int64) error {
	id, err := strconv.ParseInt(contentRef, 10, 64)
	if err != nil {
		return fmt.Errorf("hits ref %q: %w", contentRef, err)
	}
	if err := r.store.JSONNumIncrBy(ctx, r.docKey(id), "$.hits", val); err != nil {
		return fmt.Errorf("incr hits %d: %w", id, err)
	}
	return nil
}

// Categories returns the premium category list with live post counts.
func (r *Repo) Categories(ctx context.Context) ([]domain.PostCategory, error) {
	data, err := r.store.JSONGet(ctx, r.categoriesKey())
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return []domain.PostCategory{}, nil
		}
		return nil, fmt.Errorf("get post categories: %w", err)
	}

	cats, err := unmarshalCategories(data)
	if err != nil {
		return nil, fmt.Errorf("parse post categories: %w", err)
	}

	for i := range cats {
		q := fmt.Sprintf("@category_id:{%s}", db.EscapeTag(strconv.Itoa(cats[i].ID)))
		count, err := r.store.SearchCount(ctx, r.indexName(), q)
		if err != nil {
			return nil, fmt.Errorf("count category %d: %w", cats[i].ID, err)
		}
		cats[i].Count = count
	}
	return cats, nil
}

// PutCategories replaces the premium category list.
func (r *Repo) PutCategories(ctx context.Context, cats []domain.PostCategory) error {
	data, err := marshalCategories(cats)
	if err != nil {
		return fmt.Errorf("marshal post categories: %w", err)
	}
	if err := r.store.JSONSet(ctx, r.categoriesKey(), "$", data); err != nil {
		return fmt.Errorf("put post categories: %w", err)
	}
	return nil
}

func (r *Repo) run(ctx context.Context, rendered, sortBy string, offset, limit int) (domain.PostPage, error) {
	sr, err := r.store.SearchList(ctx, &db.Query{
		IndexName:    r.indexName(),
		Query:        rendered,
		Offset:       offset,
		Limit:        limit,
		SortBy:       sortBy,
		SortDesc:     true,
		ReturnFields: []string{"$"},
	})
	if err != nil {
		return domain.PostPage{}, fmt.Errorf("search posts: %w", err)
	}

	posts := make([]domain.Post, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		doc, ok := entry.Fields["$"]
		if !ok {
			continue
		}
		post, err := unmarshalPost([]byte(doc))
		if err != nil {
			return domain.PostPage{}, fmt.Errorf("parse post %s: %w", entry.Key, err)
		}
		posts = append(posts, post)
	}

	return domain.PostPage{Posts: posts, Total: sr.Total}, nil
}

// Key patterns: tradex:post:{id}, tradex:post:idx, tradex:postcats.
// The categories doc lives outside the post: prefix so the index never
// picks it up.

func (r *Repo) docKey(id int64) string {
	return fmt.Sprintf("%spost:%d", r.keyPrefix, id)
}

func (r *Repo) docPrefix() string {
	return r.keyPrefix + "post:"
}

func (r *Repo) indexName() string {
	return r.keyPrefix + "post:idx"
}

func (r *Repo) categoriesKey() string {
	return r.keyPrefix + "postcats"
}
