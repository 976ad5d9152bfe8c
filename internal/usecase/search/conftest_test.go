package search

import (
	"context"
	"testing"

	"github.com/kailas-cloud/tradex/internal/domain"
	"github.com/kailas-cloud/tradex/internal/domain/query"
	domschema "github.com/kailas-cloud/tradex/internal/domain/schema"
)

// testSchema mirrors a typical operator configuration: categories, extra
// fields of every input kind, and two regions.
func testSchema(t *testing.T) domschema.Schema {
	t.Helper()
	s, err := domschema.New(
		[]domschema.Category{
			{ID: 11, Name: "Road Bikes"},
			{ID: 12, Name: "Dirt Bikes"},
		},
		[]domschema.Field{
			{Name: "make", Kind: domschema.KindSingle, Searchable: true},
			{Name: "model", Kind: domschema.KindInputBox, Searchable: true},
			{Name: "manufacture_year", Kind: domschema.KindRange},
			{Name: "condition", Kind: domschema.KindMulti, Options: []string{"New", "Used"}},
			{Name: "bike_type", Kind: domschema.KindSingle, Options: []string{"Road", "Dirt"}},
		},
		[]domschema.Region{
			{Name: "Australia", States: []string{"New South Wales", "Victoria"}},
			{Name: "USA", States: []string{"California", "Texas"}},
		},
	)
	if err != nil {
		t.Fatalf("build schema: %v", err)
	}
	return s
}

// --- Mocks ---

type mockSchemaProvider struct {
	schema domschema.Schema
	err    error
}

func (m *mockSchemaProvider) Fetch(_ context.Context) (domschema.Schema, error) {
	return m.schema, m.err
}

type mockRepository struct {
	searchFn func(ctx context.Context, pred query.Predicate, offset, limit int) (domain.AdPage, error)
	listFn   func(ctx context.Context, listingType domain.ListingType, offset, limit int) (domain.AdPage, error)
	getFn    func(ctx context.Context, id int64) (domain.Ad, error)
}

func (m *mockRepository) Search(ctx context.Context, pred query.Predicate, offset, limit int) (domain.AdPage, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, pred, offset, limit)
	}
	return domain.AdPage{}, nil
}

func (m *mockRepository) List(ctx context.Context, listingType domain.ListingType, offset, limit int) (domain.AdPage, error) {
	if m.listFn != nil {
		return m.listFn(ctx, listingType, offset, limit)
	}
	return domain.AdPage{}, nil
}

func (m *mockRepository) Get(ctx context.Context, id int64) (domain.Ad, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return domain.Ad{ID: id}, nil
}

type mockHitRecorder struct {
	refs []string
	err  error
}

func (m *mockHitRecorder) Hit(_ context.Context, contentRef string) error {
	m.refs = append(m.refs, contentRef)
	return m.err
}
