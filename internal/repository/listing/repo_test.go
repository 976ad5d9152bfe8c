package listing

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/tradex/internal/db"
	"github.com/kailas-cloud/tradex/internal/domain"
	"github.com/kailas-cloud/tradex/internal/domain/query"
	domschema "github.com/kailas-cloud/tradex/internal/domain/schema"
)

func TestEnsureIndex_AddsExtraFieldsByKind(t *testing.T) {
	repo, ms := newTestRepo()

	var gotDef *db.IndexDefinition
	ms.createIndexFn = func(_ context.Context, def *db.IndexDefinition) error {
		gotDef = def
		return nil
	}

	extras := []domschema.Field{
		{Name: "make", Kind: domschema.KindSingle},
		{Name: "manufacture_year", Kind: domschema.KindRange},
	}
	if err := repo.EnsureIndex(context.Background(), extras); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotDef == nil {
		t.Fatal("expected index creation")
	}
	if gotDef.Name != "tradex:ad:idx" {
		t.Errorf("unexpected index name: %q", gotDef.Name)
	}
	if len(gotDef.Prefixes) != 1 || gotDef.Prefixes[0] != "tradex:ad:" {
		t.Errorf("unexpected prefixes: %v", gotDef.Prefixes)
	}

	byName := make(map[string]db.IndexField)
	for _, f := range gotDef.Fields {
		byName[f.Name] = f
	}
	if byName["make"].Type != db.IndexFieldText {
		t.Errorf("make should index as text, got %q", byName["make"].Type)
	}
	if byName["manufacture_year"].Type != db.IndexFieldNumeric {
		t.Errorf("manufacture_year should index as numeric, got %q", byName["manufacture_year"].Type)
	}
	if byName["posted_at"].Type != db.IndexFieldNumeric || !byName["posted_at"].Sortable {
		t.Error("posted_at must be a sortable numeric field")
	}
}

func TestEnsureIndex_SkipsWhenPresent(t *testing.T) {
	repo, ms := newTestRepo()
	ms.indexExistsFn = func(context.Context, string) (bool, error) { return true, nil }
	ms.createIndexFn = func(context.Context, *db.IndexDefinition) error {
		t.Fatal("index must not be recreated")
		return nil
	}

	if err := repo.EnsureIndex(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, _ := newTestRepo()

	_, err := repo.Get(context.Background(), 42)
	if !errors.Is(err, domain.ErrListingNotFound) {
		t.Errorf("expected ErrListingNotFound, got %v", err)
	}
}

func TestPutGet_RoundTripWithExtras(t *testing.T) {
	repo, ms := newTestRepo()

	docs := make(map[string][]byte)
	ms.jsonSetFn = func(_ context.Context, key, _ string, data []byte) error {
		docs[key] = data
		return nil
	}
	ms.jsonGetFn = func(_ context.Context, key string, _ ...string) ([]byte, error) {
		data, ok := docs[key]
		if !ok {
			return nil, db.ErrKeyNotFound
		}
		return data, nil
	}

	ad := domain.Ad{
		ID:          42,
		Title:       "KTM 450 EXC-F",
		Details:     "One owner, serviced",
		CategoryID:  12,
		CategoryPID: 10,
		Price:       1250000,
		ListingType: domain.ListingDealer,
		Postcode:    "3000",
		State:       "Victoria",
		Country:     "Australia",
		Extra:       map[string]string{"make": "KTM", "condition": "Used"},
		PostedAt:    1755000000,
	}
	if err := repo.Put(context.Background(), ad); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, ok := docs["tradex:ad:42"]; !ok {
		t.Fatalf("expected doc under tradex:ad:42, have %v", keysOf(docs))
	}

	got, err := repo.Get(context.Background(), 42)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != ad.Title || got.Price != ad.Price || got.CategoryID != 12 {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.Extra["make"] != "KTM" || got.Extra["condition"] != "Used" {
		t.Errorf("extras lost in round trip: %v", got.Extra)
	}
}

func TestPut_ExtraCollidingWithFixedKey(t *testing.T) {
	repo, _ := newTestRepo()

	ad := domain.Ad{ID: 1, Extra: map[string]string{"price": "cheap"}}
	if err := repo.Put(context.Background(), ad); err == nil {
		t.Error("expected error for extra field shadowing a fixed key")
	}
}

func TestSearch_RendersAndSortsNewestFirst(t *testing.T) {
	repo, ms := newTestRepo()

	var gotQuery *db.Query
	ms.searchListFn = func(_ context.Context, q *db.Query) (*db.SearchResult, error) {
		gotQuery = q
		return &db.SearchResult{
			Total: 1,
			Entries: []db.SearchEntry{
				{Key: "tradex:ad:42", Fields: map[string]string{
					"$": `[{"id":42,"title":"KTM 450","category_id":"12","category_parent_id":"10","price":1250000,"listing_type":"Dealer","posted_at":1755000000}]`,
				}},
			},
		}, nil
	}

	c, _ := query.NewClause("listing_type", query.OpEq, "Dealer")
	g, _ := query.NewGroup(query.And, []query.Clause{c})
	page, err := repo.Search(context.Background(), query.New([]query.Group{g}), 16, 16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotQuery.IndexName != "tradex:ad:idx" {
		t.Errorf("unexpected index: %q", gotQuery.IndexName)
	}
	if gotQuery.Query != "@listing_type:{Dealer}" {
		t.Errorf("unexpected query: %q", gotQuery.Query)
	}
	if gotQuery.SortBy != "posted_at" || !gotQuery.SortDesc {
		t.Error("expected newest-first sort on posted_at")
	}
	if gotQuery.Offset != 16 || gotQuery.Limit != 16 {
		t.Errorf("unexpected paging: %d %d", gotQuery.Offset, gotQuery.Limit)
	}

	if page.Total != 1 || len(page.Ads) != 1 {
		t.Fatalf("unexpected page: total=%d ads=%d", page.Total, len(page.Ads))
	}
	if page.Ads[0].ID != 42 || page.Ads[0].ListingType != domain.ListingDealer {
		t.Errorf("unexpected ad: %+v", page.Ads[0])
	}
}

func TestList_FiltersByListingType(t *testing.T) {
	repo, ms := newTestRepo()

	var gotQuery *db.Query
	ms.searchListFn = func(_ context.Context, q *db.Query) (*db.SearchResult, error) {
		gotQuery = q
		return &db.SearchResult{}, nil
	}

	if _, err := repo.List(context.Background(), domain.ListingPrivate, 0, 16); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery.Query != "@listing_type:{Private}" {
		t.Errorf("unexpected query: %q", gotQuery.Query)
	}

	if _, err := repo.List(context.Background(), "", 0, 16); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery.Query != "*" {
		t.Errorf("expected match-all for no listing type, got %q", gotQuery.Query)
	}
}

func keysOf(m map[string][]byte) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
