package listing

import (
	"strings"
	"testing"

	"github.com/kailas-cloud/tradex/internal/domain/query"
)

func mustClause(t *testing.T, field string, op query.Op, value string) query.Clause {
	t.Helper()
	c, err := query.NewClause(field, op, value)
	if err != nil {
		t.Fatalf("build clause: %v", err)
	}
	return c
}

func mustGroup(t *testing.T, comb query.Combinator, clauses ...query.Clause) query.Group {
	t.Helper()
	g, err := query.NewGroup(comb, clauses)
	if err != nil {
		t.Fatalf("build group: %v", err)
	}
	return g
}

func TestRender_EmptyPredicateMatchesAll(t *testing.T) {
	got, err := Render(query.New(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "*" {
		t.Errorf("expected *, got %q", got)
	}
}

func TestRender_TagClause(t *testing.T) {
	p := query.New([]query.Group{
		mustGroup(t, query.And, mustClause(t, "listing_type", query.OpEq, "Dealer")),
	})
	got, err := Render(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "@listing_type:{Dealer}" {
		t.Errorf("unexpected query: %q", got)
	}
}

func TestRender_NumericBounds(t *testing.T) {
	p := query.New([]query.Group{
		mustGroup(t, query.And, mustClause(t, "price", query.OpGTE, "10050")),
		mustGroup(t, query.And, mustClause(t, "price", query.OpLTE, "900000")),
	})
	got, err := Render(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "@price:[10050 +inf] @price:[-inf 900000]" {
		t.Errorf("unexpected query: %q", got)
	}
}

func TestRender_NonNumericBoundRejected(t *testing.T) {
	p := query.New([]query.Group{
		mustGroup(t, query.And, mustClause(t, "price", query.OpGTE, "10 +inf] @evil:[0")),
	})
	if _, err := Render(p); err == nil {
		t.Error("expected error for non-numeric bound")
	}
}

func TestRender_LikePrefixMatchesWords(t *testing.T) {
	p := query.New([]query.Group{
		mustGroup(t, query.And, mustClause(t, "title", query.OpLike, "ktm 450")),
	})
	got, err := Render(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "@title:(ktm* 450*)" {
		t.Errorf("unexpected query: %q", got)
	}
}

func TestRender_OrGroup(t *testing.T) {
	p := query.New([]query.Group{
		mustGroup(t, query.Or,
			mustClause(t, "category_id", query.OpEq, "12"),
			mustClause(t, "category_parent_id", query.OpEq, "12"),
		),
	})
	got, err := Render(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "(@category_id:{12} | @category_parent_id:{12})" {
		t.Errorf("unexpected query: %q", got)
	}
}

func TestRender_GroupsAndCombined(t *testing.T) {
	p := query.New([]query.Group{
		mustGroup(t, query.Or,
			mustClause(t, "category_id", query.OpEq, "12"),
			mustClause(t, "category_parent_id", query.OpEq, "12"),
		),
		mustGroup(t, query.And, mustClause(t, "state", query.OpEq, "Victoria")),
	})
	got, err := Render(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "(@category_id:{12} | @category_parent_id:{12}) @state:{Victoria}" {
		t.Errorf("unexpected query: %q", got)
	}
}

func TestRender_EscapesHostileValues(t *testing.T) {
	hostile := `ktm)|@price:[0 +inf]`
	p := query.New([]query.Group{
		mustGroup(t, query.And, mustClause(t, "title", query.OpLike, hostile)),
	})
	got, err := Render(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(got, "@price") && !strings.Contains(got, `\@price`) {
		t.Errorf("hostile field reference must be escaped, got %q", got)
	}
	if strings.Contains(got, ")|") {
		t.Errorf("hostile operators must be escaped, got %q", got)
	}
}

func TestRender_EscapesTagSyntax(t *testing.T) {
	p := query.New([]query.Group{
		mustGroup(t, query.And, mustClause(t, "state", query.OpEq, "Vic} @evil:{x")),
	})
	got, err := Render(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(got, "} @evil") {
		t.Errorf("tag brace must be escaped, got %q", got)
	}
}
