package query

import "testing"

func TestNewClause_Validation(t *testing.T) {
	if _, err := NewClause("", OpEq, "v"); err == nil {
		t.Error("expected error for empty field")
	}
	if _, err := NewClause("f", "between", "v"); err == nil {
		t.Error("expected error for unknown operator")
	}
	if _, err := NewClause("f", OpEq, ""); err == nil {
		t.Error("expected error for empty value")
	}
}

func TestNewClause_CarriesValueVerbatim(t *testing.T) {
	c, err := NewClause("make", OpLike, `KTM "450* | @evil`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Value() != `KTM "450* | @evil` {
		t.Errorf("clause must carry the raw value untouched, got %q", c.Value())
	}
}

func TestNewGroup_Validation(t *testing.T) {
	c, _ := NewClause("f", OpEq, "v")

	if _, err := NewGroup("xor", []Clause{c}); err == nil {
		t.Error("expected error for unknown combinator")
	}
	if _, err := NewGroup(And, nil); err == nil {
		t.Error("expected error for empty group")
	}
}

func TestPredicate_PreservesGroupOrder(t *testing.T) {
	a, _ := NewClause("category_id", OpEq, "11")
	b, _ := NewClause("price", OpGTE, "100000")
	g1, _ := NewGroup(Or, []Clause{a})
	g2, _ := NewGroup(And, []Clause{b})

	p := New([]Group{g1, g2})
	if p.IsEmpty() {
		t.Fatal("predicate with groups must not be empty")
	}
	groups := p.Groups()
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Clauses()[0].Field() != "category_id" {
		t.Error("group order must be preserved")
	}
	if groups[1].Clauses()[0].Op() != OpGTE {
		t.Error("clause operators must round-trip")
	}
}

func TestPredicate_Empty(t *testing.T) {
	if !New(nil).IsEmpty() {
		t.Error("predicate without groups must be empty")
	}
}
