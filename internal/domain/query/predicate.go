// Package query models compiled search predicates as structured data. Values
// are carried verbatim; escaping happens at the store boundary when a
// predicate is rendered to the backend's query syntax.
package query

import "fmt"

// Op is a clause comparison operator.
type Op string

const (
	// OpEq matches a field exactly.
	OpEq Op = "eq"
	// OpGTE is a numeric lower bound (inclusive).
	OpGTE Op = "gte"
	// OpLTE is a numeric upper bound (inclusive).
	OpLTE Op = "lte"
	// OpLike is a substring/word match.
	OpLike Op = "like"
)

// IsValid checks if the operator is supported.
func (o Op) IsValid() bool {
	switch o {
	case OpEq, OpGTE, OpLTE, OpLike:
		return true
	}
	return false
}

// Combinator joins the clauses within a group.
type Combinator string

const (
	// And requires every clause in the group to match.
	And Combinator = "and"
	// Or requires at least one clause in the group to match.
	Or Combinator = "or"
)

// Clause is a single condition: field, operator, raw value.
type Clause struct {
	field string
	op    Op
	value string
}

// NewClause validates and creates a Clause.
func NewClause(field string, op Op, value string) (Clause, error) {
	if field == "" {
		return Clause{}, fmt.Errorf("clause field is required")
	}
	if !op.IsValid() {
		return Clause{}, fmt.Errorf("invalid operator %q for field %s", op, field)
	}
	if value == "" {
		return Clause{}, fmt.Errorf("clause value is required for field %s", field)
	}
	return Clause{field: field, op: op, value: value}, nil
}

// Field returns the clause field name.
func (c Clause) Field() string { return c.field }

// Op returns the clause operator.
func (c Clause) Op() Op { return c.op }

// Value returns the raw, unescaped clause value.
func (c Clause) Value() string { return c.value }

// Group is an ordered set of clauses joined by one combinator.
type Group struct {
	combinator Combinator
	clauses    []Clause
}

// NewGroup validates and creates a Group.
func NewGroup(combinator Combinator, clauses []Clause) (Group, error) {
	if combinator != And && combinator != Or {
		return Group{}, fmt.Errorf("invalid combinator %q", combinator)
	}
	if len(clauses) == 0 {
		return Group{}, fmt.Errorf("group requires at least one clause")
	}
	return Group{combinator: combinator, clauses: clauses}, nil
}

// Combinator returns the group combinator.
func (g Group) Combinator() Combinator { return g.combinator }

// Clauses returns the group clauses in order.
func (g Group) Clauses() []Clause { return g.clauses }

// Predicate is an ordered sequence of groups, AND-combined, ready to be
// rendered by a content store (immutable once built).
type Predicate struct {
	groups []Group
}

// New creates a Predicate from ordered groups.
func New(groups []Group) Predicate {
	return Predicate{groups: groups}
}

// Groups returns the predicate groups in compilation order.
func (p Predicate) Groups() []Group { return p.groups }

// IsEmpty reports whether the predicate has no conditions.
func (p Predicate) IsEmpty() bool { return len(p.groups) == 0 }
