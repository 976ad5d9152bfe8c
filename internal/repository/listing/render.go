package listing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/tradex/internal/db"
	"github.com/kailas-cloud/tradex/internal/domain/query"
)

// Render converts a compiled predicate into an FT.SEARCH query string.
// Groups are AND-combined in order; clause values are escaped per operator
// so no user input reaches the query raw. An empty predicate matches all.
func Render(pred query.Predicate) (string, error) {
	if pred.IsEmpty() {
		return "*", nil
	}

	parts := make([]string, 0, len(pred.Groups()))
	for _, g := range pred.Groups() {
		rendered, err := renderGroup(g)
		if err != nil {
			return "", err
		}
		parts = append(parts, rendered)
	}
	return strings.Join(parts, " "), nil
}

func renderGroup(g query.Group) (string, error) {
	clauses := make([]string, 0, len(g.Clauses()))
	for _, c := range g.Clauses() {
		rendered, err := renderClause(c)
		if err != nil {
			return "", err
		}
		clauses = append(clauses, rendered)
	}

	sep := " "
	if g.Combinator() == query.Or {
		sep = " | "
	}
	if len(clauses) == 1 {
		return clauses[0], nil
	}
	return "(" + strings.Join(clauses, sep) + ")", nil
}

func renderClause(c query.Clause) (string, error) {
	switch c.Op() {
	case query.OpEq:
		return fmt.Sprintf("@%s:{%s}", c.Field(), db.EscapeTag(c.Value())), nil

	case query.OpGTE:
		if _, err := strconv.ParseFloat(c.Value(), 64); err != nil {
			return "", fmt.Errorf("field %s: non-numeric bound %q", c.Field(), c.Value())
		}
		return fmt.Sprintf("@%s:[%s +inf]", c.Field(), c.Value()), nil

	case query.OpLTE:
		if _, err := strconv.ParseFloat(c.Value(), 64); err != nil {
			return "", fmt.Errorf("field %s: non-numeric bound %q", c.Field(), c.Value())
		}
		return fmt.Sprintf("@%s:[-inf %s]", c.Field(), c.Value()), nil

	case query.OpLike:
		// Prefix-match each word so LIKE keeps its substring flavor.
		words := strings.Fields(c.Value())
		terms := make([]string, 0, len(words))
		for _, w := range words {
			terms = append(terms, db.EscapeText(w)+"*")
		}
		if len(terms) == 0 {
			return "", fmt.Errorf("field %s: empty match value", c.Field())
		}
		return fmt.Sprintf("@%s:(%s)", c.Field(), strings.Join(terms, " ")), nil
	}
	return "", fmt.Errorf("field %s: unsupported operator %q", c.Field(), c.Op())
}
