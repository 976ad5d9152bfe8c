package search

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kailas-cloud/tradex/internal/domain"
	"github.com/kailas-cloud/tradex/internal/domain/query"
	domschema "github.com/kailas-cloud/tradex/internal/domain/schema"
)

// Compile turns a validated filter into an ordered predicate. Must be
// called only after Validate succeeds. Groups are emitted in fixed
// precedence: category, price bounds, extra fields in schema order, the
// free-text fallback group, listing type, region. Values stay raw; the
// store escapes them when rendering.
func Compile(f domain.Filter, s domschema.Schema) (query.Predicate, error) {
	var groups []query.Group

	keyword := strings.TrimSpace(f.Keyword)

	if f.Category != "" {
		g, err := compileCategory(f.Category, s)
		if err != nil {
			return query.Predicate{}, err
		}
		groups = append(groups, g)
	}

	// Price bounds are independent conditions, either or both may appear.
	if f.MinPrice != "" {
		g, err := priceBound("min_price", f.MinPrice, query.OpGTE)
		if err != nil {
			return query.Predicate{}, err
		}
		groups = append(groups, g)
	}
	if f.MaxPrice != "" {
		g, err := priceBound("max_price", f.MaxPrice, query.OpLTE)
		if err != nil {
			return query.Predicate{}, err
		}
		groups = append(groups, g)
	}

	// Searchable fields left unset join the keyword fallback group instead
	// of constraining the match.
	var unsetSearchable []string
	for _, field := range s.Fields() {
		value := trimWildcards(f.Fields[field.Name])
		if value.IsZero() {
			if field.Searchable && keyword != "" {
				unsetSearchable = append(unsetSearchable, field.Name)
			}
			continue
		}

		g, ok, err := compileField(field, value)
		if err != nil {
			return query.Predicate{}, err
		}
		if ok {
			groups = append(groups, g)
		}
	}

	if keyword != "" {
		g, err := fallbackGroup(keyword, unsetSearchable)
		if err != nil {
			return query.Predicate{}, err
		}
		groups = append(groups, g)
	}

	if f.ListingType != "" {
		g, err := singleClauseGroup("listing_type", query.OpEq, f.ListingType)
		if err != nil {
			return query.Predicate{}, err
		}
		groups = append(groups, g)
	}

	if f.State != "" {
		g, err := singleClauseGroup("state", query.OpEq, f.State)
		if err != nil {
			return query.Predicate{}, err
		}
		groups = append(groups, g)
	} else if f.Country != "" {
		g, err := singleClauseGroup("country", query.OpEq, f.Country)
		if err != nil {
			return query.Predicate{}, err
		}
		groups = append(groups, g)
	}

	return query.New(groups), nil
}

// compileCategory resolves the category name and matches it against a
// listing's own category or its parent.
func compileCategory(name string, s domschema.Schema) (query.Group, error) {
	id, ok := s.CategoryID(name)
	if !ok {
		return query.Group{}, fmt.Errorf("%w: %s", domain.ErrUnknownCategory, name)
	}

	own, err := query.NewClause("category_id", query.OpEq, strconv.Itoa(id))
	if err != nil {
		return query.Group{}, err
	}
	parent, err := query.NewClause("category_parent_id", query.OpEq, strconv.Itoa(id))
	if err != nil {
		return query.Group{}, err
	}
	return query.NewGroup(query.Or, []query.Clause{own, parent})
}

// priceBound converts a price to minor currency units.
func priceBound(field, raw string, op query.Op) (query.Group, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return query.Group{}, domain.NewFilterValidationError(field, "must be numeric")
	}
	minor := strconv.FormatInt(int64(math.Round(v*100)), 10)
	return singleClauseGroup("price", op, minor)
}

// compileField builds the group for one set extra field per its input kind.
// The second return is false when the value carries no usable content.
func compileField(field domschema.Field, value domain.FieldValue) (query.Group, bool, error) {
	switch field.Kind {
	case domschema.KindRange:
		var clauses []query.Clause
		if value.Min != "" {
			c, err := rangeBound(field.Name, value.Min, query.OpGTE)
			if err != nil {
				return query.Group{}, false, err
			}
			clauses = append(clauses, c)
		}
		if value.Max != "" {
			c, err := rangeBound(field.Name, value.Max, query.OpLTE)
			if err != nil {
				return query.Group{}, false, err
			}
			clauses = append(clauses, c)
		}
		if len(clauses) == 0 {
			return query.Group{}, false, nil
		}
		g, err := query.NewGroup(query.And, clauses)
		return g, err == nil, err

	case domschema.KindMulti:
		values := value.Values
		if len(values) == 0 && value.Value != "" {
			values = []string{value.Value}
		}
		clauses := make([]query.Clause, 0, len(values))
		for _, v := range values {
			c, err := query.NewClause(field.Name, query.OpLike, strings.TrimSpace(v))
			if err != nil {
				return query.Group{}, false, err
			}
			clauses = append(clauses, c)
		}
		if len(clauses) == 0 {
			return query.Group{}, false, nil
		}
		g, err := query.NewGroup(query.Or, clauses)
		return g, err == nil, err

	case domschema.KindInputBox:
		words := strings.Fields(value.Value)
		clauses := make([]query.Clause, 0, len(words))
		for _, w := range words {
			c, err := query.NewClause(field.Name, query.OpLike, w)
			if err != nil {
				return query.Group{}, false, err
			}
			clauses = append(clauses, c)
		}
		if len(clauses) == 0 {
			return query.Group{}, false, nil
		}
		g, err := query.NewGroup(query.Or, clauses)
		return g, err == nil, err

	default: // KindSingle
		if value.Value == "" {
			return query.Group{}, false, nil
		}
		g, err := singleClauseGroup(field.Name, query.OpLike, value.Value)
		return g, err == nil, err
	}
}

// fallbackGroup matches the global keyword against title, details and every
// searchable field the filter left unset. An unset field widens keyword
// matches instead of disqualifying records.
func fallbackGroup(keyword string, unsetFields []string) (query.Group, error) {
	fields := append([]string{"title", "details"}, unsetFields...)
	clauses := make([]query.Clause, 0, len(fields))
	for _, f := range fields {
		c, err := query.NewClause(f, query.OpLike, keyword)
		if err != nil {
			return query.Group{}, err
		}
		clauses = append(clauses, c)
	}
	return query.NewGroup(query.Or, clauses)
}

func singleClauseGroup(field string, op query.Op, value string) (query.Group, error) {
	c, err := query.NewClause(field, op, value)
	if err != nil {
		return query.Group{}, err
	}
	return query.NewGroup(query.And, []query.Clause{c})
}

func rangeBound(field, raw string, op query.Op) (query.Clause, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return query.Clause{}, domain.NewFilterValidationError(field, "range bound must be numeric")
	}
	return query.NewClause(field, op, strconv.FormatFloat(v, 'f', -1, 64))
}

// trimWildcards strips leading and trailing wildcard markers from every
// value shape.
func trimWildcards(v domain.FieldValue) domain.FieldValue {
	trim := func(s string) string { return strings.Trim(s, "*") }
	out := domain.FieldValue{
		Value: trim(v.Value),
		Min:   trim(v.Min),
		Max:   trim(v.Max),
	}
	if len(v.Values) > 0 {
		out.Values = make([]string, 0, len(v.Values))
		for _, s := range v.Values {
			if t := trim(s); t != "" {
				out.Values = append(out.Values, t)
			}
		}
	}
	return out
}
