// Package schema models the operator-managed search configuration: known
// categories, per-field allowed options with declared input kinds, and the
// country/state region list. The configuration is external state and may
// change between requests, so it is fetched fresh per compile.
package schema

import "fmt"

// InputKind declares how a field's raw filter value is interpreted.
type InputKind string

const (
	// KindRange expects min/max sub-values compiled to numeric bounds.
	KindRange InputKind = "range"
	// KindMulti expects an array of values combined with OR.
	KindMulti InputKind = "multi"
	// KindInputBox expects free text split on whitespace, words OR-combined.
	KindInputBox InputKind = "input_box"
	// KindSingle expects a single value compiled to one match clause.
	KindSingle InputKind = "single"
)

// IsValid checks if the input kind is supported.
func (k InputKind) IsValid() bool {
	switch k {
	case KindRange, KindMulti, KindInputBox, KindSingle:
		return true
	}
	return false
}

// Category is a named ad category with its identifier.
type Category struct {
	ID   int
	Name string
}

// Field is a content-store-defined custom attribute with a declared input
// kind and, for enumerated kinds, the allowed option set. Searchable fields
// participate in the free-text fallback group when left unset in a filter.
type Field struct {
	Name       string
	Kind       InputKind
	Options    []string
	Searchable bool
}

// Region is a country with its known state names.
type Region struct {
	Name   string
	States []string
}

// Schema is the full search configuration (immutable value object).
type Schema struct {
	categories []Category
	fields     []Field
	regions    []Region
}

// New validates and creates a Schema. Field names must be unique and carry a
// known input kind.
func New(categories []Category, fields []Field, regions []Region) (Schema, error) {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return Schema{}, fmt.Errorf("field name is required")
		}
		if seen[f.Name] {
			return Schema{}, fmt.Errorf("duplicate field name: %s", f.Name)
		}
		seen[f.Name] = true
		if !f.Kind.IsValid() {
			return Schema{}, fmt.Errorf("field %s: invalid input kind %q", f.Name, f.Kind)
		}
	}
	return Schema{categories: categories, fields: fields, regions: regions}, nil
}

// Categories returns the known categories.
func (s Schema) Categories() []Category { return s.categories }

// CategoryNames returns the known category names in schema order.
func (s Schema) CategoryNames() []string {
	names := make([]string, len(s.categories))
	for i, c := range s.categories {
		names[i] = c.Name
	}
	return names
}

// CategoryID resolves a category name to its identifier.
func (s Schema) CategoryID(name string) (int, bool) {
	for _, c := range s.categories {
		if c.Name == name {
			return c.ID, true
		}
	}
	return 0, false
}

// Fields returns the declared extra fields in schema order.
func (s Schema) Fields() []Field { return s.fields }

// Field looks up an extra field by name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Regions returns the known regions.
func (s Schema) Regions() []Region { return s.regions }

// HasCountry reports whether the country is a known region name.
func (s Schema) HasCountry(name string) bool {
	for _, r := range s.regions {
		if r.Name == name {
			return true
		}
	}
	return false
}

// HasState reports whether the state is known under the given country.
func (s Schema) HasState(country, state string) bool {
	for _, r := range s.regions {
		if r.Name != country {
			continue
		}
		for _, st := range r.States {
			if st == state {
				return true
			}
		}
	}
	return false
}
