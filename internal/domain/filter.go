package domain

// FieldValue is the raw value supplied for one extra field. Exactly one
// shape is used depending on the field's declared input kind: Value for
// single and free-text fields, Values for multi-value fields, Min/Max for
// range fields. Empty means absent.
type FieldValue struct {
	Value  string
	Values []string
	Min    string
	Max    string
}

// IsZero reports whether no value was supplied.
func (v FieldValue) IsZero() bool {
	return v.Value == "" && len(v.Values) == 0 && v.Min == "" && v.Max == ""
}

// Filter is the raw, per-request search input. Never persisted. Empty string
// fields are treated as absent.
type Filter struct {
	Keyword     string // global free-text keyword ("s")
	Category    string
	MinPrice    string
	MaxPrice    string
	Postcode    string
	ListingType string
	Country     string
	State       string
	Fields      map[string]FieldValue // extra fields keyed by schema name
	Page        int
	PerPage     int
}
