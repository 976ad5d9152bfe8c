package search

import (
	"strconv"
	"strings"

	"github.com/kailas-cloud/tradex/internal/domain"
	"github.com/kailas-cloud/tradex/internal/domain/region"
	domschema "github.com/kailas-cloud/tradex/internal/domain/schema"
)

// Validate checks a raw filter against the current schema. Rules fail fast
// on the first offending field; the returned error names that field and,
// for enum-backed rules, the allowed values.
func Validate(f domain.Filter, s domschema.Schema) error {
	// Surrounding whitespace carries no match content; a whitespace-only
	// keyword counts as absent.
	if kw := strings.TrimSpace(f.Keyword); kw != "" && len(kw) < 3 {
		return domain.NewFilterValidationError("s", "must be blank or be three characters or greater")
	}

	if f.Category != "" {
		if _, ok := s.CategoryID(f.Category); !ok {
			return domain.NewFilterValidationError("category", "unknown category", s.CategoryNames()...)
		}
	}

	if f.MinPrice != "" && !isNumeric(f.MinPrice) {
		return domain.NewFilterValidationError("min_price", "must contain numbers only, without currency symbols")
	}
	if f.MaxPrice != "" && !isNumeric(f.MaxPrice) {
		return domain.NewFilterValidationError("max_price", "must contain numbers only, without currency symbols")
	}

	if f.Postcode != "" && !isNumeric(f.Postcode) {
		return domain.NewFilterValidationError("postcode", "must contain numbers only")
	}

	if f.ListingType != "" &&
		f.ListingType != string(domain.ListingDealer) && f.ListingType != string(domain.ListingPrivate) {
		return domain.NewFilterValidationError("listing_type", "unknown listing type",
			string(domain.ListingDealer), string(domain.ListingPrivate))
	}

	for name, value := range f.Fields {
		if value.IsZero() {
			continue
		}
		field, ok := s.Field(name)
		if !ok {
			return domain.NewFilterValidationError(name, "unknown field")
		}
		if err := validateField(field, value); err != nil {
			return err
		}
	}

	if f.State != "" && f.Country == "" {
		return domain.NewFilterValidationError("state", "cannot be passed without the 'country' parameter")
	}
	if f.Country != "" && !s.HasCountry(f.Country) {
		return domain.NewFilterValidationError("country", "unknown country")
	}
	if f.State != "" && !stateKnown(s, f.Country, f.State) {
		return domain.NewFilterValidationError("state", "unknown state for country "+f.Country)
	}

	return nil
}

// stateKnown accepts both the long state name and the abbreviated form
// clients see in the search options payload.
func stateKnown(s domschema.Schema, country, state string) bool {
	for _, r := range s.Regions() {
		if r.Name != country {
			continue
		}
		for _, st := range r.States {
			if st == state || region.Abbreviate(st, country) == state {
				return true
			}
		}
	}
	return false
}

func validateField(field domschema.Field, value domain.FieldValue) error {
	// Years are numeric and exactly four digits.
	if field.Name == "manufacture_year" && value.Value != "" {
		if !isNumeric(value.Value) || len(value.Value) != 4 {
			return domain.NewFilterValidationError(field.Name, "ensure a valid 4-digit year")
		}
		return nil
	}

	if len(field.Options) == 0 {
		return nil
	}

	values := value.Values
	if len(values) == 0 && value.Value != "" {
		values = []string{value.Value}
	}
	for _, v := range values {
		if !contains(field.Options, v) {
			return domain.NewFilterValidationError(field.Name, "unknown value", field.Options...)
		}
	}
	return nil
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
