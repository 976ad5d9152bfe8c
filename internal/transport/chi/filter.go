package chi

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/kailas-cloud/tradex/internal/domain"
)

// reservedParams are query parameters with a fixed meaning; everything else
// is treated as an operator-defined extra field.
var reservedParams = map[string]struct{}{
	"s":            {},
	"category":     {},
	"min_price":    {},
	"max_price":    {},
	"postcode":     {},
	"listing_type": {},
	"country":      {},
	"state":        {},
	"page":         {},
	"per_page":     {},
}

// parseFilter builds a raw search filter from query parameters. Extra field
// values come in three shapes: repeated params collect into Values,
// name_min/name_max pairs form a range, a single param is a plain Value.
// Validation happens downstream against the live schema.
func parseFilter(q url.Values) domain.Filter {
	f := domain.Filter{
		Keyword:     q.Get("s"),
		Category:    q.Get("category"),
		MinPrice:    q.Get("min_price"),
		MaxPrice:    q.Get("max_price"),
		Postcode:    q.Get("postcode"),
		ListingType: q.Get("listing_type"),
		Country:     q.Get("country"),
		State:       q.Get("state"),
	}
	f.Page, f.PerPage = parsePaging(q)

	fields := make(map[string]domain.FieldValue)
	for name, values := range q {
		if _, ok := reservedParams[name]; ok {
			continue
		}
		if len(values) == 0 {
			continue
		}

		if base, ok := strings.CutSuffix(name, "_min"); ok && base != "" {
			fv := fields[base]
			fv.Min = values[0]
			fields[base] = fv
			continue
		}
		if base, ok := strings.CutSuffix(name, "_max"); ok && base != "" {
			fv := fields[base]
			fv.Max = values[0]
			fields[base] = fv
			continue
		}

		fv := fields[name]
		if len(values) > 1 {
			fv.Values = values
		} else {
			fv.Value = values[0]
		}
		fields[name] = fv
	}
	if len(fields) > 0 {
		f.Fields = fields
	}

	return f
}

// parsePaging reads the page and per_page parameters. Unparseable or absent
// values come back as zero and pick up defaults downstream.
func parsePaging(q url.Values) (page, perPage int) {
	page, _ = strconv.Atoi(q.Get("page"))
	perPage, _ = strconv.Atoi(q.Get("per_page"))
	return page, perPage
}
