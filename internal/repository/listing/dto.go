package listing

import (
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/tradex/internal/domain"
)

// Fixed document keys; everything else in the JSON doc is an extra field.
var fixedKeys = map[string]bool{
	"id": true, "title": true, "details": true,
	"category_id": true, "category_parent_id": true,
	"price": true, "listing_type": true, "contact_name": true,
	"postcode": true, "state": true, "country": true, "posted_at": true,
}

type adDoc struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Details     string `json:"details"`
	CategoryID  int    `json:"category_id,string"`
	CategoryPID int    `json:"category_parent_id,string"`
	Price       int64  `json:"price"`
	ListingType string `json:"listing_type"`
	ContactName string `json:"contact_name"`
	Postcode    string `json:"postcode"`
	State       string `json:"state"`
	Country     string `json:"country"`
	PostedAt    int64  `json:"posted_at"`
}

// marshalAd flattens the ad and its extra fields into one JSON object so the
// index can address extras by top-level path.
func marshalAd(ad domain.Ad) ([]byte, error) {
	doc := adDoc{
		ID:          ad.ID,
		Title:       ad.Title,
		Details:     ad.Details,
		CategoryID:  ad.CategoryID,
		CategoryPID: ad.CategoryPID,
		Price:       ad.Price,
		ListingType: string(ad.ListingType),
		ContactName: ad.ContactName,
		Postcode:    ad.Postcode,
		State:       ad.State,
		Country:     ad.Country,
		PostedAt:    ad.PostedAt,
	}

	base, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	if len(ad.Extra) == 0 {
		return base, nil
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for k, v := range ad.Extra {
		if fixedKeys[k] {
			return nil, fmt.Errorf("extra field %q collides with a fixed key", k)
		}
		enc, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		merged[k] = enc
	}
	return json.Marshal(merged)
}

func unmarshalAd(data []byte) (domain.Ad, error) {
	// JSON.GET with $ returns a one-element array.
	if len(data) > 0 && data[0] == '[' {
		var docs []json.RawMessage
		if err := json.Unmarshal(data, &docs); err != nil {
			return domain.Ad{}, err
		}
		if len(docs) == 0 {
			return domain.Ad{}, domain.ErrListingNotFound
		}
		data = docs[0]
	}

	var doc adDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.Ad{}, err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.Ad{}, err
	}
	extra := make(map[string]string)
	for k, v := range raw {
		if fixedKeys[k] {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			// Numeric extras round-trip as their literal form.
			s = string(v)
		}
		extra[k] = s
	}
	if len(extra) == 0 {
		extra = nil
	}

	return domain.Ad{
		ID:          doc.ID,
		Title:       doc.Title,
		Details:     doc.Details,
		CategoryID:  doc.CategoryID,
		CategoryPID: doc.CategoryPID,
		Price:       doc.Price,
		ListingType: domain.ListingType(doc.ListingType),
		ContactName: doc.ContactName,
		Postcode:    doc.Postcode,
		State:       doc.State,
		Country:     doc.Country,
		Extra:       extra,
		PostedAt:    doc.PostedAt,
	}, nil
}
