package domain

// ListingType distinguishes dealer and private ads.
type ListingType string

const (
	// ListingDealer is a dealer-posted ad.
	ListingDealer ListingType = "Dealer"
	// ListingPrivate is a privately posted ad.
	ListingPrivate ListingType = "Private"
)

// Ad is a classified listing. Price is in minor currency units. Extra holds
// the operator-defined custom attributes (bike type, make, registration
// status, condition and so on) keyed by schema field name.
type Ad struct {
	ID          int64
	Title       string
	Details     string
	CategoryID  int
	CategoryPID int
	Price       int64
	ListingType ListingType
	ContactName string
	Postcode    string
	State       string
	Country     string
	Extra       map[string]string
	PostedAt    int64 // unix seconds
}

// AdPage is one page of listings with the total match count.
type AdPage struct {
	Ads   []Ad
	Total int
}
