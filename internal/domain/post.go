package domain

// Post is a premium content item. Free posts are readable without an
// entitlement; locked posts require a verified receipt for their SKU.
// Content is withheld from list projections.
type Post struct {
	ID            int64
	Title         string
	Excerpt       string
	Content       string
	CategoryID    int
	SKU           string
	Free          bool
	Hits          int64
	FeaturedImage string
	PublishedAt   int64 // unix seconds
	ModifiedAt    int64
}

// PostPage is one page of posts with the total match count.
type PostPage struct {
	Posts []Post
	Total int
}

// PostCategory is a premium content category.
type PostCategory struct {
	ID            int
	Name          string
	Description   string
	Count         int
	FeaturedImage string
}
