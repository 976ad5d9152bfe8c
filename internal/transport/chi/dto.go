package chi

import (
	"fmt"

	"github.com/kailas-cloud/tradex/internal/domain"
)

type adResponse struct {
	ID           int64             `json:"id"`
	Title        string            `json:"title"`
	Details      string            `json:"details"`
	CategoryID   int               `json:"category_id"`
	CategoryPID  int               `json:"category_parent_id"`
	Price        int64             `json:"price"`
	PriceDisplay string            `json:"price_display,omitempty"`
	ListingType  string            `json:"listing_type"`
	ContactName  string            `json:"contact_name,omitempty"`
	Postcode     string            `json:"postcode,omitempty"`
	State        string            `json:"state,omitempty"`
	Country      string            `json:"country,omitempty"`
	Fields       map[string]string `json:"fields,omitempty"`
	PostedAt     int64             `json:"posted_at"`
}

type adPageResponse struct {
	Items []adResponse `json:"items"`
	Total int          `json:"total"`
	Page  int          `json:"page"`
}

type postResponse struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Excerpt       string `json:"excerpt"`
	Content       string `json:"content,omitempty"`
	CategoryID    int    `json:"category_id"`
	SKU           string `json:"sku,omitempty"`
	Free          bool   `json:"free"`
	Hits          int64  `json:"hits"`
	FeaturedImage string `json:"featured_image,omitempty"`
	PublishedAt   int64  `json:"published_at"`
	ModifiedAt    int64  `json:"modified_at"`
}

type postPageResponse struct {
	Items []postResponse `json:"items"`
	Total int            `json:"total"`
	Page  int            `json:"page"`
}

type postCategoryResponse struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	Count         int    `json:"count"`
	FeaturedImage string `json:"featured_image,omitempty"`
}

type postCategoryListResponse struct {
	Items []postCategoryResponse `json:"items"`
}

// formatPrice renders minor currency units for display. Zero means price on
// application, rendered as an absent field.
func formatPrice(minor int64) string {
	if minor == 0 {
		return ""
	}
	return fmt.Sprintf("$%.2f", float64(minor)/100)
}

func adToResponse(ad domain.Ad) adResponse {
	return adResponse{
		ID:           ad.ID,
		Title:        ad.Title,
		Details:      ad.Details,
		CategoryID:   ad.CategoryID,
		CategoryPID:  ad.CategoryPID,
		Price:        ad.Price,
		PriceDisplay: formatPrice(ad.Price),
		ListingType:  string(ad.ListingType),
		ContactName:  ad.ContactName,
		Postcode:     ad.Postcode,
		State:        ad.State,
		Country:      ad.Country,
		Fields:       ad.Extra,
		PostedAt:     ad.PostedAt,
	}
}

func adPageToResponse(page domain.AdPage, pageNum int) adPageResponse {
	items := make([]adResponse, len(page.Ads))
	for i, ad := range page.Ads {
		items[i] = adToResponse(ad)
	}
	if pageNum < 1 {
		pageNum = 1
	}
	return adPageResponse{Items: items, Total: page.Total, Page: pageNum}
}

func postToResponse(post domain.Post, includeContent bool) postResponse {
	resp := postResponse{
		ID:            post.ID,
		Title:         post.Title,
		Excerpt:       post.Excerpt,
		CategoryID:    post.CategoryID,
		SKU:           post.SKU,
		Free:          post.Free,
		Hits:          post.Hits,
		FeaturedImage: post.FeaturedImage,
		PublishedAt:   post.PublishedAt,
		ModifiedAt:    post.ModifiedAt,
	}
	if includeContent {
		resp.Content = post.Content
	}
	return resp
}

func postCategoryToResponse(c domain.PostCategory) postCategoryResponse {
	return postCategoryResponse{
		ID:            c.ID,
		Name:          c.Name,
		Description:   c.Description,
		Count:         c.Count,
		FeaturedImage: c.FeaturedImage,
	}
}

func postPageToResponse(page domain.PostPage, pageNum int) postPageResponse {
	items := make([]postResponse, len(page.Posts))
	for i, p := range page.Posts {
		items[i] = postToResponse(p, false)
	}
	if pageNum < 1 {
		pageNum = 1
	}
	return postPageResponse{Items: items, Total: page.Total, Page: pageNum}
}
