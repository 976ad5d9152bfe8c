package premium

import (
	"encoding/json"

	"github.com/kailas-cloud/tradex/internal/domain"
)

type postDoc struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Excerpt       string `json:"excerpt"`
	Content       string `json:"content"`
	CategoryID    int    `json:"category_id,string"`
	SKU           string `json:"sku"`
	Free          string `json:"free"` // "1" / "0", tag-indexed
	Hits          int64  `json:"hits"`
	FeaturedImage string `json:"featured_image"`
	PublishedAt   int64  `json:"published_at"`
	ModifiedAt    int64  `json:"modified_at"`
}

type categoryDoc struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	FeaturedImage string `json:"featured_image"`
}

func marshalPost(post domain.Post) ([]byte, error) {
	free := "0"
	if post.Free {
		free = "1"
	}
	return json.Marshal(postDoc{
		ID:            post.ID,
		Title:         post.Title,
		Excerpt:       post.Excerpt,
		Content:       post.Content,
		CategoryID:    post.CategoryID,
		SKU:           post.SKU,
		Free:          free,
		Hits:          post.Hits,
		FeaturedImage: post.FeaturedImage,
		PublishedAt:   post.PublishedAt,
		ModifiedAt:    post.ModifiedAt,
	})
}

func unmarshalPost(data []byte) (domain.Post, error) {
	// JSON.GET with $ returns a one-element array.
	if len(data) > 0 && data[0] == '[' {
		var docs []json.RawMessage
		if err := json.Unmarshal(data, &docs); err != nil {
			return domain.Post{}, err
		}
		if len(docs) == 0 {
			return domain.Post{}, domain.ErrPostNotFound
		}
		data = docs[0]
	}

	var doc postDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.Post{}, err
	}

	return domain.Post{
		ID:            doc.ID,
		Title:         doc.Title,
		Excerpt:       doc.Excerpt,
		Content:       doc.Content,
		CategoryID:    doc.CategoryID,
		SKU:           doc.SKU,
		Free:          doc.Free == "1",
		Hits:          doc.Hits,
		FeaturedImage: doc.FeaturedImage,
		PublishedAt:   doc.PublishedAt,
		ModifiedAt:    doc.ModifiedAt,
	}, nil
}

func marshalCategories(cats []domain.PostCategory) ([]byte, error) {
	docs := make([]categoryDoc, len(cats))
	for i, c := range cats {
		docs[i] = categoryDoc{
			ID:            c.ID,
			Name:          c.Name,
			Description:   c.Description,
			FeaturedImage: c.FeaturedImage,
		}
	}
	return json.Marshal(docs)
}

func unmarshalCategories(data []byte) ([]domain.PostCategory, error) {
	// JSON.GET with $ wraps the stored array in another array.
	var wrapped [][]categoryDoc
	var docs []categoryDoc
	if err := json.Unmarshal(data, &wrapped); err == nil && len(wrapped) > 0 {
		docs = wrapped[0]
	} else if err := json.Unmarshal(data, &docs); err != nil {
		return nil, err
	}

	cats := make([]domain.PostCategory, len(docs))
	for i, d := range docs {
		cats[i] = domain.PostCategory{
			ID:            d.ID,
			Name:          d.Name,
			Description:   d.Description,
			FeaturedImage: d.FeaturedImage,
		}
	}
	return cats, nil
}
