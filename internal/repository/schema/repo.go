package schema

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/tradex/internal/domain"
	domschema "github.com/kailas-cloud/tradex/internal/domain/schema"
)

// store is the consumer interface for the schema document (ISP).
type store interface {
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
}

// Repo fetches the operator-managed search schema. The schema is external,
// hot-reloadable configuration, so every Fetch reads storage; callers must
// not hold the result across requests.
type Repo struct {
	store     store
	keyPrefix string
}

// New creates a schema repository.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, keyPrefix: keyPrefix}
}

// Fetch reads and validates the current search schema. Any storage or parse
// failure surfaces as ErrSchemaUnavailable so it is not mistaken for a
// filter problem.
func (r *Repo) Fetch(ctx context.Context) (domschema.Schema, error) {
	key := r.keyPrefix + "schema:search"

	data, err := r.store.JSONGet(ctx, key)
	if err != nil {
		return domschema.Schema{}, fmt.Errorf("%w: fetch %s: %w", domain.ErrSchemaUnavailable, key, err)
	}

	var dto schemaDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return domschema.Schema{}, fmt.Errorf("%w: parse %s: %w", domain.ErrSchemaUnavailable, key, err)
	}

	s, err := dto.toDomain()
	if err != nil {
		return domschema.Schema{}, fmt.Errorf("%w: %w", domain.ErrSchemaUnavailable, err)
	}
	return s, nil
}

// schemaDTO is the storage shape of the search schema document.
type schemaDTO struct {
	Categories []categoryDTO `json:"categories"`
	Fields     []fieldDTO    `json:"fields"`
	Regions    []regionDTO   `json:"regions"`
}

type categoryDTO struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type fieldDTO struct {
	Name       string   `json:"name"`
	Kind       string   `json:"kind"`
	Options    []string `json:"options,omitempty"`
	Searchable bool     `json:"searchable"`
}

type regionDTO struct {
	Name   string   `json:"name"`
	States []string `json:"states"`
}

func (d schemaDTO) toDomain() (domschema.Schema, error) {
	categories := make([]domschema.Category, len(d.Categories))
	for i, c := range d.Categories {
		categories[i] = domschema.Category{ID: c.ID, Name: c.Name}
	}

	fields := make([]domschema.Field, len(d.Fields))
	for i, f := range d.Fields {
		fields[i] = domschema.Field{
			Name:       f.Name,
			Kind:       domschema.InputKind(f.Kind),
			Options:    f.Options,
			Searchable: f.Searchable,
		}
	}

	regions := make([]domschema.Region, len(d.Regions))
	for i, r := range d.Regions {
		regions[i] = domschema.Region{Name: r.Name, States: r.States}
	}

	return domschema.New(categories, fields, regions)
}
