package db

import (
	"fmt"
	"strings"
)

// IndexFieldType is the FT field type.
type IndexFieldType string

const (
	// IndexFieldTag is an exact-match TAG field.
	IndexFieldTag IndexFieldType = "TAG"
	// IndexFieldNumeric is a NUMERIC field.
	IndexFieldNumeric IndexFieldType = "NUMERIC"
	// IndexFieldText is a full-text TEXT field.
	IndexFieldText IndexFieldType = "TEXT"
)

// IndexField is a single field in an FT index schema.
type IndexField struct {
	Name     string
	Type     IndexFieldType
	Sortable bool
}

// IndexDefinition describes an FT index over JSON documents.
type IndexDefinition struct {
	Name     string
	Prefixes []string
	Fields   []IndexField
}

// Validate checks the index definition for correctness.
func (idx *IndexDefinition) Validate() error {
	if idx.Name == "" {
		return fmt.Errorf("index name is required")
	}
	if len(idx.Prefixes) == 0 {
		return fmt.Errorf("index %q requires at least one key prefix", idx.Name)
	}
	if len(idx.Fields) == 0 {
		return fmt.Errorf("index %q requires at least one field", idx.Name)
	}
	seen := make(map[string]bool, len(idx.Fields))
	for _, f := range idx.Fields {
		if f.Name == "" {
			return fmt.Errorf("index %q has a field with no name", idx.Name)
		}
		if seen[f.Name] {
			return fmt.Errorf("index %q has duplicate field %q", idx.Name, f.Name)
		}
		seen[f.Name] = true
	}
	return nil
}

// String returns a debug representation resembling the FT.CREATE command.
func (idx *IndexDefinition) String() string {
	parts := []string{"FT.CREATE", idx.Name, "ON", "JSON"}
	if len(idx.Prefixes) > 0 {
		parts = append(parts, "PREFIX")
		parts = append(parts, idx.Prefixes...)
	}
	parts = append(parts, "SCHEMA")
	for i := range idx.Fields {
		f := &idx.Fields[i]
		parts = append(parts, f.Name, string(f.Type))
		if f.Sortable {
			parts = append(parts, "SORTABLE")
		}
	}
	return strings.Join(parts, " ")
}
