package collection

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed schemas/collections.yaml
var schemaDocuments embed.FS

// SelectOption is one choice of a select control.
type SelectOption struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

// FieldDef declares one field of a collection kind.
type FieldDef struct {
	Field    string         `yaml:"field"`
	Input    Input          `yaml:"input"`
	Required bool           `yaml:"required"`
	Default  string         `yaml:"default"`
	Options  []SelectOption `yaml:"options"`

	// Group assigns the field to a discriminant-controlled visibility
	// group. Empty means always visible.
	Group FieldGroup `yaml:"group"`

	// Order marks the dedicated order-number input whose value tracks the
	// item's index under PolicyRenumber.
	Order bool `yaml:"order"`
}

// Schema declares the field set and naming contract of one collection kind.
// The delete-marker field is an explicit schema entry rather than inferred
// from sibling field names.
type Schema struct {
	Kind        Kind
	Prefix      string     `yaml:"prefix"`
	DeleteField string     `yaml:"delete_field"`
	ListID      string     `yaml:"list_id"`
	TableID     string     `yaml:"table_id"`
	TableBodyID string     `yaml:"table_body_id"`
	Discriminant string    `yaml:"discriminant"`
	Nested      Kind       `yaml:"nested"`
	Fields      []FieldDef `yaml:"fields"`
}

// FieldDef returns the declaration for the named field.
func (s Schema) FieldDef(field string) (FieldDef, bool) {
	for _, def := range s.Fields {
		if def.Field == field {
			return def, true
		}
	}
	return FieldDef{}, false
}

// OrderField returns the name of the dedicated order-number field, or ""
// when the kind has none.
func (s Schema) OrderField() string {
	for _, def := range s.Fields {
		if def.Order {
			return def.Field
		}
	}
	return ""
}

type schemaDocument struct {
	Collections map[Kind]Schema `yaml:"collections"`
}

var (
	schemaOnce sync.Once
	schemaSet  map[Kind]Schema
	schemaErr  error
)

func loadSchemas() {
	data, err := schemaDocuments.ReadFile("schemas/collections.yaml")
	if err != nil {
		schemaErr = fmt.Errorf("collection: read schema document: %w", err)
		return
	}
	var doc schemaDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		schemaErr = fmt.Errorf("collection: parse schema document: %w", err)
		return
	}
	if len(doc.Collections) == 0 {
		schemaErr = fmt.Errorf("collection: schema document declares no collections")
		return
	}
	set := make(map[Kind]Schema, len(doc.Collections))
	for kind, schema := range doc.Collections {
		schema.Kind = kind
		if schema.Prefix == "" {
			schemaErr = fmt.Errorf("collection: kind %q declares no prefix", kind)
			return
		}
		if schema.DeleteField == "" {
			schemaErr = fmt.Errorf("collection: kind %q declares no delete field", kind)
			return
		}
		set[kind] = schema
	}
	schemaSet = set
}

// SchemaFor returns the embedded schema for kind.
func SchemaFor(kind Kind) (Schema, error) {
	schemaOnce.Do(loadSchemas)
	if schemaErr != nil {
		return Schema{}, schemaErr
	}
	schema, ok := schemaSet[kind]
	if !ok {
		return Schema{}, fmt.Errorf("collection: unknown kind %q", kind)
	}
	return schema, nil
}

// Kinds returns every top-level collection kind declared in the schema
// document, excluding the nested accomplishment kind.
func Kinds() ([]Kind, error) {
	schemaOnce.Do(loadSchemas)
	if schemaErr != nil {
		return nil, schemaErr
	}
	kinds := make([]Kind, 0, len(schemaSet))
	for kind := range schemaSet {
		if kind == KindAccomplishment {
			continue
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}
