// Package load decodes raw resource descriptions into the schema model.
// It performs structural decoding only; semantic validation (field
// uniqueness, relation resolution) is the graph construction's concern.
package load

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/nadhmi12/api-dev-marketplace/schema"
)

// Description is the document shape of a raw resource description batch.
type Description struct {
	Resources []*ResourceDescription `yaml:"resources"`
}

// ResourceDescription is the raw form of one resource.
type ResourceDescription struct {
	Name      string                 `yaml:"name"`
	Fields    []*FieldDescription    `yaml:"fields"`
	Relations []*RelationDescription `yaml:"relations"`
}

// FieldDescription is the raw form of one field, with constraints inlined
// the way description authors write them.
type FieldDescription struct {
	Name      string   `yaml:"name"`
	Type      string   `yaml:"type"`
	Required  bool     `yaml:"required"`
	Enum      []string `yaml:"enum"`
	MinLength *int     `yaml:"min_length"`
	MaxLength *int     `yaml:"max_length"`
	Min       *float64 `yaml:"min"`
	Max       *float64 `yaml:"max"`
	Pattern   string   `yaml:"pattern"`
	Unique    bool     `yaml:"unique"`
}

// RelationDescription is the raw form of one relation.
type RelationDescription struct {
	Name   string `yaml:"name"`
	Kind   string `yaml:"kind"`
	Target string `yaml:"target"`
	Owner  string `yaml:"owner"`
}

// Decode reads a YAML description batch and converts it to schema resources.
// Unknown document keys are rejected so that typos surface immediately.
func Decode(r io.Reader) ([]*schema.Resource, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc Description
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("load: decode description: %w", err)
	}
	return Convert(&doc)
}

// DecodeBytes is a convenience wrapper around Decode.
func DecodeBytes(b []byte) ([]*schema.Resource, error) {
	return Decode(bytes.NewReader(b))
}

// Convert turns an already-unmarshalled description document into schema
// resources, translating the textual type and relation vocabulary.
func Convert(doc *Description) ([]*schema.Resource, error) {
	resources := make([]*schema.Resource, 0, len(doc.Resources))
	for _, rd := range doc.Resources {
		if rd.Name == "" {
			return nil, fmt.Errorf("load: resource with empty name")
		}
		r := &schema.Resource{Name: rd.Name}
		for _, fd := range rd.Fields {
			f, err := convertField(fd)
			if err != nil {
				return nil, fmt.Errorf("load: resource %s: %w", rd.Name, err)
			}
			r.Fields = append(r.Fields, f)
		}
		for _, ed := range rd.Relations {
			rel, err := convertRelation(ed)
			if err != nil {
				return nil, fmt.Errorf("load: resource %s: %w", rd.Name, err)
			}
			r.Relations = append(r.Relations, rel)
		}
		resources = append(resources, r)
	}
	return resources, nil
}

func convertField(fd *FieldDescription) (schema.Field, error) {
	if fd.Name == "" {
		return schema.Field{}, fmt.Errorf("field with empty name")
	}
	typ, err := schema.ParseType(fd.Type)
	if err != nil {
		return schema.Field{}, fmt.Errorf("field %s: %w", fd.Name, err)
	}
	return schema.Field{
		Name:     fd.Name,
		Type:     typ,
		Required: fd.Required,
		Enums:    fd.Enum,
		Constraints: schema.Constraints{
			MinLen:  fd.MinLength,
			MaxLen:  fd.MaxLength,
			Min:     fd.Min,
			Max:     fd.Max,
			Pattern: fd.Pattern,
			Unique:  fd.Unique,
		},
	}, nil
}

func convertRelation(ed *RelationDescription) (schema.Relation, error) {
	if ed.Name == "" {
		return schema.Relation{}, fmt.Errorf("relation with empty name")
	}
	kind, err := schema.ParseRelKind(ed.Kind)
	if err != nil {
		return schema.Relation{}, fmt.Errorf("relation %s: %w", ed.Name, err)
	}
	owner, err := schema.ParseFKOwner(ed.Owner)
	if err != nil {
		return schema.Relation{}, fmt.Errorf("relation %s: %w", ed.Name, err)
	}
	return schema.Relation{
		Name:   ed.Name,
		Kind:   kind,
		Target: ed.Target,
		Owner:  owner,
	}, nil
}
