// Package schema defines the target-independent resource model consumed by
// the generator pipeline: resources, fields, logical types, constraints and
// relations. Values are plain data constructed once per generation session
// and never mutated afterwards.
package schema

import "fmt"

// Resource describes one generated resource: its fields and relations.
// The name is a singular noun; naming-convention variants (table names,
// route paths, struct names) are derived by the generator, not stored here.
type Resource struct {
	Name      string
	Fields    []Field
	Relations []Relation
}

// CreatedField returns the declared creation-time field of the resource,
// or nil if the resource has none. The creation-time field is the first
// Time field named "created_at", used as the default list sort key.
func (r *Resource) CreatedField() *Field {
	for i := range r.Fields {
		if r.Fields[i].Type == TypeTime && r.Fields[i].Name == "created_at" {
			return &r.Fields[i]
		}
	}
	return nil
}

// Field describes a single primitive field of a resource.
type Field struct {
	Name        string
	Type        Type
	Required    bool
	// Enums holds the allowed literal values for TypeEnum fields,
	// in declaration order.
	Enums       []string
	Constraints Constraints
}

// Constraints holds the optional validation constraints of a field.
// Numeric bounds use pointers so that zero remains expressible.
type Constraints struct {
	MinLen  *int
	MaxLen  *int
	Min     *float64
	Max     *float64
	Pattern string
	Unique  bool
}

// Empty reports whether no constraint is set.
func (c Constraints) Empty() bool {
	return c.MinLen == nil && c.MaxLen == nil && c.Min == nil && c.Max == nil &&
		c.Pattern == "" && !c.Unique
}

// Relation describes an edge between two resources.
type Relation struct {
	// Name is the relation accessor name declared in the description
	// (e.g. "owner", "tags").
	Name string
	Kind RelKind
	// Target references another resource by name. It must resolve within
	// the same generation session.
	Target string
	// Owner declares which side holds the foreign key.
	Owner FKOwner
}

// RelKind is the cardinality of a relation.
type RelKind int

// Relation kinds.
const (
	O2O RelKind = iota // one-to-one
	O2M                // one-to-many
	M2O                // many-to-one
	M2M                // many-to-many
)

func (k RelKind) String() string {
	switch k {
	case O2O:
		return "one_to_one"
	case O2M:
		return "one_to_many"
	case M2O:
		return "many_to_one"
	case M2M:
		return "many_to_many"
	default:
		return fmt.Sprintf("RelKind(%d)", int(k))
	}
}

// ParseRelKind converts the textual description form to a RelKind.
func ParseRelKind(s string) (RelKind, error) {
	switch s {
	case "one_to_one":
		return O2O, nil
	case "one_to_many":
		return O2M, nil
	case "many_to_one":
		return M2O, nil
	case "many_to_many":
		return M2M, nil
	default:
		return 0, fmt.Errorf("schema: unknown relation kind %q", s)
	}
}

// FKOwner declares which side of a relation holds the foreign key.
type FKOwner int

// Foreign-key ownership sides.
const (
	OwnerSelf FKOwner = iota
	OwnerOther
)

func (o FKOwner) String() string {
	if o == OwnerOther {
		return "other"
	}
	return "self"
}

// ParseFKOwner converts the textual description form to an FKOwner.
// The empty string defaults to "self".
func ParseFKOwner(s string) (FKOwner, error) {
	switch s {
	case "", "self":
		return OwnerSelf, nil
	case "other":
		return OwnerOther, nil
	default:
		return 0, fmt.Errorf("schema: unknown foreign-key owner %q", s)
	}
}
