package gen

import (
	"fmt"

	"github.com/nadhmi12/api-dev-marketplace/contract"
	"github.com/nadhmi12/api-dev-marketplace/schema"
)

type (
	// Graph holds the validated resource nodes of one generation run.
	// Node order follows declaration order; everything downstream of the
	// graph (mapping, emission, the contract document) preserves it so
	// that two runs over the same input produce identical output.
	Graph struct {
		Config *Config
		Nodes  []*Resource

		nodes map[string]*Resource
	}

	// Resource is a node in the graph. Its Name is the PascalCase form
	// of the declared resource name; the snake and plural spellings are
	// derived, never stored in the description.
	Resource struct {
		def *schema.Resource
		// Name is the PascalCase resource name ("Task").
		Name string
		// Fields holds the declared fields in declaration order. The
		// identity field is implicit and never appears here.
		Fields []*Field
		// Relations holds the resolved relations in declaration order.
		Relations []*Relation

		fields map[string]*Field
		// pos is the declaration index, used to settle M2M ownership.
		pos int
	}

	// Field is a declared resource field.
	Field struct {
		def schema.Field
		// Name is the declared snake_case field name.
		Name string
		// Type is the logical field type.
		Type schema.Type
		// Required indicates the field must be present on create/update.
		Required bool
		// Enums holds the allowed values for enum fields.
		Enums []string
		// Constraints holds the declared validation constraints.
		Constraints schema.Constraints
	}

	// Relation is a resolved relation between two resources. Owns
	// reports whether this side carries the foreign key (O2O, M2O) or
	// declares the join construct (M2M).
	Relation struct {
		def schema.Relation
		// Name is the declared snake_case relation name.
		Name string
		// Kind is the relation cardinality.
		Kind schema.RelKind
		// Owner is the resource declaring this relation.
		Owner *Resource
		// Target is the resource the relation points to.
		Target *Resource
		// Owns reports whether the FK or join construct lives on this side.
		Owns bool
	}
)

// NewGraph creates a graph from loaded resources, validating resource
// semantics and resolving relation targets. Description-level defects are
// reported as SchemaError.
func NewGraph(c *Config, resources ...*schema.Resource) (*Graph, error) {
	if c == nil {
		c = &Config{}
	}
	g := &Graph{
		Config: c,
		Nodes:  make([]*Resource, 0, len(resources)),
		nodes:  make(map[string]*Resource, len(resources)),
	}
	for i, r := range resources {
		node, err := newResource(r, i)
		if err != nil {
			return nil, err
		}
		if _, ok := g.nodes[node.Name]; ok {
			return nil, NewSchemaError(node.Name, "", "resource declared twice", nil)
		}
		g.Nodes = append(g.Nodes, node)
		g.nodes[node.Name] = node
	}
	for i, r := range resources {
		if err := g.Nodes[i].resolveRelations(g, r); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// ResourceBy returns the node with the given declared name.
func (g *Graph) ResourceBy(name string) (*Resource, bool) {
	n, ok := g.nodes[pascal(name)]
	return n, ok
}

func newResource(r *schema.Resource, pos int) (*Resource, error) {
	if r.Name == "" {
		return nil, NewSchemaError("", "", "resource name cannot be empty", nil)
	}
	node := &Resource{
		def:    r,
		Name:   pascal(r.Name),
		Fields: make([]*Field, 0, len(r.Fields)),
		fields: make(map[string]*Field, len(r.Fields)),
		pos:    pos,
	}
	for _, f := range r.Fields {
		nf, err := newField(node.Name, f)
		if err != nil {
			return nil, err
		}
		if _, ok := node.fields[nf.Name]; ok {
			return nil, NewSchemaError(node.Name, nf.Name, "field declared twice", nil)
		}
		node.Fields = append(node.Fields, nf)
		node.fields[nf.Name] = nf
	}
	if len(node.Fields) == 0 {
		return nil, NewSchemaError(node.Name, "", "resource must declare at least one field", nil)
	}
	return node, nil
}

func newField(resource string, f schema.Field) (*Field, error) {
	switch name := snake(f.Name); {
	case f.Name == "":
		return nil, NewSchemaError(resource, "", "field name cannot be empty", nil)
	case name == "id":
		return nil, NewSchemaError(resource, f.Name, "the id field is implicit and cannot be declared", nil)
	case !f.Type.Valid():
		return nil, NewSchemaError(resource, f.Name, fmt.Sprintf("invalid type %q", f.Type), nil)
	case f.Type == schema.TypeEnum && len(f.Enums) == 0:
		return nil, NewSchemaError(resource, f.Name, "enum field must declare at least one value", nil)
	case f.Type != schema.TypeEnum && len(f.Enums) > 0:
		return nil, NewSchemaError(resource, f.Name, "enum values are only allowed on enum fields", nil)
	case f.Constraints.Pattern != "" && f.Type != schema.TypeString:
		return nil, NewSchemaError(resource, f.Name, "pattern constraint is only allowed on string fields", nil)
	case (f.Constraints.MinLen != nil || f.Constraints.MaxLen != nil) && f.Type != schema.TypeString:
		return nil, NewSchemaError(resource, f.Name, "length constraints are only allowed on string fields", nil)
	case (f.Constraints.Min != nil || f.Constraints.Max != nil) && !f.Type.Numeric():
		return nil, NewSchemaError(resource, f.Name, "range constraints are only allowed on numeric fields", nil)
	}
	if min, max := f.Constraints.MinLen, f.Constraints.MaxLen; min != nil && max != nil && *min > *max {
		return nil, NewSchemaError(resource, f.Name, "min_length exceeds max_length", nil)
	}
	if min, max := f.Constraints.Min, f.Constraints.Max; min != nil && max != nil && *min > *max {
		return nil, NewSchemaError(resource, f.Name, "min exceeds max", nil)
	}
	return &Field{
		def:         f,
		Name:        snake(f.Name),
		Type:        f.Type,
		Required:    f.Required,
		Enums:       f.Enums,
		Constraints: f.Constraints,
	}, nil
}

func (n *Resource) resolveRelations(g *Graph, r *schema.Resource) error {
	seen := make(map[string]struct{}, len(r.Relations))
	for _, rel := range r.Relations {
		if rel.Name == "" {
			return NewSchemaError(n.Name, "", "relation name cannot be empty", nil)
		}
		name := snake(rel.Name)
		if _, ok := seen[name]; ok {
			return NewSchemaError(n.Name, name, "relation declared twice", nil)
		}
		if _, ok := n.fields[name]; ok {
			return NewSchemaError(n.Name, name, "relation name collides with a field", nil)
		}
		seen[name] = struct{}{}
		target, ok := g.nodes[pascal(rel.Target)]
		if !ok {
			return NewSchemaError(n.Name, name, fmt.Sprintf("relation target %q is not a declared resource", rel.Target), nil)
		}
		if rel.Kind == schema.M2M && singular(name) == n.Label() {
			return NewSchemaError(n.Name, name, "many-to-many relation name collides with the resource name; the join table columns would be identical", nil)
		}
		n.Relations = append(n.Relations, &Relation{
			def:    rel,
			Name:   name,
			Kind:   rel.Kind,
			Owner:  n,
			Target: target,
			Owns:   owns(n, target, rel),
		})
	}
	return nil
}

// owns decides which side of a relation carries the foreign key or
// declares the join construct.
//
//   - M2O: the many side always holds the FK.
//   - O2M: the FK lives on the target.
//   - O2O: the declared owner holds the FK (defaults to the declaring side).
//   - M2M: the first-declared resource owns the join construct, so a pair
//     of mirrored declarations still produces exactly one join table.
func owns(n, target *Resource, rel schema.Relation) bool {
	switch rel.Kind {
	case schema.M2O:
		return true
	case schema.O2M:
		return false
	case schema.O2O:
		return rel.Owner != schema.OwnerOther
	case schema.M2M:
		return n.pos <= target.pos
	default:
		return false
	}
}

// =============================================================================
// Naming
// =============================================================================

// VarName returns the camelCase resource name, used for generated
// identifiers that must not collide across resources in one package.
func (n Resource) VarName() string { return camel(n.Name) }

// Label returns the snake_case resource name.
func (n Resource) Label() string { return snake(n.Name) }

// Table returns the plural snake_case storage name. It doubles as the
// document collection name on document targets.
func (n Resource) Table() string { return plural(n.Name) }

// Collection returns the plural kebab-case URL path segment.
func (n Resource) Collection() string { return contract.PathSegment(n.Name) }

// SortKey returns the deterministic list ordering key: the resource's
// creation timestamp when it declares one, the identity field otherwise.
func (n Resource) SortKey() string {
	for _, f := range n.Fields {
		if f.Type == schema.TypeTime && f.Name == "created_at" {
			return f.Name
		}
	}
	return "id"
}

// GoName returns the exported PascalCase field name.
func (f Field) GoName() string { return pascal(f.Name) }

// Property returns the camelCase property name used by JS targets.
func (f Field) Property() string { return camel(f.Name) }

// Column returns the storage column or document key name.
func (f Field) Column() string { return f.Name }

// Unique reports whether the field carries a uniqueness constraint.
func (f Field) Unique() bool { return f.Constraints.Unique }

// GoName returns the exported PascalCase relation name.
func (r Relation) GoName() string { return pascal(r.Name) }

// Property returns the camelCase property name used by JS targets.
func (r Relation) Property() string { return camel(r.Name) }

// FKColumn returns the foreign-key column name derived from the
// singular relation name.
func (r Relation) FKColumn() string { return singular(r.Name) + "_id" }

// JoinTable returns the M2M join table name, prefixed with the owning
// resource's label so a self-relation still yields a unique name.
func (r Relation) JoinTable() string { return r.Owner.Label() + "_" + plural(r.Name) }

// OwnerLabel returns the owning resource's snake_case label.
func (r Relation) OwnerLabel() string { return r.Owner.Label() }

// OwnerTable returns the owning resource's table name.
func (r Relation) OwnerTable() string { return r.Owner.Table() }

// IsO2O reports whether the relation is one-to-one.
func (r Relation) IsO2O() bool { return r.Kind == schema.O2O }

// IsO2M reports whether the relation is one-to-many.
func (r Relation) IsO2M() bool { return r.Kind == schema.O2M }

// IsM2O reports whether the relation is many-to-one.
func (r Relation) IsM2O() bool { return r.Kind == schema.M2O }

// IsM2M reports whether the relation is many-to-many.
func (r Relation) IsM2M() bool { return r.Kind == schema.M2M }
