package gen

import (
	"fmt"

	"github.com/nadhmi12/api-dev-marketplace/schema"
	"github.com/nadhmi12/api-dev-marketplace/target"
)

// Mapped is the target-native view of one field: the native type descriptor
// plus the rendered constraint directives in the target's validation idiom.
type Mapped struct {
	Type target.NativeType
	// Directives holds the rendered constraint spellings in a fixed
	// order (lengths, ranges, pattern, uniqueness) so re-running the
	// mapper never reorders output.
	Directives []string
}

// MapField resolves a field's logical type and constraints against one
// target profile. A logical type missing from the profile's type map fails
// with UnsupportedTypeError; a constraint kind missing from the profile's
// directive table fails with UnsupportedConstraintError. An empty directive
// spelling means the constraint is enforced structurally by the target
// (e.g. a unique index) and produces no inline directive.
func MapField(resource string, f *Field, p *target.Profile) (*Mapped, error) {
	native, ok := p.TypeMap[f.Type]
	if !ok {
		return nil, NewUnsupportedTypeError(resource, f.Name, f.Type.String(), p.ID)
	}
	m := &Mapped{Type: native}
	for _, c := range fieldConstraints(f) {
		format, ok := p.ConstraintFormats[c.kind]
		if !ok {
			return nil, NewUnsupportedConstraintError(resource, f.Name, c.kind.String(), p.ID)
		}
		if format == "" {
			continue
		}
		m.Directives = append(m.Directives, fmt.Sprintf(format, c.value))
	}
	return m, nil
}

type constraintValue struct {
	kind  schema.ConstraintKind
	value any
}

// fieldConstraints flattens the set constraints of a field into the fixed
// directive order.
func fieldConstraints(f *Field) []constraintValue {
	var out []constraintValue
	c := f.Constraints
	if c.MinLen != nil {
		out = append(out, constraintValue{schema.ConstraintMinLen, *c.MinLen})
	}
	if c.MaxLen != nil {
		out = append(out, constraintValue{schema.ConstraintMaxLen, *c.MaxLen})
	}
	if c.Min != nil {
		out = append(out, constraintValue{schema.ConstraintMin, *c.Min})
	}
	if c.Max != nil {
		out = append(out, constraintValue{schema.ConstraintMax, *c.Max})
	}
	if c.Pattern != "" {
		out = append(out, constraintValue{schema.ConstraintPattern, c.Pattern})
	}
	if c.Unique {
		out = append(out, constraintValue{schema.ConstraintUnique, true})
	}
	return out
}
