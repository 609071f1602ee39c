package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadhmi12/api-dev-marketplace/schema"
	"github.com/nadhmi12/api-dev-marketplace/target"
)

func lookup(t *testing.T, id string) *target.Profile {
	t.Helper()
	p, err := target.Lookup(id)
	require.NoError(t, err)
	return p
}

func TestMapFieldDirectives(t *testing.T) {
	g, err := NewGraph(nil, taskResource())
	require.NoError(t, err)
	title := g.Nodes[0].Fields[0]
	priority := g.Nodes[0].Fields[2]

	t.Run("node-document", func(t *testing.T) {
		p := lookup(t, "node-document")
		m, err := MapField("Task", title, p)
		require.NoError(t, err)
		assert.Equal(t, "String", m.Type.Name)
		assert.Equal(t, []string{"minlength: 1", "maxlength: 200"}, m.Directives)
	})

	t.Run("go-relational range", func(t *testing.T) {
		p := lookup(t, "go-relational")
		m, err := MapField("Task", priority, p)
		require.NoError(t, err)
		assert.Equal(t, "int64", m.Type.Name)
		assert.Equal(t, "BIGINT", m.Type.Column)
		assert.Equal(t, []string{"gte=0", "lte=5"}, m.Directives)
	})
}

func TestMapFieldStructuralUnique(t *testing.T) {
	field := &Field{
		Name:        "email",
		Type:        schema.TypeString,
		Constraints: schema.Constraints{Unique: true},
	}

	// Go targets enforce uniqueness structurally (index or DDL), so the
	// constraint is supported but renders no inline directive.
	for _, id := range []string{"go-document", "go-relational"} {
		m, err := MapField("User", field, lookup(t, id))
		require.NoError(t, err, id)
		assert.Empty(t, m.Directives, id)
	}

	m, err := MapField("User", field, lookup(t, "node-document"))
	require.NoError(t, err)
	assert.Equal(t, []string{"unique: true"}, m.Directives)
}

func TestMapFieldUnsupportedConstraint(t *testing.T) {
	field := &Field{
		Name:        "slug",
		Type:        schema.TypeString,
		Constraints: schema.Constraints{Pattern: "^[a-z-]+$"},
	}

	// The Go validator idiom has no regex directive, so pattern must fail
	// loudly rather than silently weaken one target.
	for _, id := range []string{"go-document", "go-relational"} {
		_, err := MapField("Task", field, lookup(t, id))
		require.Error(t, err, id)
		assert.True(t, IsUnsupportedConstraintError(err))
		assert.Contains(t, err.Error(), "pattern")
		assert.Contains(t, err.Error(), id)
	}

	m, err := MapField("Task", field, lookup(t, "node-relational"))
	require.NoError(t, err)
	assert.Equal(t, []string{"pattern: /^[a-z-]+$/"}, m.Directives)
}

func TestMapFieldUnsupportedType(t *testing.T) {
	p := &target.Profile{
		ID: "narrow",
		TypeMap: map[schema.Type]target.NativeType{
			schema.TypeString: {Name: "string"},
		},
	}
	field := &Field{Name: "created_at", Type: schema.TypeTime}

	_, err := MapField("Task", field, p)
	require.Error(t, err)
	assert.True(t, IsUnsupportedTypeError(err))
	assert.Contains(t, err.Error(), "datetime")
	assert.Contains(t, err.Error(), "Task.created_at")
	assert.Contains(t, err.Error(), "narrow")
}
