package gen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadhmi12/api-dev-marketplace/schema"
	"github.com/nadhmi12/api-dev-marketplace/target"
)

func newTaskSession(t *testing.T, targets ...string) *Session {
	t.Helper()
	s, err := NewSession([]*schema.Resource{taskResource()}, targets)
	require.NoError(t, err)
	return s
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTaskSession(t, "node-document", "go-relational")
	assert.Equal(t, StateLoaded, s.State())
	assert.NotEmpty(t, s.ID)

	require.NoError(t, s.Map(ctx))
	assert.Equal(t, StateMapped, s.State())

	require.NoError(t, s.Emit(ctx))
	assert.Equal(t, StateEmitted, s.State())
	assert.Len(t, s.Artifacts(), 8)

	require.NoError(t, s.Validate(ctx))
	assert.Equal(t, StateValidated, s.State())
	require.NotNil(t, s.Report())
	assert.True(t, s.Report().OK())

	doc, err := s.Document()
	require.NoError(t, err)
	require.Len(t, doc.Resources, 1)
	assert.Equal(t, "Task", doc.Resources[0].Name)
	require.Len(t, doc.Resources[0].Endpoints, 5)

	// The operations survive the trip through the rendered routes text.
	ops := make([]string, len(doc.Resources[0].Endpoints))
	for i, e := range doc.Resources[0].Endpoints {
		ops[i] = e.Op
	}
	assert.Equal(t, []string{"list", "get", "create", "update", "delete"}, ops)
	assert.Equal(t, []int{400, 404}, doc.Resources[0].Endpoints[3].ErrorStatuses)
}

func TestSessionRun(t *testing.T) {
	s := newTaskSession(t, target.IDs()...)
	artifacts, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, s.State())
	assert.Len(t, artifacts, len(target.IDs())*4)
}

func TestSessionStepOrder(t *testing.T) {
	ctx := context.Background()
	s := newTaskSession(t, "node-document")

	err := s.Emit(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot advance from loaded")

	err = s.Validate(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot advance from loaded")

	// Guard failures do not poison the session; the expected step still runs.
	require.NoError(t, s.Map(ctx))
	require.NoError(t, s.Emit(ctx))
	require.NoError(t, s.Validate(ctx))
}

func TestSessionCancellation(t *testing.T) {
	s := newTaskSession(t, "node-document")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Map(ctx)
	require.Error(t, err)
	assert.True(t, IsCancelled(err))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateFailed, s.State())
	assert.Equal(t, err, s.Err())
}

func TestSessionMappingFailure(t *testing.T) {
	r := taskResource()
	r.Fields = append(r.Fields, schema.Field{
		Name: "slug", Type: schema.TypeString,
		Constraints: schema.Constraints{Pattern: "^[a-z]+$"},
	})
	s, err := NewSession([]*schema.Resource{r}, []string{"node-document", "go-document"})
	require.NoError(t, err)

	err = s.Map(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnsupportedConstraintError(err))
	assert.Equal(t, StateFailed, s.State())

	// A failed session is terminal.
	err = s.Emit(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot advance from failed")
}

func TestSessionUnknownTarget(t *testing.T) {
	_, err := NewSession([]*schema.Resource{taskResource()}, []string{"fortran-document"})
	require.Error(t, err)
	assert.True(t, IsUnknownTargetError(err))
}

func TestSessionInvalidSchema(t *testing.T) {
	r := &schema.Resource{Name: "Task", Fields: []schema.Field{{Name: "id", Type: schema.TypeInt}}}
	_, err := NewSession([]*schema.Resource{r}, []string{"node-document"})
	require.Error(t, err)
	assert.True(t, IsSchemaError(err))
}

func TestSessionFingerprintStableAcrossTargetSubsets(t *testing.T) {
	ctx := context.Background()

	a := newTaskSession(t, "node-document", "node-relational")
	_, err := a.Run(ctx)
	require.NoError(t, err)
	fpA, err := a.Fingerprint()
	require.NoError(t, err)

	b := newTaskSession(t, "go-document", "go-relational")
	_, err = b.Run(ctx)
	require.NoError(t, err)
	fpB, err := b.Fingerprint()
	require.NoError(t, err)

	// The contract is a function of the description, not of the targets
	// chosen to render it.
	assert.Equal(t, fpA, fpB)

	c, err := NewSession([]*schema.Resource{taskResource(), {
		Name:   "Tag",
		Fields: []schema.Field{{Name: "label", Type: schema.TypeString}},
	}}, []string{"node-document"})
	require.NoError(t, err)
	_, err = c.Run(ctx)
	require.NoError(t, err)
	fpC, err := c.Fingerprint()
	require.NoError(t, err)
	assert.NotEqual(t, fpA, fpC)
}

func TestSessionExportContract(t *testing.T) {
	s := newTaskSession(t, "node-document")
	_, err := s.Run(context.Background())
	require.NoError(t, err)

	doc, err := s.ExportContract()
	require.NoError(t, err)
	assert.Equal(t, "3.0.3", doc.OpenAPI)
	require.NotNil(t, doc.Paths)
	assert.NotNil(t, doc.Paths.Value("/tasks"))

	item := doc.Paths.Value("/tasks/{id}")
	require.NotNil(t, item)
	require.NotNil(t, item.Get)
	assert.NotNil(t, item.Get.Responses.Value("404"))
	require.NotNil(t, item.Put)
	assert.NotNil(t, item.Put.Responses.Value("400"))
	assert.NotNil(t, item.Put.Responses.Value("404"))
}

func TestSessionDocumentBeforeValidation(t *testing.T) {
	s := newTaskSession(t, "node-document")
	_, err := s.Document()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not validated")

	_, err = s.Fingerprint()
	require.Error(t, err)
}
