package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func taskSet(target string, style PathStyle) TargetSet {
	endpoints := Canonical("Task")
	for i := range endpoints {
		endpoints[i].Path = SpellPath(endpoints[i].Path, style)
	}
	return TargetSet{Target: target, Resource: "Task", Endpoints: endpoints}
}

func TestValidateIdentical(t *testing.T) {
	report := Validate([]TargetSet{
		taskSet("node-document", StyleColon),
		taskSet("go-relational", StyleBrace),
		taskSet("go-document", StyleBrace),
	})
	assert.True(t, report.OK())
	assert.Empty(t, report.Mismatches)

	require.NotNil(t, report.Document)
	require.Len(t, report.Document.Resources, 1)
	rc := report.Document.Resources[0]
	assert.Equal(t, "Task", rc.Name)
	require.Len(t, rc.Endpoints, 5)
	// Document paths are normalized whatever the first target's spelling.
	assert.Equal(t, "/tasks/{id}", rc.Endpoints[1].Path)
}

func TestValidateStatusMismatch(t *testing.T) {
	a := taskSet("node-document", StyleColon)
	b := taskSet("go-relational", StyleBrace)
	b.Endpoints[2].SuccessStatus = 200

	report := Validate([]TargetSet{a, b})
	assert.False(t, report.OK())
	assert.Nil(t, report.Document)
	require.Len(t, report.Mismatches, 1)

	m := report.Mismatches[0]
	assert.Equal(t, "Task", m.Resource)
	assert.Equal(t, "POST", m.Method)
	assert.Equal(t, "/tasks", m.Path)
	assert.Equal(t, "success_status", m.Field)
	assert.Equal(t, "201", m.ValueA)
	assert.Equal(t, "200", m.ValueB)
	assert.Contains(t, m.String(), "success_status differs between node-document (201) and go-relational (200)")
}

func TestValidateEnvelopeMismatch(t *testing.T) {
	a := taskSet("a", StyleBrace)
	b := taskSet("b", StyleBrace)
	b.Endpoints[4].Envelope = EnvelopeResource

	report := Validate([]TargetSet{a, b})
	require.Len(t, report.Mismatches, 1)
	assert.Equal(t, "envelope", report.Mismatches[0].Field)
	assert.Equal(t, "deleted", report.Mismatches[0].ValueA)
	assert.Equal(t, "resource", report.Mismatches[0].ValueB)
}

func TestValidatePagingMismatch(t *testing.T) {
	a := taskSet("a", StyleBrace)
	b := taskSet("b", StyleBrace)
	b.Endpoints[0].Paging = &Paging{PageParam: "p", LimitParam: "n"}

	report := Validate([]TargetSet{a, b})
	require.Len(t, report.Mismatches, 1)
	m := report.Mismatches[0]
	assert.Equal(t, "paging", m.Field)
	assert.Equal(t, "page=page,limit=limit", m.ValueA)
	assert.Equal(t, "page=p,limit=n", m.ValueB)
}

func TestValidatePresenceBothDirections(t *testing.T) {
	a := taskSet("a", StyleBrace)
	b := taskSet("b", StyleBrace)
	// b drops DELETE and declares PATCH instead.
	b.Endpoints[4] = Endpoint{
		Op: "patch", Method: "PATCH", Path: "/tasks/{id}",
		SuccessStatus: 200, Envelope: EnvelopeResource,
	}

	report := Validate([]TargetSet{a, b})
	require.Len(t, report.Mismatches, 2)

	missing := report.Mismatches[0]
	assert.Equal(t, "presence", missing.Field)
	assert.Equal(t, "DELETE", missing.Method)
	assert.Equal(t, "declared", missing.ValueA)
	assert.Equal(t, "missing", missing.ValueB)

	extra := report.Mismatches[1]
	assert.Equal(t, "presence", extra.Field)
	assert.Equal(t, "PATCH", extra.Method)
	assert.Equal(t, "missing", extra.ValueA)
	assert.Equal(t, "declared", extra.ValueB)
}

func TestValidateMultipleResources(t *testing.T) {
	user := TargetSet{Target: "a", Resource: "User", Endpoints: Canonical("User")}
	task := taskSet("a", StyleBrace)
	report := Validate([]TargetSet{task, user})
	assert.True(t, report.OK())
	require.Len(t, report.Document.Resources, 2)
	// Input order is preserved.
	assert.Equal(t, "Task", report.Document.Resources[0].Name)
	assert.Equal(t, "User", report.Document.Resources[1].Name)
}

func TestValidateSingleTarget(t *testing.T) {
	report := Validate([]TargetSet{taskSet("only", StyleColon)})
	assert.True(t, report.OK())
	require.NotNil(t, report.Document)
	assert.Equal(t, "/tasks/{id}", report.Document.Resources[0].Endpoints[1].Path)
}
