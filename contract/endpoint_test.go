package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonical(t *testing.T) {
	endpoints := Canonical("Task")
	require.Len(t, endpoints, 5)

	list := endpoints[0]
	assert.Equal(t, "list", list.Op)
	assert.Equal(t, "GET", list.Method)
	assert.Equal(t, "/tasks", list.Path)
	assert.Equal(t, 200, list.SuccessStatus)
	assert.Equal(t, EnvelopeList, list.Envelope)
	require.NotNil(t, list.Paging)
	assert.Equal(t, "page", list.Paging.PageParam)
	assert.Equal(t, "limit", list.Paging.LimitParam)
	assert.Equal(t, DefaultPage, list.Paging.DefaultPage)
	assert.Equal(t, DefaultLimit, list.Paging.DefaultLimit)

	get := endpoints[1]
	assert.Equal(t, "get", get.Op)
	assert.Equal(t, "GET /tasks/{id}", get.Key())
	assert.Equal(t, []int{404}, get.ErrorStatuses)
	assert.Nil(t, get.Paging)

	create := endpoints[2]
	assert.Equal(t, "POST", create.Method)
	assert.Equal(t, "/tasks", create.Path)
	assert.Equal(t, 201, create.SuccessStatus)
	assert.Equal(t, EnvelopeResource, create.Envelope)

	update := endpoints[3]
	assert.Equal(t, "PUT", update.Method)
	assert.Equal(t, "/tasks/{id}", update.Path)
	assert.Equal(t, []int{400, 404}, update.ErrorStatuses)

	del := endpoints[4]
	assert.Equal(t, "DELETE", del.Method)
	assert.Equal(t, 200, del.SuccessStatus)
	assert.Equal(t, EnvelopeDeleted, del.Envelope)
}

func TestPathSegment(t *testing.T) {
	tests := []struct {
		resource string
		want     string
	}{
		{"Task", "tasks"},
		{"Category", "categories"},
		{"OrderItem", "order-items"},
		{"Person", "people"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PathSegment(tt.resource), tt.resource)
	}
}

func TestSpellPath(t *testing.T) {
	assert.Equal(t, "/tasks/{id}", SpellPath("/tasks/{id}", StyleBrace))
	assert.Equal(t, "/tasks/:id", SpellPath("/tasks/{id}", StyleColon))
	assert.Equal(t, "/tasks", SpellPath("/tasks", StyleColon))
	assert.Equal(t, "/order-items/:id", SpellPath("/order-items/{id}", StyleColon))
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "/tasks/{id}", NormalizePath("/tasks/:id"))
	assert.Equal(t, "/tasks/{id}", NormalizePath("/tasks/{id}"))
	assert.Equal(t, "/tasks", NormalizePath("/tasks"))
	assert.Equal(t, "/", NormalizePath("/"))
}

func TestEnvelopeValid(t *testing.T) {
	assert.True(t, EnvelopeList.Valid())
	assert.True(t, EnvelopeResource.Valid())
	assert.True(t, EnvelopeDeleted.Valid())
	assert.False(t, Envelope("page").Valid())
}

func TestEndpointString(t *testing.T) {
	e := Canonical("Task")[0]
	assert.Equal(t, "GET /tasks -> 200 list", e.String())
}
