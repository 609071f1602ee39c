package contract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAnnotation(t *testing.T) {
	endpoints := Canonical("Task")

	assert.Equal(t,
		"// @endpoint list GET /tasks 200 list page=page,limit=limit",
		FormatAnnotation(endpoints[0], "//", StyleBrace),
	)
	assert.Equal(t,
		"// @endpoint get GET /tasks/:id 200 resource errors=404",
		FormatAnnotation(endpoints[1], "//", StyleColon),
	)
	assert.Equal(t,
		"// @endpoint update PUT /tasks/{id} 200 resource errors=400,404",
		FormatAnnotation(endpoints[3], "//", StyleBrace),
	)
	assert.Equal(t,
		"// @endpoint delete DELETE /tasks/{id} 200 deleted errors=404",
		FormatAnnotation(endpoints[4], "//", StyleBrace),
	)
}

func TestParseAnnotationsRoundTrip(t *testing.T) {
	for _, style := range []PathStyle{StyleBrace, StyleColon} {
		canonical := Canonical("Task")
		var b strings.Builder
		for _, e := range canonical {
			b.WriteString(FormatAnnotation(e, "//", style))
			b.WriteByte('\n')
			b.WriteString("router code here\n")
		}

		parsed, err := ParseAnnotations(b.String(), "//")
		require.NoError(t, err)
		require.Len(t, parsed, len(canonical))
		for i, e := range parsed {
			want := canonical[i]
			assert.Equal(t, want.Op, e.Op)
			assert.Equal(t, want.Method, e.Method)
			assert.Equal(t, NormalizePath(want.Path), NormalizePath(e.Path))
			assert.Equal(t, want.SuccessStatus, e.SuccessStatus)
			assert.Equal(t, want.Envelope, e.Envelope)
			assert.Equal(t, want.ErrorStatuses, e.ErrorStatuses)
			if want.Paging == nil {
				assert.Nil(t, e.Paging)
			} else {
				require.NotNil(t, e.Paging)
				assert.Equal(t, want.Paging.PageParam, e.Paging.PageParam)
				assert.Equal(t, want.Paging.LimitParam, e.Paging.LimitParam)
			}
		}
	}
}

func TestParseAnnotationsIgnoresOtherComments(t *testing.T) {
	source := `// Task routes.
// @endpoint list GET /tasks 200 list page=page,limit=limit
router.get("/tasks", list);
// plain comment mentioning endpoints
`
	parsed, err := ParseAnnotations(source, "//")
	require.NoError(t, err)
	require.Len(t, parsed, 1)
	assert.Equal(t, "list", parsed[0].Op)
	assert.Equal(t, "/tasks", parsed[0].Path)
}

func TestParseAnnotationsErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "too few fields",
			source: "// @endpoint list GET /tasks 200",
			want:   "malformed endpoint annotation",
		},
		{
			name:   "unknown operation",
			source: "// @endpoint fetch GET /tasks 200 list",
			want:   "unknown operation fetch",
		},
		{
			name:   "bad status",
			source: "// @endpoint list GET /tasks ok list",
			want:   "bad status",
		},
		{
			name:   "unknown method",
			source: "// @endpoint list FETCH /tasks 200 list",
			want:   "unknown method FETCH",
		},
		{
			name:   "unknown envelope",
			source: "// @endpoint list GET /tasks 200 page",
			want:   "unknown envelope page",
		},
		{
			name:   "bad error status list",
			source: "// @endpoint get GET /tasks/{id} 200 resource errors=notfound",
			want:   `bad error status list "notfound"`,
		},
		{
			name:   "bad paging declaration",
			source: "// @endpoint list GET /tasks 200 list page=",
			want:   "bad paging declaration",
		},
		{
			name:   "bad paging key",
			source: "// @endpoint list GET /tasks 200 list offset=page,limit=limit",
			want:   `bad paging key "offset"`,
		},
		{
			name:   "incomplete paging",
			source: "// @endpoint list GET /tasks 200 list page=page",
			want:   "incomplete paging declaration",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAnnotations(tt.source, "//")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Contains(t, err.Error(), "line 1")
		})
	}
}

func TestParseAnnotationsPrefix(t *testing.T) {
	// A hash-prefixed annotation is invisible to a slash-prefixed scan.
	source := "# @endpoint list GET /tasks 200 list page=page,limit=limit"
	parsed, err := ParseAnnotations(source, "//")
	require.NoError(t, err)
	assert.Empty(t, parsed)

	parsed, err = ParseAnnotations(source, "#")
	require.NoError(t, err)
	assert.Len(t, parsed, 1)
}
