// Package contract models the externally observable API shape a generated
// artifact set exposes: endpoints, status codes, response envelopes and
// pagination parameters. The canonical endpoint set is computed once per
// resource and injected into every target's rendering context, then
// re-derived from the emitted artifacts and diffed across targets.
package contract

import (
	"fmt"
	"strings"

	"github.com/go-openapi/inflect"
)

// Envelope is the wrapping structure of an API response.
type Envelope string

// Envelope shapes.
const (
	// EnvelopeList wraps a collection: success flag, data array and
	// pagination metadata (page, limit, total).
	EnvelopeList Envelope = "list"
	// EnvelopeResource wraps a single resource: success flag and data object.
	EnvelopeResource Envelope = "resource"
	// EnvelopeDeleted acknowledges a deletion: success flag and a deleted marker.
	EnvelopeDeleted Envelope = "deleted"
)

// Valid reports whether e is a declared envelope shape.
func (e Envelope) Valid() bool {
	switch e {
	case EnvelopeList, EnvelopeResource, EnvelopeDeleted:
		return true
	}
	return false
}

// Paging declares the pagination query parameters of a list endpoint.
type Paging struct {
	PageParam    string
	LimitParam   string
	DefaultPage  int
	DefaultLimit int
}

// Endpoint is the canonical contract unit: one operation of the generated
// API surface. Paths use the canonical "{id}" placeholder style; target
// profiles re-spell placeholders in their router's syntax at render time.
type Endpoint struct {
	// Op is the CRUD operation name: list, get, create, update or delete.
	Op            string
	Method        string
	Path          string
	SuccessStatus int
	// ErrorStatuses are the canonical failure statuses, exported for
	// documentation. Cross-target equality is asserted on method, path,
	// success status and envelope only.
	ErrorStatuses []int
	Envelope      Envelope
	Paging        *Paging
}

// Default pagination values for list endpoints.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// PathSegment returns the URL collection segment for a resource name:
// the dasherized plural of the singular PascalCase name ("OrderItem"
// becomes "order-items").
func PathSegment(resource string) string {
	return inflect.Pluralize(inflect.Dasherize(inflect.Underscore(resource)))
}

// Canonical computes the CRUD endpoint set for a resource. The set is a
// pure function of the resource name: endpoint shape is never a template
// author's choice, which keeps every target structurally equivalent.
func Canonical(resource string) []Endpoint {
	collection := "/" + PathSegment(resource)
	item := collection + "/{id}"
	paging := &Paging{
		PageParam:    "page",
		LimitParam:   "limit",
		DefaultPage:  DefaultPage,
		DefaultLimit: DefaultLimit,
	}
	return []Endpoint{
		{Op: "list", Method: "GET", Path: collection, SuccessStatus: 200, Envelope: EnvelopeList, Paging: paging},
		{Op: "get", Method: "GET", Path: item, SuccessStatus: 200, ErrorStatuses: []int{404}, Envelope: EnvelopeResource},
		{Op: "create", Method: "POST", Path: collection, SuccessStatus: 201, ErrorStatuses: []int{400}, Envelope: EnvelopeResource},
		{Op: "update", Method: "PUT", Path: item, SuccessStatus: 200, ErrorStatuses: []int{400, 404}, Envelope: EnvelopeResource},
		{Op: "delete", Method: "DELETE", Path: item, SuccessStatus: 200, ErrorStatuses: []int{404}, Envelope: EnvelopeDeleted},
	}
}

// PathStyle is the path-parameter spelling of a target's router.
type PathStyle string

// Path-parameter styles.
const (
	// StyleBrace spells parameters as "{id}" (chi, OpenAPI).
	StyleBrace PathStyle = "brace"
	// StyleColon spells parameters as ":id" (Express).
	StyleColon PathStyle = "colon"
)

// SpellPath converts a canonical "{id}"-style path into the given style.
func SpellPath(path string, style PathStyle) string {
	if style != StyleColon {
		return path
	}
	var b strings.Builder
	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			continue
		}
		b.WriteByte('/')
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			b.WriteByte(':')
			b.WriteString(seg[1 : len(seg)-1])
		} else {
			b.WriteString(seg)
		}
	}
	return b.String()
}

// NormalizePath strips target-specific path-parameter syntax back to the
// canonical "{id}" placeholder style before cross-target comparison.
func NormalizePath(path string) string {
	var b strings.Builder
	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			continue
		}
		b.WriteByte('/')
		if strings.HasPrefix(seg, ":") {
			b.WriteString("{" + seg[1:] + "}")
		} else {
			b.WriteString(seg)
		}
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

// Key identifies an endpoint group across targets.
func (e Endpoint) Key() string {
	return e.Method + " " + NormalizePath(e.Path)
}

func (e Endpoint) String() string {
	return fmt.Sprintf("%s %s -> %d %s", e.Method, e.Path, e.SuccessStatus, e.Envelope)
}
