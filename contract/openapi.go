package contract

import (
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// OpenAPI renders the canonical contract document as an OpenAPI 3 spec.
// The export is a consumer of the validated contract: it never feeds back
// into generation and carries no target-specific detail.
func (d *Document) OpenAPI(title, version string) *openapi3.T {
	spec := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   title,
			Version: version,
		},
		Paths: openapi3.NewPaths(),
	}
	for _, rc := range d.Resources {
		for _, e := range rc.Endpoints {
			item := spec.Paths.Value(e.Path)
			if item == nil {
				item = &openapi3.PathItem{}
				spec.Paths.Set(e.Path, item)
			}
			item.SetOperation(e.Method, operation(rc.Name, e))
		}
	}
	return spec
}

func operation(resource string, e Endpoint) *openapi3.Operation {
	op := &openapi3.Operation{
		OperationID: e.Op + resource,
		Summary:     fmt.Sprintf("%s %s", strings.ToUpper(e.Op[:1])+e.Op[1:], resource),
		Tags:        []string{resource},
		Responses:   openapi3.NewResponses(),
	}
	for _, seg := range strings.Split(e.Path, "/") {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			op.Parameters = append(op.Parameters, &openapi3.ParameterRef{
				Value: openapi3.NewPathParameter(seg[1 : len(seg)-1]).
					WithSchema(openapi3.NewStringSchema()),
			})
		}
	}
	if e.Paging != nil {
		op.Parameters = append(op.Parameters,
			&openapi3.ParameterRef{Value: openapi3.NewQueryParameter(e.Paging.PageParam).
				WithSchema(openapi3.NewIntegerSchema().WithDefault(e.Paging.DefaultPage))},
			&openapi3.ParameterRef{Value: openapi3.NewQueryParameter(e.Paging.LimitParam).
				WithSchema(openapi3.NewIntegerSchema().WithDefault(e.Paging.DefaultLimit))},
		)
	}
	success := fmt.Sprint(e.SuccessStatus)
	op.Responses.Set(success, &openapi3.ResponseRef{
		Value: openapi3.NewResponse().
			WithDescription(string(e.Envelope) + " envelope").
			WithJSONSchema(envelopeSchema(e.Envelope)),
	})
	for _, status := range e.ErrorStatuses {
		op.Responses.Set(fmt.Sprint(status), &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription("error envelope").
				WithJSONSchema(errorSchema()),
		})
	}
	return op
}

func envelopeSchema(e Envelope) *openapi3.Schema {
	s := openapi3.NewObjectSchema()
	s.WithProperty("success", openapi3.NewBoolSchema())
	switch e {
	case EnvelopeList:
		s.WithProperty("data", openapi3.NewArraySchema().WithItems(openapi3.NewObjectSchema()))
		meta := openapi3.NewObjectSchema().
			WithProperty("page", openapi3.NewIntegerSchema()).
			WithProperty("limit", openapi3.NewIntegerSchema()).
			WithProperty("total", openapi3.NewIntegerSchema())
		s.WithProperty("meta", meta)
	case EnvelopeDeleted:
		s.WithProperty("data", openapi3.NewObjectSchema().
			WithProperty("deleted", openapi3.NewBoolSchema()))
	default:
		s.WithProperty("data", openapi3.NewObjectSchema())
	}
	return s
}

func errorSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("success", openapi3.NewBoolSchema()).
		WithProperty("error", openapi3.NewStringSchema())
}
