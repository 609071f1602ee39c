// Package clientgen renders a typed Go HTTP client for a validated contract
// document. The client is target-independent: it speaks the canonical
// envelope shapes, so it works unchanged against any generated backend.
package clientgen

import (
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/nadhmi12/api-dev-marketplace/compiler/gen"
	"github.com/nadhmi12/api-dev-marketplace/contract"
	"github.com/nadhmi12/api-dev-marketplace/schema"
)

// Generate renders the client package source for the given graph and its
// validated contract document. Methods are derived from the document, never
// from the graph alone: an endpoint absent from the validated contract gets
// no client method.
func Generate(g *gen.Graph, doc *contract.Document, pkg string) (string, error) {
	if pkg == "" {
		pkg = "client"
	}
	f := jen.NewFile(pkg)
	f.HeaderComment("Code generated by forgegen. DO NOT EDIT.")

	genCore(f)
	for _, rc := range doc.Resources {
		node, ok := g.ResourceBy(rc.Name)
		if !ok {
			return "", fmt.Errorf("clientgen: contract resource %s not in graph", rc.Name)
		}
		genModel(f, node)
		for _, e := range rc.Endpoints {
			if err := genMethod(f, node, e); err != nil {
				return "", err
			}
		}
	}
	return fmt.Sprintf("%#v", f), nil
}

// genCore generates the client struct, its options, the shared envelope
// types and the request helper.
func genCore(f *jen.File) {
	f.Comment("Client calls a generated API server.")
	f.Type().Id("Client").Struct(
		jen.Id("base").String(),
		jen.Id("hc").Op("*").Qual("net/http", "Client"),
	)

	f.Comment("Option configures a Client.")
	f.Type().Id("Option").Func().Params(jen.Op("*").Id("Client"))

	f.Comment("WithHTTPClient sets the underlying HTTP client.")
	f.Func().Id("WithHTTPClient").Params(jen.Id("hc").Op("*").Qual("net/http", "Client")).Id("Option").Block(
		jen.Return(jen.Func().Params(jen.Id("c").Op("*").Id("Client")).Block(
			jen.Id("c").Dot("hc").Op("=").Id("hc"),
		)),
	)

	f.Comment("New creates a client for the API served at base.")
	f.Func().Id("New").Params(
		jen.Id("base").String(),
		jen.Id("opts").Op("...").Id("Option"),
	).Op("*").Id("Client").Block(
		jen.Id("c").Op(":=").Op("&").Id("Client").Values(jen.Dict{
			jen.Id("base"): jen.Qual("strings", "TrimRight").Call(jen.Id("base"), jen.Lit("/")),
			jen.Id("hc"):   jen.Qual("net/http", "DefaultClient"),
		}),
		jen.For(jen.List(jen.Id("_"), jen.Id("opt")).Op(":=").Range().Id("opts")).Block(
			jen.Id("opt").Call(jen.Id("c")),
		),
		jen.Return(jen.Id("c")),
	)

	f.Comment("Meta carries list pagination metadata.")
	f.Type().Id("Meta").Struct(
		jen.Id("Page").Int().Tag(map[string]string{"json": "page"}),
		jen.Id("Limit").Int().Tag(map[string]string{"json": "limit"}),
		jen.Id("Total").Int64().Tag(map[string]string{"json": "total"}),
	)

	f.Comment("APIError is a non-2xx response decoded from the error envelope.")
	f.Type().Id("APIError").Struct(
		jen.Id("Status").Int(),
		jen.Id("Message").String(),
	)
	f.Func().Params(jen.Id("e").Op("*").Id("APIError")).Id("Error").Params().String().Block(
		jen.Return(jen.Qual("fmt", "Sprintf").Call(jen.Lit("api error: status %d: %s"), jen.Id("e").Dot("Status"), jen.Id("e").Dot("Message"))),
	)

	f.Type().Id("envelope").Struct(
		jen.Id("Success").Bool().Tag(map[string]string{"json": "success"}),
		jen.Id("Data").Qual("encoding/json", "RawMessage").Tag(map[string]string{"json": "data"}),
		jen.Id("Meta").Op("*").Id("Meta").Tag(map[string]string{"json": "meta"}),
		jen.Id("Error").String().Tag(map[string]string{"json": "error"}),
	)

	f.Func().Params(jen.Id("c").Op("*").Id("Client")).Id("do").Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.List(jen.Id("method"), jen.Id("path")).String(),
		jen.Id("query").Qual("net/url", "Values"),
		jen.Id("in").Any(),
	).Params(jen.Op("*").Id("envelope"), jen.Error()).Block(
		jen.Var().Id("body").Qual("io", "Reader"),
		jen.If(jen.Id("in").Op("!=").Nil()).Block(
			jen.List(jen.Id("b"), jen.Err()).Op(":=").Qual("encoding/json", "Marshal").Call(jen.Id("in")),
			jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err())),
			jen.Id("body").Op("=").Qual("bytes", "NewReader").Call(jen.Id("b")),
		),
		jen.Id("u").Op(":=").Id("c").Dot("base").Op("+").Id("path"),
		jen.If(jen.Len(jen.Id("query")).Op(">").Lit(0)).Block(
			jen.Id("u").Op("+=").Lit("?").Op("+").Id("query").Dot("Encode").Call(),
		),
		jen.List(jen.Id("req"), jen.Err()).Op(":=").Qual("net/http", "NewRequestWithContext").Call(
			jen.Id("ctx"), jen.Id("method"), jen.Id("u"), jen.Id("body"),
		),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err())),
		jen.If(jen.Id("in").Op("!=").Nil()).Block(
			jen.Id("req").Dot("Header").Dot("Set").Call(jen.Lit("Content-Type"), jen.Lit("application/json")),
		),
		jen.List(jen.Id("res"), jen.Err()).Op(":=").Id("c").Dot("hc").Dot("Do").Call(jen.Id("req")),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err())),
		jen.Defer().Id("res").Dot("Body").Dot("Close").Call(),
		jen.Var().Id("env").Id("envelope"),
		jen.If(
			jen.Err().Op(":=").Qual("encoding/json", "NewDecoder").Call(jen.Id("res").Dot("Body")).Dot("Decode").Call(jen.Op("&").Id("env")),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Return(jen.Nil(), jen.Err())),
		jen.If(jen.Id("res").Dot("StatusCode").Op(">=").Lit(400)).Block(
			jen.Return(jen.Nil(), jen.Op("&").Id("APIError").Values(jen.Dict{
				jen.Id("Status"):  jen.Id("res").Dot("StatusCode"),
				jen.Id("Message"): jen.Id("env").Dot("Error"),
			})),
		),
		jen.Return(jen.Op("&").Id("env"), jen.Nil()),
	)
}

// genModel generates the resource model struct. Relation references are
// omitted: their identifier types differ per backend, so they are not part
// of the portable client surface.
func genModel(f *jen.File, n *gen.Resource) {
	f.Commentf("%s is the client-side model of the %s resource.", n.Name, n.Label())
	f.Type().Id(n.Name).StructFunc(func(group *jen.Group) {
		group.Id("ID").String().Tag(map[string]string{"json": "id"})
		for _, fld := range n.Fields {
			stmt := group.Id(fld.GoName())
			goType(stmt, fld.Type)
			stmt.Tag(map[string]string{"json": fld.Name})
		}
	})
}

func goType(stmt *jen.Statement, t schema.Type) {
	switch t {
	case schema.TypeInt:
		stmt.Int64()
	case schema.TypeFloat:
		stmt.Float64()
	case schema.TypeBool:
		stmt.Bool()
	case schema.TypeTime:
		stmt.Qual("time", "Time")
	default:
		// string, enum and ref travel as strings on the wire.
		stmt.String()
	}
}

// genMethod generates one client method from a contract endpoint.
func genMethod(f *jen.File, n *gen.Resource, e contract.Endpoint) error {
	switch e.Op {
	case "list":
		genList(f, n, e)
	case "get":
		genGet(f, n, e)
	case "create":
		genCreate(f, n, e)
	case "update":
		genUpdate(f, n, e)
	case "delete":
		genDelete(f, n, e)
	default:
		return fmt.Errorf("clientgen: resource %s: unknown operation %q", n.Name, e.Op)
	}
	return nil
}

// itemPath renders the fmt expression for an item path, escaping the
// identifier segment.
func itemPath(path string) jen.Code {
	return jen.Qual("fmt", "Sprintf").Call(
		jen.Lit(strings.Replace(path, "{id}", "%s", 1)),
		jen.Qual("net/url", "PathEscape").Call(jen.Id("id")),
	)
}

func decodeData(target jen.Code) []jen.Code {
	return []jen.Code{
		jen.If(
			jen.Err().Op(":=").Qual("encoding/json", "Unmarshal").Call(jen.Id("env").Dot("Data"), target),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Return(jen.Nil(), jen.Err())),
	}
}

func genList(f *jen.File, n *gen.Resource, e contract.Endpoint) {
	name := "List" + pluralName(n)
	f.Commentf("%s fetches one page of %s.", name, n.Collection())
	blocks := []jen.Code{
		jen.Id("query").Op(":=").Qual("net/url", "Values").Values(),
	}
	if e.Paging != nil {
		blocks = append(blocks,
			jen.If(jen.Id("page").Op(">").Lit(0)).Block(
				jen.Id("query").Dot("Set").Call(jen.Lit(e.Paging.PageParam), jen.Qual("strconv", "Itoa").Call(jen.Id("page"))),
			),
			jen.If(jen.Id("limit").Op(">").Lit(0)).Block(
				jen.Id("query").Dot("Set").Call(jen.Lit(e.Paging.LimitParam), jen.Qual("strconv", "Itoa").Call(jen.Id("limit"))),
			),
		)
	}
	blocks = append(blocks,
		jen.List(jen.Id("env"), jen.Err()).Op(":=").Id("c").Dot("do").Call(
			jen.Id("ctx"), jen.Lit(e.Method), jen.Lit(e.Path), jen.Id("query"), jen.Nil(),
		),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Nil(), jen.Err())),
		jen.Var().Id("items").Index().Id(n.Name),
		jen.If(
			jen.Err().Op(":=").Qual("encoding/json", "Unmarshal").Call(jen.Id("env").Dot("Data"), jen.Op("&").Id("items")),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Return(jen.Nil(), jen.Nil(), jen.Err())),
		jen.Return(jen.Id("items"), jen.Id("env").Dot("Meta"), jen.Nil()),
	)
	f.Func().Params(jen.Id("c").Op("*").Id("Client")).Id(name).Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.List(jen.Id("page"), jen.Id("limit")).Int(),
	).Params(jen.Index().Id(n.Name), jen.Op("*").Id("Meta"), jen.Error()).Block(blocks...)
}

func genGet(f *jen.File, n *gen.Resource, e contract.Endpoint) {
	name := "Get" + n.Name
	f.Commentf("%s fetches one %s by ID.", name, n.Label())
	f.Func().Params(jen.Id("c").Op("*").Id("Client")).Id(name).Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("id").String(),
	).Params(jen.Op("*").Id(n.Name), jen.Error()).Block(append([]jen.Code{
		jen.List(jen.Id("env"), jen.Err()).Op(":=").Id("c").Dot("do").Call(
			jen.Id("ctx"), jen.Lit(e.Method), itemPath(e.Path), jen.Nil(), jen.Nil(),
		),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err())),
		jen.Var().Id("m").Id(n.Name),
	}, append(
		decodeData(jen.Op("&").Id("m")),
		jen.Return(jen.Op("&").Id("m"), jen.Nil()),
	)...)...)
}

func genCreate(f *jen.File, n *gen.Resource, e contract.Endpoint) {
	name := "Create" + n.Name
	f.Commentf("%s creates a new %s.", name, n.Label())
	f.Func().Params(jen.Id("c").Op("*").Id("Client")).Id(name).Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("in").Op("*").Id(n.Name),
	).Params(jen.Op("*").Id(n.Name), jen.Error()).Block(append([]jen.Code{
		jen.List(jen.Id("env"), jen.Err()).Op(":=").Id("c").Dot("do").Call(
			jen.Id("ctx"), jen.Lit(e.Method), jen.Lit(e.Path), jen.Nil(), jen.Id("in"),
		),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err())),
		jen.Var().Id("m").Id(n.Name),
	}, append(
		decodeData(jen.Op("&").Id("m")),
		jen.Return(jen.Op("&").Id("m"), jen.Nil()),
	)...)...)
}

func genUpdate(f *jen.File, n *gen.Resource, e contract.Endpoint) {
	name := "Update" + n.Name
	f.Commentf("%s replaces an existing %s.", name, n.Label())
	f.Func().Params(jen.Id("c").Op("*").Id("Client")).Id(name).Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("id").String(),
		jen.Id("in").Op("*").Id(n.Name),
	).Params(jen.Op("*").Id(n.Name), jen.Error()).Block(append([]jen.Code{
		jen.List(jen.Id("env"), jen.Err()).Op(":=").Id("c").Dot("do").Call(
			jen.Id("ctx"), jen.Lit(e.Method), itemPath(e.Path), jen.Nil(), jen.Id("in"),
		),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err())),
		jen.Var().Id("m").Id(n.Name),
	}, append(
		decodeData(jen.Op("&").Id("m")),
		jen.Return(jen.Op("&").Id("m"), jen.Nil()),
	)...)...)
}

func genDelete(f *jen.File, n *gen.Resource, e contract.Endpoint) {
	name := "Delete" + n.Name
	f.Commentf("%s removes one %s by ID.", name, n.Label())
	f.Func().Params(jen.Id("c").Op("*").Id("Client")).Id(name).Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("id").String(),
	).Error().Block(
		jen.List(jen.Id("_"), jen.Err()).Op(":=").Id("c").Dot("do").Call(
			jen.Id("ctx"), jen.Lit(e.Method), itemPath(e.Path), jen.Nil(), jen.Nil(),
		),
		jen.Return(jen.Err()),
	)
}

// pluralName returns the PascalCase plural method stem ("Tasks").
func pluralName(n *gen.Resource) string {
	segments := strings.Split(n.Collection(), "-")
	for i, s := range segments {
		segments[i] = strings.ToUpper(s[:1]) + s[1:]
	}
	return strings.Join(segments, "")
}
