package gen

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"

	"github.com/nadhmi12/api-dev-marketplace/contract"
	"github.com/nadhmi12/api-dev-marketplace/schema"
	"github.com/nadhmi12/api-dev-marketplace/target"
)

// Artifact is one rendered source unit. Source holds the final text after
// post-processing; Endpoints carries the contract re-derived from the text
// of Routes artifacts and is nil for every other kind.
type Artifact struct {
	Target    string
	Resource  string
	Kind      target.Kind
	Source    string
	Endpoints []contract.Endpoint
}

// FileName returns the artifact's conventional file name, e.g.
// "task.model.js" or "task_model.go".
func (a Artifact) FileName() string {
	profile, err := target.Lookup(a.Target)
	if err != nil {
		return fmt.Sprintf("%s.%s", snake(a.Resource), a.Kind)
	}
	sep := "."
	if profile.PostProcess == "goimports" {
		sep = "_"
	}
	return snake(a.Resource) + sep + a.Kind.String() + profile.FileExt
}

// Emitter renders every (resource, target) pair of a graph against the
// profiles' template sets. Rendering is a pure function of the graph and
// the profiles; running it twice yields byte-identical artifacts.
type Emitter struct {
	graph     *Graph
	profiles  []*target.Profile
	templates map[string]*template.Template
}

// NewEmitter resolves the requested target IDs against the registry and
// parses each profile's template set once. Target order is preserved and
// duplicates are dropped.
func NewEmitter(g *Graph, targetIDs ...string) (*Emitter, error) {
	if len(targetIDs) == 0 {
		return nil, NewConfigError("Targets", nil, "at least one target is required")
	}
	e := &Emitter{
		graph:     g,
		templates: make(map[string]*template.Template, len(targetIDs)),
	}
	seen := make(map[string]struct{}, len(targetIDs))
	for _, id := range targetIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		p, err := target.Lookup(id)
		if err != nil {
			return nil, NewUnknownTargetError(id, err)
		}
		tmpl := template.New(p.ID).Funcs(funcMap)
		for _, kind := range target.Kinds() {
			if _, err := tmpl.New(kind.String()).Parse(p.Templates[kind]); err != nil {
				return nil, fmt.Errorf("forgegen: parse %s/%s template: %w", p.ID, kind, err)
			}
		}
		e.profiles = append(e.profiles, p)
		e.templates[p.ID] = tmpl
	}
	return e, nil
}

// Targets returns the resolved target IDs in request order.
func (e *Emitter) Targets() []string {
	ids := make([]string, len(e.profiles))
	for i, p := range e.profiles {
		ids[i] = p.ID
	}
	return ids
}

// Emit renders all artifacts. Pairs run in parallel bounded by the config's
// worker count; output order is deterministic regardless of scheduling:
// targets in request order, resources in declaration order, kinds in
// emission order. A mapping or rendering error fails the whole run, so a
// target set is either complete or absent.
func (e *Emitter) Emit(ctx context.Context) ([]Artifact, error) {
	kinds := target.Kinds()
	nodes := e.graph.Nodes
	artifacts := make([]Artifact, len(e.profiles)*len(nodes)*len(kinds))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(e.graph.Config.workers())
	for pi, p := range e.profiles {
		for ni, n := range nodes {
			base := (pi*len(nodes) + ni) * len(kinds)
			eg.Go(func() error {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				pair, err := e.emitPair(p, n)
				if err != nil {
					return err
				}
				copy(artifacts[base:base+len(kinds)], pair)
				return nil
			})
		}
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

// emitPair renders the full artifact set of one resource on one target.
func (e *Emitter) emitPair(p *target.Profile, n *Resource) ([]Artifact, error) {
	data, err := e.renderData(p, n)
	if err != nil {
		return nil, err
	}
	tmpl := e.templates[p.ID]
	var artifacts []Artifact
	for _, kind := range target.Kinds() {
		var buf bytes.Buffer
		if err := tmpl.ExecuteTemplate(&buf, kind.String(), data); err != nil {
			return nil, fmt.Errorf("forgegen: render %s %s for %s: %w", p.ID, kind, n.Name, err)
		}
		source := buf.Bytes()
		if p.PostProcess == "goimports" {
			source, err = imports.Process(snake(n.Name)+"_"+kind.String()+p.FileExt, source, nil)
			if err != nil {
				return nil, fmt.Errorf("forgegen: format %s %s for %s: %w", p.ID, kind, n.Name, err)
			}
		}
		a := Artifact{
			Target:   p.ID,
			Resource: n.Name,
			Kind:     kind,
			Source:   string(source),
		}
		if kind == target.KindRoutes {
			endpoints, err := contract.ParseAnnotations(a.Source, p.CommentPrefix)
			if err != nil {
				return nil, fmt.Errorf("forgegen: %s routes for %s: %w", p.ID, n.Name, err)
			}
			a.Endpoints = endpoints
		}
		artifacts = append(artifacts, a)
	}
	return artifacts, nil
}

// =============================================================================
// Render context
// =============================================================================

type (
	renderData struct {
		Profile   renderProfile
		Resource  *Resource
		Fields    []renderField
		Columns   []renderColumn
		Relations []renderRelation
		Endpoints []renderEndpoint
		SortKey   string
		Page      int
		Limit     int
	}

	renderProfile struct {
		ID          string
		Persistence string
		Comment     string
	}

	renderField struct {
		Name       string
		GoName     string
		Property   string
		Column     string
		Native     string
		Required   bool
		Unique     bool
		Enums      []string
		Directives []string
	}

	// renderColumn is the flattened storage view used by relational
	// model templates: the declared fields followed by the owned
	// foreign-key columns.
	renderColumn struct {
		Name       string
		GoName     string
		Column     string
		Native     string
		SQLType    string
		Required   bool
		Unique     bool
		Enums      []string
		Directives []string
		// References names the referenced table for FK columns.
		References string
	}

	renderRelation struct {
		// Name is the singular stem used for column naming.
		Name       string
		GoName     string
		Property   string
		FKColumn   string
		JoinTable  string
		OwnerLabel string
		OwnerTable string
		Owns       bool
		IsO2O      bool
		IsO2M      bool
		IsM2O      bool
		IsM2M      bool
		Target     renderTarget
	}

	renderTarget struct {
		Name  string
		Table string
	}

	renderEndpoint struct {
		Op            string
		Method        string
		Path          string
		SuccessStatus int
		Envelope      string
		Handler       string
		Annotation    string
	}
)

// renderData assembles the template input for one (profile, resource) pair.
// Everything target-specific (native types, directive spellings, path
// style) is resolved here so templates stay purely presentational.
func (e *Emitter) renderData(p *target.Profile, n *Resource) (*renderData, error) {
	data := &renderData{
		Profile: renderProfile{
			ID:          p.ID,
			Persistence: p.Persistence.String(),
			Comment:     p.CommentPrefix,
		},
		Resource: n,
		SortKey:  n.SortKey(),
		Page:     contract.DefaultPage,
		Limit:    contract.DefaultLimit,
	}
	for _, f := range n.Fields {
		m, err := MapField(n.Name, f, p)
		if err != nil {
			return nil, err
		}
		data.Fields = append(data.Fields, renderField{
			Name:       f.Name,
			GoName:     f.GoName(),
			Property:   f.Property(),
			Column:     f.Column(),
			Native:     m.Type.Name,
			Required:   f.Required,
			Unique:     f.Unique(),
			Enums:      f.Enums,
			Directives: m.Directives,
		})
		data.Columns = append(data.Columns, renderColumn{
			Name:       f.Name,
			GoName:     f.GoName(),
			Column:     f.Column(),
			Native:     m.Type.Name,
			SQLType:    m.Type.Column,
			Required:   f.Required,
			Unique:     f.Unique(),
			Enums:      f.Enums,
			Directives: m.Directives,
		})
	}
	for _, r := range n.Relations {
		data.Relations = append(data.Relations, renderRelation{
			Name:       singular(r.Name),
			GoName:     r.GoName(),
			Property:   r.Property(),
			FKColumn:   r.FKColumn(),
			JoinTable:  r.JoinTable(),
			OwnerLabel: r.OwnerLabel(),
			OwnerTable: r.OwnerTable(),
			Owns:       r.Owns,
			IsO2O:      r.IsO2O(),
			IsO2M:      r.IsO2M(),
			IsM2O:      r.IsM2O(),
			IsM2M:      r.IsM2M(),
			Target:     renderTarget{Name: r.Target.Name, Table: r.Target.Table()},
		})
		// Relational targets store owned to-one relations as FK columns.
		if p.Persistence == target.Relational && r.Owns && (r.Kind == schema.O2O || r.Kind == schema.M2O) {
			data.Columns = append(data.Columns, renderColumn{
				Name:       r.FKColumn(),
				GoName:     r.GoName() + "ID",
				Column:     r.FKColumn(),
				Native:     p.IDType.Name,
				SQLType:    p.IDType.Column,
				References: r.Target.Table(),
			})
		}
	}
	for _, ep := range contract.Canonical(n.Name) {
		data.Endpoints = append(data.Endpoints, renderEndpoint{
			Op:            ep.Op,
			Method:        ep.Method,
			Path:          contract.SpellPath(ep.Path, p.PathStyle),
			SuccessStatus: ep.SuccessStatus,
			Envelope:      string(ep.Envelope),
			Handler:       ep.Op + n.Name,
			Annotation:    contract.FormatAnnotation(ep, p.CommentPrefix, p.PathStyle),
		})
	}
	return data, nil
}
