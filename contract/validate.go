package contract

import (
	"fmt"
	"sort"
)

// TargetSet is the contract one target declares for one resource,
// re-derived from its emitted Routes artifact.
type TargetSet struct {
	Target    string
	Resource  string
	Endpoints []Endpoint
}

// Mismatch is one cross-target contract divergence. Any mismatch is a hard
// failure: the generator would otherwise hand two API consumers
// incompatible contracts for what is advertised as the same resource.
type Mismatch struct {
	Resource string
	Method   string
	Path     string // normalized
	Field    string // "presence", "success_status", "envelope" or "paging"
	TargetA  string
	TargetB  string
	ValueA   string
	ValueB   string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("resource %s: %s %s: %s differs between %s (%s) and %s (%s)",
		m.Resource, m.Method, m.Path, m.Field, m.TargetA, m.ValueA, m.TargetB, m.ValueB)
}

// Report is the outcome of cross-target validation. A report with zero
// mismatches carries the de-duplicated canonical contract document.
type Report struct {
	Mismatches []Mismatch
	Document   *Document
}

// OK reports whether the validated targets expose identical contracts.
func (r *Report) OK() bool {
	return len(r.Mismatches) == 0
}

// Document is the target-independent API contract: the de-duplicated
// endpoint list per resource, consumable by documentation generators.
type Document struct {
	Resources []ResourceContract
}

// ResourceContract is the endpoint set of one resource.
type ResourceContract struct {
	Name      string
	Endpoints []Endpoint
}

// Validate groups the endpoints declared by every target by
// (method, normalized path) per resource and asserts success status,
// envelope shape and pagination parameters are identical across all
// targets present. Set order determines report determinism: resources and
// targets are compared in input order.
func Validate(sets []TargetSet) *Report {
	report := &Report{}
	byResource := make(map[string][]TargetSet)
	var resources []string
	for _, s := range sets {
		if _, ok := byResource[s.Resource]; !ok {
			resources = append(resources, s.Resource)
		}
		byResource[s.Resource] = append(byResource[s.Resource], s)
	}

	doc := &Document{}
	for _, name := range resources {
		targets := byResource[name]
		report.Mismatches = append(report.Mismatches, diffResource(name, targets)...)
		// The first target's declared order is the canonical order; once
		// validated all targets carry the same set.
		canonical := make([]Endpoint, len(targets[0].Endpoints))
		for i, e := range targets[0].Endpoints {
			e.Path = NormalizePath(e.Path)
			canonical[i] = e
		}
		doc.Resources = append(doc.Resources, ResourceContract{Name: name, Endpoints: canonical})
	}
	if report.OK() {
		report.Document = doc
	}
	return report
}

func diffResource(resource string, targets []TargetSet) []Mismatch {
	var mismatches []Mismatch
	base := targets[0]
	index := func(s TargetSet) map[string]Endpoint {
		m := make(map[string]Endpoint, len(s.Endpoints))
		for _, e := range s.Endpoints {
			m[e.Key()] = e
		}
		return m
	}
	baseIdx := index(base)

	for _, other := range targets[1:] {
		otherIdx := index(other)
		// Walk the base target's endpoints in declared order, then report
		// endpoints only the other target declares (sorted for stable output).
		for _, be := range base.Endpoints {
			key := be.Key()
			oe, ok := otherIdx[key]
			if !ok {
				mismatches = append(mismatches, Mismatch{
					Resource: resource, Method: be.Method, Path: NormalizePath(be.Path),
					Field: "presence", TargetA: base.Target, TargetB: other.Target,
					ValueA: "declared", ValueB: "missing",
				})
				continue
			}
			mismatches = append(mismatches, diffEndpoint(resource, base.Target, other.Target, be, oe)...)
		}
		var extra []string
		for key := range otherIdx {
			if _, ok := baseIdx[key]; !ok {
				extra = append(extra, key)
			}
		}
		sort.Strings(extra)
		for _, key := range extra {
			oe := otherIdx[key]
			mismatches = append(mismatches, Mismatch{
				Resource: resource, Method: oe.Method, Path: NormalizePath(oe.Path),
				Field: "presence", TargetA: base.Target, TargetB: other.Target,
				ValueA: "missing", ValueB: "declared",
			})
		}
	}
	return mismatches
}

func diffEndpoint(resource, targetA, targetB string, a, b Endpoint) []Mismatch {
	var mismatches []Mismatch
	add := func(field, va, vb string) {
		mismatches = append(mismatches, Mismatch{
			Resource: resource, Method: a.Method, Path: NormalizePath(a.Path),
			Field: field, TargetA: targetA, TargetB: targetB, ValueA: va, ValueB: vb,
		})
	}
	if a.SuccessStatus != b.SuccessStatus {
		add("success_status", fmt.Sprint(a.SuccessStatus), fmt.Sprint(b.SuccessStatus))
	}
	if a.Envelope != b.Envelope {
		add("envelope", string(a.Envelope), string(b.Envelope))
	}
	if pa, pb := pagingString(a.Paging), pagingString(b.Paging); pa != pb {
		add("paging", pa, pb)
	}
	return mismatches
}

func pagingString(p *Paging) string {
	if p == nil {
		return "none"
	}
	return fmt.Sprintf("page=%s,limit=%s", p.PageParam, p.LimitParam)
}
