package contract

import (
	"fmt"
	"strconv"
	"strings"
)

// Routes artifacts carry one machine-readable annotation per endpoint so
// that the contract can be re-derived from the emitted source text instead
// of trusted from the rendering input. The grammar, after the target's
// comment prefix, is:
//
//	@endpoint OP METHOD PATH STATUS ENVELOPE [errors=S1,S2] [page=NAME,limit=NAME]
//
// for example:
//
//	// @endpoint list GET /tasks 200 list page=page,limit=limit
//	// @endpoint update PUT /tasks/{id} 200 resource errors=400,404
const annotationMarker = "@endpoint"

// FormatAnnotation renders the annotation line for an endpoint, spelling
// the path in the target's parameter style.
func FormatAnnotation(e Endpoint, prefix string, style PathStyle) string {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteByte(' ')
	b.WriteString(annotationMarker)
	fmt.Fprintf(&b, " %s %s %s %d %s", e.Op, e.Method, SpellPath(e.Path, style), e.SuccessStatus, e.Envelope)
	if len(e.ErrorStatuses) > 0 {
		statuses := make([]string, len(e.ErrorStatuses))
		for i, s := range e.ErrorStatuses {
			statuses[i] = strconv.Itoa(s)
		}
		b.WriteString(" errors=")
		b.WriteString(strings.Join(statuses, ","))
	}
	if e.Paging != nil {
		fmt.Fprintf(&b, " page=%s,limit=%s", e.Paging.PageParam, e.Paging.LimitParam)
	}
	return b.String()
}

// ParseAnnotations scans emitted source text for endpoint annotations and
// rebuilds the endpoint descriptors they declare, in source order. Lines
// that carry the marker but do not parse are reported as errors rather
// than skipped: a malformed declaration means the artifact's contract
// cannot be trusted.
func ParseAnnotations(source, prefix string) ([]Endpoint, error) {
	var endpoints []Endpoint
	for i, line := range strings.Split(source, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		rest := strings.TrimSpace(strings.TrimPrefix(line, prefix))
		if !strings.HasPrefix(rest, annotationMarker) {
			continue
		}
		e, err := parseAnnotation(strings.TrimSpace(strings.TrimPrefix(rest, annotationMarker)))
		if err != nil {
			return nil, fmt.Errorf("contract: line %d: %w", i+1, err)
		}
		endpoints = append(endpoints, e)
	}
	return endpoints, nil
}

func parseAnnotation(s string) (Endpoint, error) {
	parts := strings.Fields(s)
	if len(parts) < 5 {
		return Endpoint{}, fmt.Errorf("malformed endpoint annotation %q", s)
	}
	status, err := strconv.Atoi(parts[3])
	if err != nil {
		return Endpoint{}, fmt.Errorf("endpoint annotation %q: bad status: %w", s, err)
	}
	e := Endpoint{
		Op:            parts[0],
		Method:        parts[1],
		Path:          parts[2],
		SuccessStatus: status,
		Envelope:      Envelope(parts[4]),
	}
	switch e.Op {
	case "list", "get", "create", "update", "delete":
	default:
		return Endpoint{}, fmt.Errorf("endpoint annotation %q: unknown operation %s", s, e.Op)
	}
	switch e.Method {
	case "GET", "POST", "PUT", "PATCH", "DELETE":
	default:
		return Endpoint{}, fmt.Errorf("endpoint annotation %q: unknown method %s", s, e.Method)
	}
	if !e.Envelope.Valid() {
		return Endpoint{}, fmt.Errorf("endpoint annotation %q: unknown envelope %s", s, e.Envelope)
	}
	for _, field := range parts[5:] {
		if raw, ok := strings.CutPrefix(field, "errors="); ok {
			statuses, err := parseErrorStatuses(raw)
			if err != nil {
				return Endpoint{}, fmt.Errorf("endpoint annotation %q: %w", s, err)
			}
			e.ErrorStatuses = statuses
			continue
		}
		paging, err := parsePaging(field)
		if err != nil {
			return Endpoint{}, fmt.Errorf("endpoint annotation %q: %w", s, err)
		}
		e.Paging = paging
	}
	return e, nil
}

func parseErrorStatuses(s string) ([]int, error) {
	var statuses []int
	for _, raw := range strings.Split(s, ",") {
		status, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("bad error status list %q", s)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func parsePaging(s string) (*Paging, error) {
	p := &Paging{DefaultPage: DefaultPage, DefaultLimit: DefaultLimit}
	for _, kv := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || v == "" {
			return nil, fmt.Errorf("bad paging declaration %q", s)
		}
		switch k {
		case "page":
			p.PageParam = v
		case "limit":
			p.LimitParam = v
		default:
			return nil, fmt.Errorf("bad paging key %q", k)
		}
	}
	if p.PageParam == "" || p.LimitParam == "" {
		return nil, fmt.Errorf("incomplete paging declaration %q", s)
	}
	return p, nil
}
