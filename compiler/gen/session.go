package gen

import (
	"context"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/uuid"

	"github.com/nadhmi12/api-dev-marketplace/contract"
	"github.com/nadhmi12/api-dev-marketplace/schema"
	"github.com/nadhmi12/api-dev-marketplace/target"
)

// State is the lifecycle phase of a generation session. Transitions are
// strictly forward; any failure moves the session to StateFailed, which is
// terminal.
type State int

// Session states in transition order.
const (
	// StateLoaded: descriptions decoded and the graph built.
	StateLoaded State = iota
	// StateMapped: every field resolved against every requested profile.
	StateMapped
	// StateEmitted: all artifacts rendered.
	StateEmitted
	// StateValidated: cross-target contracts proven identical.
	StateValidated
	// StateCompleted: results handed out.
	StateCompleted
	// StateFailed: terminal failure state.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateMapped:
		return "mapped"
	case StateEmitted:
		return "emitted"
	case StateValidated:
		return "validated"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Session drives one generation run through its lifecycle. A session is
// single-use: it is built from loaded resources, stepped forward until
// completed or failed, and never reset. Sessions are not safe for
// concurrent use; the parallelism lives inside the emitter.
type Session struct {
	// ID identifies the run in logs and reports.
	ID string

	config  *Config
	graph   *Graph
	emitter *Emitter

	state     State
	artifacts []Artifact
	report    *contract.Report
	err       error
}

// NewSession builds the graph for the given resources and resolves the
// requested targets, leaving the session in StateLoaded. Target order is
// preserved and duplicate IDs are dropped.
func NewSession(resources []*schema.Resource, targets []string, opts ...Option) (*Session, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	g, err := NewGraph(cfg, resources...)
	if err != nil {
		return nil, err
	}
	e, err := NewEmitter(g, targets...)
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:      uuid.NewString(),
		config:  cfg,
		graph:   g,
		emitter: e,
		state:   StateLoaded,
	}, nil
}

// State returns the session's current lifecycle phase.
func (s *Session) State() State { return s.state }

// Err returns the error that moved the session to StateFailed, if any.
func (s *Session) Err() error { return s.err }

// Targets returns the session's resolved target IDs in request order.
func (s *Session) Targets() []string { return s.emitter.Targets() }

// Graph returns the validated resource graph.
func (s *Session) Graph() *Graph { return s.graph }

// fail moves the session to its terminal failure state.
func (s *Session) fail(err error) error {
	s.state = StateFailed
	s.err = err
	return err
}

// step guards one forward transition: the session must be in the expected
// state and the context must still be live.
func (s *Session) step(ctx context.Context, from State) error {
	if s.state != from {
		return fmt.Errorf("forgegen: session %s: cannot advance from %s (expected %s)", s.ID, s.state, from)
	}
	if err := ctx.Err(); err != nil {
		return s.fail(&CancelledError{State: s.state.String(), Cause: err})
	}
	return nil
}

// Map resolves every declared field of every resource against every
// requested profile, moving the session to StateMapped. Type-map and
// constraint gaps surface here, before any artifact is rendered.
func (s *Session) Map(ctx context.Context) error {
	if err := s.step(ctx, StateLoaded); err != nil {
		return err
	}
	for _, id := range s.emitter.Targets() {
		p, err := target.Lookup(id)
		if err != nil {
			return s.fail(NewUnknownTargetError(id, err))
		}
		for _, n := range s.graph.Nodes {
			for _, f := range n.Fields {
				if _, err := MapField(n.Name, f, p); err != nil {
					return s.fail(err)
				}
			}
		}
	}
	s.state = StateMapped
	return nil
}

// Emit renders all artifacts, moving the session to StateEmitted.
func (s *Session) Emit(ctx context.Context) error {
	if err := s.step(ctx, StateMapped); err != nil {
		return err
	}
	artifacts, err := s.emitter.Emit(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return s.fail(&CancelledError{State: s.state.String(), Cause: err})
		}
		return s.fail(err)
	}
	s.artifacts = artifacts
	s.state = StateEmitted
	return nil
}

// Validate re-derives each target's contract from its Routes artifacts and
// asserts all targets declare the identical API surface, moving the session
// to StateValidated. Any divergence is terminal.
func (s *Session) Validate(ctx context.Context) error {
	if err := s.step(ctx, StateEmitted); err != nil {
		return err
	}
	var sets []contract.TargetSet
	for _, a := range s.artifacts {
		if a.Kind != target.KindRoutes {
			continue
		}
		sets = append(sets, contract.TargetSet{
			Target:    a.Target,
			Resource:  a.Resource,
			Endpoints: a.Endpoints,
		})
	}
	report := contract.Validate(sets)
	s.report = report
	if !report.OK() {
		mismatches := make([]string, len(report.Mismatches))
		for i, m := range report.Mismatches {
			mismatches[i] = m.String()
		}
		return s.fail(&ContractMismatchError{Mismatches: mismatches})
	}
	s.state = StateValidated
	return nil
}

// Run drives the session from StateLoaded to StateCompleted and returns
// the full artifact list.
func (s *Session) Run(ctx context.Context) ([]Artifact, error) {
	if err := s.Map(ctx); err != nil {
		return nil, err
	}
	if err := s.Emit(ctx); err != nil {
		return nil, err
	}
	if err := s.Validate(ctx); err != nil {
		return nil, err
	}
	s.state = StateCompleted
	return s.Artifacts(), nil
}

// Artifacts returns the rendered artifacts in deterministic order: targets
// in request order, resources in declaration order, kinds in emission
// order. It returns nil before StateEmitted.
func (s *Session) Artifacts() []Artifact { return s.artifacts }

// Report returns the cross-target validation report, or nil before
// StateValidated was attempted.
func (s *Session) Report() *contract.Report { return s.report }

// Document returns the validated target-independent contract document.
func (s *Session) Document() (*contract.Document, error) {
	if s.report == nil || s.report.Document == nil {
		return nil, fmt.Errorf("forgegen: session %s: contract not validated (state %s)", s.ID, s.state)
	}
	return s.report.Document, nil
}

// ExportContract renders the validated contract as an OpenAPI document.
func (s *Session) ExportContract() (*openapi3.T, error) {
	doc, err := s.Document()
	if err != nil {
		return nil, err
	}
	title := s.config.Title
	if title == "" {
		title = "Generated API"
	}
	version := s.config.Version
	if version == "" {
		version = "0.1.0"
	}
	return doc.OpenAPI(title, version), nil
}

// Fingerprint returns the stable digest of the validated contract. Two
// sessions over equivalent descriptions produce the same fingerprint
// whatever targets they render.
func (s *Session) Fingerprint() (string, error) {
	doc, err := s.Document()
	if err != nil {
		return "", err
	}
	return doc.Fingerprint()
}
