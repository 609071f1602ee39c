// Package gen implements the generation pipeline. It builds the resource
// graph from loaded descriptions, maps logical types onto target profiles,
// renders per-target artifacts and validates that all targets expose the
// same API contract.
package gen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure cases.
var (
	// ErrInvalidSchema indicates a resource description error.
	ErrInvalidSchema = errors.New("forgegen: invalid schema")
	// ErrMissingConfig indicates a configuration error.
	ErrMissingConfig = errors.New("forgegen: missing configuration")
	// ErrUnknownTarget indicates a request for an unregistered target.
	ErrUnknownTarget = errors.New("forgegen: unknown target")
	// ErrUnsupportedType indicates a type missing from a profile's type map.
	ErrUnsupportedType = errors.New("forgegen: unsupported type")
	// ErrUnsupportedConstraint indicates a constraint the target's
	// validation idiom cannot express.
	ErrUnsupportedConstraint = errors.New("forgegen: unsupported constraint")
	// ErrContractMismatch indicates cross-target contract divergence.
	ErrContractMismatch = errors.New("forgegen: contract mismatch")
	// ErrCancelled indicates the session was cancelled before completing.
	ErrCancelled = errors.New("forgegen: session cancelled")
)

// SchemaError represents a semantic defect in a resource description.
type SchemaError struct {
	Resource string
	Field    string // field or relation name (if applicable)
	Message  string
	Cause    error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("forgegen: schema error")
	if e.Resource != "" {
		b.WriteString(" on resource ")
		b.WriteString(e.Resource)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for SchemaError.
func (e *SchemaError) Is(target error) bool {
	return target == ErrInvalidSchema
}

// NewSchemaError creates a new SchemaError.
func NewSchemaError(resource, field, message string, cause error) *SchemaError {
	return &SchemaError{
		Resource: resource,
		Field:    field,
		Message:  message,
		Cause:    cause,
	}
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("forgegen: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("forgegen: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// UnknownTargetError represents a request for a target ID that has not been
// registered. It is session-fatal.
type UnknownTargetError struct {
	Target string
	Cause  error
}

// Error implements the error interface.
func (e *UnknownTargetError) Error() string {
	return fmt.Sprintf("forgegen: unknown target %q", e.Target)
}

// Unwrap returns the underlying error.
func (e *UnknownTargetError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for UnknownTargetError.
func (e *UnknownTargetError) Is(target error) bool {
	return target == ErrUnknownTarget
}

// NewUnknownTargetError creates a new UnknownTargetError.
func NewUnknownTargetError(targetID string, cause error) *UnknownTargetError {
	return &UnknownTargetError{
		Target: targetID,
		Cause:  cause,
	}
}

// UnsupportedTypeError represents a logical type missing from a profile's
// type map. Mapping fails rather than guessing a representation.
type UnsupportedTypeError struct {
	Resource string
	Field    string
	Type     string
	Target   string
}

// Error implements the error interface.
func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("forgegen: unsupported type %s on %s.%s for target %s",
		e.Type, e.Resource, e.Field, e.Target)
}

// Is reports whether the target matches the sentinel error for UnsupportedTypeError.
func (e *UnsupportedTypeError) Is(target error) bool {
	return target == ErrUnsupportedType
}

// NewUnsupportedTypeError creates a new UnsupportedTypeError.
func NewUnsupportedTypeError(resource, field, typeName, targetID string) *UnsupportedTypeError {
	return &UnsupportedTypeError{
		Resource: resource,
		Field:    field,
		Type:     typeName,
		Target:   targetID,
	}
}

// UnsupportedConstraintError represents a constraint that has no equivalent
// directive in the target's validation idiom. Dropping the constraint
// silently would weaken one target's guarantees, so mapping fails instead.
type UnsupportedConstraintError struct {
	Resource   string
	Field      string
	Constraint string
	Target     string
}

// Error implements the error interface.
func (e *UnsupportedConstraintError) Error() string {
	return fmt.Sprintf("forgegen: constraint %s on %s.%s has no equivalent in target %s",
		e.Constraint, e.Resource, e.Field, e.Target)
}

// Is reports whether the target matches the sentinel error for UnsupportedConstraintError.
func (e *UnsupportedConstraintError) Is(target error) bool {
	return target == ErrUnsupportedConstraint
}

// NewUnsupportedConstraintError creates a new UnsupportedConstraintError.
func NewUnsupportedConstraintError(resource, field, constraint, targetID string) *UnsupportedConstraintError {
	return &UnsupportedConstraintError{
		Resource:   resource,
		Field:      field,
		Constraint: constraint,
		Target:     targetID,
	}
}

// ContractMismatchError represents cross-target contract divergence found by
// the validator. Shipping mismatched targets would hand API consumers
// incompatible contracts for the same resource, so the session fails.
type ContractMismatchError struct {
	Mismatches []string
}

// Error implements the error interface.
func (e *ContractMismatchError) Error() string {
	return fmt.Sprintf("forgegen: contract mismatch: %s", strings.Join(e.Mismatches, "; "))
}

// Is reports whether the target matches the sentinel error for ContractMismatchError.
func (e *ContractMismatchError) Is(target error) bool {
	return target == ErrContractMismatch
}

// CancelledError represents cooperative session cancellation. It is not a
// generator defect and callers should not report it as one.
type CancelledError struct {
	State string // session state observed at cancellation
	Cause error
}

// Error implements the error interface.
func (e *CancelledError) Error() string {
	return fmt.Sprintf("forgegen: session cancelled in state %s", e.State)
}

// Unwrap returns the underlying error.
func (e *CancelledError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for CancelledError.
func (e *CancelledError) Is(target error) bool {
	return target == ErrCancelled
}

// IsSchemaError reports whether the error is a SchemaError.
func IsSchemaError(err error) bool {
	var schemaErr *SchemaError
	return errors.As(err, &schemaErr)
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsUnknownTargetError reports whether the error is an UnknownTargetError.
func IsUnknownTargetError(err error) bool {
	var targetErr *UnknownTargetError
	return errors.As(err, &targetErr)
}

// IsUnsupportedTypeError reports whether the error is an UnsupportedTypeError.
func IsUnsupportedTypeError(err error) bool {
	var typeErr *UnsupportedTypeError
	return errors.As(err, &typeErr)
}

// IsUnsupportedConstraintError reports whether the error is an UnsupportedConstraintError.
func IsUnsupportedConstraintError(err error) bool {
	var constraintErr *UnsupportedConstraintError
	return errors.As(err, &constraintErr)
}

// IsContractMismatchError reports whether the error is a ContractMismatchError.
func IsContractMismatchError(err error) bool {
	var mismatchErr *ContractMismatchError
	return errors.As(err, &mismatchErr)
}

// IsCancelled reports whether the error is a CancelledError.
func IsCancelled(err error) bool {
	var cancelledErr *CancelledError
	return errors.As(err, &cancelledErr)
}
