// Package errors provides the typed error taxonomy for the cell locator
// build path: the three kinds an in-memory spatial index actually raises —
// bad configuration, degenerate input geometry, and internal invariant
// violations.
package errors

import (
	"errors"
	"fmt"
)

// Kind categorizes a locator error.
type Kind string

const (
	// KindConfiguration covers a null dataset, zero cells, or an
	// inconsistent level/max-level pair. Raised by Build.
	KindConfiguration Kind = "configuration"
	// KindGeometryDegenerate covers a cell whose AABB is empty or
	// inverted. Non-fatal: the cell is still indexed, conservatively,
	// and the warning is recorded once per build.
	KindGeometryDegenerate Kind = "geometry_degenerate"
	// KindInternalInvariant covers a violated structural invariant,
	// such as exceeding the hard tree-depth cap. Fatal: aborts Build.
	KindInternalInvariant Kind = "internal_invariant"
)

// LocatorError is a typed error carrying the component and operation that
// raised it.
type LocatorError struct {
	Kind      Kind
	Component string
	Message   string
	Cause     error
}

func (e *LocatorError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s[%s]: %s: %v", e.Kind, e.Component, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s[%s]: %s", e.Kind, e.Component, e.Message)
}

func (e *LocatorError) Unwrap() error { return e.Cause }

// Is supports errors.Is comparisons against a Kind-only sentinel built with
// New(kind, "", "").
func (e *LocatorError) Is(target error) bool {
	var t *LocatorError
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// New creates a LocatorError.
func New(kind Kind, component, message string) *LocatorError {
	return &LocatorError{Kind: kind, Component: component, Message: message}
}

// Wrap wraps an underlying cause into a LocatorError.
func Wrap(err error, kind Kind, component, message string) *LocatorError {
	if err == nil {
		return nil
	}
	return &LocatorError{Kind: kind, Component: component, Message: message, Cause: err}
}

// NewConfigurationError reports a Build()-time configuration problem.
func NewConfigurationError(component, message string) *LocatorError {
	return New(KindConfiguration, component, message)
}

// NewInternalInvariantError reports a fatal structural violation.
func NewInternalInvariantError(component, message string) *LocatorError {
	return New(KindInternalInvariant, component, message)
}

// IsConfiguration reports whether err is a configuration error.
func IsConfiguration(err error) bool {
	var e *LocatorError
	return errors.As(err, &e) && e.Kind == KindConfiguration
}

// IsInternalInvariant reports whether err is an internal invariant error.
func IsInternalInvariant(err error) bool {
	var e *LocatorError
	return errors.As(err, &e) && e.Kind == KindInternalInvariant
}

// DegenerateCellWarning describes one degenerate cell encountered during a
// build. These are collected, never returned as build errors
// is "recorded, cell placed conservatively, warning logged once per build".
type DegenerateCellWarning struct {
	CellID  int64
	Message string
}
