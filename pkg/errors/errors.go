// Package errors provides structured error handling for the compose engine.
//
// Reconciliation failures are local invariant violations: a configuration
// of the wrong kind pushed into an element, an element navigated before it
// was initialized, a rebuild requested while the same element is already
// building. They are reported to the global [ErrorHandler] and then raised
// as a panic carrying a *[FrameworkError] (see [Fatal]); they are never
// returned as recoverable values.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindTypeMismatch indicates a configuration of the wrong kind was
	// pushed into an element.
	KindTypeMismatch
	// KindUninitialized indicates an element was used before it received
	// its arena id.
	KindUninitialized
	// KindReentrantBuild indicates a rebuild was requested for an element
	// whose build is already in flight.
	KindReentrantBuild
	// KindStaleID indicates an id that no longer refers to a live node.
	KindStaleID
	// KindLifecycle indicates an operation illegal in the element's
	// current lifecycle state, such as mounting a removed element.
	KindLifecycle
	// KindRender indicates a render tree consistency error.
	KindRender
	// KindPanic indicates a recovered panic.
	KindPanic
	// KindBuild indicates a build-time view error.
	KindBuild
)

// Sentinels wrapped by the Err field of a [FrameworkError], for use with
// errors.Is.
var (
	ErrTypeMismatch   = stderrors.New("configuration type mismatch")
	ErrUninitialized  = stderrors.New("element used before initialization")
	ErrReentrantBuild = stderrors.New("rebuild requested during build")
	ErrStaleID        = stderrors.New("stale node id")
	ErrLifecycle      = stderrors.New("illegal lifecycle transition")
	ErrRender         = stderrors.New("render tree inconsistency")
)

func (k ErrorKind) String() string {
	switch k {
	case KindTypeMismatch:
		return "type-mismatch"
	case KindUninitialized:
		return "uninitialized"
	case KindReentrantBuild:
		return "reentrant-build"
	case KindStaleID:
		return "stale-id"
	case KindLifecycle:
		return "lifecycle"
	case KindRender:
		return "render"
	case KindPanic:
		return "panic"
	case KindBuild:
		return "build"
	default:
		return "unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindTypeMismatch:
		return ErrTypeMismatch
	case KindUninitialized:
		return ErrUninitialized
	case KindReentrantBuild:
		return ErrReentrantBuild
	case KindStaleID:
		return ErrStaleID
	case KindLifecycle:
		return ErrLifecycle
	case KindRender:
		return ErrRender
	default:
		return nil
	}
}

// FrameworkError represents a structured error in the engine.
type FrameworkError struct {
	// Op is the operation that failed (e.g., "core.StatefulElement.Update").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *FrameworkError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *FrameworkError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked.
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// BuildError represents a failure inside a user Build.
type BuildError struct {
	// View is the type name of the payload that failed.
	View string
	// Element is the element type (StatelessElement, StatefulElement, etc.).
	Element string
	// Recovered is the panic value (nil for regular errors).
	Recovered any
	// Err is the underlying error (nil for panics).
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *BuildError) Error() string {
	if e.Recovered != nil {
		return fmt.Sprintf("panic in %s.Build(): %v", e.View, e.Recovered)
	}
	if e.Err != nil {
		return fmt.Sprintf("error in %s.Build(): %v", e.View, e.Err)
	}
	return fmt.Sprintf("unknown error in %s.Build()", e.View)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// ErrorHandler receives errors reported by the engine.
type ErrorHandler interface {
	// HandleError is called when a framework error occurs.
	HandleError(err *FrameworkError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
	// HandleBuildError is called when a view build fails.
	HandleBuildError(err *BuildError)
}
