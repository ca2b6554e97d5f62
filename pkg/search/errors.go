package search

import (
	"errors"
	"fmt"
)

// Kind classifies a failure reported by the search layer.
type Kind string

const (
	KindConfiguration   Kind = "configuration"
	KindInvalidDocument Kind = "invalid_document"
	KindTransport       Kind = "transport"
	KindUnavailable     Kind = "unavailable"
)

var (
	// ErrConfiguration indicates no usable connection options exist for a core.
	// Non-retryable until the configuration is fixed.
	ErrConfiguration = errors.New("no search configuration for core")

	// ErrInvalidDocument indicates the caller passed something that is not a
	// structured value to Put. Nothing is submitted when this is returned.
	ErrInvalidDocument = errors.New("search document must be a struct or a sequence of structs")

	// ErrTransport wraps any failure returned by the underlying search service.
	ErrTransport = errors.New("search transport failed")

	// ErrServiceUnavailable indicates the configured driver is not registered
	// in this process.
	ErrServiceUnavailable = errors.New("search driver is not available")
)

// Error is the typed error returned by every fallible operation of the package.
// Use errors.Is with the package sentinels or KindOf to branch on it.
type Error struct {
	Kind Kind
	Core string
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Core == "" {
		return fmt.Sprintf("search %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("search %s [%s]: %v", e.Op, e.Core, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the failure kind carried by err, or an empty Kind when err
// did not originate from this package.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	switch {
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	case errors.Is(err, ErrInvalidDocument):
		return KindInvalidDocument
	case errors.Is(err, ErrServiceUnavailable):
		return KindUnavailable
	case errors.Is(err, ErrTransport):
		return KindTransport
	}
	return ""
}

func sentinel(kind Kind) error {
	switch kind {
	case KindConfiguration:
		return ErrConfiguration
	case KindInvalidDocument:
		return ErrInvalidDocument
	case KindUnavailable:
		return ErrServiceUnavailable
	default:
		return ErrTransport
	}
}

// newError joins the sentinel for kind with cause. A nil cause yields the bare sentinel.
func newError(kind Kind, core, op string, cause error) *Error {
	err := sentinel(kind)
	if cause != nil && !errors.Is(cause, err) {
		err = errors.Join(err, cause)
	}
	return &Error{Kind: kind, Core: core, Op: op, Err: err}
}

// clientException renders a driver failure as `search client exception: "<msg>"`
// and unwraps to the driver error.
type clientException struct{ err error }

func (e clientException) Error() string { return fmt.Sprintf("search client exception: %q", e.err.Error()) }
func (e clientException) Unwrap() error { return e.err }

func transportError(core, op string, cause error) *Error {
	return newError(KindTransport, core, op, clientException{err: cause})
}
