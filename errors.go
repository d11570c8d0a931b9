package lasso

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrDuplicateRecordType is returned by Define when a record type name is already registered.
	ErrDuplicateRecordType = errors.New("lasso: record type already defined")
	// ErrUnsupportedValue is returned by ToPrimitive for values with no primitive form.
	ErrUnsupportedValue = errors.New("lasso: unsupported value")
)

// Failure is the single validation error kind produced by the engine. It carries a
// human-readable message and, when it wraps an error raised by a callable or a
// capability, the original error as Cause.
type Failure struct {
	Message string
	Cause   error
}

func (f *Failure) Error() string { return f.Message }

func (f *Failure) Unwrap() error { return f.Cause }

// Failf builds a Failure from a format string. Capability implementations can
// return it to have their message surface unchanged.
func Failf(format string, args ...any) *Failure {
	return &Failure{Message: fmt.Sprintf(format, args...)}
}

// AsFailure extracts a *Failure from err using errors.As.
func AsFailure(err error) (*Failure, bool) {
	if err == nil {
		return nil, false
	}
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// TypeMismatchError reports a top-level value that cannot possibly be a record:
// neither a record of the expected type nor a string-keyed mapping.
type TypeMismatchError struct {
	Record string
	Value  any
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("lasso: cannot build %s from %s", e.Record, repr(e.Value))
}

// failure returns msg as a Failure when set, otherwise the generated message.
func failure(msg string, format string, args ...any) *Failure {
	if msg != "" {
		return &Failure{Message: msg}
	}
	return Failf(format, args...)
}

// relay applies the propagation policy shared by capability and transform nodes:
// a Failure returned as is passes through unless a custom message replaces it;
// any other error, including one wrapping a Failure, is wrapped with the
// generated description.
func relay(msg string, err error, format string, args ...any) *Failure {
	if f, ok := err.(*Failure); ok {
		if msg == "" {
			return f
		}
		return &Failure{Message: msg}
	}
	if msg != "" {
		return &Failure{Message: msg, Cause: err}
	}
	return &Failure{Message: fmt.Sprintf(format, args...) + " raised " + err.Error(), Cause: err}
}
