package search

import (
	"errors"
	"fmt"
)

var (
	// ErrParse is returned when a search string cannot be parsed. The
	// underlying *query.ParseError is wrapped alongside it.
	ErrParse = errors.New("cannot parse search query")

	// ErrMalformedValue is returned when a reserved field's value has the
	// wrong shape, such as id without a bag separator.
	ErrMalformedValue = errors.New("malformed field value")

	// ErrQueryFailed is returned when the compiled statement fails to
	// execute or iterate. The read transaction is rolled back first.
	ErrQueryFailed = errors.New("search query failed")

	// ErrIndexRefused is returned by IndexQuery when the lookup cannot be
	// expressed as a query. Callers fall back to a non-indexed path.
	ErrIndexRefused = errors.New("index query refused")
)

// MalformedValueError describes a reserved field value that cannot be
// compiled.
type MalformedValueError struct {
	Field  string
	Value  string
	Reason string
}

func (e *MalformedValueError) Error() string {
	return fmt.Sprintf("malformed %s value %q: %s", e.Field, e.Value, e.Reason)
}

func (e *MalformedValueError) Is(target error) bool {
	return target == ErrMalformedValue
}

// ExecError wraps a database failure together with the statement that
// caused it.
type ExecError struct {
	SQL string
	Err error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("search query failed: %v", e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }

func (e *ExecError) Is(target error) bool {
	return target == ErrQueryFailed
}
