package tasks

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the task list file does not exist.
var ErrNotFound = errors.New("tasks file not found")

// ParseError reports a task list file that is not valid JSON.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse tasks file %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SchemaError reports a task list that is valid JSON but has the wrong
// shape. Index is the offending element, or -1 when the top-level value
// is not a list.
type SchemaError struct {
	Path  string
	Index int
	Field string
	Err   error
}

func (e *SchemaError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid tasks file %s: %v", e.Path, e.Err)
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid task at index %d: field %q: %v", e.Index, e.Field, e.Err)
	}
	return fmt.Sprintf("invalid task at index %d: %v", e.Index, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// IsSchemaError reports whether err is, or wraps, a SchemaError.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}

// IsParseError reports whether err is, or wraps, a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
