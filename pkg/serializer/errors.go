package serializer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrSerialization marks server-side mapping failures: an unresolvable route
// template, a missing request context, or an entity that violates its own
// type contract (e.g. a link with an unset interface reference). These are
// internal inconsistencies, not client errors.
var ErrSerialization = errors.New("serialization failed")

// ErrReferenceNotFound marks a relational field that points at an entity the
// store no longer knows about.
var ErrReferenceNotFound = errors.New("referenced object not found")

// serializationErrorf builds an error marked as ErrSerialization.
func serializationErrorf(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrSerialization)
}

// ValidationError collects per-field messages for a rejected write. It is
// returned by the decode functions and rendered by the HTTP layer as a 4xx
// response body keyed by field name.
type ValidationError struct {
	Fields map[string][]string `json:"errors"`
}

// NewValidationError returns an empty ValidationError ready to collect
// field messages.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// Add records a message against a field.
func (e *ValidationError) Add(field, format string, args ...any) {
	e.Fields[field] = append(e.Fields[field], fmt.Sprintf(format, args...))
}

// OrNil returns the error if any field messages were recorded, nil otherwise.
// Returning a typed nil through an error interface is a classic footgun, so
// callers must use this instead of returning e directly.
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(e.Fields[f], "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
