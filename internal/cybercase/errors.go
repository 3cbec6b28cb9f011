package cybercase

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound is returned when an operation addresses a nonexistent case id.
var ErrNotFound = errors.New("case not found")

// ErrDuplicateExpedient is returned by the store when an insert or update
// would violate the expedient number uniqueness constraint.
var ErrDuplicateExpedient = errors.New("expedient number already exists")

// ValidationError reports malformed or missing input to a mutation.
// Fields maps the offending field name to a human-readable reason.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid case data"
	}

	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}

	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}

	return "invalid case data: " + strings.Join(parts, "; ")
}

func newValidationError(field, reason string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: reason}}
}
