package schema

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// MissingFieldError reports a required field that is absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field %q", e.Field)
}

// TypeMismatchError reports a value of the wrong JSON kind. Field is empty
// when the mismatching value is the entity itself.
type TypeMismatchError struct {
	Field    string
	Expected string
	Actual   string
}

func (e *TypeMismatchError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("expected %s, got %s", e.Expected, e.Actual)
	}
	return fmt.Sprintf("field %q: expected %s, got %s", e.Field, e.Expected, e.Actual)
}

// InvalidEnumValueError reports a string outside a closed enumeration.
type InvalidEnumValueError struct {
	Field   string
	Value   string
	Allowed []string
}

func (e *InvalidEnumValueError) Error() string {
	return fmt.Sprintf("field %q: invalid value %q, allowed %s", e.Field, e.Value, strings.Join(e.Allowed, ", "))
}

// NestedValidationError localizes a failure inside a nested entity. Path is
// the full dotted path from the validated root, e.g. "logo.image.url" or
// "navItems[2].type". Cause is always a leaf error, never another
// NestedValidationError.
type NestedValidationError struct {
	Path  string
	Cause error
}

func (e *NestedValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Cause)
}

func (e *NestedValidationError) Unwrap() error {
	return e.Cause
}

// Errors flattens a validation error into its individual failures, in the
// order they were found.
func Errors(err error) []error {
	return multierr.Errors(err)
}

// Path returns the location of a single failure relative to the validated
// root. Top-level failures report their field name.
func Path(err error) string {
	var nested *NestedValidationError
	if errors.As(err, &nested) {
		return nested.Path
	}
	return fieldOf(err)
}

func fieldOf(err error) string {
	var (
		missing  *MissingFieldError
		mismatch *TypeMismatchError
		enum     *InvalidEnumValueError
	)
	switch {
	case errors.As(err, &missing):
		return missing.Field
	case errors.As(err, &mismatch):
		return mismatch.Field
	case errors.As(err, &enum):
		return enum.Field
	}
	return ""
}

// withPath moves err one level down under prefix. Nested errors get their
// path extended, leaf errors are wrapped once.
func withPath(prefix string, err error) error {
	var nested *NestedValidationError
	if errors.As(err, &nested) {
		return &NestedValidationError{Path: joinPath(prefix, nested.Path), Cause: nested.Cause}
	}
	return &NestedValidationError{Path: joinPath(prefix, fieldOf(err)), Cause: err}
}

func joinPath(prefix, p string) string {
	switch {
	case p == "":
		return prefix
	case prefix == "":
		return p
	case strings.HasPrefix(p, "["):
		return prefix + p
	}
	return prefix + "." + p
}

// nestAll applies withPath to every failure combined in err.
func nestAll(prefix string, err error) error {
	var out error
	for _, e := range multierr.Errors(err) {
		out = multierr.Append(out, withPath(prefix, e))
	}
	return out
}

// WithPath re-roots every failure in err under prefix, so callers that pull
// an entity out of a larger payload can still report full paths.
func WithPath(prefix string, err error) error {
	if err == nil {
		return nil
	}
	return nestAll(prefix, err)
}
