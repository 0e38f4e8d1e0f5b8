package schema

import (
	"errors"

	"github.com/foomo/globalcontent-mcp/service/vo"
)

const (
	IssueMissingField     = "missing_field"
	IssueTypeMismatch     = "type_mismatch"
	IssueInvalidEnumValue = "invalid_enum_value"
	IssueInvalid          = "invalid"
)

// IsValidationError reports whether err consists only of schema failures.
func IsValidationError(err error) bool {
	if err == nil {
		return false
	}
	for _, e := range Errors(err) {
		if issueKind(e) == IssueInvalid {
			return false
		}
	}
	return true
}

// Issues converts a validation error into serializable issues, one per
// failure.
func Issues(err error) []vo.ValidationIssue {
	if err == nil {
		return nil
	}
	errs := Errors(err)
	issues := make([]vo.ValidationIssue, 0, len(errs))
	for _, e := range errs {
		issue := vo.ValidationIssue{
			Path:    Path(e),
			Kind:    issueKind(e),
			Message: e.Error(),
		}
		var (
			mismatch *TypeMismatchError
			enum     *InvalidEnumValueError
		)
		switch {
		case errors.As(e, &mismatch):
			issue.Expected = mismatch.Expected
			issue.Actual = mismatch.Actual
		case errors.As(e, &enum):
			issue.Actual = enum.Value
			issue.Allowed = enum.Allowed
		}
		issues = append(issues, issue)
	}
	return issues
}

func issueKind(err error) string {
	var (
		missing  *MissingFieldError
		mismatch *TypeMismatchError
		enum     *InvalidEnumValueError
	)
	switch {
	case errors.As(err, &missing):
		return IssueMissingField
	case errors.As(err, &mismatch):
		return IssueTypeMismatch
	case errors.As(err, &enum):
		return IssueInvalidEnumValue
	}
	return IssueInvalid
}
