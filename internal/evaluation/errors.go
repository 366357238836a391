package evaluation

import (
	"errors"
	"fmt"
	"procurement_evaluation_system/internal/db/repositories"
)

const (
	CodeInvalidTransition  = "invalid_transition"
	CodeForbidden          = "forbidden"
	CodeDeadlineNotReached = "deadline_not_reached"
	CodeDeadlinePassed     = "deadline_passed"
	CodeValidationFailed   = "validation_failed"
	CodeConflict           = "conflict"
	CodeNotFound           = "not_found"
)

type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches any *Error with the same code, so errors.Is(err, ErrForbidden) works on detailed errors.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return other.Code == e.Code
}

var (
	ErrInvalidTransition  = &Error{Code: CodeInvalidTransition}
	ErrForbidden          = &Error{Code: CodeForbidden}
	ErrDeadlineNotReached = &Error{Code: CodeDeadlineNotReached}
	ErrDeadlinePassed     = &Error{Code: CodeDeadlinePassed}
	ErrValidationFailed   = &Error{Code: CodeValidationFailed}
	ErrConflict           = &Error{Code: CodeConflict}
	ErrNotFound           = &Error{Code: CodeNotFound}
)

func newError(code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func invalidTransition(from, to fmt.Stringer) *Error {
	return newError(CodeInvalidTransition, "cannot move from %s to %s", from, to)
}

// CodeOf returns the code of the first *Error in err's chain, or "" when there is none.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func translateStoreError(err error, what string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return newError(CodeNotFound, "%s not found", what)
	}
	return err
}
