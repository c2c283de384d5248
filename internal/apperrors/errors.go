package apperrors

import (
	"errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
)

type Kind string

const (
	KindMissingCV            Kind = "MISSING_CV"
	KindDuplicateApplication Kind = "DUPLICATE_APPLICATION"
	KindDuplicateInterview   Kind = "DUPLICATE_INTERVIEW"
	KindInvalidSchedule      Kind = "INVALID_SCHEDULE"
	KindFieldConflict        Kind = "FIELD_CONFLICT"
	KindInvalidDuration      Kind = "INVALID_DURATION"
	KindDateMismatch         Kind = "DATE_MISMATCH"
	KindPastStartDate        Kind = "PAST_START_DATE"
	KindNotFound             Kind = "NOT_FOUND"
	KindInvalidInput         Kind = "INVALID_INPUT"
	KindUnauthorized         Kind = "UNAUTHORIZED"
	KindForbidden            Kind = "FORBIDDEN"
	KindInternal             Kind = "INTERNAL"
)

// Error is the domain error returned by services. It is always recoverable at
// the request boundary.
type Error struct {
	Kind    Kind
	Message string
	Err     error
	Stack   []byte
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) StackTrace() []byte {
	return e.Stack
}

func New(kind Kind, message string, err error) *Error {
	var stack []byte
	if err != nil {
		var stackErr *goerrors.Error
		if errors.As(err, &stackErr) {
			stack = stackErr.Stack()
		} else {
			stack = goerrors.Wrap(err, 2).Stack()
		}
	} else {
		stack = goerrors.New(message).Stack()
	}

	return &Error{
		Kind:    kind,
		Message: message,
		Err:     err,
		Stack:   stack,
	}
}

// KindOf returns the kind of a domain error anywhere in the chain, or
// KindInternal for foreign errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	return KindOf(err) == kind
}

func MissingCV() *Error {
	return New(KindMissingCV, "please upload your CV before applying to offers", nil)
}

func DuplicateApplication(err error) *Error {
	return New(KindDuplicateApplication, "you have already applied to this offer", err)
}

func DuplicateInterview(err error) *Error {
	return New(KindDuplicateInterview, "an interview already exists for this application", err)
}

func InvalidSchedule(message string) *Error {
	return New(KindInvalidSchedule, message, nil)
}

func FieldConflict(message string) *Error {
	return New(KindFieldConflict, message, nil)
}

func InvalidDuration(duration string) *Error {
	return New(KindInvalidDuration, fmt.Sprintf("invalid duration %q, expected e.g. \"3 months\" or \"1 year\"", duration), nil)
}

func DateMismatch(message string) *Error {
	return New(KindDateMismatch, message, nil)
}

func PastStartDate() *Error {
	return New(KindPastStartDate, "start date cannot be in the past", nil)
}

func NotFound(message string, err error) *Error {
	return New(KindNotFound, message, err)
}

func InvalidInput(message string) *Error {
	return New(KindInvalidInput, message, nil)
}

func Unauthorized(message string) *Error {
	return New(KindUnauthorized, message, nil)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, message, nil)
}

func Internal(message string, err error) *Error {
	return New(KindInternal, message, err)
}
