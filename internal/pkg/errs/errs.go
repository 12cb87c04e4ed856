package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Every typed error in this package unwraps to exactly one of them,
// so callers can classify failures with errors.Is without knowing the concrete type.
var (
	ErrObjectNotFound    = errors.New("object not found")
	ErrValueIsInvalid    = errors.New("value is invalid")
	ErrValueIsOutOfRange = errors.New("value is out of range")
	ErrValueIsRequired   = errors.New("value is required")
	ErrConflict          = errors.New("state conflict")
	ErrVersionConflict   = fmt.Errorf("%w: version mismatch", ErrConflict)
	ErrAccessDenied      = errors.New("access denied")
)

// ObjectNotFoundError is returned when a referenced object does not exist.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{
		ParamName: paramName,
		ID:        id,
	}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{
		ParamName: paramName,
		ID:        id,
		Cause:     cause,
	}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %v)",
			ErrObjectNotFound, e.ParamName, sanitize(e.ID), e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, sanitize(e.ID))
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError is returned when a value fails a business rule.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{
		ParamName: paramName,
		Cause:     cause,
	}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsInvalid, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError is returned when a value lies outside [Min, Max].
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{
		ParamName: paramName,
		Value:     value,
		Min:       minValue,
		Max:       maxValue,
	}
}

func NewValueIsOutOfRangeErrorWithCause(
	paramName string,
	value, minValue, maxValue any,
	cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{
		ParamName: paramName,
		Value:     value,
		Min:       minValue,
		Max:       maxValue,
		Cause:     cause,
	}
}

func (e *ValueIsOutOfRangeError) Error() string {
	msg := fmt.Sprintf("%s: %v is %s, min value is %v, max value is %v",
		ErrValueIsInvalid, sanitize(e.Value), e.ParamName, sanitize(e.Min), sanitize(e.Max))
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ValueIsRequiredError is returned when a mandatory value is missing.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{
		ParamName: paramName,
		Cause:     cause,
	}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsRequired, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// ConflictError is returned when the persisted state of an object does not
// admit the requested change. Callers may retry after refetching.
type ConflictError struct {
	Subject string
	Cause   error
}

func NewConflictError(subject string) *ConflictError {
	return &ConflictError{Subject: subject}
}

func NewConflictErrorWithCause(subject string, cause error) *ConflictError {
	return &ConflictError{
		Subject: subject,
		Cause:   cause,
	}
}

func (e *ConflictError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrConflict, e.Subject, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrConflict, e.Subject)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// VersionConflictError is returned when a conditional write lost a race against
// a concurrent writer.
type VersionConflictError struct {
	ParamName string
	ID        any
	Expected  int64
}

func NewVersionConflictError(paramName string, id any, expected int64) *VersionConflictError {
	return &VersionConflictError{
		ParamName: paramName,
		ID:        id,
		Expected:  expected,
	}
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("%s: %s %s was modified concurrently (expected version %d)",
		ErrVersionConflict, e.ParamName, sanitize(e.ID), e.Expected)
}

func (e *VersionConflictError) Unwrap() error {
	return ErrVersionConflict
}

// AccessDeniedError is returned when the actor lacks the role or the
// relationship to the object required by an operation.
type AccessDeniedError struct {
	Action string
	Cause  error
}

func NewAccessDeniedError(action string) *AccessDeniedError {
	return &AccessDeniedError{Action: action}
}

func NewAccessDeniedErrorWithCause(action string, cause error) *AccessDeniedError {
	return &AccessDeniedError{
		Action: action,
		Cause:  cause,
	}
}

func (e *AccessDeniedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrAccessDenied, e.Action, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrAccessDenied, e.Action)
}

func (e *AccessDeniedError) Unwrap() error {
	return ErrAccessDenied
}

func sanitize(v any) string {
	s := fmt.Sprintf("%v", v)
	return strings.Join(strings.Fields(strings.ReplaceAll(s, "\n", " ")), " ")
}
