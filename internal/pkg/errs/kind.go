package errs

import "errors"

// Kind is the stable, transport-independent classification of a failure.
type Kind string

const (
	KindValidation    Kind = "ValidationError"
	KindAuthorization Kind = "AuthorizationError"
	KindNotFound      Kind = "NotFoundError"
	KindConflict      Kind = "ConflictError"
	KindInternal      Kind = "InternalError"
)

// KindOf maps err onto a Kind. Errors that do not wrap one of the package
// sentinels are reported as KindInternal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValueIsInvalid),
		errors.Is(err, ErrValueIsRequired),
		errors.Is(err, ErrValueIsOutOfRange):
		return KindValidation
	case errors.Is(err, ErrAccessDenied):
		return KindAuthorization
	case errors.Is(err, ErrObjectNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflict):
		return KindConflict
	default:
		return KindInternal
	}
}

// IsRetryable reports whether the caller may retry the operation with fresh state.
func IsRetryable(err error) bool {
	return KindOf(err) == KindConflict
}
