// Package errs provides standardized error types for the fulfillment service.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes several error types for common error scenarios:
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: malformed input
//   - ObjectNotFoundError: a referenced order, product or driver does not exist
//   - ConflictError, VersionConflictError: persisted state does not admit the change
//   - AccessDeniedError: the actor lacks the role or relationship required
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
//
// KindOf folds every error into one of the stable kinds exposed to callers:
// ValidationError, AuthorizationError, NotFoundError, ConflictError.
package errs
