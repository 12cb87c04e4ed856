// Package guard holds the constructor guard embedded by value objects, commands
// and queries to tell constructed values apart from zero values.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks a value as built by its designated constructor.
// A zero-value guard fails validation, so a struct literal that skipped the
// constructor (and therefore its validation) is detected on first use.
//
// Example usage:
//
//	var ErrTrackingIDNotConstructed = errors.New("TrackingID must be created via NewTrackingID")
//
//	type TrackingID struct {
//	    value string
//	    guard guard.ConstructorGuard
//	}
//
//	func (t TrackingID) Validate() error {
//	    return t.guard.Validate(ErrTrackingIDNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard that passes validation.
// Call it only from constructors, after all inputs were validated.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for a constructed guard and validationError otherwise.
// A nil validationError is replaced by ErrDefaultConstructorGuard.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
