package order

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	Pending ──> Processing ──> Shipped ──> Delivered
//	   │            │             │
//	   └────────────┴─────────────┴──────> Cancelled
//
// Delivered and Cancelled are terminal. The roles allowed on each edge are
// listed in the transition table (see Authorize).
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status set at order creation.
	Pending

	// Processing means the warehouse accepted the order and is preparing it.
	Processing

	// Shipped means the order left the warehouse with its assigned driver.
	Shipped

	// Delivered means the delivery was confirmed with a proof. Terminal.
	Delivered

	// Cancelled means the order was withdrawn with a reason. Terminal.
	Cancelled
)

var statusNames = map[Status]string{
	Pending:    "Pending",
	Processing: "Processing",
	Shipped:    "Shipped",
	Delivered:  "Delivered",
	Cancelled:  "Cancelled",
}

// ParseStatus accepts the status names case-insensitively.
func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks if the Status value is one of the defined lifecycle states.
func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status, "Unknown" for invalid values.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "Unknown"
}

// IsTerminal reports whether no transition may leave s.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// requiresDriver reports whether an order in s must have an assigned driver.
func (s Status) requiresDriver() bool {
	return s == Shipped || s == Delivered
}
