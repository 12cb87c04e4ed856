package order

import (
	"fmt"
	"regexp"
	"strings"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"

	"github.com/google/uuid"
)

const trackingIDPrefix = "TRK-"

var (
	trackingIDPattern = regexp.MustCompile(`^TRK-[0-9A-F]{16}$`)

	ErrTrackingIDIsNotConstructed = errs.NewValueIsRequiredError(
		"tracking id must be created via NewTrackingID or TrackingIDFromString")
)

// TrackingID is the customer-facing identifier of an order, e.g. "TRK-9F2C4A1B03D87E55".
// It is assigned at creation and never reassigned.
type TrackingID struct {
	value string
	guard guard.ConstructorGuard
}

// NewTrackingID draws 60 random bits from a v4 UUID. Uniqueness is enforced by the order store;
// creation retries on the (unlikely) collision.
func NewTrackingID() TrackingID {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return TrackingID{
		value: trackingIDPrefix + strings.ToUpper(raw[:16]),
		guard: guard.NewConstructorGuard(),
	}
}

func TrackingIDFromString(s string) (TrackingID, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	if !trackingIDPattern.MatchString(v) {
		return TrackingID{}, errs.NewValueIsInvalidErrorWithCause("tracking id", fmt.Errorf("%q is malformed", s))
	}
	return TrackingID{value: v, guard: guard.NewConstructorGuard()}, nil
}

func (t TrackingID) Validate() error {
	return t.guard.Validate(ErrTrackingIDIsNotConstructed)
}

func (t TrackingID) String() string {
	return t.value
}
