package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// OTPStore keeps the delivery one-time passwords issued per order.
// Implementations never store the plaintext code.
type OTPStore interface {
	// Save replaces any code previously issued for orderID. The code expires after ttl.
	Save(ctx context.Context, orderID kernel.UUID, code string, ttl time.Duration) error

	// Verify checks code against the code issued for orderID without consuming it.
	//
	// Returns:
	//   - nil if the code matches
	//   - *errs.ValueIsInvalidError on mismatch
	//   - *errs.ValueIsRequiredError if no code was issued or it expired
	Verify(ctx context.Context, orderID kernel.UUID, code string) error

	// Consume removes the code issued for orderID. Removing a missing code is not an error.
	Consume(ctx context.Context, orderID kernel.UUID) error
}
