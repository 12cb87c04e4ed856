package commands

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrExpireStaleOrdersCommandIsNotConstructed = errors.New(
	"ExpireStaleOrdersCommand must be created via NewExpireStaleOrdersCommand constructor",
)

// ExpireStaleOrdersCommand cancels Pending orders that were not picked up for
// processing within ttl of their creation.
type ExpireStaleOrdersCommand struct {
	ttl       time.Duration
	now       time.Time
	batchSize int

	guard guard.ConstructorGuard
}

func NewExpireStaleOrdersCommand(ttl time.Duration, now time.Time, batchSize int) (ExpireStaleOrdersCommand, error) {
	var problems []error
	if ttl <= 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause("ttl", fmt.Errorf("%s is not positive", ttl)))
	}
	if batchSize <= 0 {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"batch size", fmt.Errorf("%d is not greater than 0", batchSize)))
	}
	if now.IsZero() {
		problems = append(problems, errs.NewValueIsRequiredError("now"))
	}
	if err := errors.Join(problems...); err != nil {
		return ExpireStaleOrdersCommand{}, err
	}

	return ExpireStaleOrdersCommand{
		ttl:       ttl,
		now:       now.UTC(),
		batchSize: batchSize,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ExpireStaleOrdersCommand) Validate() error {
	return c.guard.Validate(ErrExpireStaleOrdersCommandIsNotConstructed)
}

func (c ExpireStaleOrdersCommand) TTL() time.Duration {
	return c.ttl
}

// Cutoff is the creation time before which a Pending order is stale.
func (c ExpireStaleOrdersCommand) Cutoff() time.Time {
	return c.now.Add(-c.ttl)
}

func (c ExpireStaleOrdersCommand) BatchSize() int {
	return c.batchSize
}

// Reason is the cancellation reason recorded on expired orders.
func (c ExpireStaleOrdersCommand) Reason() string {
	return fmt.Sprintf("expired: not processed within %s", c.ttl)
}
