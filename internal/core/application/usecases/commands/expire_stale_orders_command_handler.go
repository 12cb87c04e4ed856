package commands

import (
	"context"
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// ExpireStaleOrdersResult summarizes one expiry run.
type ExpireStaleOrdersResult struct {
	Candidates int
	Expired    int
	// Skipped counts candidates that left Pending before they could be expired.
	Skipped int
}

// ExpireStaleOrdersCommandHandler cancels stale Pending orders as the system
// actor. Each order is expired in its own transaction, so one failure does not
// hold back the rest of the batch.
type ExpireStaleOrdersCommandHandler struct {
	uowFactory  OrderUoWFactory
	maxAttempts int
}

func NewExpireStaleOrdersCommandHandler(uowFactory OrderUoWFactory, maxAttempts int) ExpireStaleOrdersCommandHandler {
	return ExpireStaleOrdersCommandHandler{
		uowFactory:  uowFactory,
		maxAttempts: maxAttempts,
	}
}

func (h ExpireStaleOrdersCommandHandler) Handle(
	ctx context.Context,
	command ExpireStaleOrdersCommand,
) (ExpireStaleOrdersResult, error) {
	var result ExpireStaleOrdersResult
	if err := command.Validate(); err != nil {
		return result, err
	}

	candidates, err := h.uowFactory.Create().OrderRepository().
		ListPendingCreatedBefore(ctx, command.Cutoff(), command.BatchSize())
	if err != nil {
		return result, err
	}
	result.Candidates = len(candidates)

	mutation := newOrderMutation(h.uowFactory, h.maxAttempts)
	system := kernel.SystemActor()

	var failures []error
	for _, candidate := range candidates {
		if ctx.Err() != nil {
			failures = append(failures, ctx.Err())
			break
		}

		expired := false
		_, err = mutation.run(ctx, orderByID(candidate.ID()), func(_ context.Context, o *order.Order) (bool, error) {
			if o.Status() != order.Pending || !o.CreatedAt().Before(command.Cutoff()) {
				return false, nil
			}
			if err := o.Cancel(system, command.Reason(), nil, kernel.NewUUID()); err != nil {
				return false, err
			}
			expired = true
			return true, nil
		})

		switch {
		case err == nil && expired:
			result.Expired++
		case err == nil, errors.Is(err, errs.ErrConflict):
			result.Skipped++
		default:
			failures = append(failures, fmt.Errorf("expire order %s: %w", candidate.ID(), err))
		}
	}

	return result, errors.Join(failures...)
}
