package commands

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// DefaultMaxAttempts is used when a handler is configured with fewer than one attempt.
const DefaultMaxAttempts = 3

type (
	loadOrderFunc   func(ctx context.Context, repo ports.OrderRepository) (*order.Order, error)
	mutateOrderFunc func(ctx context.Context, o *order.Order) (changed bool, err error)
)

// orderMutation runs the read-validate-write cycle shared by every transition:
// load a fresh snapshot, apply the domain operation, write conditionally on the
// loaded version and commit. Lost races are retried from a fresh snapshot.
type orderMutation struct {
	uowFactory  OrderUoWFactory
	maxAttempts int
}

func newOrderMutation(uowFactory OrderUoWFactory, maxAttempts int) orderMutation {
	return orderMutation{uowFactory: uowFactory, maxAttempts: maxAttempts}
}

func (m orderMutation) run(ctx context.Context, load loadOrderFunc, mutate mutateOrderFunc) (order.Snapshot, error) {
	var snapshot order.Snapshot

	err := retryOnVersionConflict(ctx, m.maxAttempts, func(ctx context.Context) error {
		uow := m.uowFactory.Create()
		if err := uow.Begin(ctx); err != nil {
			return err
		}

		defer func() {
			_ = uow.Rollback(ctx)
		}()

		repo := uow.OrderRepository()

		o, err := load(ctx, repo)
		if err != nil {
			return err
		}

		changed, err := mutate(ctx, o)
		if err != nil {
			return err
		}

		if changed {
			if err = repo.Update(ctx, o); err != nil {
				return err
			}
		}

		if err = uow.Commit(ctx); err != nil {
			return err
		}

		snapshot = o.Snapshot()
		return nil
	})

	return snapshot, err
}

// retryOnVersionConflict calls fn until it succeeds, fails with anything other
// than a version conflict, the context is done, or attempts are exhausted.
// Every attempt re-runs all checks against fresh state.
func retryOnVersionConflict(ctx context.Context, attempts int, fn func(ctx context.Context) error) error {
	return retry(ctx, attempts, func(err error) bool {
		return errors.Is(err, errs.ErrVersionConflict)
	}, fn)
}

func retry(ctx context.Context, attempts int, retryable func(error) bool, fn func(ctx context.Context) error) error {
	if attempts < 1 {
		attempts = DefaultMaxAttempts
	}

	var err error
	for range attempts {
		err = fn(ctx)
		if err == nil || !retryable(err) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return errors.Join(err, ctxErr)
		}
	}
	return err
}

func orderByID(id kernel.UUID) loadOrderFunc {
	return func(ctx context.Context, repo ports.OrderRepository) (*order.Order, error) {
		return repo.Get(ctx, id)
	}
}
