package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/logger"
)

// UpdateDeliveryStatusCommandHandler processes driver delivery reports.
//
// Business rules:
//   - Only the assigned driver may report (Authorization)
//   - Location reports require a Shipped order (Conflict)
//   - Delivered requires a Shipped order (Conflict) and, when OTP
//     confirmation is required, a code matching the issued one (Validation)
//   - Repeating a delivery with the same proof succeeds without writing
type UpdateDeliveryStatusCommandHandler struct {
	mutation    orderMutation
	store       ports.OTPStore
	otpRequired bool
	log         *logger.Logger
}

func NewUpdateDeliveryStatusCommandHandler(
	uowFactory OrderUoWFactory,
	store ports.OTPStore,
	otpRequired bool,
	maxAttempts int,
) UpdateDeliveryStatusCommandHandler {
	return UpdateDeliveryStatusCommandHandler{
		mutation:    newOrderMutation(uowFactory, maxAttempts),
		store:       store,
		otpRequired: otpRequired,
		log:         logger.Nop(),
	}
}

// WithLogger returns a copy of the handler reporting OTP cleanup failures to log.
func (h UpdateDeliveryStatusCommandHandler) WithLogger(log *logger.Logger) UpdateDeliveryStatusCommandHandler {
	if log != nil {
		h.log = log
	}
	return h
}

func (h UpdateDeliveryStatusCommandHandler) Handle(
	ctx context.Context,
	command UpdateDeliveryStatusCommand,
) (order.Snapshot, error) {
	if err := command.Validate(); err != nil {
		return order.Snapshot{}, err
	}

	actor := command.Actor()
	if actor.Role() != kernel.RoleDriver {
		return order.Snapshot{}, errs.NewAccessDeniedError("only the assigned driver may report delivery progress")
	}

	otp := newOTPCheck(h.store, h.log)
	snapshot, err := h.mutation.run(ctx, orderByID(command.OrderID()), func(ctx context.Context, o *order.Order) (bool, error) {
		if !o.IsAssignedTo(actor.ID()) {
			return false, errs.NewAccessDeniedError("only the assigned driver may report delivery progress")
		}

		now := time.Now().UTC()
		if command.NewStatus() == order.Shipped {
			return true, o.RecordDriverLocation(actor, *command.Location(), now)
		}

		var check order.ProofCheck
		if h.otpRequired {
			check = otp.verify(ctx, o.ID())
		}

		return o.Deliver(actor, order.DeliveryReport{
			Proof:    command.Proof(),
			Location: command.Location(),
			At:       now,
		}, check)
	})
	if err != nil {
		return order.Snapshot{}, err
	}

	otp.consume(ctx, snapshot.ID)
	return snapshot, nil
}

// otpCheck verifies delivery codes inside a transition. A verified code is
// consumed only after the transition was committed, so retried attempts can
// verify it again.
type otpCheck struct {
	store    ports.OTPStore
	log      *logger.Logger
	verified bool
}

func newOTPCheck(store ports.OTPStore, log *logger.Logger) *otpCheck {
	if log == nil {
		log = logger.Nop()
	}
	return &otpCheck{store: store, log: log}
}

func (c *otpCheck) verify(ctx context.Context, orderID kernel.UUID) order.ProofCheck {
	return func(proof string) error {
		if err := c.store.Verify(ctx, orderID, proof); err != nil {
			return err
		}
		c.verified = true
		return nil
	}
}

// consume removes a verified code. The delivery is already committed, so a
// failure is logged and the code is left to expire with its TTL.
func (c *otpCheck) consume(ctx context.Context, orderID kernel.UUID) {
	if !c.verified {
		return
	}
	if err := c.store.Consume(ctx, orderID); err != nil {
		c.log.Error(c.log.WithOrderID(ctx, orderID.String()), "delivery code was not consumed", err)
	}
}
