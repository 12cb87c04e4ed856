package commands

import (
	"context"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/logger"
)

// ConfirmDeliveryCommandHandler moves a Shipped order to Delivered once the
// proof matches the issued delivery code. Confirming again with the same proof
// succeeds without writing; a different proof after delivery is a conflict.
type ConfirmDeliveryCommandHandler struct {
	mutation orderMutation
	store    ports.OTPStore
	log      *logger.Logger
}

func NewConfirmDeliveryCommandHandler(
	uowFactory OrderUoWFactory,
	store ports.OTPStore,
	maxAttempts int,
) ConfirmDeliveryCommandHandler {
	return ConfirmDeliveryCommandHandler{
		mutation: newOrderMutation(uowFactory, maxAttempts),
		store:    store,
		log:      logger.Nop(),
	}
}

// WithLogger returns a copy of the handler reporting OTP cleanup failures to log.
func (h ConfirmDeliveryCommandHandler) WithLogger(log *logger.Logger) ConfirmDeliveryCommandHandler {
	if log != nil {
		h.log = log
	}
	return h
}

func (h ConfirmDeliveryCommandHandler) Handle(ctx context.Context, command ConfirmDeliveryCommand) (order.Snapshot, error) {
	if err := command.Validate(); err != nil {
		return order.Snapshot{}, err
	}

	actor := command.Actor()
	switch actor.Role() {
	case kernel.RoleCustomer, kernel.RoleDriver, kernel.RoleAdmin, kernel.RoleSystem:
	case kernel.RoleWarehouseManager:
		return order.Snapshot{}, errs.NewAccessDeniedError(fmt.Sprintf("%s may not confirm deliveries", actor.Role()))
	}

	otp := newOTPCheck(h.store, h.log)
	snapshot, err := h.mutation.run(ctx, orderByID(command.OrderID()), func(ctx context.Context, o *order.Order) (bool, error) {
		return o.Deliver(actor, order.DeliveryReport{
			Proof: command.Proof(),
			At:    time.Now().UTC(),
		}, otp.verify(ctx, o.ID()))
	})
	if err != nil {
		return order.Snapshot{}, err
	}

	otp.consume(ctx, snapshot.ID)
	return snapshot, nil
}
