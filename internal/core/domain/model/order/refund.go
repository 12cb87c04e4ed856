package order

import (
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// RefundStatus tracks the compensating refund created when a paid order is cancelled.
//
//	Pending ──┬──> Processed
//	          └──> Failed
type RefundStatus string

const (
	RefundPending   RefundStatus = "Pending"
	RefundProcessed RefundStatus = "Processed"
	RefundFailed    RefundStatus = "Failed"
)

func (s RefundStatus) Validate() error {
	switch s {
	case RefundPending, RefundProcessed, RefundFailed:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("refund status", fmt.Errorf("%q is not a valid refund status", string(s)))
	}
}

// IsTerminal reports whether the gateway outcome was already recorded.
func (s RefundStatus) IsTerminal() bool {
	return s == RefundProcessed || s == RefundFailed
}

// Refund is the refund sub-state of an order. ID is the key used by gateway
// callbacks to make completion idempotent.
type Refund struct {
	ID             kernel.UUID
	Status         RefundStatus
	Amount         kernel.Money
	TransactionRef string
	Date           *time.Time
}

func (r Refund) validate(total kernel.Money) error {
	if err := r.ID.Validate(); err != nil {
		return err
	}
	if err := r.Status.Validate(); err != nil {
		return err
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	return validateRefundAmount(r.Amount, total)
}

func validateRefundAmount(amount, total kernel.Money) error {
	if amount.IsZero() || amount.GreaterThan(total) {
		return errs.NewValueIsOutOfRangeError("refund amount", amount.String(), "0.01", total.String())
	}
	return nil
}
