package order

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// PaymentMode is chosen at checkout and never changes afterwards.
type PaymentMode string

const (
	PaymentOnline PaymentMode = "Online"
	PaymentCOD    PaymentMode = "COD"
)

// ParsePaymentMode accepts "Online" and "COD" case-insensitively.
func ParsePaymentMode(s string) (PaymentMode, error) {
	switch {
	case strings.EqualFold(s, string(PaymentOnline)):
		return PaymentOnline, nil
	case strings.EqualFold(s, string(PaymentCOD)):
		return PaymentCOD, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("payment mode", fmt.Errorf("%q is not a valid payment mode", s))
	}
}

func (m PaymentMode) Validate() error {
	_, err := ParsePaymentMode(string(m))
	return err
}

// PaymentStatus tracks what the payment gateway reported for the order.
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "Unpaid"
	PaymentPaid     PaymentStatus = "Paid"
	PaymentRefunded PaymentStatus = "Refunded"
)

func (s PaymentStatus) Validate() error {
	switch s {
	case PaymentUnpaid, PaymentPaid, PaymentRefunded:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("payment status", fmt.Errorf("%q is not a valid payment status", string(s)))
	}
}

// Payment is the payment sub-state of an order.
type Payment struct {
	Mode   PaymentMode
	Status PaymentStatus
	// ID is the external payment transaction reference, empty until paid.
	ID string
}

func (p Payment) validate() error {
	if err := p.Mode.Validate(); err != nil {
		return err
	}
	if err := p.Status.Validate(); err != nil {
		return err
	}
	if p.Status != PaymentUnpaid && p.ID == "" {
		return errs.NewValueIsRequiredErrorWithCause(
			"payment id", fmt.Errorf("payment status %s requires a transaction reference", p.Status))
	}
	return nil
}
