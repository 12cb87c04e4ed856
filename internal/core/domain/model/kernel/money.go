package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// moneyScale is the number of fractional digits kept for monetary amounts.
const moneyScale = 2

var ErrMoneyIsNotConstructed = errs.NewValueIsRequiredError(
	"money must be created via NewMoney, MoneyFromString or ZeroMoney")

// Money is a non-negative amount in the platform currency, rounded to two
// fractional digits. Order totals and refund amounts are Money snapshots.
type Money struct {
	amount decimal.Decimal
	guard  guard.ConstructorGuard
}

// NewMoney rounds amount to the money scale and rejects negative values.
func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"money", fmt.Errorf("%s is negative", amount.String()))
	}
	return Money{
		amount: amount.Round(moneyScale),
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// MoneyFromString parses a decimal literal such as "249.90".
func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("money", err)
	}
	return NewMoney(d)
}

// MustMoney is MoneyFromString for constants and tests. It panics on invalid input.
func MustMoney(s string) Money {
	m, err := MoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

func ZeroMoney() Money {
	return Money{amount: decimal.Zero, guard: guard.NewConstructorGuard()}
}

func (m Money) Validate() error {
	return m.guard.Validate(ErrMoneyIsNotConstructed)
}

func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount), guard: guard.NewConstructorGuard()}
}

// Times multiplies the amount by a quantity. Negative quantities are a programming error
// and must be rejected by the caller.
func (m Money) Times(quantity int) Money {
	return Money{
		amount: m.amount.Mul(decimal.NewFromInt(int64(quantity))).Round(moneyScale),
		guard:  guard.NewConstructorGuard(),
	}
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) GreaterThan(other Money) bool {
	return m.amount.GreaterThan(other.amount)
}

func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

func (m Money) String() string {
	return m.amount.StringFixed(moneyScale)
}
