package order

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrLineItemIsNotConstructed = errors.New("LineItem must be created via NewLineItem constructor")

// LineItem is one product line of an order. The unit price is a snapshot taken
// from the catalog when the order was created.
type LineItem struct { //nolint:recvcheck //using for validation
	productID kernel.UUID
	quantity  int
	unitPrice kernel.Money
	guard     guard.ConstructorGuard
}

func NewLineItem(productID kernel.UUID, quantity int, unitPrice kernel.Money) (LineItem, error) {
	item := LineItem{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		item.setProductID(productID),
		item.setQuantity(quantity),
		item.setUnitPrice(unitPrice),
	); err != nil {
		return LineItem{}, err
	}

	return item, nil
}

func (i LineItem) Validate() error {
	return i.guard.Validate(ErrLineItemIsNotConstructed)
}

func (i LineItem) ProductID() kernel.UUID {
	return i.productID
}

func (i LineItem) Quantity() int {
	return i.quantity
}

func (i LineItem) UnitPrice() kernel.Money {
	return i.unitPrice
}

// Subtotal is unit price × quantity.
func (i LineItem) Subtotal() kernel.Money {
	return i.unitPrice.Times(i.quantity)
}

func (i *LineItem) setProductID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("product id", err)
	}
	i.productID = id
	return nil
}

func (i *LineItem) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}
	i.quantity = quantity
	return nil
}

func (i *LineItem) setUnitPrice(price kernel.Money) error {
	if err := price.Validate(); err != nil {
		return err
	}
	i.unitPrice = price
	return nil
}
