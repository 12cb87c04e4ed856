// Package product holds the read-only catalog view used when pricing orders.
package product

import (
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// Product is a catalog entry as seen by the fulfillment core: identity, display
// name and the current unit price. Prices are copied into line items at order
// creation and never read again for that order.
type Product struct {
	ID    kernel.UUID
	Name  string
	Price kernel.Money
}

// Validate checks a catalog row before it is used for pricing.
func (p Product) Validate() error {
	if err := p.ID.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(p.Name) == "" {
		return errs.NewValueIsRequiredError("product name")
	}
	return p.Price.Validate()
}
