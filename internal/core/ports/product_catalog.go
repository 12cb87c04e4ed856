package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/product"
)

// ProductCatalog is the read-only view of the product catalog.
type ProductCatalog interface {
	// GetProducts resolves ids to catalog entries. Unknown ids are omitted from
	// the result; callers decide whether a missing product is an error.
	GetProducts(ctx context.Context, ids []kernel.UUID) ([]product.Product, error)
}
