// Package catalogrepo reads the product catalog. The service never writes
// products; prices are copied into orders at creation.
package catalogrepo

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/product"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductDTO is the products row.
type ProductDTO struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name      string          `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CreatedAt time.Time
}

func (ProductDTO) TableName() string {
	return "products"
}

// GormProductCatalog implements ports.ProductCatalog using GORM.
type GormProductCatalog struct {
	db *gorm.DB
}

func NewGormProductCatalog(db *gorm.DB) *GormProductCatalog {
	return &GormProductCatalog{db: db}
}

// GetProducts returns the catalog entries for ids. Unknown ids are omitted.
func (c *GormProductCatalog) GetProducts(ctx context.Context, ids []kernel.UUID) ([]product.Product, error) {
	if len(ids) == 0 {
		return []product.Product{}, nil
	}

	keys := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return nil, err
		}
		keys = append(keys, id.Bytes())
	}

	var dtos []ProductDTO
	if err := c.db.WithContext(ctx).Where("id IN ?", keys).Find(&dtos).Error; err != nil {
		return nil, err
	}

	products := make([]product.Product, 0, len(dtos))
	for _, dto := range dtos {
		id, err := kernel.UUIDFromBytes(dto.ID[:])
		if err != nil {
			return nil, err
		}
		price, err := kernel.NewMoney(dto.Price)
		if err != nil {
			return nil, err
		}
		p := product.Product{ID: id, Name: dto.Name, Price: price}
		if err = p.Validate(); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}
