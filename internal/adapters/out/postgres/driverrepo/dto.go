// Package driverrepo persists registered drivers with GORM.
package driverrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DriverDTO is the drivers row.
type DriverDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"not null"`
	Phone     string    `gorm:"size:32;not null"`
	Active    bool      `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime:false"`
}

func (DriverDTO) TableName() string {
	return "drivers"
}

func fromDomain(d *driver.Driver) DriverDTO {
	return DriverDTO{
		ID:        d.ID().Bytes(),
		Name:      d.Name(),
		Phone:     d.Phone(),
		Active:    d.IsActive(),
		CreatedAt: d.CreatedAt(),
	}
}

func toDomain(dto DriverDTO) (*driver.Driver, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	return driver.RestoreDriver(id, dto.Name, dto.Phone, dto.Active, dto.CreatedAt.UTC())
}
