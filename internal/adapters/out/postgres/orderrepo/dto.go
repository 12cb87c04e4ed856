// Package orderrepo persists order aggregates with GORM. Line items live in
// their own table; payment, refund and location sub-states are embedded
// columns of the orders row.
package orderrepo

import (
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is the orders row.
type OrderDTO struct {
	ID         uuid.UUID     `gorm:"type:uuid;primaryKey"`
	TrackingID string        `gorm:"size:20;uniqueIndex;not null"`
	CustomerID uuid.UUID     `gorm:"type:uuid;index;not null"`
	DriverID   *uuid.UUID    `gorm:"type:uuid;index"`
	Items      []LineItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	TotalAmount decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Status      string          `gorm:"size:16;index;not null"`
	Payment     PaymentDTO      `gorm:"embedded;embeddedPrefix:payment_"`
	Refund      RefundDTO       `gorm:"embedded;embeddedPrefix:refund_"`

	CancellationReason   string
	DeliveryConfirmation string
	EstimatedDelivery    *time.Time
	CarrierNotes         string
	LastLocation         LocationDTO `gorm:"embedded;embeddedPrefix:last_location_"`
	LastLocationAt       *time.Time

	Version   int64     `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime:false;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// LineItemDTO is one order_items row. A product appears at most once per order.
type LineItemDTO struct {
	OrderID   uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Position  int             `gorm:"not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

func (LineItemDTO) TableName() string {
	return "order_items"
}

type PaymentDTO struct {
	Mode   string `gorm:"size:8;not null"`
	Status string `gorm:"size:10;not null"`
	ID     string `gorm:"size:128"`
}

// RefundDTO columns are all NULL while the order has no refund.
type RefundDTO struct {
	ID             *uuid.UUID       `gorm:"type:uuid;uniqueIndex"`
	Status         *string          `gorm:"size:10"`
	Amount         *decimal.Decimal `gorm:"type:numeric(12,2)"`
	TransactionRef *string          `gorm:"size:128"`
	Date           *time.Time
}

type LocationDTO struct {
	Lat *float64
	Lng *float64
}

func fromDomain(o *order.Order) OrderDTO {
	s := o.Snapshot()

	dto := OrderDTO{
		ID:          s.ID.Bytes(),
		TrackingID:  s.TrackingID.String(),
		CustomerID:  s.CustomerID.Bytes(),
		TotalAmount: s.Total.Decimal(),
		Status:      s.Status.String(),
		Payment: PaymentDTO{
			Mode:   string(s.Payment.Mode),
			Status: string(s.Payment.Status),
			ID:     s.Payment.ID,
		},
		CancellationReason:   s.CancellationReason,
		DeliveryConfirmation: s.DeliveryConfirmation,
		EstimatedDelivery:    s.EstimatedDelivery,
		CarrierNotes:         s.CarrierNotes,
		LastLocationAt:       s.LastLocationAt,
		Version:              s.Version,
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
	}

	if s.DriverID != nil {
		raw := s.DriverID.Bytes()
		dto.DriverID = &raw
	}

	dto.Items = make([]LineItemDTO, 0, len(s.Items))
	for i, item := range s.Items {
		dto.Items = append(dto.Items, LineItemDTO{
			OrderID:   dto.ID,
			ProductID: item.ProductID().Bytes(),
			Position:  i,
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice().Decimal(),
		})
	}

	if r := s.Refund; r != nil {
		id := r.ID.Bytes()
		status := string(r.Status)
		amount := r.Amount.Decimal()
		ref := r.TransactionRef
		dto.Refund = RefundDTO{ID: &id, Status: &status, Amount: &amount, TransactionRef: &ref, Date: r.Date}
	}

	if l := s.LastLocation; l != nil {
		lat, lng := l.Latitude(), l.Longitude()
		dto.LastLocation = LocationDTO{Lat: &lat, Lng: &lng}
	}

	return dto
}

// mutableColumns lists every column an Update may change. Identity, items,
// total and creation time are fixed at Add.
func (dto OrderDTO) mutableColumns() map[string]any {
	return map[string]any{
		"driver_id":              dto.DriverID,
		"status":                 dto.Status,
		"payment_mode":           dto.Payment.Mode,
		"payment_status":         dto.Payment.Status,
		"payment_id":             dto.Payment.ID,
		"refund_id":              dto.Refund.ID,
		"refund_status":          dto.Refund.Status,
		"refund_amount":          dto.Refund.Amount,
		"refund_transaction_ref": dto.Refund.TransactionRef,
		"refund_date":            dto.Refund.Date,
		"cancellation_reason":    dto.CancellationReason,
		"delivery_confirmation":  dto.DeliveryConfirmation,
		"estimated_delivery":     dto.EstimatedDelivery,
		"carrier_notes":          dto.CarrierNotes,
		"last_location_lat":      dto.LastLocation.Lat,
		"last_location_lng":      dto.LastLocation.Lng,
		"last_location_at":       dto.LastLocationAt,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}
	trackingID, err := order.TrackingIDFromString(dto.TrackingID)
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	total, err := kernel.NewMoney(dto.TotalAmount)
	if err != nil {
		return nil, err
	}

	s := order.Snapshot{
		ID:         id,
		TrackingID: trackingID,
		CustomerID: customerID,
		Total:      total,
		Status:     status,
		Payment: order.Payment{
			Mode:   order.PaymentMode(dto.Payment.Mode),
			Status: order.PaymentStatus(dto.Payment.Status),
			ID:     dto.Payment.ID,
		},
		CancellationReason:   dto.CancellationReason,
		DeliveryConfirmation: dto.DeliveryConfirmation,
		EstimatedDelivery:    utcPtr(dto.EstimatedDelivery),
		CarrierNotes:         dto.CarrierNotes,
		LastLocationAt:       utcPtr(dto.LastLocationAt),
		Version:              dto.Version,
		CreatedAt:            dto.CreatedAt.UTC(),
		UpdatedAt:            dto.UpdatedAt.UTC(),
	}

	if dto.DriverID != nil {
		driverID, driverErr := kernel.UUIDFromBytes(dto.DriverID[:])
		if driverErr != nil {
			return nil, driverErr
		}
		s.DriverID = &driverID
	}

	s.Items = make([]order.LineItem, 0, len(dto.Items))
	for _, item := range dto.Items {
		productID, idErr := kernel.UUIDFromBytes(item.ProductID[:])
		if idErr != nil {
			return nil, idErr
		}
		price, priceErr := kernel.NewMoney(item.UnitPrice)
		if priceErr != nil {
			return nil, priceErr
		}
		line, lineErr := order.NewLineItem(productID, item.Quantity, price)
		if lineErr != nil {
			return nil, lineErr
		}
		s.Items = append(s.Items, line)
	}

	if s.Refund, err = refundToDomain(dto.Refund); err != nil {
		return nil, err
	}

	if dto.LastLocation.Lat != nil && dto.LastLocation.Lng != nil {
		loc, locErr := kernel.NewLocation(*dto.LastLocation.Lat, *dto.LastLocation.Lng)
		if locErr != nil {
			return nil, locErr
		}
		s.LastLocation = &loc
	}

	return order.RestoreOrder(s)
}

func refundToDomain(dto RefundDTO) (*order.Refund, error) {
	if dto.ID == nil {
		return nil, nil
	}
	if dto.Status == nil || dto.Amount == nil {
		return nil, fmt.Errorf("refund %s is missing status or amount", dto.ID)
	}

	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	amount, err := kernel.NewMoney(*dto.Amount)
	if err != nil {
		return nil, err
	}

	refund := &order.Refund{
		ID:     id,
		Status: order.RefundStatus(*dto.Status),
		Amount: amount,
		Date:   utcPtr(dto.Date),
	}
	if dto.TransactionRef != nil {
		refund.TransactionRef = *dto.TransactionRef
	}
	return refund, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
