// Package queries contains the read side of the fulfillment service.
// Query handlers never mutate state; they load aggregates or read rows
// directly and map them onto read models.
package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderReader is the subset of the order repository the read side needs.
type OrderReader interface {
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
	ListByCustomer(ctx context.Context, customerID kernel.UUID) ([]*order.Order, error)
	ListActiveByDriver(ctx context.Context, driverID kernel.UUID) ([]*order.Order, error)
}

// OrderView is the read model of an order. It is also the finalized record
// handed to the invoice renderer.
type OrderView struct {
	ID                   kernel.UUID
	TrackingID           string
	CustomerID           kernel.UUID
	DriverID             *kernel.UUID
	Status               string
	Items                []LineItemView
	Total                kernel.Money
	Payment              PaymentView
	Refund               *RefundView
	CancellationReason   string
	DeliveryConfirmation string
	EstimatedDelivery    *time.Time
	CarrierNotes         string
	LastLocation         *kernel.Location
	LastLocationAt       *time.Time
	Version              int64
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// LineItemView is one order line. ProductName is only filled by GetOrder.
type LineItemView struct {
	ProductID   kernel.UUID
	ProductName string
	Quantity    int
	UnitPrice   kernel.Money
	Subtotal    kernel.Money
}

type PaymentView struct {
	Mode   string
	Status string
	ID     string
}

type RefundView struct {
	ID             kernel.UUID
	Status         string
	Amount         kernel.Money
	TransactionRef string
	Date           *time.Time
}

// NewOrderView maps an order snapshot onto the read model. productNames may
// be nil; missing names are left empty.
func NewOrderView(s order.Snapshot, productNames map[kernel.UUID]string) OrderView {
	items := make([]LineItemView, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, LineItemView{
			ProductID:   item.ProductID(),
			ProductName: productNames[item.ProductID()],
			Quantity:    item.Quantity(),
			UnitPrice:   item.UnitPrice(),
			Subtotal:    item.Subtotal(),
		})
	}

	view := OrderView{
		ID:                   s.ID,
		TrackingID:           s.TrackingID.String(),
		CustomerID:           s.CustomerID,
		DriverID:             s.DriverID,
		Status:               s.Status.String(),
		Items:                items,
		Total:                s.Total,
		Payment:              PaymentView{Mode: string(s.Payment.Mode), Status: string(s.Payment.Status), ID: s.Payment.ID},
		CancellationReason:   s.CancellationReason,
		DeliveryConfirmation: s.DeliveryConfirmation,
		EstimatedDelivery:    s.EstimatedDelivery,
		CarrierNotes:         s.CarrierNotes,
		LastLocation:         s.LastLocation,
		LastLocationAt:       s.LastLocationAt,
		Version:              s.Version,
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
	}
	if r := s.Refund; r != nil {
		view.Refund = &RefundView{
			ID:             r.ID,
			Status:         string(r.Status),
			Amount:         r.Amount,
			TransactionRef: r.TransactionRef,
			Date:           r.Date,
		}
	}
	return view
}

func newOrderViews(orders []*order.Order) []OrderView {
	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, NewOrderView(o.Snapshot(), nil))
	}
	return views
}
