package http

import (
	"time"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type OrderItemRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"min=1,max=10000"`
}

type CreateOrderRequest struct {
	CustomerID  *uuid.UUID         `json:"customerId"`
	Items       []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	PaymentMode string             `json:"paymentMode" validate:"required,oneof=COD Online"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Reason string `json:"reason"`
	Proof  string `json:"proof"`
}

type CancelOrderRequest struct {
	Reason       string  `json:"reason" validate:"required"`
	RefundAmount *string `json:"refundAmount"`
}

type UpdateShipmentRequest struct {
	EstimatedDelivery *time.Time `json:"estimatedDelivery"`
	CarrierNotes      *string    `json:"carrierNotes"`
	AdvanceToShipped  bool       `json:"advanceToShipped"`
}

type AssignDriverRequest struct {
	OrderID  uuid.UUID `json:"orderId" validate:"required"`
	DriverID uuid.UUID `json:"driverId" validate:"required"`
}

type LocationDTO struct {
	Lat float64 `json:"lat" validate:"min=-90,max=90"`
	Lng float64 `json:"lng" validate:"min=-180,max=180"`
}

type UpdateDeliveryStatusRequest struct {
	Status   string       `json:"status" validate:"required,oneof=Shipped Delivered"`
	Location *LocationDTO `json:"location"`
	OTP      string       `json:"otp"`
}

type ConfirmDeliveryRequest struct {
	OrderID uuid.UUID `json:"orderId" validate:"required"`
	Proof   string    `json:"proof" validate:"required"`
}

type PaymentCallbackRequest struct {
	OrderID   uuid.UUID `json:"orderId" validate:"required"`
	PaymentID string    `json:"paymentId" validate:"required"`
}

type RefundCallbackRequest struct {
	RefundID       uuid.UUID `json:"refundId" validate:"required"`
	Outcome        string    `json:"outcome" validate:"required,oneof=Processed Failed"`
	TransactionRef string    `json:"transactionRef"`
}

type CreateDriverRequest struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone"`
}

type CreatedDriverResponse struct {
	ID uuid.UUID `json:"id"`
}

type DriverResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Active       bool      `json:"active"`
	ActiveOrders int       `json:"activeOrders"`
}

type DeliveryOTPResponse struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type OrderItemResponse struct {
	ProductID   uuid.UUID `json:"productId"`
	ProductName string    `json:"productName,omitempty"`
	Quantity    int       `json:"quantity"`
	UnitPrice   string    `json:"unitPrice"`
	Subtotal    string    `json:"subtotal"`
}

type PaymentResponse struct {
	Mode   string `json:"mode"`
	Status string `json:"status"`
	ID     string `json:"id,omitempty"`
}

type RefundResponse struct {
	ID             uuid.UUID  `json:"id"`
	Status         string     `json:"status"`
	Amount         string     `json:"amount"`
	TransactionRef string     `json:"transactionRef,omitempty"`
	Date           *time.Time `json:"date,omitempty"`
}

type OrderResponse struct {
	ID                   uuid.UUID           `json:"id"`
	TrackingID           string              `json:"trackingId"`
	CustomerID           uuid.UUID           `json:"customerId"`
	DriverID             *uuid.UUID          `json:"driverId,omitempty"`
	Status               string              `json:"status"`
	Items                []OrderItemResponse `json:"items"`
	TotalAmount          string              `json:"totalAmount"`
	Payment              PaymentResponse     `json:"payment"`
	Refund               *RefundResponse     `json:"refund,omitempty"`
	CancellationReason   string              `json:"cancellationReason,omitempty"`
	DeliveryConfirmation string              `json:"deliveryConfirmation,omitempty"`
	EstimatedDelivery    *time.Time          `json:"estimatedDelivery,omitempty"`
	CarrierNotes         string              `json:"carrierNotes,omitempty"`
	LastLocation         *LocationDTO        `json:"lastLocation,omitempty"`
	LastLocationAt       *time.Time          `json:"lastLocationAt,omitempty"`
	Version              int64               `json:"version"`
	CreatedAt            time.Time           `json:"createdAt"`
	UpdatedAt            time.Time           `json:"updatedAt"`
}

func toOrderResponse(v queries.OrderView) OrderResponse {
	items := make([]OrderItemResponse, 0, len(v.Items))
	for _, item := range v.Items {
		items = append(items, OrderItemResponse{
			ProductID:   item.ProductID.Bytes(),
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.String(),
			Subtotal:    item.Subtotal.String(),
		})
	}

	resp := OrderResponse{
		ID:                   v.ID.Bytes(),
		TrackingID:           v.TrackingID,
		CustomerID:           v.CustomerID.Bytes(),
		DriverID:             uuidPtr(v.DriverID),
		Status:               v.Status,
		Items:                items,
		TotalAmount:          v.Total.String(),
		Payment:              PaymentResponse{Mode: v.Payment.Mode, Status: v.Payment.Status, ID: v.Payment.ID},
		CancellationReason:   v.CancellationReason,
		DeliveryConfirmation: v.DeliveryConfirmation,
		EstimatedDelivery:    v.EstimatedDelivery,
		CarrierNotes:         v.CarrierNotes,
		LastLocationAt:       v.LastLocationAt,
		Version:              v.Version,
		CreatedAt:            v.CreatedAt,
		UpdatedAt:            v.UpdatedAt,
	}
	if v.LastLocation != nil {
		resp.LastLocation = &LocationDTO{Lat: v.LastLocation.Latitude(), Lng: v.LastLocation.Longitude()}
	}
	if v.Refund != nil {
		resp.Refund = &RefundResponse{
			ID:             v.Refund.ID.Bytes(),
			Status:         v.Refund.Status,
			Amount:         v.Refund.Amount.String(),
			TransactionRef: v.Refund.TransactionRef,
			Date:           v.Refund.Date,
		}
	}
	return resp
}

func toOrderResponses(views []queries.OrderView) []OrderResponse {
	out := make([]OrderResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toOrderResponse(v))
	}
	return out
}

func uuidPtr(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := id.Bytes()
	return &v
}

func toKernelUUID(id uuid.UUID) (kernel.UUID, error) {
	return kernel.UUIDFromBytes(id[:])
}
