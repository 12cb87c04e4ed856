package http

import (
	"context"
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// Handler is satisfied by every command and query handler of the application layer.
type Handler[In, Out any] interface {
	Handle(ctx context.Context, in In) (Out, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc[In, Out any] func(ctx context.Context, in In) (Out, error)

func (f HandlerFunc[In, Out]) Handle(ctx context.Context, in In) (Out, error) {
	return f(ctx, in)
}

// Handlers groups the use cases exposed over HTTP.
type Handlers struct {
	CreateOrder          Handler[commands.CreateOrderCommand, order.Snapshot]
	UpdateOrderStatus    Handler[commands.UpdateOrderStatusCommand, order.Snapshot]
	CancelOrder          Handler[commands.CancelOrderCommand, order.Snapshot]
	UpdateShipment       Handler[commands.UpdateShipmentCommand, order.Snapshot]
	AssignDriver         Handler[commands.AssignDriverCommand, order.Snapshot]
	IssueDeliveryOTP     Handler[commands.IssueDeliveryOTPCommand, commands.IssuedOTP]
	UpdateDeliveryStatus Handler[commands.UpdateDeliveryStatusCommand, order.Snapshot]
	ConfirmDelivery      Handler[commands.ConfirmDeliveryCommand, order.Snapshot]
	RecordPayment        Handler[commands.RecordPaymentCommand, order.Snapshot]
	CompleteRefund       Handler[commands.CompleteRefundCommand, order.Snapshot]
	CreateDriver         Handler[commands.CreateDriverCommand, kernel.UUID]

	GetOrdersForCustomer Handler[queries.GetOrdersForCustomerQuery, []queries.OrderView]
	GetOrder             Handler[queries.GetOrderQuery, queries.OrderView]
	GetDriverOrders      Handler[queries.GetDriverOrdersQuery, []queries.OrderView]
	GetDrivers           Handler[queries.GetDriversQuery, []queries.GetDriversQueryResponse]
}

// Server translates HTTP requests into commands and queries. Every handler
// returns its error to echo; NewErrorHandler renders it.
type Server struct {
	h Handlers
}

func NewServer(h Handlers) *Server {
	return &Server{h: h}
}

// RegisterRoutes mounts the API on g. Static segments are registered next to
// the :id routes; echo prefers static matches. otpLimit guards the routes that
// check a delivery OTP.
func (s *Server) RegisterRoutes(g *echo.Group, otpLimit echo.MiddlewareFunc) {
	g.POST("/orders", s.CreateOrder)
	g.GET("/orders/user", s.GetOrdersForCustomer)
	g.PUT("/orders/assign-driver", s.AssignDriver)
	g.POST("/orders/confirm-delivery", s.ConfirmDelivery, otpLimit)
	g.GET("/orders/driver/orders", s.GetDriverOrders)
	g.PUT("/orders/driver/update/:orderId", s.UpdateDeliveryStatus, otpLimit)
	g.PUT("/orders/shipment/update/:shipmentId", s.UpdateShipmentStatus)
	g.GET("/orders/:id", s.GetOrder)
	g.PUT("/orders/:id", s.UpdateOrderStatus)
	g.PUT("/orders/:id/cancel", s.CancelOrder)
	g.POST("/orders/:id/delivery-otp", s.IssueDeliveryOTP)

	g.POST("/payments/callbacks/payment", s.RecordPayment)
	g.POST("/payments/callbacks/refund", s.CompleteRefund)

	g.POST("/drivers", s.CreateDriver)
	g.GET("/drivers", s.GetDrivers)
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req CreateOrderRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}

	customerID := actor.ID()
	if req.CustomerID != nil {
		if customerID, err = toKernelUUID(*req.CustomerID); err != nil {
			return err
		}
	}
	items := make([]commands.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		productID, idErr := toKernelUUID(item.ProductID)
		if idErr != nil {
			return idErr
		}
		items = append(items, commands.OrderItemInput{ProductID: productID, Quantity: item.Quantity})
	}
	mode, err := order.ParsePaymentMode(req.PaymentMode)
	if err != nil {
		return err
	}

	cmd, err := commands.NewCreateOrderCommand(actor, customerID, items, mode)
	if err != nil {
		return err
	}
	created, err := s.h.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toOrderResponse(queries.NewOrderView(created, nil)))
}

// GetOrdersForCustomer handles GET /api/v1/orders/user.
func (s *Server) GetOrdersForCustomer(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	customerID, err := queryUUIDOr(c, "customerId", actor.ID())
	if err != nil {
		return err
	}

	query, err := queries.NewGetOrdersForCustomerQuery(actor, customerID)
	if err != nil {
		return err
	}
	views, err := s.h.GetOrdersForCustomer.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponses(views))
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	orderID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	query, err := queries.NewGetOrderQuery(actor, orderID)
	if err != nil {
		return err
	}
	view, err := s.h.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(view))
}

// UpdateOrderStatus handles PUT /api/v1/orders/:id.
func (s *Server) UpdateOrderStatus(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	orderID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var req UpdateOrderStatusRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}
	status, err := order.ParseStatus(req.Status)
	if err != nil {
		return err
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(actor, orderID, status, req.Reason, req.Proof)
	if err != nil {
		return err
	}
	return respondSnapshot(c, s.h.UpdateOrderStatus, cmd)
}

// CancelOrder handles PUT /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	orderID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var req CancelOrderRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}

	var amount *kernel.Money
	if req.RefundAmount != nil {
		m, moneyErr := kernel.MoneyFromString(*req.RefundAmount)
		if moneyErr != nil {
			return moneyErr
		}
		amount = &m
	}

	cmd, err := commands.NewCancelOrderCommand(actor, orderID, req.Reason, amount)
	if err != nil {
		return err
	}
	return respondSnapshot(c, s.h.CancelOrder, cmd)
}

// UpdateShipmentStatus handles PUT /api/v1/orders/shipment/update/:shipmentId.
func (s *Server) UpdateShipmentStatus(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	trackingID, err := order.TrackingIDFromString(c.Param("shipmentId"))
	if err != nil {
		return err
	}
	var req UpdateShipmentRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewUpdateShipmentCommand(actor, trackingID, req.EstimatedDelivery, req.CarrierNotes, req.AdvanceToShipped)
	if err != nil {
		return err
	}
	return respondSnapshot(c, s.h.UpdateShipment, cmd)
}

// AssignDriver handles PUT /api/v1/orders/assign-driver.
func (s *Server) AssignDriver(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req AssignDriverRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}
	orderID, err := toKernelUUID(req.OrderID)
	if err != nil {
		return err
	}
	driverID, err := toKernelUUID(req.DriverID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewAssignDriverCommand(actor, orderID, driverID)
	if err != nil {
		return err
	}
	return respondSnapshot(c, s.h.AssignDriver, cmd)
}

// IssueDeliveryOTP handles POST /api/v1/orders/:id/delivery-otp.
func (s *Server) IssueDeliveryOTP(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	orderID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	cmd, err := commands.NewIssueDeliveryOTPCommand(actor, orderID)
	if err != nil {
		return err
	}
	issued, err := s.h.IssueDeliveryOTP.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, DeliveryOTPResponse{Code: issued.Code, ExpiresAt: issued.ExpiresAt})
}

// GetDriverOrders handles GET /api/v1/orders/driver/orders.
func (s *Server) GetDriverOrders(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	driverID, err := queryUUIDOr(c, "driverId", actor.ID())
	if err != nil {
		return err
	}

	query, err := queries.NewGetDriverOrdersQuery(actor, driverID)
	if err != nil {
		return err
	}
	views, err := s.h.GetDriverOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponses(views))
}

// UpdateDeliveryStatus handles PUT /api/v1/orders/driver/update/:orderId.
func (s *Server) UpdateDeliveryStatus(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}
	var req UpdateDeliveryStatusRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}
	status, err := order.ParseStatus(req.Status)
	if err != nil {
		return err
	}
	var location *kernel.Location
	if req.Location != nil {
		loc, locErr := kernel.NewLocation(req.Location.Lat, req.Location.Lng)
		if locErr != nil {
			return locErr
		}
		location = &loc
	}

	cmd, err := commands.NewUpdateDeliveryStatusCommand(actor, orderID, status, location, req.OTP)
	if err != nil {
		return err
	}
	return respondSnapshot(c, s.h.UpdateDeliveryStatus, cmd)
}

// ConfirmDelivery handles POST /api/v1/orders/confirm-delivery.
func (s *Server) ConfirmDelivery(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req ConfirmDeliveryRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}
	orderID, err := toKernelUUID(req.OrderID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewConfirmDeliveryCommand(actor, orderID, req.Proof)
	if err != nil {
		return err
	}
	return respondSnapshot(c, s.h.ConfirmDelivery, cmd)
}

// RecordPayment handles POST /api/v1/payments/callbacks/payment.
func (s *Server) RecordPayment(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req PaymentCallbackRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}
	orderID, err := toKernelUUID(req.OrderID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewRecordPaymentCommand(actor, orderID, req.PaymentID)
	if err != nil {
		return err
	}
	return respondSnapshot(c, s.h.RecordPayment, cmd)
}

// CompleteRefund handles POST /api/v1/payments/callbacks/refund.
func (s *Server) CompleteRefund(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req RefundCallbackRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}
	refundID, err := toKernelUUID(req.RefundID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewCompleteRefundCommand(actor, refundID, order.RefundStatus(req.Outcome), req.TransactionRef)
	if err != nil {
		return err
	}
	return respondSnapshot(c, s.h.CompleteRefund, cmd)
}

// CreateDriver handles POST /api/v1/drivers.
func (s *Server) CreateDriver(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req CreateDriverRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}

	cmd, err := commands.NewCreateDriverCommand(actor, req.Name, req.Phone)
	if err != nil {
		return err
	}
	id, err := s.h.CreateDriver.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, CreatedDriverResponse{ID: id.Bytes()})
}

// GetDrivers handles GET /api/v1/drivers.
func (s *Server) GetDrivers(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	query, err := queries.NewGetDriversQuery(actor)
	if err != nil {
		return err
	}
	drivers, err := s.h.GetDrivers.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	response := make([]DriverResponse, len(drivers))
	for i, d := range drivers {
		response[i] = DriverResponse{
			ID:           d.ID.Bytes(),
			Name:         d.Name,
			Phone:        d.Phone,
			Active:       d.Active,
			ActiveOrders: d.ActiveOrders,
		}
	}
	return c.JSON(http.StatusOK, response)
}

func respondSnapshot[C any](c echo.Context, h Handler[C, order.Snapshot], cmd C) error {
	snapshot, err := h.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(queries.NewOrderView(snapshot, nil)))
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("request body", err)
	}
	return c.Validate(req)
}

func pathUUID(c echo.Context, name string) (kernel.UUID, error) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return toKernelUUID(id)
}

// queryUUIDOr binds an optional uuid query parameter, falling back to def.
func queryUUIDOr(c echo.Context, name string, def kernel.UUID) (kernel.UUID, error) {
	var id *uuid.UUID
	if err := runtime.BindQueryParameter("form", true, false, name, c.QueryParams(), &id); err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	if id == nil {
		return def, nil
	}
	return toKernelUUID(*id)
}
