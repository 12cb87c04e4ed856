package order

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// MaxTotal is the largest order total the store can hold (NUMERIC(12, 2)).
	MaxTotal = kernel.MustMoney("9999999999.99")

	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")
)

// ProofCheck verifies a delivery proof (OTP or signature) against the secret issued
// for the order. It is called only after every state precondition passed.
type ProofCheck func(proof string) error

// StatusChange describes one applied status transition. Changes are collected on
// the aggregate and pulled by the application layer after a successful commit.
type StatusChange struct {
	OrderID kernel.UUID
	From    Status
	To      Status
	Actor   kernel.Actor
}

// ShipmentUpdate carries shipment metadata. Nil fields are left untouched.
type ShipmentUpdate struct {
	EstimatedDelivery *time.Time
	CarrierNotes      *string
	AdvanceToShipped  bool
}

// DeliveryReport is what a driver or customer submits to confirm delivery.
type DeliveryReport struct {
	Proof    string
	Location *kernel.Location
	At       time.Time
}

// Order represents a customer order. It is the aggregate root for everything the
// lifecycle engine mutates: status, payment and refund sub-state, driver
// assignment and delivery proof.
//
// Order follows these invariants:
//   - Has valid identifiers, at least one line item and a total snapshot
//   - Status transitions follow the transition table (see Authorize)
//   - A driver is assigned at most once, and before the order becomes Shipped
//   - CancellationReason is non-empty iff status is Cancelled
//   - DeliveryConfirmation is non-empty iff status is Delivered
//   - A refund never exceeds the total
//
// Every mutating method validates all of its preconditions before touching any
// field, so a failed call leaves the aggregate unchanged.
type Order struct {
	id         kernel.UUID
	trackingID TrackingID
	customerID kernel.UUID
	driverID   *kernel.UUID

	items []LineItem
	total kernel.Money

	status  Status
	payment Payment
	refund  *Refund

	cancellationReason   string
	deliveryConfirmation string

	estimatedDelivery *time.Time
	carrierNotes      string
	lastLocation      *kernel.Location
	lastLocationAt    *time.Time

	// version is the optimistic concurrency stamp read from the store.
	version   int64
	createdAt time.Time
	updatedAt time.Time

	changes []StatusChange

	isConstructed bool
}

// NewOrder creates a Pending order. The total is computed once from the line
// items and kept as a snapshot.
//
// Parameters:
//   - id: internal identifier
//   - trackingID: customer-facing identifier
//   - customerID: owning customer
//   - items: at least one line item, unit prices already resolved from the catalog
//   - mode: Online or COD, immutable afterwards
//
// Returns a validation error if any parameter is invalid; all problems are reported together.
func NewOrder(
	id kernel.UUID,
	trackingID TrackingID,
	customerID kernel.UUID,
	items []LineItem,
	mode PaymentMode,
) (*Order, error) {
	now := time.Now().UTC()
	o := &Order{
		status:        Pending,
		version:       1,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setTrackingID(trackingID),
		o.setCustomerID(customerID),
		o.setItems(items),
		mode.Validate(),
	); err != nil {
		return nil, err
	}

	total := kernel.ZeroMoney()
	for _, item := range o.items {
		total = total.Add(item.Subtotal())
	}
	if total.GreaterThan(MaxTotal) {
		return nil, errs.NewValueIsOutOfRangeError("total amount", total.String(), "0.00", MaxTotal.String())
	}

	o.payment = Payment{Mode: mode, Status: PaymentUnpaid}
	o.total = total
	return o, nil
}

// Snapshot is the complete persisted state of an Order. It is used by storage
// adapters in both directions and by read models.
type Snapshot struct {
	ID                   kernel.UUID
	TrackingID           TrackingID
	CustomerID           kernel.UUID
	DriverID             *kernel.UUID
	Items                []LineItem
	Total                kernel.Money
	Status               Status
	Payment              Payment
	Refund               *Refund
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

// RestoreOrder rebuilds an Order from persisted state and re-checks every invariant,
// so corrupted rows are rejected instead of silently loaded.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		driverID:             s.DriverID,
		total:                s.Total,
		status:               s.Status,
		payment:              s.Payment,
		refund:               s.Refund,
		cancellationReason:   s.CancellationReason,
		deliveryConfirmation: s.DeliveryConfirmation,
		estimatedDelivery:    s.EstimatedDelivery,
		carrierNotes:         s.CarrierNotes,
		lastLocation:         s.LastLocation,
		lastLocationAt:       s.LastLocationAt,
		version:              s.Version,
		createdAt:            s.CreatedAt,
		updatedAt:            s.UpdatedAt,
		isConstructed:        true,
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setTrackingID(s.TrackingID),
		o.setCustomerID(s.CustomerID),
		o.setItems(s.Items),
		s.Total.Validate(),
		s.Status.Validate(),
		s.Payment.validate(),
		o.checkInvariants(),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Snapshot returns a copy of the persisted state.
func (o *Order) Snapshot() Snapshot {
	var refund *Refund
	if o.refund != nil {
		r := *o.refund
		refund = &r
	}
	return Snapshot{
		ID:                   o.id,
		TrackingID:           o.trackingID,
		CustomerID:           o.customerID,
		DriverID:             o.driverID,
		Items:                o.Items(),
		Total:                o.total,
		Status:               o.status,
		Payment:              o.payment,
		Refund:               refund,
		CancellationReason:   o.cancellationReason,
		DeliveryConfirmation: o.deliveryConfirmation,
		EstimatedDelivery:    o.estimatedDelivery,
		CarrierNotes:         o.carrierNotes,
		LastLocation:         o.lastLocation,
		LastLocationAt:       o.lastLocationAt,
		Version:              o.version,
		CreatedAt:            o.createdAt,
		UpdatedAt:            o.updatedAt,
	}
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) TrackingID() TrackingID {
	return o.trackingID
}

func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

func (o *Order) Total() kernel.Money {
	return o.total
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) Payment() Payment {
	return o.payment
}

func (o *Order) CancellationReason() string {
	return o.cancellationReason
}

func (o *Order) DeliveryConfirmation() string {
	return o.deliveryConfirmation
}

func (o *Order) CarrierNotes() string {
	return o.carrierNotes
}

func (o *Order) EstimatedDelivery() *time.Time {
	return o.estimatedDelivery
}

func (o *Order) LastLocation() *kernel.Location {
	return o.lastLocation
}

func (o *Order) LastLocationAt() *time.Time {
	return o.lastLocationAt
}

func (o *Order) Version() int64 {
	return o.version
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// Driver returns the assigned driver's ID, nil if unassigned.
func (o *Order) Driver() *kernel.UUID {
	return o.driverID
}

// Items returns a copy of the line items in their original order.
func (o *Order) Items() []LineItem {
	items := make([]LineItem, len(o.items))
	copy(items, o.items)
	return items
}

// Refund returns a copy of the refund sub-state, nil if no refund was initiated.
func (o *Order) Refund() *Refund {
	if o.refund == nil {
		return nil
	}
	r := *o.refund
	return &r
}

// IsOwnedBy reports whether customerID placed the order.
func (o *Order) IsOwnedBy(customerID kernel.UUID) bool {
	return o.customerID.IsEqual(customerID)
}

// IsAssignedTo reports whether driverID is the assigned driver.
func (o *Order) IsAssignedTo(driverID kernel.UUID) bool {
	return o.driverID != nil && o.driverID.IsEqual(driverID)
}

// CanBeViewedBy reports whether actor may read the order: staff always,
// customers their own orders, drivers the orders assigned to them.
func (o *Order) CanBeViewedBy(actor kernel.Actor) bool {
	return o.ensureRelationship(actor, "view order") == nil
}

// PullChanges returns the status changes applied since the last call and clears them.
func (o *Order) PullChanges() []StatusChange {
	changes := o.changes
	o.changes = nil
	return changes
}

// CheckDeliveryOTPIssuer reports whether actor may issue a delivery OTP now:
// staff or the assigned driver, while the order is Processing or Shipped.
func (o *Order) CheckDeliveryOTPIssuer(actor kernel.Actor) error {
	if actor.Role() == kernel.RoleCustomer {
		return errs.NewAccessDeniedError("customers may not issue delivery codes")
	}
	if err := o.ensureRelationship(actor, "issue delivery code"); err != nil {
		return err
	}
	if o.status != Processing && o.status != Shipped {
		return errs.NewConflictError(fmt.Sprintf("a delivery code cannot be issued for a %s order", o.status))
	}
	return nil
}

// Persisted records the version and modification time assigned by the store
// after a successful write.
func (o *Order) Persisted(version int64, updatedAt time.Time) {
	o.version = version
	o.updatedAt = updatedAt
}

// StartProcessing moves a Pending order to Processing.
func (o *Order) StartProcessing(actor kernel.Actor) error {
	if err := o.checkTransition(actor, Processing, "start processing"); err != nil {
		return err
	}
	o.apply(actor, Processing)
	return nil
}

// Ship moves a Processing order to Shipped. A driver must already be assigned.
func (o *Order) Ship(actor kernel.Actor) error {
	if err := o.checkShip(actor); err != nil {
		return err
	}
	o.apply(actor, Shipped)
	return nil
}

// UpdateShipment records shipment metadata on a Processing or Shipped order and,
// when requested, advances a Processing order to Shipped.
//
// Business rules:
//   - Admins, warehouse managers and the assigned driver may update shipments
//   - Only Processing and Shipped orders carry shipment metadata
//   - Advancing follows the same rules as Ship
func (o *Order) UpdateShipment(actor kernel.Actor, update ShipmentUpdate) error {
	if !actor.Role().IsStaff() && actor.Role() != kernel.RoleDriver {
		return errs.NewAccessDeniedError(fmt.Sprintf("%s may not update shipments", actor.Role()))
	}
	if err := o.ensureRelationship(actor, "update shipment"); err != nil {
		return err
	}
	if o.status != Processing && o.status != Shipped {
		return errs.NewConflictError(fmt.Sprintf("shipment of a %s order cannot be updated", o.status))
	}
	advance := update.AdvanceToShipped && o.status == Processing
	if advance {
		if err := o.checkShip(actor); err != nil {
			return err
		}
	}

	if update.EstimatedDelivery != nil {
		eta := update.EstimatedDelivery.UTC()
		o.estimatedDelivery = &eta
	}
	if update.CarrierNotes != nil {
		o.carrierNotes = strings.TrimSpace(*update.CarrierNotes)
	}
	if advance {
		o.apply(actor, Shipped)
	}
	return nil
}

// AssignDriver assigns driverID to the order.
//
// Business rules:
//   - Only actors with administrative capability may assign drivers
//   - The order must be Pending or Processing
//   - A driver is assigned at most once; reassignment is rejected
func (o *Order) AssignDriver(actor kernel.Actor, driverID kernel.UUID) error {
	if !actor.Role().IsAdministrative() {
		return errs.NewAccessDeniedError(fmt.Sprintf("%s may not assign drivers", actor.Role()))
	}
	if err := driverID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("driver id", err)
	}
	if o.driverID != nil {
		return errs.NewConflictError(fmt.Sprintf("order already has driver %s assigned", o.driverID))
	}
	if o.status != Pending && o.status != Processing {
		return errs.NewConflictError(fmt.Sprintf("a driver cannot be assigned to a %s order", o.status))
	}

	id := driverID
	o.driverID = &id
	return nil
}

// RecordDriverLocation stores the last position reported by the assigned driver
// while the order is out for delivery.
func (o *Order) RecordDriverLocation(actor kernel.Actor, location kernel.Location, at time.Time) error {
	if actor.Role() != kernel.RoleDriver || !o.IsAssignedTo(actor.ID()) {
		return errs.NewAccessDeniedError("only the assigned driver may report its location")
	}
	if err := location.Validate(); err != nil {
		return err
	}
	if o.status != Shipped {
		return errs.NewConflictError(fmt.Sprintf("location cannot be reported for a %s order", o.status))
	}
	o.setLastLocation(location, at)
	return nil
}

// Deliver moves a Shipped order to Delivered and records the proof.
//
// The call is idempotent: if the order is already Delivered with the same proof
// it returns (false, nil) without touching the aggregate. A different proof on a
// Delivered order is a conflict. check runs last, after every state
// precondition, and may be nil when the proof policy accepts any non-empty proof.
//
// Returns:
//   - (true, nil) when the transition was applied
//   - (false, nil) when the order was already delivered with the same proof
//   - (false, error) otherwise
func (o *Order) Deliver(actor kernel.Actor, report DeliveryReport, check ProofCheck) (bool, error) {
	if err := o.ensureRelationship(actor, "confirm delivery"); err != nil {
		return false, err
	}
	proof := strings.TrimSpace(report.Proof)
	if proof == "" {
		return false, errs.NewValueIsRequiredError("delivery proof")
	}
	if o.status == Delivered {
		if subtle.ConstantTimeCompare([]byte(proof), []byte(o.deliveryConfirmation)) == 1 {
			return false, nil
		}
		return false, errs.NewConflictError("order was already delivered with a different proof")
	}
	if err := Authorize(o.status, Delivered, actor.Role()); err != nil {
		return false, err
	}
	if report.Location != nil {
		if err := report.Location.Validate(); err != nil {
			return false, err
		}
	}
	if check != nil {
		if err := check(proof); err != nil {
			return false, err
		}
	}

	o.deliveryConfirmation = proof
	if report.Location != nil {
		o.setLastLocation(*report.Location, report.At)
	}
	o.apply(actor, Delivered)
	return true, nil
}

// Cancel moves a non-terminal order to Cancelled.
//
// Business rules:
//   - reason must be non-empty
//   - customers may cancel only their own orders, and only before shipment
//   - administrative actors may cancel from any non-terminal status
//   - a paid order gets a Pending refund of refundAmount, or of the full total
//     when refundAmount is nil; the amount must be positive and within the total
//
// refundID identifies the refund for gateway callbacks and is only used when a
// refund is created.
func (o *Order) Cancel(actor kernel.Actor, reason string, refundAmount *kernel.Money, refundID kernel.UUID) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return errs.NewValueIsRequiredError("cancellation reason")
	}
	if err := o.ensureRelationship(actor, "cancel order"); err != nil {
		return err
	}
	if err := Authorize(o.status, Cancelled, actor.Role()); err != nil {
		return err
	}

	refund, err := o.planRefund(refundAmount, refundID)
	if err != nil {
		return err
	}

	o.cancellationReason = reason
	o.refund = refund
	o.apply(actor, Cancelled)
	return nil
}

// RecordPayment marks the order as paid with the gateway transaction reference.
// Repeating the call with the same reference is a no-op.
func (o *Order) RecordPayment(actor kernel.Actor, paymentID string) (bool, error) {
	if !actor.Role().IsAdministrative() {
		return false, errs.NewAccessDeniedError(fmt.Sprintf("%s may not record payments", actor.Role()))
	}
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return false, errs.NewValueIsRequiredError("payment id")
	}

	switch o.payment.Status {
	case PaymentPaid:
		if o.payment.ID == paymentID {
			return false, nil
		}
		return false, errs.NewConflictError(fmt.Sprintf("order is already paid with %s", o.payment.ID))
	case PaymentRefunded:
		return false, errs.NewConflictError("order payment was already refunded")
	case PaymentUnpaid:
	}
	if o.status == Cancelled {
		return false, errs.NewConflictError("a cancelled order cannot be paid")
	}

	o.payment.Status = PaymentPaid
	o.payment.ID = paymentID
	return true, nil
}

// CompleteRefund records the gateway outcome of the pending refund.
//
// Pending -> Processed sets the payment status to Refunded and the refund date to at.
// Pending -> Failed leaves the payment Paid. Repeating an already recorded outcome
// is a no-op; a different outcome for a completed refund is a conflict.
func (o *Order) CompleteRefund(actor kernel.Actor, outcome RefundStatus, transactionRef string, at time.Time) (bool, error) {
	if !actor.Role().IsAdministrative() {
		return false, errs.NewAccessDeniedError(fmt.Sprintf("%s may not complete refunds", actor.Role()))
	}
	if outcome != RefundProcessed && outcome != RefundFailed {
		return false, errs.NewValueIsInvalidErrorWithCause(
			"refund outcome", fmt.Errorf("%q is not a completion outcome", string(outcome)))
	}
	if o.refund == nil {
		return false, errs.NewConflictError("order has no refund in progress")
	}
	if o.refund.Status.IsTerminal() {
		if o.refund.Status == outcome {
			return false, nil
		}
		return false, errs.NewConflictError(fmt.Sprintf("refund was already %s", o.refund.Status))
	}

	refund := *o.refund
	refund.Status = outcome
	if ref := strings.TrimSpace(transactionRef); ref != "" {
		refund.TransactionRef = ref
	}
	if outcome == RefundProcessed {
		date := at.UTC()
		refund.Date = &date
		o.payment.Status = PaymentRefunded
	}
	o.refund = &refund
	return true, nil
}

func (o *Order) planRefund(refundAmount *kernel.Money, refundID kernel.UUID) (*Refund, error) {
	if o.payment.Status != PaymentPaid || o.total.IsZero() {
		if refundAmount != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				"refund amount", fmt.Errorf("payment status is %s, nothing to refund", o.payment.Status))
		}
		return nil, nil
	}

	amount := o.total
	if refundAmount != nil {
		if err := refundAmount.Validate(); err != nil {
			return nil, err
		}
		if err := validateRefundAmount(*refundAmount, o.total); err != nil {
			return nil, err
		}
		amount = *refundAmount
	}
	if err := refundID.Validate(); err != nil {
		return nil, errs.NewValueIsRequiredErrorWithCause("refund id", err)
	}

	return &Refund{ID: refundID, Status: RefundPending, Amount: amount}, nil
}

func (o *Order) checkTransition(actor kernel.Actor, to Status, action string) error {
	if err := o.ensureRelationship(actor, action); err != nil {
		return err
	}
	return Authorize(o.status, to, actor.Role())
}

func (o *Order) checkShip(actor kernel.Actor) error {
	if err := o.checkTransition(actor, Shipped, "ship order"); err != nil {
		return err
	}
	if o.driverID == nil {
		return errs.NewConflictError("a driver must be assigned before the order is shipped")
	}
	return nil
}

// ensureRelationship applies the ownership rules that the transition table
// cannot express: customers act on their own orders, drivers on assigned ones.
func (o *Order) ensureRelationship(actor kernel.Actor, action string) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	switch actor.Role() {
	case kernel.RoleCustomer:
		if !o.IsOwnedBy(actor.ID()) {
			return errs.NewAccessDeniedErrorWithCause(action, errors.New("order belongs to another customer"))
		}
	case kernel.RoleDriver:
		if !o.IsAssignedTo(actor.ID()) {
			return errs.NewAccessDeniedErrorWithCause(action, errors.New("order is not assigned to this driver"))
		}
	case kernel.RoleAdmin, kernel.RoleWarehouseManager, kernel.RoleSystem:
	}
	return nil
}

func (o *Order) apply(actor kernel.Actor, to Status) {
	o.changes = append(o.changes, StatusChange{
		OrderID: o.id,
		From:    o.status,
		To:      to,
		Actor:   actor,
	})
	o.status = to
}

func (o *Order) setLastLocation(location kernel.Location, at time.Time) {
	loc := location
	ts := at.UTC()
	o.lastLocation = &loc
	o.lastLocationAt = &ts
}

func (o *Order) checkInvariants() error {
	var problems []error
	if o.version < 1 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("version", o.version, 1, "∞"))
	}
	if o.status.requiresDriver() && o.driverID == nil {
		problems = append(problems, errs.NewValueIsRequiredErrorWithCause(
			"assigned driver", fmt.Errorf("a %s order must have a driver", o.status)))
	}
	if (o.status == Cancelled) != (o.cancellationReason != "") {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"cancellation reason", fmt.Errorf("must be set iff the order is Cancelled (status %s)", o.status)))
	}
	if (o.status == Delivered) != (o.deliveryConfirmation != "") {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"delivery confirmation", fmt.Errorf("must be set iff the order is Delivered (status %s)", o.status)))
	}
	if o.refund != nil {
		if err := o.refund.validate(o.total); err != nil {
			problems = append(problems, err)
		}
	}
	if o.payment.Status == PaymentRefunded && (o.refund == nil || o.refund.Status != RefundProcessed) {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"payment status", errors.New("Refunded requires a processed refund")))
	}
	return errors.Join(problems...)
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setTrackingID(trackingID TrackingID) error {
	if err := trackingID.Validate(); err != nil {
		return err
	}
	o.trackingID = trackingID
	return nil
}

func (o *Order) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customer id", err)
	}
	o.customerID = customerID
	return nil
}

func (o *Order) setItems(items []LineItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("items[%d]", i), err)
		}
	}
	o.items = make([]LineItem, len(items))
	copy(o.items, items)
	return nil
}
