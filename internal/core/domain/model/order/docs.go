// Package order provides the Order aggregate and the lifecycle rules of the
// fulfillment service.
//
// The package includes:
//   - Order: the aggregate root holding line items, the total snapshot, status,
//     payment and refund sub-state, driver assignment and delivery proof
//   - Status: Pending -> Processing -> Shipped -> Delivered, with Cancelled
//     reachable from every non-terminal status
//   - Policy: the transition table (from, to, role) consulted by every operation
//   - Payment, Refund, LineItem and TrackingID value objects
//
// Key business rules:
//   - Delivered and Cancelled are terminal; no transition leaves them
//   - A driver must be assigned before an order may become Shipped and is
//     assigned exactly once
//   - A cancellation reason exists if and only if the order is Cancelled
//   - A delivery proof exists if and only if the order is Delivered
//   - A refund never exceeds the total amount captured at creation
package order
