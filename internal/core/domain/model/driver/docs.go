// Package driver provides the Driver aggregate used by the delivery assignment
// coordinator.
//
// The package includes:
//   - Driver: a registered delivery driver with identity, contact data and an
//     active flag
//
// Key business rules:
//   - Drivers must have a valid unique identifier and a non-empty name
//   - Only active drivers may receive new order assignments
package driver
