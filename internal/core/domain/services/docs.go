// Package services provides domain services for rules that span more than one
// aggregate of the fulfillment domain.
//
// The package includes:
//   - DriverDispatcher: assigns an order to an active driver
package services
