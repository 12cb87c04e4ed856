// Package kernel provides the shared domain primitives of the fulfillment service.
//
// The package includes:
//   - UUID: identifier value object with validation and comparison
//   - Location: a WGS84 point reported by drivers while a delivery is in progress
//   - Money: a non-negative decimal monetary amount (shopspring/decimal)
//   - Actor and Role: the authenticated principal issuing an operation
//
// Values are immutable and safe for concurrent use. Each one is built through a
// constructor that validates its invariants; zero values fail Validate.
package kernel
