package order

import (
	"fmt"
	"slices"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

type edge struct {
	from Status
	to   Status
}

// transitionTable is the single source of truth for status changes. An edge
// that is absent is illegal for everyone; an edge that is present admits only
// the listed roles. Relationship checks (owning customer, assigned driver) are
// applied by the aggregate on top of this table.
var transitionTable = map[edge][]kernel.Role{
	{Pending, Processing}: {kernel.RoleAdmin, kernel.RoleWarehouseManager, kernel.RoleSystem},
	{Processing, Shipped}: {kernel.RoleAdmin, kernel.RoleWarehouseManager, kernel.RoleDriver},
	{Shipped, Delivered}: {
		kernel.RoleAdmin, kernel.RoleWarehouseManager, kernel.RoleDriver, kernel.RoleCustomer,
	},
	{Pending, Cancelled}:    {kernel.RoleCustomer, kernel.RoleAdmin, kernel.RoleSystem},
	{Processing, Cancelled}: {kernel.RoleCustomer, kernel.RoleAdmin, kernel.RoleSystem},
	{Shipped, Cancelled}:    {kernel.RoleAdmin, kernel.RoleSystem},
}

// Authorize evaluates the transition table for (from, to, role).
//
// Returns:
//   - nil if the edge exists and admits role
//   - *errs.ConflictError if the edge does not exist (including every edge out
//     of a terminal status)
//   - *errs.AccessDeniedError if the edge exists but role is not admitted
func Authorize(from, to Status, role kernel.Role) error {
	roles, ok := transitionTable[edge{from: from, to: to}]
	if !ok {
		return errs.NewConflictError(fmt.Sprintf("transition %s -> %s is not allowed", from, to))
	}
	if !slices.Contains(roles, role) {
		return errs.NewAccessDeniedError(fmt.Sprintf("%s may not move an order from %s to %s", role, from, to))
	}
	return nil
}

// CanTransition reports whether the edge from -> to exists for any role.
func CanTransition(from, to Status) bool {
	_, ok := transitionTable[edge{from: from, to: to}]
	return ok
}
