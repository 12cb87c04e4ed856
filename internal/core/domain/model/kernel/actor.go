package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// Role is the capability set an authenticated actor was granted by the identity provider.
type Role string

const (
	RoleCustomer         Role = "customer"
	RoleAdmin            Role = "admin"
	RoleWarehouseManager Role = "warehouseManager"
	RoleDriver           Role = "driver"
	// RoleSystem is used by background jobs and payment gateway callbacks.
	// It carries administrative capability.
	RoleSystem Role = "system"
)

var ErrActorIsNotConstructed = errs.NewValueIsRequiredError("actor must be created via NewActor")

// SystemActorID identifies work performed by the service itself.
var SystemActorID = MustUUIDFromString("00000000-0000-4000-8000-000000000001")

func (r Role) Validate() error {
	switch r {
	case RoleCustomer, RoleAdmin, RoleWarehouseManager, RoleDriver, RoleSystem:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", string(r)))
	}
}

// IsAdministrative reports admin capability: cancelling at any non-terminal
// status, assigning drivers and recording payments.
func (r Role) IsAdministrative() bool {
	return r == RoleAdmin || r == RoleSystem
}

// IsStaff reports admin or warehouse capability: general status updates.
func (r Role) IsStaff() bool {
	return r.IsAdministrative() || r == RoleWarehouseManager
}

func (r Role) String() string {
	return string(r)
}

// Actor is the authenticated principal issuing an operation. The role is trusted
// as supplied by the identity provider and never re-derived.
type Actor struct {
	id    UUID
	role  Role
	guard guard.ConstructorGuard
}

func NewActor(id UUID, role Role) (Actor, error) {
	if err := id.Validate(); err != nil {
		return Actor{}, err
	}
	if err := role.Validate(); err != nil {
		return Actor{}, err
	}
	return Actor{id: id, role: role, guard: guard.NewConstructorGuard()}, nil
}

// SystemActor returns the actor used by jobs.
func SystemActor() Actor {
	return Actor{id: SystemActorID, role: RoleSystem, guard: guard.NewConstructorGuard()}
}

func (a Actor) Validate() error {
	return a.guard.Validate(ErrActorIsNotConstructed)
}

func (a Actor) ID() UUID {
	return a.id
}

func (a Actor) Role() Role {
	return a.role
}

// Is reports whether the actor is the principal identified by id.
func (a Actor) Is(id UUID) bool {
	return a.id.IsEqual(id)
}

func (a Actor) String() string {
	return fmt.Sprintf("%s:%s", a.role, a.id)
}
