package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCreateDriverCommandIsNotConstructed = errors.New(
	"CreateDriverCommand must be created via NewCreateDriverCommand constructor",
)

// CreateDriverCommand registers a new delivery driver.
//
// Example:
//
//	cmd, err := NewCreateDriverCommand(admin, "Ravi Kumar", "+91 98200 00000")
//	if err != nil {
//	    return fmt.Errorf("invalid driver data: %w", err)
//	}
//	driverID, err := handler.Handle(ctx, cmd)
type CreateDriverCommand struct {
	actor kernel.Actor
	name  string
	phone string

	guard guard.ConstructorGuard
}

func NewCreateDriverCommand(actor kernel.Actor, name, phone string) (CreateDriverCommand, error) {
	name = strings.TrimSpace(name)

	var missing error
	if name == "" {
		missing = errs.NewValueIsRequiredError("name")
	}
	if err := errors.Join(actor.Validate(), missing); err != nil {
		return CreateDriverCommand{}, err
	}

	return CreateDriverCommand{
		actor: actor,
		name:  name,
		phone: strings.TrimSpace(phone),
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c CreateDriverCommand) Validate() error {
	return c.guard.Validate(ErrCreateDriverCommandIsNotConstructed)
}

func (c CreateDriverCommand) Actor() kernel.Actor {
	return c.actor
}

func (c CreateDriverCommand) Name() string {
	return c.name
}

func (c CreateDriverCommand) Phone() string {
	return c.phone
}
