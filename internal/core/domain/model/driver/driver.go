package driver

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const maxPhoneLength = 32

// Domain errors for driver operations.
var (
	// ErrNameIsRequired is returned when attempting to register a driver without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrDriverIsNotConstructed is returned when using an improperly initialized Driver.
	ErrDriverIsNotConstructed = errors.New("Driver must be created via NewDriver or RestoreDriver constructor")
)

// Driver represents a registered delivery driver.
//
// Business rules:
//   - Driver must have a valid UUID and a non-empty name
//   - Phone is optional contact data, at most 32 characters
//   - New drivers are active; inactive drivers keep their existing orders
//     but cannot be assigned new ones
//
// Example usage:
//
//	d, err := driver.NewDriver(kernel.NewUUID(), "Ravi Kumar", "+91 98200 00000")
//	if err != nil {
//	    // Handle construction error
//	}
//	if err := d.EnsureAssignable(); err != nil {
//	    // Driver cannot take orders
//	}
type Driver struct {
	id        kernel.UUID
	name      string
	phone     string
	active    bool
	createdAt time.Time
	guard     guard.ConstructorGuard
}

// NewDriver registers a new active driver.
//
// Parameters:
//   - id: Unique identifier for the driver
//   - name: Human-readable name (must be non-empty after trimming)
//   - phone: Optional contact number
//
// Returns:
//   - *Driver: An active driver
//   - error: Validation error if any parameter is invalid (aggregated errors for multiple issues)
func NewDriver(id kernel.UUID, name, phone string) (*Driver, error) {
	d := &Driver{
		active:    true,
		createdAt: time.Now().UTC(),
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setID(id),
		d.setName(name),
		d.setPhone(phone),
	); err != nil {
		return nil, err
	}

	return d, nil
}

// RestoreDriver reconstructs a Driver from persistent storage.
func RestoreDriver(id kernel.UUID, name, phone string, active bool, createdAt time.Time) (*Driver, error) {
	d := &Driver{
		active:    active,
		createdAt: createdAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		d.setID(id),
		d.setName(name),
		d.setPhone(phone),
	); err != nil {
		return nil, err
	}

	return d, nil
}

// Validate checks if the Driver was properly constructed.
func (d *Driver) Validate() error {
	if d == nil {
		return ErrDriverIsNotConstructed
	}
	return d.guard.Validate(ErrDriverIsNotConstructed)
}

func (d *Driver) ID() kernel.UUID {
	return d.id
}

func (d *Driver) Name() string {
	return d.name
}

func (d *Driver) Phone() string {
	return d.phone
}

func (d *Driver) IsActive() bool {
	return d.active
}

func (d *Driver) CreatedAt() time.Time {
	return d.createdAt
}

// Deactivate stops the driver from receiving new assignments.
func (d *Driver) Deactivate() {
	d.active = false
}

// EnsureAssignable returns a ConflictError if the driver may not receive new orders.
func (d *Driver) EnsureAssignable() error {
	if !d.active {
		return errs.NewConflictError(fmt.Sprintf("driver %s is inactive", d.id))
	}
	return nil
}

func (d *Driver) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Driver) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	d.name = name
	return nil
}

func (d *Driver) setPhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if len(phone) > maxPhoneLength {
		return errs.NewValueIsOutOfRangeError("phone length", len(phone), 0, maxPhoneLength)
	}
	d.phone = phone
	return nil
}
