// Package postgres provides the GORM implementation of the Unit of Work.
//
// A unit of work wraps one database transaction. Repositories obtained from it
// share that transaction and report every aggregate they write back to the
// unit of work. After a successful commit the status changes recorded on the
// written orders are handed to the transition observers; a rollback discards them.
//
// Usage:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer uow.Rollback(ctx)
//
//	o, err := uow.OrderRepository().Get(ctx, id)
//	// ... mutate o
//	if err = uow.OrderRepository().Update(ctx, o); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
//
// Each unit of work is single-use per transaction and must not be shared
// between goroutines.
package postgres

import (
	"context"

	"fulfillment/internal/adapters/out/postgres/catalogrepo"
	"fulfillment/internal/adapters/out/postgres/driverrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate is an aggregate written during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

var _ ports.UnitOfWorkFactory = (*GormUnitOfWorkFactory)(nil)

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection pool.
type GormUnitOfWorkFactory struct {
	db        *gorm.DB
	observers []ports.TransitionObserver
}

// NewGormUnitOfWorkFactory creates a factory whose units of work notify
// observers of committed status changes.
func NewGormUnitOfWorkFactory(db *gorm.DB, observers ...ports.TransitionObserver) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db, observers: observers}
}

// Create produces a fresh unit of work with no active transaction.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		observers:         f.observers,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction and tracks the
// aggregates written within it.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	observers         []ports.TransitionObserver
	trackedAggregates []trackedAggregate
}

// Begin starts a transaction. Calling Begin again while one is active is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit commits the transaction and then notifies the observers of the
// status changes applied to tracked orders.
//
// Returns gorm.ErrInvalidTransaction if no transaction is active.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	tracked := uow.trackedAggregates
	uow.trackedAggregates = make([]trackedAggregate, 0)
	if err != nil {
		return err
	}

	uow.publish(ctx, tracked)
	return nil
}

// Rollback discards the transaction and the tracked aggregates.
//
// Returns gorm.ErrInvalidTransaction if no transaction is active, which is the
// case for the deferred Rollback after a successful Commit.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = make([]trackedAggregate, 0)
	return err
}

// OrderRepository returns an order repository bound to the active transaction,
// or to the plain connection when none is active.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

// DriverRepository returns a driver repository bound like OrderRepository.
func (uow *GormUnitOfWork) DriverRepository() ports.DriverRepository {
	return driverrepo.NewGormDriverRepository(uow.conn(), uow)
}

// ProductCatalog returns the catalog bound like OrderRepository.
func (uow *GormUnitOfWork) ProductCatalog() ports.ProductCatalog {
	return catalogrepo.NewGormProductCatalog(uow.conn())
}

// TrackAggregate registers an aggregate written within this unit of work.
// Repositories call it after every successful Add or Update.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) publish(ctx context.Context, tracked []trackedAggregate) {
	for _, t := range tracked {
		o, ok := t.Aggregate.(*order.Order)
		if !ok {
			continue
		}
		for _, change := range o.PullChanges() {
			for _, observer := range uow.observers {
				observer.OrderTransitioned(ctx, change)
			}
		}
	}
}
