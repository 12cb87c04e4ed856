package cmd

import (
	"context"
	"fmt"
	"time"

	"fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/catalogrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/redis"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"
	"fulfillment/internal/pkg/logger"
	"fulfillment/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	otpStore   ports.OTPStore
	log        *logger.Logger
	registry   *prometheus.Registry
	jobMetrics *metrics.Jobs
}

// NewCompositionRoot wires adapters into the use cases. Transition metrics and
// logs are attached to every unit of work it creates.
func NewCompositionRoot(
	cfg Config,
	gormDB *gorm.DB,
	otpBackend *redis.Client,
	log *logger.Logger,
	registry *prometheus.Registry,
) (*CompositionRoot, error) {
	otpStore, err := redis.NewOTPStore(otpBackend, cfg.OTPHashCost)
	if err != nil {
		return nil, fmt.Errorf("otp store: %w", err)
	}

	observers := []ports.TransitionObserver{
		TransitionLogger{log: log},
		metrics.NewTransitions(registry),
	}
	return &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB, observers...),
		otpStore:   otpStore,
		log:        log,
		registry:   registry,
		jobMetrics: metrics.NewJobs(registry),
	}, nil
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) driverUoWFactory() commands.DriverUoWFactory {
	return FuncDriverUoWFactory(func() commands.DriverUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) uoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.uoWFactory(), c.cfg.OrderMaxAttempts)
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	return commands.NewUpdateOrderStatusCommandHandler(c.orderUoWFactory(), c.cfg.OrderMaxAttempts)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.orderUoWFactory(), c.cfg.RefundAllowPartial, c.cfg.OrderMaxAttempts)
}

func (c *CompositionRoot) CreateUpdateShipmentCommandHandler() commands.UpdateShipmentCommandHandler {
	return commands.NewUpdateShipmentCommandHandler(c.orderUoWFactory(), c.cfg.OrderMaxAttempts)
}

func (c *CompositionRoot) CreateAssignDriverCommandHandler() commands.AssignDriverCommandHandler {
	return commands.NewAssignDriverCommandHandler(c.uoWFactory(), c.cfg.OrderMaxAttempts)
}

func (c *CompositionRoot) CreateIssueDeliveryOTPCommandHandler() commands.IssueDeliveryOTPCommandHandler {
	return commands.NewIssueDeliveryOTPCommandHandler(c.orderUoWFactory(), c.otpStore, c.cfg.OTPLength, c.cfg.OTPTTL)
}

func (c *CompositionRoot) CreateUpdateDeliveryStatusCommandHandler() commands.UpdateDeliveryStatusCommandHandler {
	return commands.NewUpdateDeliveryStatusCommandHandler(
		c.orderUoWFactory(), c.otpStore, c.cfg.OTPRequired, c.cfg.OrderMaxAttempts).WithLogger(c.log)
}

func (c *CompositionRoot) CreateConfirmDeliveryCommandHandler() commands.ConfirmDeliveryCommandHandler {
	return commands.NewConfirmDeliveryCommandHandler(c.orderUoWFactory(), c.otpStore, c.cfg.OrderMaxAttempts).
		WithLogger(c.log)
}

func (c *CompositionRoot) CreateRecordPaymentCommandHandler() commands.RecordPaymentCommandHandler {
	return commands.NewRecordPaymentCommandHandler(c.orderUoWFactory(), c.cfg.OrderMaxAttempts)
}

func (c *CompositionRoot) CreateCompleteRefundCommandHandler() commands.CompleteRefundCommandHandler {
	return commands.NewCompleteRefundCommandHandler(c.orderUoWFactory(), c.cfg.OrderMaxAttempts)
}

func (c *CompositionRoot) CreateCreateDriverCommandHandler() commands.CreateDriverCommandHandler {
	return commands.NewCreateDriverCommandHandler(c.driverUoWFactory())
}

func (c *CompositionRoot) CreateExpireStaleOrdersCommandHandler() commands.ExpireStaleOrdersCommandHandler {
	return commands.NewExpireStaleOrdersCommandHandler(c.orderUoWFactory(), c.cfg.OrderMaxAttempts)
}

// Handlers assembles every use case exposed over HTTP. Queries read through
// the plain connection without a unit of work.
func (c *CompositionRoot) Handlers() (http.Handlers, error) {
	reader := orderrepo.NewGormOrderRepository(c.gormDB, nil)

	forCustomer, err := queries.NewGetOrdersForCustomerQueryHandler(reader)
	if err != nil {
		return http.Handlers{}, err
	}
	getOrder, err := queries.NewGetOrderQueryHandler(reader, catalogrepo.NewGormProductCatalog(c.gormDB))
	if err != nil {
		return http.Handlers{}, err
	}
	driverOrders, err := queries.NewGetDriverOrdersQueryHandler(reader)
	if err != nil {
		return http.Handlers{}, err
	}
	drivers, err := queries.NewGetDriversQueryHandler(c.gormDB)
	if err != nil {
		return http.Handlers{}, err
	}

	return http.Handlers{
		CreateOrder:          c.CreateCreateOrderCommandHandler(),
		UpdateOrderStatus:    c.CreateUpdateOrderStatusCommandHandler(),
		CancelOrder:          c.CreateCancelOrderCommandHandler(),
		UpdateShipment:       c.CreateUpdateShipmentCommandHandler(),
		AssignDriver:         c.CreateAssignDriverCommandHandler(),
		IssueDeliveryOTP:     c.CreateIssueDeliveryOTPCommandHandler(),
		UpdateDeliveryStatus: c.CreateUpdateDeliveryStatusCommandHandler(),
		ConfirmDelivery:      c.CreateConfirmDeliveryCommandHandler(),
		RecordPayment:        c.CreateRecordPaymentCommandHandler(),
		CompleteRefund:       c.CreateCompleteRefundCommandHandler(),
		CreateDriver:         c.CreateCreateDriverCommandHandler(),
		GetOrdersForCustomer: forCustomer,
		GetOrder:             getOrder,
		GetDriverOrders:      driverOrders,
		GetDrivers:           drivers,
	}, nil
}

func (c *CompositionRoot) RouterConfig(verifier *http.TokenVerifier, handlers http.Handlers) http.RouterConfig {
	return http.RouterConfig{
		Handlers: handlers,
		Verifier: verifier,
		Logger:   c.log,
		Metrics:  metrics.NewHTTP(c.registry),
		Gatherer: c.registry,
		OTPAttempts: http.RateLimit{
			Rate:      rate.Limit(float64(c.cfg.OTPAttemptsPerMinute) / 60),
			Burst:     c.cfg.OTPAttemptsPerMinute,
			ExpiresIn: 10 * time.Minute,
		},
		Debug: c.cfg.Debug,
	}
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	expiry := jobs.NewStaleOrderExpiryJob(c.CreateExpireStaleOrdersCommandHandler(), jobs.StaleOrderExpiryConfig{
		Schedule:  c.cfg.OrderExpirySchedule,
		TTL:       c.cfg.OrderPendingTTL,
		BatchSize: c.cfg.OrderExpiryBatch,
	}, c.log, c.jobMetrics)
	return jobs.NewJobManager(expiry)
}

// TransitionLogger logs every committed status change.
type TransitionLogger struct {
	log *logger.Logger
}

func (t TransitionLogger) OrderTransitioned(ctx context.Context, change order.StatusChange) {
	if t.log == nil {
		return
	}
	ctx = t.log.WithOrderID(ctx, change.OrderID.String())
	t.log.Event(ctx, zerolog.InfoLevel).
		Str("from", change.From.String()).
		Str("to", change.To.String()).
		Str("by_role", change.Actor.Role().String()).
		Msg("order status changed")
}

type FuncDriverUoWFactory func() commands.DriverUoW

func (f FuncDriverUoWFactory) Create() commands.DriverUoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
