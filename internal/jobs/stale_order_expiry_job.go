package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/pkg/logger"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const staleOrderExpiryJobName = "stale_order_expiry"

// StaleOrderExpirer is implemented by commands.ExpireStaleOrdersCommandHandler.
type StaleOrderExpirer interface {
	Handle(ctx context.Context, command commands.ExpireStaleOrdersCommand) (commands.ExpireStaleOrdersResult, error)
}

// JobObserver records the outcome of every run.
type JobObserver interface {
	Observe(job string, took time.Duration, err error)
}

// StaleOrderExpiryConfig tunes StaleOrderExpiryJob.
type StaleOrderExpiryConfig struct {
	// Schedule is a cron spec with an optional seconds field, or a descriptor
	// such as "@every 1m".
	Schedule  string
	TTL       time.Duration
	BatchSize int
	// Timeout bounds a single run.
	Timeout time.Duration
}

// StaleOrderExpiryJob cancels Pending orders that nobody started processing
// within the configured TTL. Overlapping runs are skipped.
type StaleOrderExpiryJob struct {
	handler  StaleOrderExpirer
	cfg      StaleOrderExpiryConfig
	cron     *cron.Cron
	log      *logger.Logger
	observer JobObserver
	now      func() time.Time
}

func NewStaleOrderExpiryJob(
	handler StaleOrderExpirer,
	cfg StaleOrderExpiryConfig,
	log *logger.Logger,
	observer JobObserver,
) *StaleOrderExpiryJob {
	if log == nil {
		log = logger.Nop()
	}
	cl := cronLogger{log: log}
	return &StaleOrderExpiryJob{
		handler:  handler,
		cfg:      cfg,
		cron:     cron.New(cron.WithSeconds(), cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		log:      log,
		observer: observer,
		now:      time.Now,
	}
}

// Start schedules the job. It returns an error when the schedule does not parse.
func (j *StaleOrderExpiryJob) Start() error {
	if _, err := j.cron.AddFunc(j.cfg.Schedule, func() {
		_, _ = j.RunOnce(context.Background())
	}); err != nil {
		return fmt.Errorf("schedule %q: %w", j.cfg.Schedule, err)
	}

	j.cron.Start()
	j.log.Event(context.Background(), zerolog.InfoLevel).
		Str("job", staleOrderExpiryJobName).
		Str("schedule", j.cfg.Schedule).
		Dur("ttl", j.cfg.TTL).
		Msg("job started")
	return nil
}

// Stop unschedules the job and waits for a running expiry to finish.
func (j *StaleOrderExpiryJob) Stop() {
	<-j.cron.Stop().Done()
	j.log.Event(context.Background(), zerolog.InfoLevel).Str("job", staleOrderExpiryJobName).Msg("job stopped")
}

// RunOnce performs a single expiry pass.
func (j *StaleOrderExpiryJob) RunOnce(ctx context.Context) (commands.ExpireStaleOrdersResult, error) {
	if j.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.cfg.Timeout)
		defer cancel()
	}
	ctx = j.log.WithField(ctx, "job", staleOrderExpiryJobName)

	start := j.now()
	result, err := j.run(ctx, start)
	if j.observer != nil {
		j.observer.Observe(staleOrderExpiryJobName, time.Since(start), err)
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		j.log.Error(ctx, "stale order expiry failed", err)
	}
	if result.Candidates > 0 {
		j.log.Event(ctx, zerolog.InfoLevel).
			Int("candidates", result.Candidates).
			Int("expired", result.Expired).
			Int("skipped", result.Skipped).
			Msg("stale orders expired")
	}
	return result, err
}

func (j *StaleOrderExpiryJob) run(ctx context.Context, now time.Time) (commands.ExpireStaleOrdersResult, error) {
	cmd, err := commands.NewExpireStaleOrdersCommand(j.cfg.TTL, now, j.cfg.BatchSize)
	if err != nil {
		return commands.ExpireStaleOrdersResult{}, err
	}
	return j.handler.Handle(ctx, cmd)
}

// cronLogger routes robfig/cron's internal logging through zerolog.
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Event(context.Background(), zerolog.DebugLevel).Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Event(context.Background(), zerolog.ErrorLevel).Err(err).Fields(keysAndValues).Msg(msg)
}
