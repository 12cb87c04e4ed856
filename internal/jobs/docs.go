// Package jobs provides scheduled background tasks for the fulfillment service.
//
// Jobs are built on github.com/robfig/cron/v3 and driven by JobManager:
//
//	expiry := jobs.NewStaleOrderExpiryJob(handler, cfg, log, jobMetrics)
//	manager := jobs.NewJobManager(expiry)
//	if err := manager.StartAll(); err != nil {
//		return err
//	}
//	defer manager.StopAll()
//
// # Available Jobs
//
// StaleOrderExpiryJob cancels Pending orders older than the configured TTL as
// the system actor. Each order is cancelled in its own transaction; orders that
// moved on in the meantime are counted as skipped.
//
// # Scheduling
//
// Schedules accept six-field cron specs (with seconds) and descriptors such
// as "@every 1m". A run that is still in progress when the next tick fires
// causes that tick to be skipped.
package jobs
