package metrics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitions_CountsByEdgeAndRole(t *testing.T) {
	reg := prometheus.NewRegistry()
	transitions := metrics.NewTransitions(reg)

	change := order.StatusChange{
		OrderID: kernel.NewUUID(),
		From:    order.Shipped,
		To:      order.Delivered,
		Actor:   kernel.SystemActor(),
	}
	transitions.OrderTransitioned(context.Background(), change)
	transitions.OrderTransitioned(context.Background(), change)

	count, err := testutil.GatherAndCount(reg, "fulfillment_order_transitions_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestJobs_SplitsSuccessAndFailure(t *testing.T) {
	reg := prometheus.NewRegistry()
	jobs := metrics.NewJobs(reg)

	jobs.Observe("expire", 10*time.Millisecond, nil)
	jobs.Observe("expire", 10*time.Millisecond, errors.New("boom"))
	jobs.Observe("expire", 10*time.Millisecond, nil)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			if c := m.GetCounter(); c != nil {
				values[mf.GetName()] = c.GetValue()
			}
		}
	}
	assert.InDelta(t, 2, values["fulfillment_job_success_total"], 0)
	assert.InDelta(t, 1, values["fulfillment_job_failure_total"], 0)
}

func TestNilRegistererIsSafe(t *testing.T) {
	assert.NotPanics(t, func() {
		metrics.NewTransitions(nil).OrderTransitioned(context.Background(), order.StatusChange{})
		metrics.NewJobs(nil).Observe("x", time.Second, nil)
		metrics.NewHTTP(nil).Observe("GET", "/", 200, time.Second)
	})
}
