// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

package hank

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Status label values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Scheduled job delivery outcomes.
const (
	OutcomeRun     = "run"
	OutcomeUnknown = "unknown_id"
)

// EntryPointCalls counts entry point invocations.
// Use RegisterMetrics to register this with a Prometheus registry.
var EntryPointCalls = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "hank_entry_point_calls_total",
		Help: "Total number of entry point calls from the host",
	},
	[]string{"entry_point", "status"},
)

// EntryPointDuration observes how long entry points take, handler included.
var EntryPointDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "hank_entry_point_duration_seconds",
		Help:    "Entry point duration in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"entry_point"},
)

// HostCalls counts outbound calls to the host.
var HostCalls = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "hank_host_calls_total",
		Help: "Total number of outbound calls to the host",
	},
	[]string{"function", "status"},
)

// ScheduledJobDeliveries counts scheduled job callbacks by echo kind
// ("cron", "one_shot") and outcome.
var ScheduledJobDeliveries = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "hank_scheduled_job_deliveries_total",
		Help: "Total number of scheduled job callbacks delivered by the host",
	},
	[]string{"kind", "outcome"},
)

// ScheduledJobsRegistered counts jobs added to the job table.
var ScheduledJobsRegistered = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "hank_scheduled_jobs_registered_total",
		Help: "Total number of scheduled jobs registered",
	},
	[]string{"kind"},
)

// RegisterMetrics registers the package metrics with the given registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(EntryPointCalls)
	reg.MustRegister(EntryPointDuration)
	reg.MustRegister(HostCalls)
	reg.MustRegister(ScheduledJobDeliveries)
	reg.MustRegister(ScheduledJobsRegistered)
}

func recordEntryPoint(entryPoint string, err error, elapsed time.Duration) {
	EntryPointCalls.WithLabelValues(entryPoint, status(err)).Inc()
	EntryPointDuration.WithLabelValues(entryPoint).Observe(elapsed.Seconds())
}

func recordHostCall(function string, err error) {
	HostCalls.WithLabelValues(function, status(err)).Inc()
}

func status(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusOK
}
