// Package metrics holds Prometheus instruments that are used across the
// engine.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	MutationApplyTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mutation_apply_total",
			Help: "Cumulative number of committed graph mutations.",
		})

	MutationRejectTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mutation_reject_total",
			Help: "Cumulative number of mutations rejected before any write.",
		})

	TierRecomputeTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tier_recompute_total",
			Help: "Cumulative number of tier derivations run.",
		})

	NotificationEmitTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_emit_total",
			Help: "Cumulative number of notifications created by the correlator.",
		})

	LockBusyTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lock_busy_total",
			Help: "Cumulative number of mutations bounced on the per-network lock.",
		})
)

func init() {
	prometheus.MustRegister(
		MutationApplyTotal,
		MutationRejectTotal,
		TierRecomputeTotal,
		NotificationEmitTotal,
		LockBusyTotal,
	)
}
