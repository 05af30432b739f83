package prom

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TriggerRunCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bluepansy_trigger_runs_total",
			Help: "Counter for trigger invocations",
		},
		[]string{"trigger", "outcome"},
	)

	ActionCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bluepansy_trigger_actions_total",
			Help: "Counter for platform-mutating actions taken by the triggers",
		},
		[]string{"trigger", "resource", "action"},
	)

	SkipCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bluepansy_trigger_skips_total",
			Help: "Counter for actions skipped because the resource was already in the target state",
		},
		[]string{"trigger", "resource"},
	)

	FailureCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bluepansy_trigger_failures_total",
			Help: "Counter for actions that failed after exhausting retries",
		},
		[]string{"trigger", "resource"},
	)
)
