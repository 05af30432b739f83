package values

import "time"

const (
	// RDS instance lifecycle statuses as reported by DescribeDBInstances.
	DBStatusAvailable = "available"
	DBStatusStopped   = "stopped"
	DBStatusStopping  = "stopping"
	DBStatusStarting  = "starting"

	TriggerAutoStop  = "auto-stop"
	TriggerAutoStart = "auto-start"

	Success = "success"

	MetricNamespace     = "BluePansy/AutoStop"
	MetricAutoStopRuns  = "AutoStopExecuted"
	MetricAutoStartRuns = "AutoStartExecuted"

	DefaultStartDesiredCount = 1
	DefaultIdleLookback      = 60 * time.Minute
)
