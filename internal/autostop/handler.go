// Package autostop implements the scheduled idle check: when the load
// balancer saw no traffic in the lookback window, the service is scaled to
// zero and the database stopped.
package autostop

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/naveen-bhatt/bp-be/internal/awscloud"
	"github.com/naveen-bhatt/bp-be/internal/prom"
	"github.com/naveen-bhatt/bp-be/pkg/retrier"
	"github.com/naveen-bhatt/bp-be/pkg/values"
)

type Handler struct {
	logger   *zap.Logger
	cloud    *awscloud.Ops
	lookback time.Duration
	policy   retrier.Policy
}

func NewHandler(logger *zap.Logger, cloud *awscloud.Ops, lookback time.Duration, policy retrier.Policy) *Handler {
	if lookback <= 0 {
		lookback = values.DefaultIdleLookback
	}
	return &Handler{
		logger:   logger.Named("autostop"),
		cloud:    cloud,
		lookback: lookback,
		policy:   policy,
	}
}

// Run performs one stop cycle. Scale-down and DB stop are attempted
// independently; a failure in one never blocks the other. The returned error
// aggregates action failures so the caller can report them without treating
// partial success as catastrophic — a missed stop is corrected on the next
// tick.
func (h *Handler) Run(ctx context.Context) error {
	active, err := h.cloud.HasRecentActivity(ctx, h.lookback)
	if err != nil {
		// Without the activity signal, assume there is traffic rather than
		// stopping a live environment.
		h.logger.Warn("Could not check load balancer activity, skipping auto-stop", zap.Error(err))
		prom.TriggerRunCounter.WithLabelValues(values.TriggerAutoStop, "activity_check_failed").Inc()
		return nil
	}
	if active {
		h.logger.Info("Recent activity detected, skipping auto-stop")
		prom.TriggerRunCounter.WithLabelValues(values.TriggerAutoStop, "active").Inc()
		return nil
	}

	var errs []error

	if err := h.policy.Do(ctx, h.logger, "scale service to zero", awscloud.IsTransient, func() error {
		scaled, err := h.cloud.ScaleServiceToZero(ctx)
		if err != nil {
			return err
		}
		if scaled {
			prom.ActionCounter.WithLabelValues(values.TriggerAutoStop, "ecs-service", "scaled_to_zero").Inc()
		} else {
			prom.SkipCounter.WithLabelValues(values.TriggerAutoStop, "ecs-service").Inc()
		}
		return nil
	}); err != nil {
		h.logger.Error("Failed to scale service to zero", zap.Error(err))
		prom.FailureCounter.WithLabelValues(values.TriggerAutoStop, "ecs-service").Inc()
		errs = append(errs, err)
	}

	if err := h.policy.Do(ctx, h.logger, "stop db instance", awscloud.IsTransient, func() error {
		stopped, err := h.cloud.StopInstance(ctx)
		if err != nil {
			return err
		}
		if stopped {
			prom.ActionCounter.WithLabelValues(values.TriggerAutoStop, "db-instance", "stop_requested").Inc()
		} else {
			prom.SkipCounter.WithLabelValues(values.TriggerAutoStop, "db-instance").Inc()
		}
		return nil
	}); err != nil {
		h.logger.Error("Failed to stop db instance", zap.Error(err))
		prom.FailureCounter.WithLabelValues(values.TriggerAutoStop, "db-instance").Inc()
		errs = append(errs, err)
	}

	if err := h.cloud.PublishRunMetric(ctx, values.MetricAutoStopRuns); err != nil {
		h.logger.Warn("Failed to publish run metric", zap.Error(err))
	}

	if len(errs) > 0 {
		prom.TriggerRunCounter.WithLabelValues(values.TriggerAutoStop, "failed").Inc()
		return errors.Join(errs...)
	}
	prom.TriggerRunCounter.WithLabelValues(values.TriggerAutoStop, values.Success).Inc()
	return nil
}
