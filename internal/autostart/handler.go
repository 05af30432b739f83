// Package autostart brings the environment back up when load balancer target
// activity signals incoming traffic.
package autostart

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/naveen-bhatt/bp-be/internal/awscloud"
	"github.com/naveen-bhatt/bp-be/internal/prom"
	"github.com/naveen-bhatt/bp-be/pkg/retrier"
	"github.com/naveen-bhatt/bp-be/pkg/values"
)

// Source describes the event that triggered the start, for logging only.
// Resource identity comes from configuration, never from the payload.
type Source struct {
	EventName      string
	TargetGroupARN string
}

type Handler struct {
	logger       *zap.Logger
	cloud        *awscloud.Ops
	desiredCount int32
	policy       retrier.Policy
}

func NewHandler(logger *zap.Logger, cloud *awscloud.Ops, desiredCount int32, policy retrier.Policy) *Handler {
	if desiredCount <= 0 {
		desiredCount = values.DefaultStartDesiredCount
	}
	return &Handler{
		logger:       logger.Named("autostart"),
		cloud:        cloud,
		desiredCount: desiredCount,
		policy:       policy,
	}
}

// Run issues the DB start before the service scale-up, but does not wait for
// the database to become available in between: the service's own health
// checks absorb a database that is still starting. Both actions are attempted
// and retried independently.
func (h *Handler) Run(ctx context.Context, src Source) error {
	if src.TargetGroupARN != "" {
		h.logger.Info("Target group activity",
			zap.String("eventName", src.EventName),
			zap.String("targetGroup", src.TargetGroupARN))
	}

	var errs []error

	if err := h.policy.Do(ctx, h.logger, "start db instance", awscloud.IsTransient, func() error {
		started, err := h.cloud.StartInstance(ctx)
		if err != nil {
			return err
		}
		if started {
			prom.ActionCounter.WithLabelValues(values.TriggerAutoStart, "db-instance", "start_requested").Inc()
		} else {
			prom.SkipCounter.WithLabelValues(values.TriggerAutoStart, "db-instance").Inc()
		}
		return nil
	}); err != nil {
		h.logger.Error("Failed to start db instance", zap.Error(err))
		prom.FailureCounter.WithLabelValues(values.TriggerAutoStart, "db-instance").Inc()
		errs = append(errs, err)
	}

	if err := h.policy.Do(ctx, h.logger, "scale service from zero", awscloud.IsTransient, func() error {
		scaled, err := h.cloud.ScaleServiceFromZero(ctx, h.desiredCount)
		if err != nil {
			return err
		}
		if scaled {
			prom.ActionCounter.WithLabelValues(values.TriggerAutoStart, "ecs-service", "scaled_from_zero").Inc()
		} else {
			prom.SkipCounter.WithLabelValues(values.TriggerAutoStart, "ecs-service").Inc()
		}
		return nil
	}); err != nil {
		h.logger.Error("Failed to scale service from zero", zap.Error(err))
		prom.FailureCounter.WithLabelValues(values.TriggerAutoStart, "ecs-service").Inc()
		errs = append(errs, err)
	}

	if err := h.cloud.PublishRunMetric(ctx, values.MetricAutoStartRuns); err != nil {
		h.logger.Warn("Failed to publish run metric", zap.Error(err))
	}

	if len(errs) > 0 {
		prom.TriggerRunCounter.WithLabelValues(values.TriggerAutoStart, "failed").Inc()
		return errors.Join(errs...)
	}
	prom.TriggerRunCounter.WithLabelValues(values.TriggerAutoStart, values.Success).Inc()
	return nil
}
