package awscloud

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"
	"go.uber.org/zap"

	"github.com/naveen-bhatt/bp-be/pkg/values"
)

func (o *Ops) InstanceStatus(ctx context.Context) (string, error) {
	out, err := o.clients.RDS.DescribeDBInstances(ctx, &rds.DescribeDBInstancesInput{
		DBInstanceIdentifier: aws.String(o.target.DBInstance),
	})
	if err != nil {
		return "", fmt.Errorf("InstanceStatus - DescribeDBInstances: %w", err)
	}
	if len(out.DBInstances) == 0 {
		return "", fmt.Errorf("InstanceStatus - %w: %s", ErrInstanceNotFound, o.target.DBInstance)
	}
	return aws.ToString(out.DBInstances[0].DBInstanceStatus), nil
}

// StopInstance stops the DB instance when it is available. Any other status
// means a stop is pointless or already underway, so it is skipped.
func (o *Ops) StopInstance(ctx context.Context) (bool, error) {
	status, err := o.InstanceStatus(ctx)
	if err != nil {
		return false, err
	}

	switch status {
	case values.DBStatusAvailable:
	case values.DBStatusStopped:
		o.logger.Info("DB instance already stopped", zap.String("instance", o.target.DBInstance))
		return false, nil
	default:
		o.logger.Info("DB instance not stoppable in current state",
			zap.String("instance", o.target.DBInstance),
			zap.String("status", status))
		return false, nil
	}

	_, err = o.clients.RDS.StopDBInstance(ctx, &rds.StopDBInstanceInput{
		DBInstanceIdentifier: aws.String(o.target.DBInstance),
	})
	if err != nil {
		// A concurrent invocation may have changed the state between the
		// status read and the stop call. The platform rejects the stop,
		// which is the expected skip, not a failure.
		if isInvalidInstanceState(err) {
			o.logger.Info("DB instance changed state before stop, skipping",
				zap.String("instance", o.target.DBInstance))
			return false, nil
		}
		return false, fmt.Errorf("StopInstance - StopDBInstance: %w", err)
	}

	o.logger.Info("DB instance stop requested", zap.String("instance", o.target.DBInstance))
	return true, nil
}

// StartInstance starts the DB instance when it is stopped. "starting" and
// "available" are logged skips; anything else cannot be started.
func (o *Ops) StartInstance(ctx context.Context) (bool, error) {
	status, err := o.InstanceStatus(ctx)
	if err != nil {
		return false, err
	}

	switch status {
	case values.DBStatusStopped:
	case values.DBStatusStarting:
		o.logger.Info("DB instance already starting", zap.String("instance", o.target.DBInstance))
		return false, nil
	case values.DBStatusAvailable:
		o.logger.Info("DB instance already available", zap.String("instance", o.target.DBInstance))
		return false, nil
	default:
		o.logger.Info("DB instance not startable in current state",
			zap.String("instance", o.target.DBInstance),
			zap.String("status", status))
		return false, nil
	}

	_, err = o.clients.RDS.StartDBInstance(ctx, &rds.StartDBInstanceInput{
		DBInstanceIdentifier: aws.String(o.target.DBInstance),
	})
	if err != nil {
		if isInvalidInstanceState(err) {
			o.logger.Info("DB instance changed state before start, skipping",
				zap.String("instance", o.target.DBInstance))
			return false, nil
		}
		return false, fmt.Errorf("StartInstance - StartDBInstance: %w", err)
	}

	o.logger.Info("DB instance start requested", zap.String("instance", o.target.DBInstance))
	return true, nil
}

func isInvalidInstanceState(err error) bool {
	var invalidState *rdstypes.InvalidDBInstanceStateFault
	return errors.As(err, &invalidState)
}
