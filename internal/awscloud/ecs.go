package awscloud

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"go.uber.org/zap"
)

// ServiceCounts is the live state of the ECS service.
type ServiceCounts struct {
	Desired int32
	Running int32
	Status  string
}

func (o *Ops) ServiceCounts(ctx context.Context) (ServiceCounts, error) {
	out, err := o.clients.ECS.DescribeServices(ctx, &ecs.DescribeServicesInput{
		Cluster:  aws.String(o.target.Cluster),
		Services: []string{o.target.Service},
	})
	if err != nil {
		return ServiceCounts{}, fmt.Errorf("ServiceCounts - DescribeServices: %w", err)
	}
	if len(out.Services) == 0 {
		return ServiceCounts{}, fmt.Errorf("ServiceCounts - %w: %s", ErrServiceNotFound, o.target.Service)
	}

	svc := out.Services[0]
	return ServiceCounts{
		Desired: svc.DesiredCount,
		Running: svc.RunningCount,
		Status:  aws.ToString(svc.Status),
	}, nil
}

// ScaleServiceToZero sets the desired count to 0. Returns false when the
// service is already at 0, which is a logged no-op.
func (o *Ops) ScaleServiceToZero(ctx context.Context) (bool, error) {
	counts, err := o.ServiceCounts(ctx)
	if err != nil {
		return false, err
	}

	if counts.Desired == 0 {
		o.logger.Info("Service already scaled to zero",
			zap.String("service", o.target.Service),
			zap.Int32("runningCount", counts.Running))
		return false, nil
	}

	if err := o.setDesiredCount(ctx, 0); err != nil {
		return false, fmt.Errorf("ScaleServiceToZero: %w", err)
	}
	o.logger.Info("Service scaled to zero",
		zap.String("service", o.target.Service),
		zap.Int32("previousDesired", counts.Desired))
	return true, nil
}

// ScaleServiceFromZero sets the desired count to desired when the service is
// at 0. A service already above zero is left alone even if its desired count
// differs from the configured target.
func (o *Ops) ScaleServiceFromZero(ctx context.Context, desired int32) (bool, error) {
	counts, err := o.ServiceCounts(ctx)
	if err != nil {
		return false, err
	}

	if counts.Desired > 0 {
		o.logger.Info("Service already running",
			zap.String("service", o.target.Service),
			zap.Int32("desiredCount", counts.Desired),
			zap.Int32("runningCount", counts.Running))
		return false, nil
	}

	if err := o.setDesiredCount(ctx, desired); err != nil {
		return false, fmt.Errorf("ScaleServiceFromZero: %w", err)
	}
	o.logger.Info("Service scaled up from zero",
		zap.String("service", o.target.Service),
		zap.Int32("desiredCount", desired))
	return true, nil
}

func (o *Ops) setDesiredCount(ctx context.Context, desired int32) error {
	_, err := o.clients.ECS.UpdateService(ctx, &ecs.UpdateServiceInput{
		Cluster:      aws.String(o.target.Cluster),
		Service:      aws.String(o.target.Service),
		DesiredCount: aws.Int32(desired),
	})
	if err != nil {
		return fmt.Errorf("UpdateService: %w", err)
	}
	return nil
}
