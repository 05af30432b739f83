package awscloud

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/naveen-bhatt/bp-be/pkg/values"
)

// PublishRunMetric records a trigger execution in CloudWatch. This is the
// only audit trail besides logs, but it is best effort: callers log a failed
// publish and move on.
func (o *Ops) PublishRunMetric(ctx context.Context, metricName string) error {
	_, err := o.clients.CloudWatch.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(values.MetricNamespace),
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: aws.String(metricName),
				Value:      aws.Float64(1),
				Unit:       cwtypes.StandardUnitCount,
				Dimensions: []cwtypes.Dimension{
					{Name: aws.String("Environment"), Value: aws.String(o.target.Environment)},
					{Name: aws.String("Service"), Value: aws.String(o.target.Service)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("PublishRunMetric - PutMetricData: %w", err)
	}
	return nil
}
