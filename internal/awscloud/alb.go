package awscloud

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"go.uber.org/zap"
)

const albMetricPeriod = 300 // seconds, 5-minute datapoints

// HasRecentActivity sums the load balancer's RequestCount metric over the
// lookback window. Any non-zero datapoint counts as activity.
func (o *Ops) HasRecentActivity(ctx context.Context, lookback time.Duration) (bool, error) {
	end := time.Now().UTC()
	start := end.Add(-lookback)

	out, err := o.clients.CloudWatch.GetMetricStatistics(ctx, &cloudwatch.GetMetricStatisticsInput{
		Namespace:  aws.String("AWS/ApplicationELB"),
		MetricName: aws.String("RequestCount"),
		Dimensions: []cwtypes.Dimension{
			{Name: aws.String("LoadBalancer"), Value: aws.String(o.target.LoadBalancer)},
		},
		StartTime:  aws.Time(start),
		EndTime:    aws.Time(end),
		Period:     aws.Int32(albMetricPeriod),
		Statistics: []cwtypes.Statistic{cwtypes.StatisticSum},
	})
	if err != nil {
		return false, fmt.Errorf("HasRecentActivity - GetMetricStatistics: %w", err)
	}

	for _, dp := range out.Datapoints {
		if aws.ToFloat64(dp.Sum) > 0 {
			o.logger.Info("Recent load balancer activity",
				zap.String("loadBalancer", o.target.LoadBalancer),
				zap.Float64("requests", aws.ToFloat64(dp.Sum)),
				zap.Timep("at", dp.Timestamp))
			return true, nil
		}
	}

	o.logger.Info("No load balancer activity in lookback window",
		zap.String("loadBalancer", o.target.LoadBalancer),
		zap.Duration("lookback", lookback))
	return false, nil
}

// LoadBalancerInfo returns the DNS name and state of the load balancer,
// informational only. The configured identifier is the CloudWatch dimension
// value (app/<name>/<id>); the name component is used for the lookup.
func (o *Ops) LoadBalancerInfo(ctx context.Context) (dns string, state string, err error) {
	name := o.target.LoadBalancer
	if parts := strings.Split(name, "/"); len(parts) == 3 {
		name = parts[1]
	}

	out, err := o.clients.ELB.DescribeLoadBalancers(ctx, &elasticloadbalancingv2.DescribeLoadBalancersInput{
		Names: []string{name},
	})
	if err != nil {
		return "", "", fmt.Errorf("LoadBalancerInfo - DescribeLoadBalancers: %w", err)
	}
	if len(out.LoadBalancers) == 0 {
		return "", "", fmt.Errorf("LoadBalancerInfo - load balancer not found: %s", name)
	}

	lb := out.LoadBalancers[0]
	if lb.State != nil {
		state = string(lb.State.Code)
	}
	return aws.ToString(lb.DNSName), state, nil
}
