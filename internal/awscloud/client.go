// Package awscloud wraps the ECS, RDS, ELBv2 and CloudWatch calls the
// triggers make. The platform is the only source of truth: every operation
// re-fetches current state before deciding whether to act.
package awscloud

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"go.uber.org/zap"
)

// Narrow views over the SDK clients so tests can substitute fakes.
type (
	ECSClient interface {
		DescribeServices(ctx context.Context, params *ecs.DescribeServicesInput, optFns ...func(*ecs.Options)) (*ecs.DescribeServicesOutput, error)
		UpdateService(ctx context.Context, params *ecs.UpdateServiceInput, optFns ...func(*ecs.Options)) (*ecs.UpdateServiceOutput, error)
	}

	RDSClient interface {
		DescribeDBInstances(ctx context.Context, params *rds.DescribeDBInstancesInput, optFns ...func(*rds.Options)) (*rds.DescribeDBInstancesOutput, error)
		StartDBInstance(ctx context.Context, params *rds.StartDBInstanceInput, optFns ...func(*rds.Options)) (*rds.StartDBInstanceOutput, error)
		StopDBInstance(ctx context.Context, params *rds.StopDBInstanceInput, optFns ...func(*rds.Options)) (*rds.StopDBInstanceOutput, error)
	}

	ELBClient interface {
		DescribeLoadBalancers(ctx context.Context, params *elasticloadbalancingv2.DescribeLoadBalancersInput, optFns ...func(*elasticloadbalancingv2.Options)) (*elasticloadbalancingv2.DescribeLoadBalancersOutput, error)
	}

	CloudWatchClient interface {
		GetMetricStatistics(ctx context.Context, params *cloudwatch.GetMetricStatisticsInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.GetMetricStatisticsOutput, error)
		PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
	}
)

// Clients bundles the platform clients used by Ops.
type Clients struct {
	ECS        ECSClient
	RDS        RDSClient
	ELB        ELBClient
	CloudWatch CloudWatchClient
}

// NewClients builds real SDK clients from a loaded AWS config.
func NewClients(cfg aws.Config) Clients {
	return Clients{
		ECS:        ecs.NewFromConfig(cfg),
		RDS:        rds.NewFromConfig(cfg),
		ELB:        elasticloadbalancingv2.NewFromConfig(cfg),
		CloudWatch: cloudwatch.NewFromConfig(cfg),
	}
}

// Target identifies the externally-owned resources the triggers act on.
type Target struct {
	Cluster    string
	Service    string
	DBInstance string
	// LoadBalancer is the CloudWatch dimension value (app/<name>/<id>).
	LoadBalancer string
	Environment  string
}

// Ops is the platform access layer shared by both triggers.
type Ops struct {
	logger  *zap.Logger
	clients Clients
	target  Target
}

func NewOps(logger *zap.Logger, clients Clients, target Target) *Ops {
	return &Ops{
		logger:  logger.Named("awscloud"),
		clients: clients,
		target:  target,
	}
}
