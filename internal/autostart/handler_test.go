package autostart

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	ecstypes "github.com/aws/aws-sdk-go-v2/service/ecs/types"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/naveen-bhatt/bp-be/internal/awscloud"
	"github.com/naveen-bhatt/bp-be/pkg/retrier"
	"github.com/naveen-bhatt/bp-be/pkg/values"
)

var testPolicy = retrier.Policy{MaxAttempts: 3, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond}

type fakeECS struct {
	desired     int32
	running     int32
	updateCalls []int32
}

func (f *fakeECS) DescribeServices(_ context.Context, _ *ecs.DescribeServicesInput, _ ...func(*ecs.Options)) (*ecs.DescribeServicesOutput, error) {
	return &ecs.DescribeServicesOutput{
		Services: []ecstypes.Service{
			{DesiredCount: f.desired, RunningCount: f.running, Status: aws.String("ACTIVE")},
		},
	}, nil
}

func (f *fakeECS) UpdateService(_ context.Context, in *ecs.UpdateServiceInput, _ ...func(*ecs.Options)) (*ecs.UpdateServiceOutput, error) {
	f.updateCalls = append(f.updateCalls, aws.ToInt32(in.DesiredCount))
	f.desired = aws.ToInt32(in.DesiredCount)
	return &ecs.UpdateServiceOutput{}, nil
}

type fakeRDS struct {
	status      string
	describeErr error
	startCalls  int
	stopCalls   int
}

func (f *fakeRDS) DescribeDBInstances(_ context.Context, _ *rds.DescribeDBInstancesInput, _ ...func(*rds.Options)) (*rds.DescribeDBInstancesOutput, error) {
	if f.describeErr != nil {
		return nil, f.describeErr
	}
	return &rds.DescribeDBInstancesOutput{
		DBInstances: []rdstypes.DBInstance{{DBInstanceStatus: aws.String(f.status)}},
	}, nil
}

func (f *fakeRDS) StartDBInstance(_ context.Context, _ *rds.StartDBInstanceInput, _ ...func(*rds.Options)) (*rds.StartDBInstanceOutput, error) {
	f.startCalls++
	f.status = values.DBStatusStarting
	return &rds.StartDBInstanceOutput{}, nil
}

func (f *fakeRDS) StopDBInstance(_ context.Context, _ *rds.StopDBInstanceInput, _ ...func(*rds.Options)) (*rds.StopDBInstanceOutput, error) {
	f.stopCalls++
	f.status = values.DBStatusStopping
	return &rds.StopDBInstanceOutput{}, nil
}

type fakeCloudWatch struct {
	putCalls int
}

func (f *fakeCloudWatch) GetMetricStatistics(_ context.Context, _ *cloudwatch.GetMetricStatisticsInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.GetMetricStatisticsOutput, error) {
	return &cloudwatch.GetMetricStatisticsOutput{}, nil
}

func (f *fakeCloudWatch) PutMetricData(_ context.Context, _ *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	f.putCalls++
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func newTestHandler(ecsClient *fakeECS, rdsClient *fakeRDS, cwClient *fakeCloudWatch) *Handler {
	logger, _ := zap.NewDevelopment()
	ops := awscloud.NewOps(logger, awscloud.Clients{
		ECS:        ecsClient,
		RDS:        rdsClient,
		CloudWatch: cwClient,
	}, awscloud.Target{
		Cluster:      "dev-cluster",
		Service:      "dev-api",
		DBInstance:   "dev-db",
		LoadBalancer: "app/dev-alb/50dc6c495c0c9188",
		Environment:  "dev",
	})
	return NewHandler(logger, ops, 1, testPolicy)
}

var testSource = Source{
	EventName:      "RegisterTargets",
	TargetGroupARN: "arn:aws:elasticloadbalancing:ap-south-1:123456789012:targetgroup/dev-tg/abc",
}

func TestRunColdStart(t *testing.T) {
	ecsClient := &fakeECS{desired: 0, running: 0}
	rdsClient := &fakeRDS{status: values.DBStatusStopped}
	cwClient := &fakeCloudWatch{}

	h := newTestHandler(ecsClient, rdsClient, cwClient)

	err := h.Run(context.Background(), testSource)
	assert.NoError(t, err)
	assert.Equal(t, 1, rdsClient.startCalls)
	assert.Equal(t, []int32{1}, ecsClient.updateCalls)
	assert.Equal(t, 1, cwClient.putCalls)
}

func TestRunAlreadyStarted(t *testing.T) {
	ecsClient := &fakeECS{desired: 2, running: 2}
	rdsClient := &fakeRDS{status: values.DBStatusAvailable}
	cwClient := &fakeCloudWatch{}

	h := newTestHandler(ecsClient, rdsClient, cwClient)

	err := h.Run(context.Background(), testSource)
	assert.NoError(t, err)
	assert.Zero(t, rdsClient.startCalls, "no start when already available")
	assert.Empty(t, ecsClient.updateCalls, "desired count above zero is left alone")
}

func TestRunSkipsWhileDBStarting(t *testing.T) {
	ecsClient := &fakeECS{desired: 0, running: 0}
	rdsClient := &fakeRDS{status: values.DBStatusStarting}
	cwClient := &fakeCloudWatch{}

	h := newTestHandler(ecsClient, rdsClient, cwClient)

	err := h.Run(context.Background(), testSource)
	assert.NoError(t, err)
	assert.Zero(t, rdsClient.startCalls, "no duplicate start while a start is in progress")
	assert.Equal(t, []int32{1}, ecsClient.updateCalls, "service scale-up still proceeds")
}

func TestRunDBFailureDoesNotBlockService(t *testing.T) {
	ecsClient := &fakeECS{desired: 0, running: 0}
	rdsClient := &fakeRDS{
		status:      values.DBStatusStopped,
		describeErr: &smithy.GenericAPIError{Code: "AccessDenied", Message: "nope"},
	}
	cwClient := &fakeCloudWatch{}

	h := newTestHandler(ecsClient, rdsClient, cwClient)

	err := h.Run(context.Background(), testSource)
	assert.Error(t, err, "db failure must be reported")
	assert.Equal(t, []int32{1}, ecsClient.updateCalls, "service must still be scaled up")
}

func TestRunTwiceIsIdempotent(t *testing.T) {
	ecsClient := &fakeECS{desired: 0, running: 0}
	rdsClient := &fakeRDS{status: values.DBStatusStopped}
	cwClient := &fakeCloudWatch{}

	h := newTestHandler(ecsClient, rdsClient, cwClient)

	assert.NoError(t, h.Run(context.Background(), testSource))
	assert.NoError(t, h.Run(context.Background(), testSource))

	assert.Equal(t, 1, rdsClient.startCalls, "second run must not repeat the start")
	assert.Equal(t, []int32{1}, ecsClient.updateCalls, "second run must not repeat the scale-up")
}
