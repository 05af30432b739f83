package main

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"github.com/naveen-bhatt/bp-be/internal/autostart"
	"github.com/naveen-bhatt/bp-be/internal/awscloud"
	"github.com/naveen-bhatt/bp-be/internal/config"
	"github.com/naveen-bhatt/bp-be/pkg/logger"
	"github.com/naveen-bhatt/bp-be/pkg/retrier"
	"github.com/naveen-bhatt/bp-be/pkg/values"
)

// targetChangeDetail is the CloudTrail detail of an ELB target registration
// event. Only used for logging; the resources acted on come from config.
type targetChangeDetail struct {
	EventName         string `json:"eventName"`
	RequestParameters struct {
		TargetGroupArn string `json:"targetGroupArn"`
	} `json:"requestParameters"`
}

func main() {
	env, err := config.Load()
	if err != nil {
		log.Fatal("Failed to process env: ", err)
	}

	logger, err := logger.NewLogger(env.AppEnv, env.SentryDsn != "")
	if err != nil {
		log.Fatal("Failed to get logger: ", err)
	}

	if env.SentryDsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: env.SentryDsn}); err != nil {
			logger.Error("Sentry initialization failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		logger.Fatal("Failed to load AWS config", zap.Error(err))
	}

	ops := awscloud.NewOps(logger, awscloud.NewClients(awsCfg), awscloud.Target{
		Cluster:      env.EcsCluster,
		Service:      env.EcsService,
		DBInstance:   env.RdsInstance,
		LoadBalancer: env.AlbName,
		Environment:  env.Environment,
	})

	handler := autostart.NewHandler(logger, ops, int32(env.StartDesiredCount), retrier.Default)

	lambda.Start(func(ctx context.Context, event events.CloudWatchEvent) error {
		var detail targetChangeDetail
		if len(event.Detail) > 0 {
			if err := json.Unmarshal(event.Detail, &detail); err != nil {
				logger.Warn("Unrecognized event detail", zap.Error(err))
			}
		}

		logger.Info("Auto-start event",
			zap.String("cluster", env.EcsCluster),
			zap.String("service", env.EcsService),
			zap.String("eventName", detail.EventName))

		if err := handler.Run(ctx, autostart.Source{
			EventName:      detail.EventName,
			TargetGroupARN: detail.RequestParameters.TargetGroupArn,
		}); err != nil {
			logger.Error("Auto-start completed with failures", zap.Error(err))
			return nil
		}
		logger.Info("Auto-start completed", zap.String("status", values.Success))
		return nil
	})
}
