package main

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"github.com/naveen-bhatt/bp-be/internal/autostop"
	"github.com/naveen-bhatt/bp-be/internal/awscloud"
	"github.com/naveen-bhatt/bp-be/internal/config"
	"github.com/naveen-bhatt/bp-be/pkg/logger"
	"github.com/naveen-bhatt/bp-be/pkg/retrier"
	"github.com/naveen-bhatt/bp-be/pkg/values"
)

func main() {
	env, err := config.Load()
	if err != nil {
		log.Fatal("Failed to process env: ", err)
	}

	logger, err := logger.NewLogger(env.AppEnv, env.SentryDsn != "")
	if err != nil {
		log.Fatal("Failed to get logger: ", err)
	}

	if env.AlbName == "" {
		logger.Fatal("ALB_NAME must be set for the auto-stop trigger")
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

	handler := autostop.NewHandler(logger, ops,
		time.Duration(env.IdleLookbackMinutes)*time.Minute, retrier.Default)

	lambda.Start(func(ctx context.Context, event events.CloudWatchEvent) error {
		logger.Info("Auto-stop tick",
			zap.String("cluster", env.EcsCluster),
			zap.String("service", env.EcsService),
			zap.Time("time", event.Time))

		// Partial failure is an acceptable, logged outcome corrected by the
		// next cycle; only a panic should fail the invocation itself.
		if err := handler.Run(ctx); err != nil {
			logger.Error("Auto-stop completed with failures", zap.Error(err))
			return nil
		}
		logger.Info("Auto-stop completed", zap.String("status", values.Success))
		return nil
	})
}
