// The watcher runs the auto-stop check on a fixed interval for deployments
// without a Lambda scheduler. It exposes Prometheus metrics and shuts down
// gracefully on SIGINT/SIGTERM.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/getsentry/sentry-go"
	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/naveen-bhatt/bp-be/internal/autostop"
	"github.com/naveen-bhatt/bp-be/internal/awscloud"
	"github.com/naveen-bhatt/bp-be/internal/config"
	"github.com/naveen-bhatt/bp-be/pkg/logger"
	"github.com/naveen-bhatt/bp-be/pkg/retrier"
)

type watcherConfig struct {
	// PollIntervalMinutes is the gap between idle checks.
	PollIntervalMinutes int `split_words:"true" default:"60"`
	MetricsPort         int `split_words:"true" default:"8013"`
}

func main() {
	env, err := config.Load()
	if err != nil {
		log.Fatal("Failed to process env: ", err)
	}
	var wenv watcherConfig
	if err := envconfig.Process("", &wenv); err != nil {
		log.Fatal("Failed to process env: ", err)
	}

	logger, err := logger.NewLogger(env.AppEnv, env.SentryDsn != "")
	if err != nil {
		log.Fatal("Failed to get logger: ", err)
	}

	if env.AlbName == "" {
		logger.Fatal("ALB_NAME must be set for the watcher")
	}

	if env.SentryDsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: env.SentryDsn}); err != nil {
			logger.Error("Sentry initialization failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
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

	if dns, state, err := ops.LoadBalancerInfo(ctx); err != nil {
		logger.Warn("Could not describe load balancer", zap.Error(err))
	} else {
		logger.Info("Watching load balancer", zap.String("dns", dns), zap.String("state", state))
	}

	handler := autostop.NewHandler(logger, ops,
		time.Duration(env.IdleLookbackMinutes)*time.Minute, retrier.Default)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", wenv.MetricsPort),
		Handler:           mux,
		ReadHeaderTimeout: 2 * time.Second,
	}
	go func() {
		logger.Info("Metrics server starting", zap.Int("port", wenv.MetricsPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Metrics server failed", zap.Error(err))
		}
	}()

	interval := time.Duration(wenv.PollIntervalMinutes) * time.Minute
	logger.Info("Starting idle watcher", zap.Duration("interval", interval))

	if err := handler.Run(ctx); err != nil {
		logger.Error("Idle check completed with failures", zap.Error(err))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("Watcher shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				logger.Error("Could not gracefully shutdown the metrics server", zap.Error(err))
			}
			return
		case <-ticker.C:
			if err := handler.Run(ctx); err != nil {
				logger.Error("Idle check completed with failures", zap.Error(err))
			}
		}
	}
}
