// Package config holds the environment-supplied configuration shared by the
// trigger binaries. Resource identity always comes from the environment, never
// from event payloads.
package config

import "github.com/kelseyhightower/envconfig"

type Config struct {
	// EcsCluster and EcsService identify the Fargate service to scale.
	EcsCluster string `split_words:"true" required:"true"`
	EcsService string `split_words:"true" required:"true"`
	// RdsInstance is the DB instance identifier to start/stop.
	RdsInstance string `split_words:"true" required:"true"`
	// AlbName is the CloudWatch LoadBalancer dimension value
	// (app/<name>/<id>). Required by the auto-stop activity check only.
	AlbName string `split_words:"true"`
	// StartDesiredCount is the desired count auto-start restores the service to.
	StartDesiredCount int `split_words:"true" default:"1"`
	// IdleLookbackMinutes is the window of ALB request activity that blocks auto-stop.
	IdleLookbackMinutes int `split_words:"true" default:"60"`
	// Environment label attached to published metrics.
	Environment string `split_words:"true" default:"dev"`
	AppEnv      string `split_words:"true" default:"dev"`
	SentryDsn   string `split_words:"true"`
}

// Load processes the environment into a Config.
func Load() (Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, err
	}
	return c, nil
}
