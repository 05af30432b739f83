package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func setRequired(t *testing.T) {
	t.Setenv("ECS_CLUSTER", "dev-cluster")
	t.Setenv("ECS_SERVICE", "dev-api")
	t.Setenv("RDS_INSTANCE", "dev-db")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	c, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "dev-cluster", c.EcsCluster)
	assert.Equal(t, "dev-api", c.EcsService)
	assert.Equal(t, "dev-db", c.RdsInstance)
	assert.Equal(t, 1, c.StartDesiredCount)
	assert.Equal(t, 60, c.IdleLookbackMinutes)
	assert.Equal(t, "dev", c.Environment)
	assert.Empty(t, c.AlbName)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ALB_NAME", "app/dev-alb/50dc6c495c0c9188")
	t.Setenv("START_DESIRED_COUNT", "2")
	t.Setenv("IDLE_LOOKBACK_MINUTES", "30")
	t.Setenv("APP_ENV", "prod")

	c, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "app/dev-alb/50dc6c495c0c9188", c.AlbName)
	assert.Equal(t, 2, c.StartDesiredCount)
	assert.Equal(t, 30, c.IdleLookbackMinutes)
	assert.Equal(t, "prod", c.AppEnv)
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("ECS_CLUSTER", "dev-cluster")
	t.Setenv("ECS_SERVICE", "dev-api")
	// t.Setenv registers the restore; the key itself must be absent.
	t.Setenv("RDS_INSTANCE", "placeholder")
	os.Unsetenv("RDS_INSTANCE")

	_, err := Load()
	assert.Error(t, err, "missing resource identifiers are a configuration error")
}
