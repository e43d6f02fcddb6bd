package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// Point at an empty directory so no config file is found and defaults
	// carry everything.
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "nutrition-engine", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, 0.7, cfg.Engine.AcceptanceThreshold)
	assert.Equal(t, 24*time.Hour, cfg.Engine.CacheTTL)
	assert.Equal(t, 10*time.Second, cfg.Engine.RequestTimeout)
	assert.Equal(t, 4, cfg.Engine.MaxConcurrent)
	assert.Equal(t, 0.85, cfg.Providers.APINinjas.BaseConfidence)
	assert.Equal(t, 0.8, cfg.Providers.Spoonacular.BaseConfidence)
	assert.Equal(t, 0.9, cfg.Providers.USDA.BaseConfidence)
	assert.Empty(t, cfg.Providers.USDA.APIKey)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := `
app:
  environment: production
engine:
  acceptance_threshold: 0.8
  max_concurrent: 8
providers:
  usda:
    api_key: secret
redis:
  enabled: true
  host: redis.internal
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 0.8, cfg.Engine.AcceptanceThreshold)
	assert.Equal(t, 8, cfg.Engine.MaxConcurrent)
	assert.Equal(t, "secret", cfg.Providers.USDA.APIKey)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis.internal", cfg.Redis.Host)
	assert.True(t, cfg.IsProduction())

	// Sections the file omits keep their defaults.
	assert.Equal(t, "nutrition-engine", cfg.App.Name)
	assert.Equal(t, 0.85, cfg.Providers.APINinjas.BaseConfidence)
}

func TestLoadRejectsInvalidThreshold(t *testing.T) {
	dir := t.TempDir()
	content := `
engine:
  acceptance_threshold: 1.5
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "acceptance_threshold")
}

func TestValidate(t *testing.T) {
	valid := Config{
		App:    AppConfig{Name: "nutrition-engine"},
		Engine: EngineConfig{AcceptanceThreshold: 0.7, MaxConcurrent: 4},
		Providers: ProvidersConfig{
			APINinjas:   ProviderConfig{BaseConfidence: 0.85},
			Spoonacular: ProviderConfig{BaseConfidence: 0.8},
			USDA:        ProviderConfig{BaseConfidence: 0.9},
		},
	}
	assert.NoError(t, valid.Validate())

	noName := valid
	noName.App.Name = ""
	assert.Error(t, noName.Validate())

	badConcurrency := valid
	badConcurrency.Engine.MaxConcurrent = 0
	assert.Error(t, badConcurrency.Validate())

	badConfidence := valid
	badConfidence.Providers.Spoonacular.BaseConfidence = 1.2
	assert.Error(t, badConfidence.Validate())
}

func TestRedisClientConfig(t *testing.T) {
	r := RedisConfig{
		Host:        "redis.internal",
		Port:        6380,
		Database:    2,
		PoolSize:    20,
		DialTimeout: 3 * time.Second,
	}
	cc := r.ClientConfig()
	assert.Equal(t, "redis.internal", cc.Host)
	assert.Equal(t, 6380, cc.Port)
	assert.Equal(t, 2, cc.Database)
	assert.Equal(t, 20, cc.PoolSize)
	assert.Equal(t, 3*time.Second, cc.DialTimeout)
}
