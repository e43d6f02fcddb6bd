// Package config provides centralized configuration management
// using Viper for configuration loading and validation
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/alchemorsel/nutrition/internal/infrastructure/cache"
	"github.com/spf13/viper"
)

// Config holds all engine configuration
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Engine    EngineConfig    `mapstructure:"engine"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Estimator EstimatorConfig `mapstructure:"estimator"`
	Redis     RedisConfig     `mapstructure:"redis"`
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
}

// EngineConfig contains the cascade and aggregation knobs
type EngineConfig struct {
	AcceptanceThreshold float64       `mapstructure:"acceptance_threshold"`
	CacheTTL            time.Duration `mapstructure:"cache_ttl"`
	RequestTimeout      time.Duration `mapstructure:"request_timeout"`
	MaxConcurrent       int           `mapstructure:"max_concurrent"`
}

// ProviderConfig configures one external nutrition source. An empty api_key
// disables the provider; the cascade skips it.
type ProviderConfig struct {
	APIKey            string  `mapstructure:"api_key"`
	BaseURL           string  `mapstructure:"base_url"`
	BaseConfidence    float64 `mapstructure:"base_confidence"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
}

// ProvidersConfig groups the three external sources in cascade order.
type ProvidersConfig struct {
	APINinjas   ProviderConfig `mapstructure:"api_ninjas"`
	Spoonacular ProviderConfig `mapstructure:"spoonacular"`
	USDA        ProviderConfig `mapstructure:"usda"`
}

// EstimatorConfig locates the optional model artifacts.
type EstimatorConfig struct {
	ModelPath      string `mapstructure:"model_path"`
	VocabularyPath string `mapstructure:"vocabulary_path"`
}

// RedisConfig contains Redis configuration. Enabled false keeps the engine
// on the in-process cache.
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	Database     int           `mapstructure:"database"`
	MaxRetries   int           `mapstructure:"max_retries"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// ClientConfig converts the Redis section to the cache package's config.
func (r RedisConfig) ClientConfig() cache.RedisConfig {
	return cache.RedisConfig{
		Host:         r.Host,
		Port:         r.Port,
		Password:     r.Password,
		Database:     r.Database,
		MaxRetries:   r.MaxRetries,
		PoolSize:     r.PoolSize,
		DialTimeout:  r.DialTimeout,
		ReadTimeout:  r.ReadTimeout,
		WriteTimeout: r.WriteTimeout,
	}
}

// Load loads configuration from file and environment
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("NUTRITION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// A missing config file is fine; env and defaults carry the load.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "nutrition-engine")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "json")

	// Engine defaults
	v.SetDefault("engine.acceptance_threshold", 0.7)
	v.SetDefault("engine.cache_ttl", "24h")
	v.SetDefault("engine.request_timeout", "10s")
	v.SetDefault("engine.max_concurrent", 4)

	// Provider defaults
	v.SetDefault("providers.api_ninjas.base_url", "https://api.api-ninjas.com/v1/nutrition")
	v.SetDefault("providers.api_ninjas.base_confidence", 0.85)
	v.SetDefault("providers.spoonacular.base_url", "https://api.spoonacular.com/food")
	v.SetDefault("providers.spoonacular.base_confidence", 0.8)
	v.SetDefault("providers.usda.base_url", "https://api.nal.usda.gov/fdc/v1")
	v.SetDefault("providers.usda.base_confidence", 0.9)

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.pool_size", 10)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}
	if c.Engine.AcceptanceThreshold < 0 || c.Engine.AcceptanceThreshold > 1 {
		return fmt.Errorf("engine.acceptance_threshold must be between 0 and 1")
	}
	if c.Engine.MaxConcurrent < 1 {
		return fmt.Errorf("engine.max_concurrent must be at least 1")
	}
	for name, p := range map[string]ProviderConfig{
		"api_ninjas":  c.Providers.APINinjas,
		"spoonacular": c.Providers.Spoonacular,
		"usda":        c.Providers.USDA,
	} {
		if p.BaseConfidence < 0 || p.BaseConfidence > 1 {
			return fmt.Errorf("providers.%s.base_confidence must be between 0 and 1", name)
		}
	}
	return nil
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
