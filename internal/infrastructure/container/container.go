// Package container provides dependency injection using Uber FX
package container

import (
	"context"

	appnutrition "github.com/alchemorsel/nutrition/internal/application/nutrition"
	"github.com/alchemorsel/nutrition/internal/infrastructure/cache"
	"github.com/alchemorsel/nutrition/internal/infrastructure/config"
	"github.com/alchemorsel/nutrition/internal/infrastructure/estimator"
	"github.com/alchemorsel/nutrition/internal/infrastructure/providers"
	"github.com/alchemorsel/nutrition/internal/infrastructure/providers/apininjas"
	"github.com/alchemorsel/nutrition/internal/infrastructure/providers/spoonacular"
	"github.com/alchemorsel/nutrition/internal/infrastructure/providers/usda"
	"github.com/alchemorsel/nutrition/internal/infrastructure/units"
	"github.com/alchemorsel/nutrition/internal/ports/outbound"
	"github.com/alchemorsel/nutrition/pkg/logger"

	"go.opentelemetry.io/otel"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	CacheModule,
	ProviderModule,
	EngineModule,
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// CacheModule provides the nutrition cache: Redis when enabled, the
// in-process TTL cache otherwise.
var CacheModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (outbound.NutritionCache, error) {
		if !cfg.Redis.Enabled {
			log.Info("Redis disabled, using in-memory nutrition cache")
			return cache.NewMemoryNutritionCache(), nil
		}
		client, err := cache.NewRedisClient(cfg.Redis.ClientConfig(), log)
		if err != nil {
			// Cache unavailability must not block startup.
			log.Warn("Redis unavailable, falling back to in-memory nutrition cache", zap.Error(err))
			return cache.NewMemoryNutritionCache(), nil
		}
		return cache.NewRedisNutritionCache(client, log), nil
	},
)

// ProviderModule provides the external sources in cascade priority order
// plus the estimator.
var ProviderModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) []outbound.SourceProvider {
		toClientConfig := func(p config.ProviderConfig) providers.ClientConfig {
			return providers.ClientConfig{
				APIKey:            p.APIKey,
				BaseURL:           p.BaseURL,
				BaseConfidence:    p.BaseConfidence,
				Timeout:           cfg.Engine.RequestTimeout,
				RequestsPerSecond: p.RequestsPerSecond,
			}
		}
		return []outbound.SourceProvider{
			apininjas.NewClient(toClientConfig(cfg.Providers.APINinjas), log),
			spoonacular.NewClient(toClientConfig(cfg.Providers.Spoonacular), log),
			usda.NewClient(toClientConfig(cfg.Providers.USDA), log),
		}
	},
	func(cfg *config.Config, log *zap.Logger) outbound.Estimator {
		return estimator.New(estimator.Config{
			ModelPath:      cfg.Estimator.ModelPath,
			VocabularyPath: cfg.Estimator.VocabularyPath,
		}, log)
	},
)

// EngineModule provides the resolver and the engine service.
var EngineModule = fx.Provide(
	func(sources []outbound.SourceProvider, est outbound.Estimator, cfg *config.Config, log *zap.Logger) *appnutrition.Resolver {
		return appnutrition.NewResolver(sources, est, cfg.Engine.AcceptanceThreshold, log, otel.Tracer("nutrition-engine"))
	},
	units.NewConverter,
	func(resolver *appnutrition.Resolver, converter *units.Converter, nc outbound.NutritionCache, cfg *config.Config, log *zap.Logger) *appnutrition.Service {
		return appnutrition.NewService(resolver, converter, nc, appnutrition.Options{
			CacheTTL:      cfg.Engine.CacheTTL,
			MaxConcurrent: cfg.Engine.MaxConcurrent,
		}, log)
	},
)

// LifecycleModule flushes the logger on shutdown.
var LifecycleModule = fx.Options(
	fx.Invoke(func(lc fx.Lifecycle, log *zap.Logger) {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				_ = log.Sync()
				return nil
			},
		})
	}),
)
