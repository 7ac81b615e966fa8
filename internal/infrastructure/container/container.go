// Package container provides dependency injection using Uber FX
// This implements the Dependency Inversion Principle from SOLID
package container

import (
	"context"
	"time"

	"github.com/richisen/smart-grocery-planner/internal/application/planner"
	"github.com/richisen/smart-grocery-planner/internal/application/shopping"
	"github.com/richisen/smart-grocery-planner/internal/infrastructure/ai/gemini"
	"github.com/richisen/smart-grocery-planner/internal/infrastructure/config"
	"github.com/richisen/smart-grocery-planner/internal/infrastructure/grocery/kroger"
	"github.com/richisen/smart-grocery-planner/internal/infrastructure/http/apiserver"
	"github.com/richisen/smart-grocery-planner/internal/infrastructure/monitoring"
	"github.com/richisen/smart-grocery-planner/internal/ports/inbound"
	"github.com/richisen/smart-grocery-planner/internal/ports/outbound"
	"github.com/richisen/smart-grocery-planner/pkg/healthcheck"
	"github.com/richisen/smart-grocery-planner/pkg/logger"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	// Infrastructure modules
	ConfigModule,
	LoggerModule,
	MonitoringModule,

	// Upstream client modules
	GroceryModule,
	AIModule,

	// Service modules
	ServiceModule,

	// HTTP modules
	HTTPModule,

	// Lifecycle hooks
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
	// Provide sugared logger
	func(log *zap.Logger) *zap.SugaredLogger {
		return log.Sugar()
	},
)

// MonitoringModule provides Prometheus metrics and health reporting
var MonitoringModule = fx.Provide(
	monitoring.NewMetrics,
	func(cfg *config.Config, tokens *kroger.TokenSource) *healthcheck.HealthCheck {
		health := healthcheck.New(cfg.App.Name, cfg.App.Version)
		health.Register("kroger_api", healthcheck.NewUpstreamChecker(cfg.Kroger.BaseURL+"/products", 5*time.Second))
		health.Register("kroger_token", healthcheck.NewCustomChecker(func(ctx context.Context) (healthcheck.Status, string, interface{}) {
			if tokens.HasValidToken() {
				return healthcheck.StatusHealthy, "", nil
			}
			// Exchange is lazy, so a missing credential before the first
			// search is expected
			return healthcheck.StatusDegraded, "no cached credential", nil
		}))
		return health
	},
)

// GroceryModule provides the product search client and its token source
var GroceryModule = fx.Provide(
	func(cfg *config.Config, metrics *monitoring.Metrics, log *zap.Logger) *kroger.TokenSource {
		return kroger.NewTokenSource(cfg.Kroger, metrics, log)
	},
	fx.Annotate(
		func(cfg *config.Config, tokens *kroger.TokenSource, metrics *monitoring.Metrics, log *zap.Logger) *kroger.Client {
			return kroger.NewClient(cfg.Kroger, tokens, metrics, log)
		},
		fx.As(new(outbound.ProductSearcher)),
	),
)

// AIModule provides the generative-text client
var AIModule = fx.Provide(
	fx.Annotate(
		func(lc fx.Lifecycle, cfg *config.Config, metrics *monitoring.Metrics, log *zap.Logger) (*gemini.Client, error) {
			client, err := gemini.NewClient(context.Background(), cfg.Gemini, metrics, log)
			if err != nil {
				return nil, err
			}

			lc.Append(fx.Hook{
				OnStop: func(ctx context.Context) error {
					return client.Close()
				},
			})

			return client, nil
		},
		fx.As(new(outbound.PlanGenerator)),
	),
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	// Meal planner service
	fx.Annotate(
		planner.NewService,
		fx.As(new(inbound.PlannerService)),
	),

	// Shopping list service
	fx.Annotate(
		shopping.NewService,
		fx.As(new(inbound.ShoppingListService)),
	),
)

// HTTPModule provides the HTTP server
var HTTPModule = fx.Provide(
	apiserver.NewServer,
)

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	server *apiserver.Server,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting grocery planner application",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)

			// Start HTTP server
			go func() {
				if err := server.Start(); err != nil {
					log.Fatal("Failed to start HTTP server", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down grocery planner application")

			if err := server.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}

			// Flush logs
			_ = log.Sync()

			return nil
		},
	})
}
