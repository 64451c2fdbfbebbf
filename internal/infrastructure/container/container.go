// Package container provides dependency injection using Uber FX
// This implements the Dependency Inversion Principle from SOLID
package container

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/myones/formulary/internal/application/consultation"
	"github.com/myones/formulary/internal/domain/catalog"
	"github.com/myones/formulary/internal/infrastructure/ai/openai"
	"github.com/myones/formulary/internal/infrastructure/config"
	"github.com/myones/formulary/internal/infrastructure/http/server"
	"github.com/myones/formulary/internal/infrastructure/monitoring"
	gormRepo "github.com/myones/formulary/internal/infrastructure/persistence/gorm"
	"github.com/myones/formulary/internal/infrastructure/persistence/sqlite"
	"github.com/myones/formulary/internal/ports/inbound"
	"github.com/myones/formulary/internal/ports/outbound"
	"github.com/myones/formulary/pkg/logger"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DatabaseModule,
	CatalogModule,
	MonitoringModule,
	RepositoryModule,
	ServiceModule,
	HTTPModule,
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

// DatabaseModule provides database connections
var DatabaseModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
		logLevel := gormLogger.Warn
		if cfg.App.Debug {
			logLevel = gormLogger.Info
		}

		db, err := sqlite.SetupDatabase(cfg.Database.Path, logLevel)
		if err != nil {
			return nil, fmt.Errorf("failed to setup SQLite database: %w", err)
		}

		log.Info("Connected to SQLite database",
			zap.String("path", cfg.Database.Path),
			zap.Bool("in_memory", cfg.Database.Path == ":memory:"),
		)

		return db, nil
	},
)

// CatalogModule provides the approved ingredient catalog. Construction
// fails fast on any internal inconsistency, which aborts startup.
var CatalogModule = fx.Provide(
	catalog.NewCatalog,
)

// MonitoringModule provides the metrics registry and pipeline metrics
var MonitoringModule = fx.Provide(
	prometheus.NewRegistry,
	func(reg *prometheus.Registry) *monitoring.PipelineMetrics {
		return monitoring.NewPipelineMetrics(reg)
	},
)

// RepositoryModule provides repository implementations
var RepositoryModule = fx.Provide(
	fx.Annotate(
		gormRepo.NewFormulaRepository,
		fx.As(new(outbound.FormulaRepository)),
	),
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	// AI service
	func(cfg *config.Config, log *zap.Logger) outbound.AIService {
		return openai.NewClient(cfg.AI, log)
	},

	// Extraction pipeline, exposed through both inbound ports
	fx.Annotate(
		consultation.NewPipeline,
		fx.As(new(inbound.ConsultationService)),
		fx.As(new(inbound.FormulaValidator)),
	),
)

// HTTPModule provides HTTP server and handlers
var HTTPModule = fx.Provide(
	server.NewServer,
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
	db *gorm.DB,
	server *server.Server,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting Formulary application",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)

			go func() {
				if err := server.Start(); err != nil && err != http.ErrServerClosed {
					log.Fatal("Failed to start HTTP server", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down Formulary application")

			if err := server.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}

			sqlDB, err := db.DB()
			if err == nil {
				if err := sqlDB.Close(); err != nil {
					log.Error("Failed to close database connection", zap.Error(err))
				}
			}

			_ = log.Sync()

			return nil
		},
	})
}
