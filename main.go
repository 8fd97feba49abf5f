package main

import (
	"context"
	"database/sql"
	"log"
	"net"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql (migrations)
	"go.uber.org/zap"

	"github.com/vitalpark/fleet-engine/pkg/config"
	"github.com/vitalpark/fleet-engine/pkg/database"
	"github.com/vitalpark/fleet-engine/pkg/engine"
	"github.com/vitalpark/fleet-engine/pkg/handlers"
	"github.com/vitalpark/fleet-engine/pkg/logging"
	"github.com/vitalpark/fleet-engine/pkg/middleware"
	"github.com/vitalpark/fleet-engine/pkg/repositories"
	"github.com/vitalpark/fleet-engine/pkg/retry"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("legacy_orders", cfg.Sources.LegacyOrdersPath),
		zap.String("recent_orders", cfg.Sources.RecentOrdersPath),
		zap.String("criticality", cfg.Sources.CriticalityPath),
		zap.String("inventory", cfg.Sources.InventoryPath),
		zap.Bool("database_enabled", cfg.Database.Enabled),
	)

	var assetRepo repositories.ConsolidatedAssetRepository
	if cfg.Database.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		migrationDB, err := sql.Open("pgx", cfg.Database.URL())
		if err != nil {
			logger.Fatal("Failed to open migration connection",
				zap.String("error", logging.SanitizeError(err)))
		}
		// The database may still be starting when the service comes up.
		err = retry.Do(ctx, retry.DefaultConfig(), func() error {
			return database.RunMigrations(migrationDB, "migrations", logger)
		})
		if err != nil {
			logger.Fatal("Failed to run migrations",
				zap.String("error", logging.SanitizeError(err)))
		}
		_ = migrationDB.Close()

		var db *database.DB
		err = retry.Do(ctx, retry.DefaultConfig(), func() error {
			db, err = database.NewConnection(ctx, &database.Config{
				URL:            cfg.Database.URL(),
				MaxConnections: cfg.Database.MaxConnections,
			})
			return err
		})
		if err != nil {
			logger.Fatal("Failed to connect to database",
				zap.String("error", logging.SanitizeError(err)))
		}
		defer db.Close()

		assetRepo = repositories.NewConsolidatedAssetRepository(db)
		logger.Info("Persistence enabled",
			zap.String("url", logging.SanitizeConnectionString(cfg.Database.URL())))
	}

	pipeline := engine.NewPipeline(cfg, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewConsolidationHandler(cfg, pipeline, assetRepo, logger).RegisterRoutes(mux)

	handler := middleware.RequestLogger(logger)(mux)

	addr := net.JoinHostPort(cfg.BindAddr, cfg.Port)
	logger.Info("Starting fleet-engine", zap.String("addr", addr), zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" || env == "dev" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
