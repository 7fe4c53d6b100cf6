package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/yboost/yboost/internal/broadcast"
	"github.com/yboost/yboost/internal/config"
	"github.com/yboost/yboost/internal/server"
	"github.com/yboost/yboost/internal/version"
	"github.com/yboost/yboost/pkg/catalog"
	"github.com/yboost/yboost/pkg/database"
	"github.com/yboost/yboost/pkg/database/migration"
	"github.com/yboost/yboost/pkg/database/repository"
	"github.com/yboost/yboost/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application initialization failed: %v", err)
	}
}

func run() error {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
		// Continue execution as .env file might not exist in production
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	loggerFactory := logging.NewLoggerFactory(cfg.LogLevel)
	logger := loggerFactory.CreateLogger("main")
	logger.Info("starting", map[string]interface{}{"version": version.Get().String()})

	db, err := database.NewGormDB(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying database: %w", err)
	}
	defer sqlDB.Close()

	if err := migration.RunMigration(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		// The server still comes up; packs stay empty until the catalog
		// file appears and a reload succeeds.
		logger.Error("catalog load failed, starting with an empty catalog", err, map[string]interface{}{
			"path": cfg.CatalogPath,
		})
		cat = catalog.New(nil)
	} else {
		logger.Info("catalog loaded", map[string]interface{}{
			"path":       cfg.CatalogPath,
			"skins":      cat.Len(),
			"characters": len(cat.Characters()),
		})
	}

	hub := broadcast.NewHub()
	srv := server.New(server.Options{
		LoggerFactory: loggerFactory,
		Users:         repository.NewUserRepository(db),
		Collection:    repository.NewCollectionRepository(db),
		Hub:           hub,
		SessionSecret: cfg.SessionSecret,
		Boosters:      cfg.Boosters,
		Catalog:       cat,
		CatalogPath:   cfg.CatalogPath,
		PingDB:        func() error { return database.Ping(db) },
	})

	// Periodic catalog reload so data edits show up without a restart.
	var scheduler *cron.Cron
	if cfg.CatalogReloadSpec != "" {
		scheduler = cron.New()
		if _, err := scheduler.AddFunc(cfg.CatalogReloadSpec, func() { _ = srv.ReloadCatalog() }); err != nil {
			return fmt.Errorf("invalid CATALOG_RELOAD_CRON %q: %w", cfg.CatalogReloadSpec, err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: srv.Router(),
	}

	go func() {
		logger.Info("server listening", map[string]interface{}{"port": cfg.Port})
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", err, nil)
		}
	}()

	// Wait here until CTRL-C or other term signal is received.
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	logger.Info("shutting down gracefully", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", err, nil)
	}
	logger.Info("shutdown complete", nil)
	return nil
}
