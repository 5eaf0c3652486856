package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/Laizra/Call-tracker-app-R2024/internal/config"
	"github.com/Laizra/Call-tracker-app-R2024/internal/db"
	"github.com/Laizra/Call-tracker-app-R2024/internal/repos"
	"github.com/Laizra/Call-tracker-app-R2024/internal/services"
)

// backend is the store selected by DATA_SOURCE plus its lifecycle hooks.
type backend struct {
	store  services.CountingCallRecordStore
	health func(ctx context.Context) error
	close  func()
}

func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	logger := cfg.Logger

	if cfg.DataSource == config.DataSourceCSV {
		rows, err := repos.LoadCallRecordsCSV(cfg.SeedCSV, logger)
		if errors.Is(err, fs.ErrNotExist) {
			logger.Printf("⚠️  %s not found; starting with an empty grid", cfg.SeedCSV)
		} else if err != nil {
			return nil, err
		}
		logger.Println("🗂  CSV mode: saves are held in memory only")
		return &backend{
			store: repos.NewMemoryCallRecordsRepo(rows, logger),
			close: func() {},
		}, nil
	}

	dsn, err := cfg.ActiveDatabaseURL()
	if err != nil {
		return nil, fmt.Errorf("database URL resolution failed: %w", err)
	}

	gdb, err := db.Open(dsn, cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("DB connection failed: %w", err)
	}
	if err := db.HealthCheck(gdb, 3*time.Second); err != nil {
		db.Close(gdb)
		return nil, fmt.Errorf("DB health check failed: %w", err)
	}
	logger.Println("✅ Database connection healthy.")

	if cfg.AutoMigrate {
		logger.Println("Running migrations...")
		if err := db.Migrate(gdb, logger); err != nil {
			db.Close(gdb)
			return nil, fmt.Errorf("database migration failed: %w", err)
		}
	}

	repo := repos.NewCallRecordsRepo(gdb, logger)
	if err := services.BootstrapFromCSVIfNeeded(ctx, repo, cfg.SeedCSV, logger); err != nil {
		db.Close(gdb)
		return nil, fmt.Errorf("CSV bootstrap failed: %w", err)
	}

	return &backend{
		store:  repo,
		health: func(context.Context) error { return db.HealthCheck(gdb, 3*time.Second) },
		close:  func() { db.Close(gdb) },
	}, nil
}
