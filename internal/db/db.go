package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Laizra/Call-tracker-app-R2024/internal/models"
)

// Open connects to Postgres. Debug turns on gorm's SQL logging.
func Open(dsn string, debug bool) (*gorm.DB, error) {
	level := logger.Warn
	if debug {
		level = logger.Info
	}
	gdb, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return gdb, nil
}

func Close(gdb *gorm.DB) {
	if gdb == nil {
		return
	}
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// HealthCheck pings the underlying pool within timeout.
func HealthCheck(gdb *gorm.DB, timeout time.Duration) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return fmt.Errorf("raw sql db: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// Migrate creates or updates calltracker_table.
func Migrate(gdb *gorm.DB, lg *log.Logger) error {
	if err := gdb.AutoMigrate(&models.CallRecord{}); err != nil {
		return fmt.Errorf("auto migrate %s: %w", models.CallRecord{}.TableName(), err)
	}
	if lg != nil {
		lg.Printf("Migrated table %s", models.CallRecord{}.TableName())
	}
	return nil
}
