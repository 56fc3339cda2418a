package api

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/Apurer/it-literature-shop/internal/platform/migrations"
	platformpostgres "github.com/Apurer/it-literature-shop/internal/platform/postgres"
	platformsqlite "github.com/Apurer/it-literature-shop/internal/platform/sqlite"
)

// OpenDatabase connects to PostgreSQL when configured, falling back to SQLite, and
// applies migrations. The returned cleanup closes the pool.
func OpenDatabase(ctx context.Context, cfg DatabaseConfig, logger *slog.Logger) (*gorm.DB, func(), error) {
	db, backend, err := connect(ctx, cfg, logger)
	if err != nil {
		return nil, func() {}, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, func() {}, fmt.Errorf("unwrap %s connection: %w", backend, err)
	}
	cleanup := func() { _ = sqlDB.Close() }
	if err := migrations.Run(db.WithContext(ctx)); err != nil {
		cleanup()
		return nil, func() {}, fmt.Errorf("migrate %s: %w", backend, err)
	}
	logger.Info("database ready", slog.String("backend", backend))
	return db, cleanup, nil
}

func connect(ctx context.Context, cfg DatabaseConfig, logger *slog.Logger) (*gorm.DB, string, error) {
	if dsn := strings.TrimSpace(cfg.PostgresDSN); dsn != "" {
		db, err := platformpostgres.Connect(ctx, dsn)
		if err == nil {
			return db, "postgres", nil
		}
		logger.Warn("failed to connect to postgres, falling back to sqlite", slog.String("error", err.Error()))
	} else {
		logger.Warn("POSTGRES_DSN not set, falling back to sqlite", slog.String("path", cfg.SQLitePath))
	}
	db, err := platformsqlite.Open(ctx, cfg.SQLitePath)
	if err != nil {
		return nil, "sqlite", fmt.Errorf("open sqlite: %w", err)
	}
	return db, "sqlite", nil
}

// pinger reports whether the pool can still reach the database.
func pinger(db *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
