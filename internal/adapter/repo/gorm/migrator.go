package gormrepo

import (
	"context"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"dragonden/internal/adapter/repo/gorm/migrations"
)

// ApplyMigrations runs every pending embedded migration against db.
func ApplyMigrations(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	goose.SetBaseFS(migrations.FS)
	if log != nil {
		goose.SetLogger(zap.NewStdLog(log.Named("goose")))
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
