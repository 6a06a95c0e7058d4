package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"reviewhub/internal/config"
	"reviewhub/internal/microservices/http-api/models"
)

// Connect opens the postgres pool, applies the pool limits and verifies the connection.
func Connect(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*gorm.DB, error) {
	gormLog := log.With().Str("component", "gorm").Logger()
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: gormlogger.New(&gormLog, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		// constraint errors are classified from the driver error
		TranslateError: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		// close the pool if ping fails to avoid a leak
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info().
		Int("max_open_conns", cfg.DB.MaxOpenConns).
		Int("max_idle_conns", cfg.DB.MaxIdleConns).
		Msg("connected to the database")
	return db, nil
}

// Migrate creates or updates the schema and seeds the static role table.
func Migrate(ctx context.Context, db *gorm.DB, log zerolog.Logger) error {
	tx := db.WithContext(ctx)
	// order matters: referenced tables first
	if err := tx.AutoMigrate(&models.UserRole{}, &models.User{}, &models.Genre{}, &models.Item{}, &models.Review{}); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	roles := []models.UserRole{
		{ID: models.RoleUserID, Name: models.RoleUser},
		{ID: models.RoleAdminID, Name: models.RoleAdmin},
	}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&roles).Error; err != nil {
		return fmt.Errorf("failed to seed roles: %w", err)
	}

	log.Info().Msg("database migrations applied successfully")
	return nil
}

// SQL returns the underlying pool, used for readiness checks and shutdown.
func SQL(db *gorm.DB) (*sql.DB, error) {
	return db.DB()
}
