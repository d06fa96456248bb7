// Package repository provides the data access layer using GORM.
//
// All shared-counter mutations (global count, per-user total clicks, coin
// balances) are expressed as single atomic UPDATE statements; nothing in this
// package reads a counter, computes, and writes it back.
package repository

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/clickempire/click-empire/internal/config"
	"github.com/clickempire/click-empire/internal/models"
	"github.com/clickempire/click-empire/pkg/logger"
)

// DB holds the database connection.
type DB struct {
	*gorm.DB
}

// NewDB creates a new PostgreSQL-backed database connection.
func NewDB(cfg *config.PostgresConfig, log *logger.Logger) (*DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Database,
		cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		// Unique violations surface as gorm.ErrDuplicatedKey so idempotent
		// inserts can treat them as no-ops.
		TranslateError: true,
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Database).
		Msg("Connected to PostgreSQL")

	return &DB{db}, nil
}

// AutoMigrate runs database migrations for all models.
func (db *DB) AutoMigrate() error {
	return db.DB.AutoMigrate(
		&models.UserProfile{},
		&models.GlobalCounter{},
		&models.ClickEvent{},
		&models.ClickStreak{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.CoinReward{},
		&models.Item{},
		&models.UserItem{},
		&models.Case{},
		&models.CaseItem{},
		&models.CaseOpening{},
		&models.CaseClaim{},
		&models.GlobalMilestone{},
		&models.ChatMessage{},
		&models.DailyChallenge{},
		&models.ChallengeCompletion{},
	)
}

// Close closes the database connection.
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Health checks if the database is healthy.
func (db *DB) Health() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
