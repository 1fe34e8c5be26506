package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"racego.com/raceapi/internal/config"
	"racego.com/raceapi/pkg/apperror"
)

var (
	DB   *gorm.DB
	once sync.Once
)

func Connect(cfg *config.Config) *gorm.DB {
	once.Do(func() {
		dsn := cfg.DatabaseURL
		if dsn == "" {
			dsn = fmt.Sprintf(
				"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
				cfg.DBHost, cfg.DBUser, cfg.DBPass, cfg.DBName, cfg.DBPort,
			)
		}

		gormCfg := &gorm.Config{}
		if cfg.AppEnv != "development" {
			gormCfg.Logger = logger.Default.LogMode(logger.Warn)
		}

		db, err := gorm.Open(postgres.Open(dsn), gormCfg)
		if err != nil {
			log.Fatalf("failed to connect database: %v", err)
		}

		DB = db
	})

	return DB
}

// Transaction runs fn inside a database transaction. Errors returned by fn are
// passed through after the rollback; failing to begin or commit is reported
// as apperror.ErrTransaction.
func Transaction(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	var fnErr error
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fnErr = fn(tx)
		return fnErr
	})
	if err != nil && fnErr == nil {
		return fmt.Errorf("%w: %v", apperror.ErrTransaction, err)
	}
	return err
}

// IsUniqueViolation reports whether err was caused by a unique constraint.
// Postgres (23505) and sqlite phrase it differently.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 23505") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
