package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"internhub/internal/config"
	"internhub/internal/database"
	"internhub/internal/models"
	"internhub/internal/repositories"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var gormOpen = database.Open

var dbConnectTimeout = 30 * time.Second

// connectWithRetry keeps trying until the database answers a ping or timeout
// elapses; in containers postgres usually comes up after the service.
func connectWithRetry(driver, dsn string, timeout time.Duration, log *zap.Logger) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	backoff := 100 * time.Millisecond
	var lastErr error

	for attempt := 1; ; attempt++ {
		db, err := gormOpen(driver, dsn)
		if err == nil {
			sqlDB, dbErr := db.DB()
			if dbErr == nil {
				if dbErr = sqlDB.Ping(); dbErr == nil {
					log.Info("database connected", zap.String("driver", driver), zap.Int("attempt", attempt))
					return db, nil
				}
				sqlDB.Close()
			}
			err = dbErr
		}
		lastErr = err

		if time.Now().Add(backoff).After(deadline) {
			break
		}
		log.Warn("database not ready, retrying", zap.Int("attempt", attempt), zap.Duration("backoff", backoff), zap.Error(err))
		time.Sleep(backoff)
		if backoff < 2*time.Second {
			backoff *= 2
		}
	}
	return nil, fmt.Errorf("could not connect to database within %s: %w", timeout, lastErr)
}

// bootstrapAdmin creates the configured superuser once. An existing account
// with the same username is left untouched.
func bootstrapAdmin(ctx context.Context, users *repositories.UserRepository, cfg *config.Config, log *zap.Logger) error {
	if cfg.AdminEmail == "" {
		return nil
	}
	_, err := users.GetUserByUsername(ctx, cfg.AdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	admin := &models.User{
		Username:     cfg.AdminUsername,
		Email:        cfg.AdminEmail,
		PasswordHash: string(hash),
		IsStaff:      true,
		IsSuperuser:  true,
	}
	if err := users.CreateUser(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	log.Info("admin user created", zap.String("username", admin.Username))
	return nil
}
