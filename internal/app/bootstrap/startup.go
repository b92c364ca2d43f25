// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	sessionstore "github.com/dalemusser/mealbridge/internal/app/store/sessions"
	userstore "github.com/dalemusser/mealbridge/internal/app/store/users"
	"github.com/dalemusser/mealbridge/internal/app/system/normalize"
	"github.com/dalemusser/mealbridge/internal/app/system/status"
	"github.com/dalemusser/mealbridge/internal/app/system/workers"
	"github.com/dalemusser/mealbridge/internal/domain/models"
)

// sessionCleanup is started in Startup and stopped in Shutdown.
var sessionCleanup *workers.SessionCleanup

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.AdminEmail != "" {
		if err := ensureAdmin(ctx, deps, appCfg.AdminEmail, appCfg.AdminPassword, logger); err != nil {
			return err
		}
	}

	sessionCleanup = workers.NewSessionCleanup(
		sessionstore.New(deps.MongoDatabase), logger,
		time.Minute, 24*time.Hour)
	sessionCleanup.Start()

	return nil
}

// ensureAdmin guarantees an ADMIN account exists for the given email.
// An existing account is promoted in place; a missing one is created
// with the configured initial password.
func ensureAdmin(ctx context.Context, deps DBDeps, email, password string, logger *zap.Logger) error {
	users := userstore.New(deps.MongoDatabase)
	email = normalize.Email(email)

	existing, err := users.GetByEmail(ctx, email)
	switch {
	case err == mongo.ErrNoDocuments:
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if hashErr != nil {
			return fmt.Errorf("hash admin password: %w", hashErr)
		}
		created, createErr := users.Create(ctx, models.User{
			FullName:     "Administrator",
			Email:        email,
			PasswordHash: string(hash),
			Role:         status.RoleAdmin,
		})
		if createErr != nil {
			return fmt.Errorf("create admin user: %w", createErr)
		}
		logger.Info("admin user created",
			zap.String("email", email),
			zap.String("user_id", created.ID.Hex()))
		return nil

	case err != nil:
		return fmt.Errorf("admin lookup: %w", err)
	}

	if existing.Role == status.RoleAdmin {
		logger.Info("admin user present", zap.String("email", email))
		return nil
	}

	_, err = deps.MongoDatabase.Collection("users").UpdateByID(ctx, existing.ID,
		map[string]any{"$set": map[string]any{"role": status.RoleAdmin}})
	if err != nil {
		return fmt.Errorf("promote admin user: %w", err)
	}
	logger.Info("existing user promoted to admin",
		zap.String("email", email),
		zap.String("previous_role", existing.Role))
	return nil
}
