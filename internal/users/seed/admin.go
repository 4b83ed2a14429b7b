// Package seed bootstraps the administrator account.
package seed

import (
	"context"
	"errors"

	userserrors "eventify/internal/users/errors"
	"eventify/internal/users/repository"
	"eventify/pkg/config"
	"eventify/pkg/model"
	"eventify/pkg/sanitizer"

	"golang.org/x/crypto/bcrypt"
)

type Result string

const (
	ResultCreated Result = "created"
	ResultExists  Result = "exists"
	ResultFailed  Result = "failed"
)

// EnsureAdmin creates the configured administrator unless a user with that
// email already exists. Failures are logged and reported through the result,
// never returned, so a broken seed does not keep the server from starting.
func EnsureAdmin(ctx context.Context, repo repository.UserRepository, cfg *config.Config) Result {
	email := sanitizer.NormalizeEmail(cfg.AdminEmail)

	existing, err := repo.FindByEmail(ctx, email)
	if err == nil {
		cfg.Log.Info("Admin user already exists", "email", email, "id", existing.ID)
		return ResultExists
	}
	if !errors.Is(err, userserrors.ErrNotFound) {
		cfg.Log.Error("Failed to look up admin user", "email", email, "error", err)
		return ResultFailed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), cfg.BcryptCost)
	if err != nil {
		cfg.Log.Error("Failed to hash admin password", "error", err)
		return ResultFailed
	}

	admin := &model.User{
		Name:         sanitizer.NormalizeName(cfg.AdminName),
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
	}
	if err := repo.Create(ctx, admin); err != nil {
		if errors.Is(err, userserrors.ErrDuplicateEmail) {
			cfg.Log.Info("Admin user created concurrently", "email", email)
			return ResultExists
		}
		cfg.Log.Error("Failed to create admin user", "email", email, "error", err)
		return ResultFailed
	}

	cfg.Log.Info("Admin user created", "email", email, "id", admin.ID)
	return ResultCreated
}
