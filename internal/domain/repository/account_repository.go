package repository

import (
	"context"

	"github.com/clinova/clinic-backend/internal/domain/entity"
)

// AccountRepository is the credential store for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *entity.Account) error
	FindByID(ctx context.Context, id int64) (*entity.Account, error)
	// FindByUsernameOrEmail tries both fields with a single query.
	FindByUsernameOrEmail(ctx context.Context, usernameOrEmail string) (*entity.Account, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdatePasswordHash(ctx context.Context, id int64, passwordHash string) error
	SetEmailConfirmed(ctx context.Context, id int64) error
	// SetMfaSecret stores a pending secret without touching mfa_enabled.
	SetMfaSecret(ctx context.Context, id int64, secret string) error
	SetMfaEnabled(ctx context.Context, id int64, enabled bool) error
	Delete(ctx context.Context, id int64) error
}
