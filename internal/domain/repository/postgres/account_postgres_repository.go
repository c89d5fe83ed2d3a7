package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinova/clinic-backend/internal/domain/entity"
	domainErrors "github.com/clinova/clinic-backend/internal/domain/errors"
	"github.com/clinova/clinic-backend/internal/domain/repository"
)

const accountColumns = `id, username, display_name, email, password_hash, email_confirmed,
	mfa_enabled, mfa_secret, roles, doctor_id, status, created_at, updated_at, deleted_at`

// AccountRepositoryPostgres implements repository.AccountRepository on pgx.
type AccountRepositoryPostgres struct {
	pool *pgxpool.Pool
}

func NewAccountRepositoryPostgres(pool *pgxpool.Pool) *AccountRepositoryPostgres {
	return &AccountRepositoryPostgres{pool: pool}
}

// Create persists a new account and fills in its generated ID.
func (r *AccountRepositoryPostgres) Create(ctx context.Context, a *entity.Account) error {
	query := `
		INSERT INTO accounts (username, display_name, email, password_hash, email_confirmed,
			mfa_enabled, roles, doctor_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		a.Username, a.DisplayName, a.Email, a.PasswordHash, a.EmailConfirmed,
		a.MfaEnabled, a.Roles, a.DoctorID, a.Status,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation on email or username
			return fmt.Errorf("account already exists: %w", domainErrors.ErrDuplicateSubmission)
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *AccountRepositoryPostgres) FindByID(ctx context.Context, id int64) (*entity.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 AND deleted_at IS NULL`
	return r.scanOne(ctx, query, id)
}

// FindByUsernameOrEmail tries both identity fields with one query.
func (r *AccountRepositoryPostgres) FindByUsernameOrEmail(ctx context.Context, usernameOrEmail string) (*entity.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts
		WHERE (lower(username) = lower($1) OR lower(email) = lower($1)) AND deleted_at IS NULL`
	return r.scanOne(ctx, query, usernameOrEmail)
}

func (r *AccountRepositoryPostgres) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM accounts WHERE lower(email) = lower($1) AND deleted_at IS NULL)`
	if err := r.pool.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

// UpdatePasswordHash replaces the stored hash wholesale.
func (r *AccountRepositoryPostgres) UpdatePasswordHash(ctx context.Context, id int64, passwordHash string) error {
	query := `UPDATE accounts SET password_hash = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL`
	return r.execExpectingRow(ctx, query, passwordHash, id)
}

func (r *AccountRepositoryPostgres) SetEmailConfirmed(ctx context.Context, id int64) error {
	query := `UPDATE accounts SET email_confirmed = TRUE, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	return r.execExpectingRow(ctx, query, id)
}

// SetMfaSecret stores a pending secret; mfa_enabled is intentionally left
// untouched until enrollment is confirmed.
func (r *AccountRepositoryPostgres) SetMfaSecret(ctx context.Context, id int64, secret string) error {
	query := `UPDATE accounts SET mfa_secret = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL`
	return r.execExpectingRow(ctx, query, secret, id)
}

func (r *AccountRepositoryPostgres) SetMfaEnabled(ctx context.Context, id int64, enabled bool) error {
	query := `UPDATE accounts SET mfa_enabled = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL`
	return r.execExpectingRow(ctx, query, enabled, id)
}

// Delete soft-deletes the account and revokes its trusted devices, so a
// deactivated login cannot keep an MFA bypass alive.
func (r *AccountRepositoryPostgres) Delete(ctx context.Context, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin delete transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx,
		`UPDATE accounts SET deleted_at = NOW(), status = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL`,
		entity.AccountStatusDeactivated, id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domainErrors.ErrAccountNotFound
	}

	if _, err := tx.Exec(ctx,
		`UPDATE trusted_devices SET revoked = TRUE WHERE account_id = $1 AND revoked = FALSE`, id,
	); err != nil {
		return fmt.Errorf("failed to revoke devices for deleted account: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *AccountRepositoryPostgres) scanOne(ctx context.Context, query string, args ...any) (*entity.Account, error) {
	a := &entity.Account{}
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&a.ID, &a.Username, &a.DisplayName, &a.Email, &a.PasswordHash, &a.EmailConfirmed,
		&a.MfaEnabled, &a.MfaSecret, &a.Roles, &a.DoctorID, &a.Status, &a.CreatedAt, &a.UpdatedAt, &a.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return a, nil
}

func (r *AccountRepositoryPostgres) execExpectingRow(ctx context.Context, query string, args ...any) error {
	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domainErrors.ErrAccountNotFound
	}
	return nil
}

var _ repository.AccountRepository = (*AccountRepositoryPostgres)(nil)
