package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinova/clinic-backend/internal/domain/entity"
	domainErrors "github.com/clinova/clinic-backend/internal/domain/errors"
	"github.com/clinova/clinic-backend/internal/domain/repository"
)

// OtpTokenRepositoryPostgres implements repository.OtpTokenRepository.
type OtpTokenRepositoryPostgres struct {
	pool *pgxpool.Pool
}

func NewOtpTokenRepositoryPostgres(pool *pgxpool.Pool) *OtpTokenRepositoryPostgres {
	return &OtpTokenRepositoryPostgres{pool: pool}
}

func (r *OtpTokenRepositoryPostgres) Create(ctx context.Context, t *entity.OtpToken) error {
	query := `
		INSERT INTO otp_tokens (account_id, purpose, code, issued_at, expires_at, consumed)
		VALUES ($1, $2, $3, $4, $5, FALSE)
		RETURNING id
	`
	err := r.pool.QueryRow(ctx, query,
		t.AccountID, t.Purpose, t.Code, t.IssuedAt, t.ExpiresAt,
	).Scan(&t.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation (account_id)
			return fmt.Errorf("account %d not found for OTP token: %w", t.AccountID, domainErrors.ErrAccountNotFound)
		}
		return fmt.Errorf("failed to create OTP token: %w", err)
	}
	return nil
}

// FindActive returns the latest live token for the pair, if any.
func (r *OtpTokenRepositoryPostgres) FindActive(ctx context.Context, accountID int64, purpose entity.OtpPurpose, now time.Time) (*entity.OtpToken, error) {
	query := `
		SELECT id, account_id, purpose, code, issued_at, expires_at, consumed
		FROM otp_tokens
		WHERE account_id = $1 AND purpose = $2 AND consumed = FALSE AND expires_at > $3
		ORDER BY issued_at DESC
		LIMIT 1
	`
	t := &entity.OtpToken{}
	err := r.pool.QueryRow(ctx, query, accountID, purpose, now).Scan(
		&t.ID, &t.AccountID, &t.Purpose, &t.Code, &t.IssuedAt, &t.ExpiresAt, &t.Consumed,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find active OTP token: %w", err)
	}
	return t, nil
}

func (r *OtpTokenRepositoryPostgres) ConsumeAllFor(ctx context.Context, accountID int64, purpose entity.OtpPurpose) (int64, error) {
	query := `UPDATE otp_tokens SET consumed = TRUE WHERE account_id = $1 AND purpose = $2 AND consumed = FALSE`
	result, err := r.pool.Exec(ctx, query, accountID, purpose)
	if err != nil {
		return 0, fmt.Errorf("failed to invalidate prior OTP tokens: %w", err)
	}
	return result.RowsAffected(), nil
}

// Consume marks one token consumed; only a live token qualifies.
func (r *OtpTokenRepositoryPostgres) Consume(ctx context.Context, id int64, now time.Time) error {
	query := `UPDATE otp_tokens SET consumed = TRUE WHERE id = $1 AND consumed = FALSE AND expires_at > $2`
	result, err := r.pool.Exec(ctx, query, id, now)
	if err != nil {
		return fmt.Errorf("failed to consume OTP token: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *OtpTokenRepositoryPostgres) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM otp_tokens WHERE expires_at < $1`
	result, err := r.pool.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired OTP tokens: %w", err)
	}
	return result.RowsAffected(), nil
}

var _ repository.OtpTokenRepository = (*OtpTokenRepositoryPostgres)(nil)
