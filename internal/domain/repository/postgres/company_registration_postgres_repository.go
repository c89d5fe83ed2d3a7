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

// CompanyRegistrationRepositoryPostgres implements
// repository.CompanyRegistrationRepository.
type CompanyRegistrationRepositoryPostgres struct {
	pool *pgxpool.Pool
}

func NewCompanyRegistrationRepositoryPostgres(pool *pgxpool.Pool) *CompanyRegistrationRepositoryPostgres {
	return &CompanyRegistrationRepositoryPostgres{pool: pool}
}

func (r *CompanyRegistrationRepositoryPostgres) Create(ctx context.Context, reg *entity.CompanyRegistration) error {
	query := `
		INSERT INTO company_registrations (account_id, email, organization, package_code, card_last4, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query,
		reg.AccountID, reg.Email, reg.Organization, reg.PackageCode, reg.CardLast4, reg.Status,
	).Scan(&reg.ID, &reg.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505": // unique_violation (pending email)
				return fmt.Errorf("company registration already pending: %w", domainErrors.ErrPendingRegistration)
			case "23503": // foreign_key_violation (account_id)
				return fmt.Errorf("account %d not found for company registration: %w", reg.AccountID, domainErrors.ErrAccountNotFound)
			}
		}
		return fmt.Errorf("failed to create company registration: %w", err)
	}
	return nil
}

func (r *CompanyRegistrationRepositoryPostgres) ExistsPendingByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (
		SELECT 1 FROM company_registrations WHERE lower(email) = lower($1) AND status = $2
	)`
	if err := r.pool.QueryRow(ctx, query, email, entity.CompanyRegistrationPending).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check pending company registration: %w", err)
	}
	return exists, nil
}

func (r *CompanyRegistrationRepositoryPostgres) FindByAccountID(ctx context.Context, accountID int64) (*entity.CompanyRegistration, error) {
	query := `
		SELECT id, account_id, email, organization, package_code, card_last4, status, created_at
		FROM company_registrations
		WHERE account_id = $1
	`
	reg := &entity.CompanyRegistration{}
	err := r.pool.QueryRow(ctx, query, accountID).Scan(
		&reg.ID, &reg.AccountID, &reg.Email, &reg.Organization, &reg.PackageCode,
		&reg.CardLast4, &reg.Status, &reg.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find company registration: %w", err)
	}
	return reg, nil
}

var _ repository.CompanyRegistrationRepository = (*CompanyRegistrationRepositoryPostgres)(nil)
