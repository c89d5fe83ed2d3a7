package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinova/clinic-backend/internal/domain/entity"
	domainErrors "github.com/clinova/clinic-backend/internal/domain/errors"
	"github.com/clinova/clinic-backend/internal/domain/repository"
)

// TrustedDeviceRepositoryPostgres implements repository.TrustedDeviceRepository.
type TrustedDeviceRepositoryPostgres struct {
	pool *pgxpool.Pool
}

func NewTrustedDeviceRepositoryPostgres(pool *pgxpool.Pool) *TrustedDeviceRepositoryPostgres {
	return &TrustedDeviceRepositoryPostgres{pool: pool}
}

// Upsert inserts a trust row, or refreshes last_used_at when a non-revoked
// row for the pair already exists. A revoked row is never resurrected; the
// insert path creates a fresh row instead, keeping the audit trail.
func (r *TrustedDeviceRepositoryPostgres) Upsert(ctx context.Context, d *entity.TrustedDevice) error {
	query := `
		UPDATE trusted_devices
		SET last_used_at = NOW(), browser = $3, operating_system = $4, ip_address = $5
		WHERE account_id = $1 AND device_id = $2 AND revoked = FALSE
	`
	result, err := r.pool.Exec(ctx, query, d.AccountID, d.DeviceID, d.Browser, d.OperatingSystem, d.IPAddress)
	if err != nil {
		return fmt.Errorf("failed to refresh trusted device: %w", err)
	}
	if result.RowsAffected() > 0 {
		return nil
	}

	insert := `
		INSERT INTO trusted_devices (account_id, device_id, browser, operating_system, ip_address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, last_used_at
	`
	err = r.pool.QueryRow(ctx, insert,
		d.AccountID, d.DeviceID, d.Browser, d.OperatingSystem, d.IPAddress,
	).Scan(&d.ID, &d.CreatedAt, &d.LastUsedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation (account_id)
			return fmt.Errorf("account %d not found for trusted device: %w", d.AccountID, domainErrors.ErrAccountNotFound)
		}
		return fmt.Errorf("failed to insert trusted device: %w", err)
	}
	return nil
}

// ExistsActive reports whether a non-revoked row exists for the pair.
func (r *TrustedDeviceRepositoryPostgres) ExistsActive(ctx context.Context, accountID int64, deviceID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (
		SELECT 1 FROM trusted_devices
		WHERE account_id = $1 AND device_id = $2 AND revoked = FALSE
	)`
	if err := r.pool.QueryRow(ctx, query, accountID, deviceID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check device trust: %w", err)
	}
	return exists, nil
}

func (r *TrustedDeviceRepositoryPostgres) FindByAccountID(ctx context.Context, accountID int64) ([]*entity.TrustedDevice, error) {
	query := `
		SELECT id, account_id, device_id, browser, operating_system, ip_address, created_at, last_used_at, revoked
		FROM trusted_devices
		WHERE account_id = $1
		ORDER BY last_used_at DESC
	`
	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trusted devices: %w", err)
	}
	defer rows.Close()

	var devices []*entity.TrustedDevice
	for rows.Next() {
		d := &entity.TrustedDevice{}
		if err := rows.Scan(
			&d.ID, &d.AccountID, &d.DeviceID, &d.Browser, &d.OperatingSystem,
			&d.IPAddress, &d.CreatedAt, &d.LastUsedAt, &d.Revoked,
		); err != nil {
			return nil, fmt.Errorf("failed to scan trusted device: %w", err)
		}
		devices = append(devices, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trusted devices: %w", err)
	}
	return devices, nil
}

// Revoke flips the flag; the row is kept for audit.
func (r *TrustedDeviceRepositoryPostgres) Revoke(ctx context.Context, accountID int64, deviceID string) error {
	query := `UPDATE trusted_devices SET revoked = TRUE WHERE account_id = $1 AND device_id = $2 AND revoked = FALSE`
	result, err := r.pool.Exec(ctx, query, accountID, deviceID)
	if err != nil {
		return fmt.Errorf("failed to revoke trusted device: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *TrustedDeviceRepositoryPostgres) RevokeAllForAccount(ctx context.Context, accountID int64) (int64, error) {
	query := `UPDATE trusted_devices SET revoked = TRUE WHERE account_id = $1 AND revoked = FALSE`
	result, err := r.pool.Exec(ctx, query, accountID)
	if err != nil {
		return 0, fmt.Errorf("failed to revoke trusted devices: %w", err)
	}
	return result.RowsAffected(), nil
}

var _ repository.TrustedDeviceRepository = (*TrustedDeviceRepositoryPostgres)(nil)
