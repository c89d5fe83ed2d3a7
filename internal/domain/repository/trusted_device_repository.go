package repository

import (
	"context"

	"github.com/clinova/clinic-backend/internal/domain/entity"
)

// TrustedDeviceRepository is the device registry store.
type TrustedDeviceRepository interface {
	// Upsert inserts a trust row or refreshes last_used_at for an existing
	// non-revoked (account_id, device_id) pair.
	Upsert(ctx context.Context, device *entity.TrustedDevice) error
	// ExistsActive reports whether a non-revoked row exists for the pair.
	ExistsActive(ctx context.Context, accountID int64, deviceID string) (bool, error)
	FindByAccountID(ctx context.Context, accountID int64) ([]*entity.TrustedDevice, error)
	// Revoke flips the revoked flag; the row stays for audit.
	Revoke(ctx context.Context, accountID int64, deviceID string) error
	RevokeAllForAccount(ctx context.Context, accountID int64) (int64, error)
}
