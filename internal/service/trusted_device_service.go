package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/clinova/clinic-backend/internal/domain/entity"
	domainErrors "github.com/clinova/clinic-backend/internal/domain/errors"
	"github.com/clinova/clinic-backend/internal/domain/repository"
	"github.com/clinova/clinic-backend/internal/utils/ip"
)

// TrustedDeviceService records and queries device-trust facts. A device is
// trusted for an account iff a non-revoked row exists for the pair; trust is
// only ever granted as a side effect of a successful MFA verification at
// login time.
type TrustedDeviceService struct {
	devices repository.TrustedDeviceRepository
	logger  *zap.Logger
}

func NewTrustedDeviceService(devices repository.TrustedDeviceRepository, logger *zap.Logger) *TrustedDeviceService {
	return &TrustedDeviceService{
		devices: devices,
		logger:  logger.Named("trusted_device_service"),
	}
}

// IsTrusted reports whether the device may skip the MFA challenge. A missing
// deviceID means "not trusted", never an error.
func (s *TrustedDeviceService) IsTrusted(ctx context.Context, accountID int64, deviceID string) (bool, error) {
	if deviceID == "" {
		return false, nil
	}
	trusted, err := s.devices.ExistsActive(ctx, accountID, deviceID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", domainErrors.ErrDependencyFailure, err)
	}
	return trusted, nil
}

// RegisterTrust records the device so future logins skip MFA. Re-registering
// an already-trusted device refreshes its last-used timestamp.
func (s *TrustedDeviceService) RegisterTrust(ctx context.Context, accountID int64, deviceID, browser, operatingSystem, ipAddress string) error {
	if deviceID == "" {
		return fmt.Errorf("%w: device ID is required to register trust", domainErrors.ErrInvalidRequest)
	}
	if ipAddress == "" {
		ipAddress = ip.UnknownAddress
	}

	device := &entity.TrustedDevice{
		AccountID:       accountID,
		DeviceID:        deviceID,
		Browser:         browser,
		OperatingSystem: operatingSystem,
		IPAddress:       ipAddress,
	}
	if err := s.devices.Upsert(ctx, device); err != nil {
		return fmt.Errorf("%w: %v", domainErrors.ErrDependencyFailure, err)
	}

	s.logger.Info("device trust registered",
		zap.Int64("account_id", accountID),
		zap.String("device_id", deviceID),
	)
	return nil
}

// ListForAccount returns every device row for the account, revoked ones
// included, newest activity first.
func (s *TrustedDeviceService) ListForAccount(ctx context.Context, accountID int64) ([]*entity.TrustedDevice, error) {
	devices, err := s.devices.FindByAccountID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrDependencyFailure, err)
	}
	return devices, nil
}

// RevokeAll withdraws trust from every device on the account at once, so the
// next login from each of them goes back through the OTP challenge. Returns
// how many devices were revoked.
func (s *TrustedDeviceService) RevokeAll(ctx context.Context, accountID int64) (int64, error) {
	revoked, err := s.devices.RevokeAllForAccount(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domainErrors.ErrDependencyFailure, err)
	}
	if revoked > 0 {
		s.logger.Info("all device trust revoked",
			zap.Int64("account_id", accountID),
			zap.Int64("revoked", revoked),
		)
	}
	return revoked, nil
}

// Revoke withdraws trust from a single device. The row stays as audit trail.
func (s *TrustedDeviceService) Revoke(ctx context.Context, accountID int64, deviceID string) error {
	if deviceID == "" {
		return fmt.Errorf("%w: device ID is required", domainErrors.ErrInvalidRequest)
	}
	if err := s.devices.Revoke(ctx, accountID, deviceID); err != nil {
		return err
	}
	s.logger.Info("device trust revoked",
		zap.Int64("account_id", accountID),
		zap.String("device_id", deviceID),
	)
	return nil
}
