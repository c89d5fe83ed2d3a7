package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	domainErrors "github.com/clinova/clinic-backend/internal/domain/errors"
	"github.com/clinova/clinic-backend/internal/domain/interfaces"
	"github.com/clinova/clinic-backend/internal/domain/models"
	"github.com/clinova/clinic-backend/internal/domain/repository"
)

// MfaService manages TOTP secrets: enrollment, the one-time activation check
// and per-login verification. A secret stored by Enroll stays pending until
// ConfirmEnrollment sees one valid code; only then does mfa_enabled flip.
type MfaService struct {
	accounts    repository.AccountRepository
	totp        interfaces.TOTPService
	qrEncoder   interfaces.QREncoder
	qrImageSize int
	logger      *zap.Logger
}

func NewMfaService(
	accounts repository.AccountRepository,
	totp interfaces.TOTPService,
	qrEncoder interfaces.QREncoder,
	qrImageSize int,
	logger *zap.Logger,
) *MfaService {
	return &MfaService{
		accounts:    accounts,
		totp:        totp,
		qrEncoder:   qrEncoder,
		qrImageSize: qrImageSize,
		logger:      logger.Named("mfa_service"),
	}
}

// Enroll generates a fresh secret for the account, discarding any prior one,
// and returns the secret, its provisioning URI and the rendered QR image.
// mfa_enabled is not touched here.
func (s *MfaService) Enroll(ctx context.Context, accountID int64) (*models.EnrollmentResult, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	secret, provisioningURI, err := s.totp.GenerateSecret(account.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate MFA secret: %w", err)
	}

	if err := s.accounts.SetMfaSecret(ctx, account.ID, secret); err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrDependencyFailure, err)
	}

	qrPNG, err := s.qrEncoder.EncodePNG(provisioningURI, s.qrImageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to render provisioning QR: %w", err)
	}

	s.logger.Info("MFA enrollment started", zap.Int64("account_id", account.ID))
	return &models.EnrollmentResult{
		Secret:          secret,
		ProvisioningURI: provisioningURI,
		QRImagePNG:      qrPNG,
	}, nil
}

// ConfirmEnrollment activates MFA iff code verifies against the pending
// secret. On failure nothing changes.
func (s *MfaService) ConfirmEnrollment(ctx context.Context, accountID int64, code string) (bool, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return false, err
	}
	if account.MfaSecret == nil {
		return false, domainErrors.ErrMfaNotEnrolled
	}

	valid, err := s.totp.ValidateCode(*account.MfaSecret, code)
	if err != nil {
		return false, fmt.Errorf("failed to validate enrollment code: %w", err)
	}
	if !valid {
		return false, nil
	}

	if err := s.accounts.SetMfaEnabled(ctx, account.ID, true); err != nil {
		return false, fmt.Errorf("%w: %v", domainErrors.ErrDependencyFailure, err)
	}

	s.logger.Info("MFA enabled", zap.Int64("account_id", account.ID))
	return true, nil
}

// VerifyLoginCode checks a login-time code against the active secret. No
// state is mutated; callers only reach this when MFA is already enabled.
func (s *MfaService) VerifyLoginCode(ctx context.Context, accountID int64, code string) (bool, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return false, err
	}
	if !account.MfaEnabled || account.MfaSecret == nil {
		return false, domainErrors.ErrMfaNotEnrolled
	}

	valid, err := s.totp.ValidateCode(*account.MfaSecret, code)
	if err != nil {
		return false, fmt.Errorf("failed to validate login code: %w", err)
	}
	return valid, nil
}
