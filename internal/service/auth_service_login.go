package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	domainErrors "github.com/clinova/clinic-backend/internal/domain/errors"
	"github.com/clinova/clinic-backend/internal/domain/models"
)

// Login walks the per-attempt state machine:
// Start → CredentialsChecked → {Rejected | MfaChallenge | Authenticated}.
//
// Rejections are three distinct outcomes: unknown account, unconfirmed email
// (IsMailConfirmed=false so callers can route to a resend-confirmation UI)
// and wrong password (IsMailConfirmed=true). On full password success a
// session token is always issued; when MFA is enabled and the device is not
// trusted, Is2FaRequired is additionally set on the same response and the
// challenge is resolved by a separate VerifyLoginOtp call.
func (s *AuthService) Login(ctx context.Context, in models.LoginInput) (*models.LoginResult, error) {
	account, err := s.accounts.FindByUsernameOrEmail(ctx, in.UsernameOrEmail)
	if err != nil {
		return nil, err
	}

	if !account.EmailConfirmed {
		return &models.LoginResult{IsMailConfirmed: false}, domainErrors.ErrEmailUnconfirmed
	}

	match, err := s.passwords.CheckPasswordHash(in.Password, account.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !match {
		return &models.LoginResult{IsMailConfirmed: true}, domainErrors.ErrInvalidCredential
	}

	token, _, err := s.tokens.Issue(account, account.Roles)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrDependencyFailure, err)
	}

	result := &models.LoginResult{
		Token:           token,
		IsMailConfirmed: true,
	}
	result.UserID, err = s.idCodec.Encode(account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to encode account ID: %w", err)
	}
	if account.DoctorID != nil {
		result.DoctorID, err = s.idCodec.Encode(*account.DoctorID)
		if err != nil {
			return nil, fmt.Errorf("failed to encode doctor ID: %w", err)
		}
	}

	if account.MfaEnabled {
		trusted, err := s.devices.IsTrusted(ctx, account.ID, in.DeviceID)
		if err != nil {
			return nil, err
		}
		result.Is2FaRequired = !trusted
	}

	s.logger.Info("login succeeded",
		zap.Int64("account_id", account.ID),
		zap.Bool("mfa_required", result.Is2FaRequired),
	)
	return result, nil
}

// VerifyLoginOtp resolves an outstanding MFA challenge. On a valid code with
// complete device metadata, the device is registered as trusted so future
// logins skip the challenge; a trust-registration failure is logged but does
// not undo the successful verification.
func (s *AuthService) VerifyLoginOtp(ctx context.Context, in models.VerifyLoginOtpInput) (bool, error) {
	ok, err := s.mfa.VerifyLoginCode(ctx, in.AccountID, in.Code)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	if in.DeviceID != "" && in.Browser != "" && in.OperatingSystem != "" {
		if err := s.devices.RegisterTrust(ctx, in.AccountID, in.DeviceID, in.Browser, in.OperatingSystem, in.IPAddress); err != nil {
			s.logger.Warn("device trust registration failed after MFA verification",
				zap.Int64("account_id", in.AccountID),
				zap.String("device_id", in.DeviceID),
				zap.Error(err),
			)
		}
	}

	return true, nil
}
