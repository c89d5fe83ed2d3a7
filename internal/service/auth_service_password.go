package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/clinova/clinic-backend/internal/domain/entity"
	domainErrors "github.com/clinova/clinic-backend/internal/domain/errors"
	"github.com/clinova/clinic-backend/internal/domain/models"
)

// RequestOtp issues a password-reset code and mails it, returning the masked
// destination address. A failed send yields an empty masked address with no
// error detail, so callers cannot tell an invalid address from a transport
// outage.
func (s *AuthService) RequestOtp(ctx context.Context, usernameOrEmail string) (string, error) {
	account, err := s.accounts.FindByUsernameOrEmail(ctx, usernameOrEmail)
	if err != nil {
		return "", err
	}

	code, err := s.otp.Issue(ctx, account.ID, entity.OtpPurposePasswordReset)
	if err != nil {
		return "", err
	}

	if err := s.notifier.SendOtpEmail(ctx, account.Email, code); err != nil {
		s.logger.Warn("password reset email failed",
			zap.Int64("account_id", account.ID), zap.Error(err))
		return "", nil
	}

	return maskEmail(account.Email), nil
}

// ResetPassword completes an OTP-based reset. The reused-password check runs
// before OTP verification, so a no-op reset is rejected regardless of OTP
// validity; a valid OTP is only consumed once the new password is acceptable.
func (s *AuthService) ResetPassword(ctx context.Context, in models.ResetPasswordInput) error {
	account, err := s.accounts.FindByUsernameOrEmail(ctx, in.UsernameOrEmail)
	if err != nil {
		return err
	}

	sameAsCurrent, err := s.passwords.CheckPasswordHash(in.NewPassword, account.PasswordHash)
	if err != nil {
		return fmt.Errorf("failed to verify password: %w", err)
	}
	if sameAsCurrent {
		return domainErrors.ErrReusedPassword
	}

	ok, err := s.otp.Verify(ctx, account.ID, entity.OtpPurposePasswordReset, in.Otp)
	if err != nil {
		return err
	}
	if !ok {
		return domainErrors.ErrInvalidOtp
	}

	newHash, err := s.passwords.HashPassword(in.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}
	if err := s.accounts.UpdatePasswordHash(ctx, account.ID, newHash); err != nil {
		return fmt.Errorf("%w: %v", domainErrors.ErrDependencyFailure, err)
	}

	s.logger.Info("password reset completed", zap.Int64("account_id", account.ID))
	return nil
}

// ChangePassword changes the password of the (explicitly passed) caller. The
// string-equality guard runs before any hashing as a cheap no-op rejection.
func (s *AuthService) ChangePassword(ctx context.Context, in models.ChangePasswordInput) error {
	if in.NewPassword == in.CurrentPassword {
		return domainErrors.ErrReusedPassword
	}

	account, err := s.accounts.FindByID(ctx, in.AccountID)
	if err != nil {
		return err
	}

	match, err := s.passwords.CheckPasswordHash(in.CurrentPassword, account.PasswordHash)
	if err != nil {
		return fmt.Errorf("failed to verify current password: %w", err)
	}
	if !match {
		return domainErrors.ErrInvalidCredential
	}

	newHash, err := s.passwords.HashPassword(in.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}
	if err := s.accounts.UpdatePasswordHash(ctx, account.ID, newHash); err != nil {
		return fmt.Errorf("%w: %v", domainErrors.ErrDependencyFailure, err)
	}

	s.logger.Info("password changed", zap.Int64("account_id", account.ID))
	return nil
}
