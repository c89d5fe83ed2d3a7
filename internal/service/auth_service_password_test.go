package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/clinova/clinic-backend/internal/domain/entity"
	domainErrors "github.com/clinova/clinic-backend/internal/domain/errors"
	"github.com/clinova/clinic-backend/internal/domain/models"
)

func (s *AuthServiceTestSuite) TestRequestOtp_ReturnsMaskedEmail() {
	ctx := context.Background()
	account := s.confirmedAccount()

	s.mockAccounts.On("FindByUsernameOrEmail", ctx, "jdoe").Return(account, nil).Once()
	s.mockOtp.On("Issue", ctx, account.ID, entity.OtpPurposePasswordReset).Return("123456", nil).Once()
	s.mockNotifier.On("SendOtpEmail", ctx, account.Email, "123456").Return(nil).Once()

	masked, err := s.authService.RequestOtp(ctx, "jdoe")

	s.NoError(err)
	s.Equal("j***@example.com", masked)
}

func (s *AuthServiceTestSuite) TestRequestOtp_SendFailureYieldsEmptyResultWithoutError() {
	ctx := context.Background()
	account := s.confirmedAccount()

	s.mockAccounts.On("FindByUsernameOrEmail", ctx, "jdoe").Return(account, nil).Once()
	s.mockOtp.On("Issue", ctx, account.ID, entity.OtpPurposePasswordReset).Return("123456", nil).Once()
	s.mockNotifier.On("SendOtpEmail", ctx, account.Email, "123456").
		Return(domainErrors.ErrDependencyFailure).Once()

	masked, err := s.authService.RequestOtp(ctx, "jdoe")

	s.NoError(err)
	s.Empty(masked)
}

func (s *AuthServiceTestSuite) TestRequestOtp_UnknownAccount() {
	ctx := context.Background()

	s.mockAccounts.On("FindByUsernameOrEmail", ctx, "ghost").
		Return(nil, domainErrors.ErrAccountNotFound).Once()

	_, err := s.authService.RequestOtp(ctx, "ghost")

	s.ErrorIs(err, domainErrors.ErrAccountNotFound)
	s.mockOtp.AssertNotCalled(s.T(), "Issue", mock.Anything, mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestResetPassword_Success() {
	ctx := context.Background()
	account := s.confirmedAccount()

	s.mockAccounts.On("FindByUsernameOrEmail", ctx, "jdoe").Return(account, nil).Once()
	s.mockPasswords.On("CheckPasswordHash", "new-password", account.PasswordHash).Return(false, nil).Once()
	s.mockOtp.On("Verify", ctx, account.ID, entity.OtpPurposePasswordReset, "123456").Return(true, nil).Once()
	s.mockPasswords.On("HashPassword", "new-password").Return("new-hash", nil).Once()
	s.mockAccounts.On("UpdatePasswordHash", ctx, account.ID, "new-hash").Return(nil).Once()

	err := s.authService.ResetPassword(ctx, models.ResetPasswordInput{
		UsernameOrEmail: "jdoe", Otp: "123456", NewPassword: "new-password",
	})

	s.NoError(err)
	s.mockAccounts.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestResetPassword_ReusedPasswordRejectedBeforeOtpCheck() {
	ctx := context.Background()
	account := s.confirmedAccount()

	s.mockAccounts.On("FindByUsernameOrEmail", ctx, "jdoe").Return(account, nil).Once()
	s.mockPasswords.On("CheckPasswordHash", "same-as-current", account.PasswordHash).Return(true, nil).Once()

	err := s.authService.ResetPassword(ctx, models.ResetPasswordInput{
		UsernameOrEmail: "jdoe", Otp: "123456", NewPassword: "same-as-current",
	})

	s.ErrorIs(err, domainErrors.ErrReusedPassword)
	// The OTP is not consumed on a rejected reset.
	s.mockOtp.AssertNotCalled(s.T(), "Verify", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestResetPassword_InvalidOtp() {
	ctx := context.Background()
	account := s.confirmedAccount()

	s.mockAccounts.On("FindByUsernameOrEmail", ctx, "jdoe").Return(account, nil).Once()
	s.mockPasswords.On("CheckPasswordHash", "new-password", account.PasswordHash).Return(false, nil).Once()
	s.mockOtp.On("Verify", ctx, account.ID, entity.OtpPurposePasswordReset, "000000").Return(false, nil).Once()

	err := s.authService.ResetPassword(ctx, models.ResetPasswordInput{
		UsernameOrEmail: "jdoe", Otp: "000000", NewPassword: "new-password",
	})

	s.ErrorIs(err, domainErrors.ErrInvalidOtp)
	s.mockAccounts.AssertNotCalled(s.T(), "UpdatePasswordHash", mock.Anything, mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestChangePassword_Success() {
	ctx := context.Background()
	account := s.confirmedAccount()

	s.mockAccounts.On("FindByID", ctx, account.ID).Return(account, nil).Once()
	s.mockPasswords.On("CheckPasswordHash", "current", account.PasswordHash).Return(true, nil).Once()
	s.mockPasswords.On("HashPassword", "brand-new").Return("new-hash", nil).Once()
	s.mockAccounts.On("UpdatePasswordHash", ctx, account.ID, "new-hash").Return(nil).Once()

	err := s.authService.ChangePassword(ctx, models.ChangePasswordInput{
		AccountID: account.ID, CurrentPassword: "current", NewPassword: "brand-new",
	})

	s.NoError(err)
}

func (s *AuthServiceTestSuite) TestChangePassword_SamePasswordRejectedWithoutLookup() {
	ctx := context.Background()

	err := s.authService.ChangePassword(ctx, models.ChangePasswordInput{
		AccountID: 21, CurrentPassword: "same", NewPassword: "same",
	})

	s.ErrorIs(err, domainErrors.ErrReusedPassword)
	s.mockAccounts.AssertNotCalled(s.T(), "FindByID", mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestChangePassword_WrongCurrentPassword() {
	ctx := context.Background()
	account := s.confirmedAccount()

	s.mockAccounts.On("FindByID", ctx, account.ID).Return(account, nil).Once()
	s.mockPasswords.On("CheckPasswordHash", "wrong", account.PasswordHash).Return(false, nil).Once()

	err := s.authService.ChangePassword(ctx, models.ChangePasswordInput{
		AccountID: account.ID, CurrentPassword: "wrong", NewPassword: "brand-new",
	})

	s.ErrorIs(err, domainErrors.ErrInvalidCredential)
	s.mockAccounts.AssertNotCalled(s.T(), "UpdatePasswordHash", mock.Anything, mock.Anything, mock.Anything)
}
