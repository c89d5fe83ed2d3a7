package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/clinova/clinic-backend/internal/domain/entity"
	domainErrors "github.com/clinova/clinic-backend/internal/domain/errors"
	"github.com/clinova/clinic-backend/internal/domain/models"
)

func (s *AuthServiceTestSuite) confirmedAccount() *entity.Account {
	return &entity.Account{
		ID:             21,
		Username:       "jdoe",
		Email:          "jdoe@example.com",
		PasswordHash:   "hashed",
		EmailConfirmed: true,
		Roles:          []string{"User"},
		Status:         entity.AccountStatusActive,
	}
}

func (s *AuthServiceTestSuite) TestLogin_Success() {
	ctx := context.Background()
	account := s.confirmedAccount()

	s.mockAccounts.On("FindByUsernameOrEmail", ctx, "jdoe").Return(account, nil).Once()
	s.mockPasswords.On("CheckPasswordHash", "pw", account.PasswordHash).Return(true, nil).Once()
	s.mockTokens.On("Issue", account, account.Roles).Return("signed-token", nil, nil).Once()

	result, err := s.authService.Login(ctx, models.LoginInput{UsernameOrEmail: "jdoe", Password: "pw"})

	s.NoError(err)
	s.Equal("signed-token", result.Token)
	s.Equal("enc-21", result.UserID)
	s.True(result.IsMailConfirmed)
	s.False(result.Is2FaRequired)
	s.mockDevices.AssertNotCalled(s.T(), "IsTrusted", mock.Anything, mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestLogin_UnknownAccount() {
	ctx := context.Background()

	s.mockAccounts.On("FindByUsernameOrEmail", ctx, "ghost").
		Return(nil, domainErrors.ErrAccountNotFound).Once()

	result, err := s.authService.Login(ctx, models.LoginInput{UsernameOrEmail: "ghost", Password: "pw"})

	s.Nil(result)
	s.ErrorIs(err, domainErrors.ErrAccountNotFound)
	s.mockPasswords.AssertNotCalled(s.T(), "CheckPasswordHash", mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestLogin_UnconfirmedEmailRejectedBeforePasswordCheck() {
	ctx := context.Background()
	account := s.confirmedAccount()
	account.EmailConfirmed = false

	s.mockAccounts.On("FindByUsernameOrEmail", ctx, "jdoe").Return(account, nil).Once()

	result, err := s.authService.Login(ctx, models.LoginInput{UsernameOrEmail: "jdoe", Password: "pw"})

	s.ErrorIs(err, domainErrors.ErrEmailUnconfirmed)
	s.False(result.IsMailConfirmed)
	s.mockPasswords.AssertNotCalled(s.T(), "CheckPasswordHash", mock.Anything, mock.Anything)
	s.mockTokens.AssertNotCalled(s.T(), "Issue", mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestLogin_WrongPassword() {
	ctx := context.Background()
	account := s.confirmedAccount()

	s.mockAccounts.On("FindByUsernameOrEmail", ctx, "jdoe").Return(account, nil).Once()
	s.mockPasswords.On("CheckPasswordHash", "wrong", account.PasswordHash).Return(false, nil).Once()

	result, err := s.authService.Login(ctx, models.LoginInput{UsernameOrEmail: "jdoe", Password: "wrong"})

	s.ErrorIs(err, domainErrors.ErrInvalidCredential)
	s.True(result.IsMailConfirmed)
	s.mockTokens.AssertNotCalled(s.T(), "Issue", mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestLogin_MfaEnabledUntrustedDeviceRequiresChallenge() {
	ctx := context.Background()
	account := s.confirmedAccount()
	account.MfaEnabled = true

	s.mockAccounts.On("FindByUsernameOrEmail", ctx, "jdoe").Return(account, nil).Once()
	s.mockPasswords.On("CheckPasswordHash", "pw", account.PasswordHash).Return(true, nil).Once()
	s.mockTokens.On("Issue", account, account.Roles).Return("signed-token", nil, nil).Once()
	s.mockDevices.On("IsTrusted", ctx, account.ID, "dev-1").Return(false, nil).Once()

	result, err := s.authService.Login(ctx, models.LoginInput{
		UsernameOrEmail: "jdoe", Password: "pw", DeviceID: "dev-1",
	})

	s.NoError(err)
	s.True(result.Is2FaRequired)
	// The token is issued alongside the challenge flag.
	s.Equal("signed-token", result.Token)
}

func (s *AuthServiceTestSuite) TestLogin_MfaEnabledTrustedDeviceSkipsChallenge() {
	ctx := context.Background()
	account := s.confirmedAccount()
	account.MfaEnabled = true

	s.mockAccounts.On("FindByUsernameOrEmail", ctx, "jdoe").Return(account, nil).Once()
	s.mockPasswords.On("CheckPasswordHash", "pw", account.PasswordHash).Return(true, nil).Once()
	s.mockTokens.On("Issue", account, account.Roles).Return("signed-token", nil, nil).Once()
	s.mockDevices.On("IsTrusted", ctx, account.ID, "dev-1").Return(true, nil).Once()

	result, err := s.authService.Login(ctx, models.LoginInput{
		UsernameOrEmail: "jdoe", Password: "pw", DeviceID: "dev-1",
	})

	s.NoError(err)
	s.False(result.Is2FaRequired)
}

func (s *AuthServiceTestSuite) TestLogin_DoctorIDEncodedWhenPresent() {
	ctx := context.Background()
	account := s.confirmedAccount()
	doctorID := int64(42)
	account.DoctorID = &doctorID

	s.mockAccounts.On("FindByUsernameOrEmail", ctx, "jdoe").Return(account, nil).Once()
	s.mockPasswords.On("CheckPasswordHash", "pw", account.PasswordHash).Return(true, nil).Once()
	s.mockTokens.On("Issue", account, account.Roles).Return("signed-token", nil, nil).Once()

	result, err := s.authService.Login(ctx, models.LoginInput{UsernameOrEmail: "jdoe", Password: "pw"})

	s.NoError(err)
	s.Equal("enc-42", result.DoctorID)
}

func (s *AuthServiceTestSuite) TestVerifyLoginOtp_ValidCodeRegistersTrust() {
	ctx := context.Background()
	in := models.VerifyLoginOtpInput{
		AccountID:       21,
		Code:            "123456",
		DeviceID:        "dev-1",
		Browser:         "Firefox 128",
		OperatingSystem: "Linux",
		IPAddress:       "203.0.113.9",
	}

	s.mockMfa.On("VerifyLoginCode", ctx, int64(21), "123456").Return(true, nil).Once()
	s.mockDevices.On("RegisterTrust", ctx, int64(21), "dev-1", "Firefox 128", "Linux", "203.0.113.9").
		Return(nil).Once()

	ok, err := s.authService.VerifyLoginOtp(ctx, in)

	s.NoError(err)
	s.True(ok)
	s.mockDevices.AssertExpectations(s.T())
}

func (s *AuthServiceTestSuite) TestVerifyLoginOtp_IncompleteMetadataSkipsTrust() {
	ctx := context.Background()
	in := models.VerifyLoginOtpInput{AccountID: 21, Code: "123456", DeviceID: "dev-1"}

	s.mockMfa.On("VerifyLoginCode", ctx, int64(21), "123456").Return(true, nil).Once()

	ok, err := s.authService.VerifyLoginOtp(ctx, in)

	s.NoError(err)
	s.True(ok)
	s.mockDevices.AssertNotCalled(s.T(), "RegisterTrust",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *AuthServiceTestSuite) TestVerifyLoginOtp_TrustFailureDoesNotUndoVerification() {
	ctx := context.Background()
	in := models.VerifyLoginOtpInput{
		AccountID: 21, Code: "123456",
		DeviceID: "dev-1", Browser: "Firefox", OperatingSystem: "Linux",
	}

	s.mockMfa.On("VerifyLoginCode", ctx, int64(21), "123456").Return(true, nil).Once()
	s.mockDevices.On("RegisterTrust", ctx, int64(21), "dev-1", "Firefox", "Linux", "").
		Return(domainErrors.ErrDependencyFailure).Once()

	ok, err := s.authService.VerifyLoginOtp(ctx, in)

	s.NoError(err)
	s.True(ok)
}

func (s *AuthServiceTestSuite) TestVerifyLoginOtp_WrongCode() {
	ctx := context.Background()

	s.mockMfa.On("VerifyLoginCode", ctx, int64(21), "000000").Return(false, nil).Once()

	ok, err := s.authService.VerifyLoginOtp(ctx, models.VerifyLoginOtpInput{AccountID: 21, Code: "000000"})

	s.NoError(err)
	s.False(ok)
	s.mockDevices.AssertNotCalled(s.T(), "RegisterTrust",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
