package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/clinova/clinic-backend/internal/domain/entity"
	"github.com/clinova/clinic-backend/internal/infrastructure/security"
)

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, account *entity.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindByID(ctx context.Context, id int64) (*entity.Account, error) {
	args := m.Called(ctx, id)
	if acc, ok := args.Get(0).(*entity.Account); ok {
		return acc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccountRepository) FindByUsernameOrEmail(ctx context.Context, usernameOrEmail string) (*entity.Account, error) {
	args := m.Called(ctx, usernameOrEmail)
	if acc, ok := args.Get(0).(*entity.Account); ok {
		return acc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) UpdatePasswordHash(ctx context.Context, id int64, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockAccountRepository) SetEmailConfirmed(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAccountRepository) SetMfaSecret(ctx context.Context, id int64, secret string) error {
	args := m.Called(ctx, id, secret)
	return args.Error(0)
}

func (m *MockAccountRepository) SetMfaEnabled(ctx context.Context, id int64, enabled bool) error {
	args := m.Called(ctx, id, enabled)
	return args.Error(0)
}

func (m *MockAccountRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCompanyRegistrationRepository struct {
	mock.Mock
}

func (m *MockCompanyRegistrationRepository) Create(ctx context.Context, reg *entity.CompanyRegistration) error {
	args := m.Called(ctx, reg)
	return args.Error(0)
}

func (m *MockCompanyRegistrationRepository) ExistsPendingByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockCompanyRegistrationRepository) FindByAccountID(ctx context.Context, accountID int64) (*entity.CompanyRegistration, error) {
	args := m.Called(ctx, accountID)
	if reg, ok := args.Get(0).(*entity.CompanyRegistration); ok {
		return reg, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockTrustedDeviceRepository struct {
	mock.Mock
}

func (m *MockTrustedDeviceRepository) Upsert(ctx context.Context, device *entity.TrustedDevice) error {
	args := m.Called(ctx, device)
	return args.Error(0)
}

func (m *MockTrustedDeviceRepository) ExistsActive(ctx context.Context, accountID int64, deviceID string) (bool, error) {
	args := m.Called(ctx, accountID, deviceID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTrustedDeviceRepository) FindByAccountID(ctx context.Context, accountID int64) ([]*entity.TrustedDevice, error) {
	args := m.Called(ctx, accountID)
	if devices, ok := args.Get(0).([]*entity.TrustedDevice); ok {
		return devices, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTrustedDeviceRepository) Revoke(ctx context.Context, accountID int64, deviceID string) error {
	args := m.Called(ctx, accountID, deviceID)
	return args.Error(0)
}

func (m *MockTrustedDeviceRepository) RevokeAllForAccount(ctx context.Context, accountID int64) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

type MockOtpIssuer struct {
	mock.Mock
}

func (m *MockOtpIssuer) Issue(ctx context.Context, accountID int64, purpose entity.OtpPurpose) (string, error) {
	args := m.Called(ctx, accountID, purpose)
	return args.String(0), args.Error(1)
}

func (m *MockOtpIssuer) IssueLink(ctx context.Context, accountID int64, purpose entity.OtpPurpose, ttl time.Duration) (string, error) {
	args := m.Called(ctx, accountID, purpose, ttl)
	return args.String(0), args.Error(1)
}

func (m *MockOtpIssuer) Verify(ctx context.Context, accountID int64, purpose entity.OtpPurpose, code string) (bool, error) {
	args := m.Called(ctx, accountID, purpose, code)
	return args.Bool(0), args.Error(1)
}

type MockMfaVerifier struct {
	mock.Mock
}

func (m *MockMfaVerifier) VerifyLoginCode(ctx context.Context, accountID int64, code string) (bool, error) {
	args := m.Called(ctx, accountID, code)
	return args.Bool(0), args.Error(1)
}

type MockDeviceRegistry struct {
	mock.Mock
}

func (m *MockDeviceRegistry) IsTrusted(ctx context.Context, accountID int64, deviceID string) (bool, error) {
	args := m.Called(ctx, accountID, deviceID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDeviceRegistry) RegisterTrust(ctx context.Context, accountID int64, deviceID, browser, operatingSystem, ipAddress string) error {
	args := m.Called(ctx, accountID, deviceID, browser, operatingSystem, ipAddress)
	return args.Error(0)
}

type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Issue(account *entity.Account, roles []string) (string, *security.SessionClaims, error) {
	args := m.Called(account, roles)
	var claims *security.SessionClaims
	if c, ok := args.Get(1).(*security.SessionClaims); ok {
		claims = c
	}
	return args.String(0), claims, args.Error(2)
}

type MockPasswordService struct {
	mock.Mock
}

func (m *MockPasswordService) HashPassword(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordService) CheckPasswordHash(password, hash string) (bool, error) {
	args := m.Called(password, hash)
	return args.Bool(0), args.Error(1)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) SendConfirmationEmail(ctx context.Context, to, confirmationURL string) error {
	args := m.Called(ctx, to, confirmationURL)
	return args.Error(0)
}

func (m *MockNotificationService) SendOtpEmail(ctx context.Context, to, code string) error {
	args := m.Called(ctx, to, code)
	return args.Error(0)
}

type MockTOTPService struct {
	mock.Mock
}

func (m *MockTOTPService) GenerateSecret(accountLabel string) (string, string, error) {
	args := m.Called(accountLabel)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockTOTPService) ValidateCode(secret, code string) (bool, error) {
	args := m.Called(secret, code)
	return args.Bool(0), args.Error(1)
}

type MockQREncoder struct {
	mock.Mock
}

func (m *MockQREncoder) EncodePNG(uri string, size int) ([]byte, error) {
	args := m.Called(uri, size)
	if b, ok := args.Get(0).([]byte); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

// fakeIDCodec is a transparent stand-in so tests can assert on encoded IDs.
type fakeIDCodec struct{}

func (fakeIDCodec) Encode(id int64) (string, error) {
	return fmt.Sprintf("enc-%d", id), nil
}

func (fakeIDCodec) Decode(encoded string) (int64, error) {
	trimmed := strings.TrimPrefix(encoded, "enc-")
	if trimmed == encoded {
		return 0, fmt.Errorf("malformed encoded ID %q", encoded)
	}
	return strconv.ParseInt(trimmed, 10, 64)
}
