package service

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/clinova/clinic-backend/internal/domain/entity"
	domainErrors "github.com/clinova/clinic-backend/internal/domain/errors"
	"github.com/clinova/clinic-backend/internal/domain/interfaces"
	"github.com/clinova/clinic-backend/internal/domain/models"
	"github.com/clinova/clinic-backend/internal/domain/repository"
	"github.com/clinova/clinic-backend/internal/infrastructure/security"
	"github.com/clinova/clinic-backend/internal/utils/email"
)

// OtpIssuer is the slice of OtpTokenService the coordinator needs.
type OtpIssuer interface {
	Issue(ctx context.Context, accountID int64, purpose entity.OtpPurpose) (string, error)
	IssueLink(ctx context.Context, accountID int64, purpose entity.OtpPurpose, ttl time.Duration) (string, error)
	Verify(ctx context.Context, accountID int64, purpose entity.OtpPurpose, code string) (bool, error)
}

// MfaVerifier is the slice of MfaService the coordinator needs at login time.
type MfaVerifier interface {
	VerifyLoginCode(ctx context.Context, accountID int64, code string) (bool, error)
}

// DeviceRegistry is the slice of TrustedDeviceService the coordinator needs.
type DeviceRegistry interface {
	IsTrusted(ctx context.Context, accountID int64, deviceID string) (bool, error)
	RegisterTrust(ctx context.Context, accountID int64, deviceID, browser, operatingSystem, ipAddress string) error
}

// TokenIssuer issues signed session tokens.
type TokenIssuer interface {
	Issue(account *entity.Account, roles []string) (string, *security.SessionClaims, error)
}

// AuthServiceConfig carries the coordinator's tunables.
type AuthServiceConfig struct {
	PublicBaseURL       string
	ConfirmationLinkTTL time.Duration
}

// AuthService orchestrates registration, login, the MFA challenge, email
// confirmation and the password flows by composing the token issuer, the MFA
// manager, the device registry and the stores. The caller's identity is
// always an explicit argument; nothing is read from ambient state.
type AuthService struct {
	accounts    repository.AccountRepository
	companyRegs repository.CompanyRegistrationRepository
	otp         OtpIssuer
	mfa         MfaVerifier
	devices     DeviceRegistry
	tokens      TokenIssuer
	passwords   interfaces.PasswordService
	notifier    interfaces.NotificationService
	idCodec     interfaces.IDCodec
	cfg         AuthServiceConfig
	logger      *zap.Logger
}

func NewAuthService(
	accounts repository.AccountRepository,
	companyRegs repository.CompanyRegistrationRepository,
	otp OtpIssuer,
	mfa MfaVerifier,
	devices DeviceRegistry,
	tokens TokenIssuer,
	passwords interfaces.PasswordService,
	notifier interfaces.NotificationService,
	idCodec interfaces.IDCodec,
	cfg AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	if cfg.ConfirmationLinkTTL <= 0 {
		cfg.ConfirmationLinkTTL = 24 * time.Hour
	}
	return &AuthService{
		accounts:    accounts,
		companyRegs: companyRegs,
		otp:         otp,
		mfa:         mfa,
		devices:     devices,
		tokens:      tokens,
		passwords:   passwords,
		notifier:    notifier,
		idCodec:     idCodec,
		cfg:         cfg,
		logger:      logger.Named("auth_service"),
	}
}

// Register creates an unconfirmed account and sends the confirmation link.
// A mail failure does not roll the account back; the result reports it as a
// distinct, non-fatal outcome.
func (s *AuthService) Register(ctx context.Context, in models.RegisterInput) (*models.RegisterResult, error) {
	exists, err := s.accounts.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrDependencyFailure, err)
	}
	if exists {
		return nil, domainErrors.ErrDuplicateSubmission
	}

	account, err := s.createAccount(ctx, in)
	if err != nil {
		return nil, err
	}

	result := &models.RegisterResult{EmailSent: true, Message: "account created"}
	result.UserID, err = s.idCodec.Encode(account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to encode account ID: %w", err)
	}

	if err := s.sendConfirmationLink(ctx, account); err != nil {
		s.logger.Warn("confirmation email failed after registration",
			zap.Int64("account_id", account.ID), zap.Error(err))
		result.EmailSent = false
		result.Message = domainErrors.ErrConfirmationMailFail.Error()
	}

	s.logger.Info("account registered",
		zap.Int64("account_id", account.ID),
		zap.Bool("confirmation_email_sent", result.EmailSent),
	)
	return result, nil
}

// RegisterWithPackage creates the account together with its company
// registration. When the company record fails to persist, the fresh account
// is deleted again so no orphaned login without registration context remains.
func (s *AuthService) RegisterWithPackage(ctx context.Context, in models.RegisterWithPackageInput) (*models.RegisterResult, error) {
	exists, err := s.accounts.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrDependencyFailure, err)
	}
	if exists {
		return nil, domainErrors.ErrDuplicateSubmission
	}

	pending, err := s.companyRegs.ExistsPendingByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrDependencyFailure, err)
	}
	if pending {
		return nil, domainErrors.ErrPendingRegistration
	}

	account, err := s.createAccount(ctx, in.RegisterInput)
	if err != nil {
		return nil, err
	}

	reg := &entity.CompanyRegistration{
		AccountID:    account.ID,
		Email:        in.Email,
		Organization: in.Organization,
		PackageCode:  in.PackageCode,
		CardLast4:    cardLast4(in.CardNumber),
		Status:       entity.CompanyRegistrationPending,
	}
	if err := s.companyRegs.Create(ctx, reg); err != nil {
		if delErr := s.accounts.Delete(ctx, account.ID); delErr != nil {
			s.logger.Error("failed to roll back account after company registration failure",
				zap.Int64("account_id", account.ID), zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to persist company registration: %w", err)
	}

	result := &models.RegisterResult{EmailSent: true, Message: "company registration submitted"}
	result.UserID, err = s.idCodec.Encode(account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to encode account ID: %w", err)
	}

	if err := s.sendConfirmationLink(ctx, account); err != nil {
		s.logger.Warn("confirmation email failed after company registration",
			zap.Int64("account_id", account.ID), zap.Error(err))
		result.EmailSent = false
		result.Message = domainErrors.ErrConfirmationMailFail.Error()
	}

	return result, nil
}

// ConfirmEmail redeems a confirmation-link token and flips email_confirmed.
func (s *AuthService) ConfirmEmail(ctx context.Context, accountID int64, token string) error {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account.EmailConfirmed {
		// Redeeming twice is harmless; the link was already honored.
		return nil
	}

	ok, err := s.otp.Verify(ctx, account.ID, entity.OtpPurposeEmailConfirmation, token)
	if err != nil {
		return err
	}
	if !ok {
		return domainErrors.ErrInvalidToken
	}

	if err := s.accounts.SetEmailConfirmed(ctx, account.ID); err != nil {
		return fmt.Errorf("%w: %v", domainErrors.ErrDependencyFailure, err)
	}

	s.logger.Info("email confirmed", zap.Int64("account_id", account.ID))
	return nil
}

func (s *AuthService) createAccount(ctx context.Context, in models.RegisterInput) (*entity.Account, error) {
	passwordHash, err := s.passwords.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &entity.Account{
		Username:     in.Username,
		DisplayName:  in.DisplayName,
		Email:        in.Email,
		PasswordHash: passwordHash,
		Roles:        []string{"User"},
		Status:       entity.AccountStatusActive,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *AuthService) sendConfirmationLink(ctx context.Context, account *entity.Account) error {
	token, err := s.otp.IssueLink(ctx, account.ID, entity.OtpPurposeEmailConfirmation, s.cfg.ConfirmationLinkTTL)
	if err != nil {
		return err
	}

	encodedID, err := s.idCodec.Encode(account.ID)
	if err != nil {
		return fmt.Errorf("failed to encode account ID for confirmation link: %w", err)
	}

	confirmationURL := fmt.Sprintf("%s/ConfirmEmail?userId=%s&token=%s",
		s.cfg.PublicBaseURL, url.QueryEscape(encodedID), url.QueryEscape(token))

	return s.notifier.SendConfirmationEmail(ctx, account.Email, confirmationURL)
}

// maskEmail is re-exported here so login/reset flows and tests share one
// masking rule.
func maskEmail(address string) string {
	return email.Mask(address)
}

func cardLast4(cardNumber string) string {
	digits := make([]rune, 0, len(cardNumber))
	for _, r := range cardNumber {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) < 4 {
		return string(digits)
	}
	return string(digits[len(digits)-4:])
}
