package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/clinova/clinic-backend/internal/domain/entity"
	domainErrors "github.com/clinova/clinic-backend/internal/domain/errors"
	"github.com/clinova/clinic-backend/internal/domain/repository"
	"github.com/clinova/clinic-backend/internal/utils/random"
)

const (
	defaultOtpLength    = 6
	defaultOtpTTL       = 5 * time.Minute
	opaqueTokenByteSize = 32
)

// OtpTokenService issues and verifies single-use, purpose-tagged, expiring
// tokens. Numeric codes back password resets; opaque tokens back
// email-confirmation links. Both share the same single-use/expiry contract.
type OtpTokenService struct {
	tokens     repository.OtpTokenRepository
	logger     *zap.Logger
	codeLength int
	codeTTL    time.Duration
	now        func() time.Time
}

func NewOtpTokenService(tokens repository.OtpTokenRepository, codeLength int, codeTTL time.Duration, logger *zap.Logger) *OtpTokenService {
	if codeLength <= 0 {
		codeLength = defaultOtpLength
	}
	if codeTTL <= 0 {
		codeTTL = defaultOtpTTL
	}
	return &OtpTokenService{
		tokens:     tokens,
		logger:     logger.Named("otp_token_service"),
		codeLength: codeLength,
		codeTTL:    codeTTL,
		now:        time.Now,
	}
}

// Issue creates a fresh numeric code for (accountID, purpose), invalidating
// any prior unconsumed token for the same pair first.
func (s *OtpTokenService) Issue(ctx context.Context, accountID int64, purpose entity.OtpPurpose) (string, error) {
	code, err := random.NumericCode(s.codeLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP code: %w", err)
	}
	if err := s.store(ctx, accountID, purpose, code, s.codeTTL); err != nil {
		return "", err
	}
	return code, nil
}

// IssueLink creates an opaque URL-safe token for (accountID, purpose) with
// the given lifetime, used for email-confirmation links.
func (s *OtpTokenService) IssueLink(ctx context.Context, accountID int64, purpose entity.OtpPurpose, ttl time.Duration) (string, error) {
	token, err := random.OpaqueToken(opaqueTokenByteSize)
	if err != nil {
		return "", fmt.Errorf("failed to generate link token: %w", err)
	}
	if err := s.store(ctx, accountID, purpose, token, ttl); err != nil {
		return "", err
	}
	return token, nil
}

// Verify reports whether code matches a live token for (accountID, purpose)
// and consumes it on success. A wrong code and an expired code both return
// plain false; nothing distinguishes the two to the caller. Store outages
// propagate as errors.
func (s *OtpTokenService) Verify(ctx context.Context, accountID int64, purpose entity.OtpPurpose, code string) (bool, error) {
	if code == "" {
		return false, nil
	}

	now := s.now()
	token, err := s.tokens.FindActive(ctx, accountID, purpose, now)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", domainErrors.ErrDependencyFailure, err)
	}

	if subtle.ConstantTimeCompare([]byte(token.Code), []byte(code)) != 1 {
		return false, nil
	}

	if err := s.tokens.Consume(ctx, token.ID, now); err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			// Lost the race with a concurrent verification; the token is no
			// longer live so this attempt does not count.
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", domainErrors.ErrDependencyFailure, err)
	}

	return true, nil
}

// PurgeExpired deletes tokens past their expiry and returns how many rows
// went. Verification never matches expired rows; this only keeps the table
// from growing without bound. Run periodically from the composition root.
func (s *OtpTokenService) PurgeExpired(ctx context.Context) (int64, error) {
	deleted, err := s.tokens.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domainErrors.ErrDependencyFailure, err)
	}
	if deleted > 0 {
		s.logger.Info("expired OTP tokens purged", zap.Int64("deleted", deleted))
	}
	return deleted, nil
}

func (s *OtpTokenService) store(ctx context.Context, accountID int64, purpose entity.OtpPurpose, code string, ttl time.Duration) error {
	invalidated, err := s.tokens.ConsumeAllFor(ctx, accountID, purpose)
	if err != nil {
		return fmt.Errorf("%w: %v", domainErrors.ErrDependencyFailure, err)
	}
	if invalidated > 0 {
		s.logger.Debug("invalidated prior OTP tokens",
			zap.Int64("account_id", accountID),
			zap.String("purpose", string(purpose)),
			zap.Int64("count", invalidated),
		)
	}

	now := s.now()
	token := &entity.OtpToken{
		AccountID: accountID,
		Purpose:   purpose,
		Code:      code,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		return fmt.Errorf("%w: %v", domainErrors.ErrDependencyFailure, err)
	}
	return nil
}
