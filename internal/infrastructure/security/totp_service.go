package security

import (
	"fmt"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/clinova/clinic-backend/internal/domain/interfaces"
)

// pquernaTOTPService implements interfaces.TOTPService using pquerna/otp with
// standard RFC 6238 parameters: 30-second period, 6 digits, SHA1, ±1 step
// skew.
type pquernaTOTPService struct {
	issuerName string
}

// NewPquernaTOTPService creates a TOTPService. issuerName appears in the
// provisioning URI and in authenticator apps.
func NewPquernaTOTPService(issuerName string) interfaces.TOTPService {
	if strings.TrimSpace(issuerName) == "" {
		issuerName = "Clinova"
	}
	return &pquernaTOTPService{issuerName: issuerName}
}

func (s *pquernaTOTPService) GenerateSecret(accountLabel string) (string, string, error) {
	if strings.TrimSpace(accountLabel) == "" {
		return "", "", fmt.Errorf("account label cannot be empty for TOTP secret generation")
	}
	if strings.Contains(accountLabel, ":") || strings.Contains(s.issuerName, ":") {
		// The otpauth URI uses ':' to separate issuer and label.
		return "", "", fmt.Errorf("issuer and account label cannot contain a colon")
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.issuerName,
		AccountName: accountLabel,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
		SecretSize:  20,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to generate TOTP key: %w", err)
	}

	return key.Secret(), key.URL(), nil
}

func (s *pquernaTOTPService) ValidateCode(secret string, code string) (bool, error) {
	if strings.TrimSpace(secret) == "" {
		return false, fmt.Errorf("secret cannot be empty")
	}
	// Malformed input is a failed match, not an internal failure; only the
	// exact 6-digit shape ever reaches the TOTP comparison.
	if !isSixDigits(code) {
		return false, nil
	}

	valid, err := totp.ValidateCustom(code, secret, time.Now().UTC(), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return false, fmt.Errorf("failed to validate TOTP code: %w", err)
	}
	return valid, nil
}

func isSixDigits(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

var _ interfaces.TOTPService = (*pquernaTOTPService)(nil)
