package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/clinova/clinic-backend/internal/domain/entity"
	domainErrors "github.com/clinova/clinic-backend/internal/domain/errors"
	"github.com/clinova/clinic-backend/internal/domain/interfaces"
)

// JWTConfig holds the signing configuration for session tokens.
type JWTConfig struct {
	Issuer          string
	Audience        string
	SigningKey      string
	SessionTokenTTL time.Duration
}

// SessionClaims are the claims carried by an issued session token: a unique
// token ID, the (obfuscated) account ID as subject, username, email and one
// entry per role.
type SessionClaims struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// SessionTokenIssuer builds and validates signed, expiring session tokens.
type SessionTokenIssuer struct {
	config  JWTConfig
	idCodec interfaces.IDCodec
}

// NewSessionTokenIssuer creates an HS256 session token issuer. Account IDs
// are obfuscated through idCodec before entering the subject claim.
func NewSessionTokenIssuer(cfg JWTConfig, idCodec interfaces.IDCodec) (*SessionTokenIssuer, error) {
	if cfg.SigningKey == "" {
		return nil, errors.New("session token signing key must be configured")
	}
	if cfg.SessionTokenTTL <= 0 {
		cfg.SessionTokenTTL = 30 * time.Minute
	}
	return &SessionTokenIssuer{config: cfg, idCodec: idCodec}, nil
}

// Issue builds a signed token for the account with a fixed lifetime.
func (s *SessionTokenIssuer) Issue(account *entity.Account, roles []string) (string, *SessionClaims, error) {
	subject, err := s.idCodec.Encode(account.ID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode account ID for token subject: %w", err)
	}

	now := time.Now()
	claims := &SessionClaims{
		Username: account.Username,
		Email:    account.Email,
		Roles:    roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			Issuer:    s.config.Issuer,
			Audience:  jwt.ClaimStrings{s.config.Audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.SessionTokenTTL)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.SigningKey))
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, claims, nil
}

// Validate parses and verifies a session token, returning its claims and the
// decoded internal account ID.
func (s *SessionTokenIssuer) Validate(tokenString string) (*SessionClaims, int64, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.config.SigningKey), nil
	},
		jwt.WithIssuer(s.config.Issuer),
		jwt.WithAudience(s.config.Audience),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, 0, domainErrors.ErrExpiredToken
		}
		return nil, 0, fmt.Errorf("%w: %v", domainErrors.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, 0, domainErrors.ErrInvalidToken
	}

	accountID, err := s.idCodec.Decode(claims.Subject)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: undecodable subject", domainErrors.ErrInvalidToken)
	}
	return claims, accountID, nil
}
