package random

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
	"strings"
)

// NumericCode returns a crypto-random code of exactly length digits, with
// leading zeros preserved.
func NumericCode(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("code length must be positive, got %d", length)
	}

	var sb strings.Builder
	sb.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		sb.WriteByte(byte('0' + n.Int64()))
	}
	return sb.String(), nil
}

// OpaqueToken returns a URL-safe random token with byteLength bytes of
// entropy.
func OpaqueToken(byteLength int) (string, error) {
	if byteLength <= 0 {
		return "", fmt.Errorf("token byte length must be positive, got %d", byteLength)
	}

	b := make([]byte, byteLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token entropy: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
