package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/clinova/clinic-backend/internal/domain/interfaces"
)

// aesGCMIDCodec reversibly obfuscates internal integer identifiers into
// opaque URL-safe strings using AES-256-GCM. The encoded form is
// base64url(nonce + ciphertext + tag).
type aesGCMIDCodec struct {
	gcm cipher.AEAD
}

// NewAESGCMIDCodec creates an IDCodec from a hex-encoded 32-byte key.
func NewAESGCMIDCodec(keyHex string) (interfaces.IDCodec, error) {
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ID codec key: %w", err)
	}
	if len(key) != 32 {
		return nil, errors.New("ID codec key must be 32 bytes for AES-256")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM cipher: %w", err)
	}
	return &aesGCMIDCodec{gcm: gcm}, nil
}

func (c *aesGCMIDCodec) Encode(id int64) (string, error) {
	nonce := make([]byte, c.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	plaintext := []byte(strconv.FormatInt(id, 10))
	sealed := c.gcm.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

func (c *aesGCMIDCodec) Decode(encoded string) (int64, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return 0, fmt.Errorf("failed to decode identifier: %w", err)
	}

	nonceSize := c.gcm.NonceSize()
	if len(raw) < nonceSize {
		return 0, errors.New("encoded identifier too short")
	}
	nonce, ciphertext := raw[:nonceSize], raw[nonceSize:]

	plaintext, err := c.gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to decrypt identifier: %w", err)
	}

	id, err := strconv.ParseInt(string(plaintext), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("decrypted identifier is not numeric: %w", err)
	}
	return id, nil
}

var _ interfaces.IDCodec = (*aesGCMIDCodec)(nil)
