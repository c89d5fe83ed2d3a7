package security

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/pquerna/otp"

	"github.com/clinova/clinic-backend/internal/domain/interfaces"
)

// otpKeyQREncoder renders otpauth:// provisioning URIs to PNG via the QR
// support shipped with pquerna/otp.
type otpKeyQREncoder struct{}

// NewQREncoder creates a QREncoder for TOTP provisioning URIs.
func NewQREncoder() interfaces.QREncoder {
	return &otpKeyQREncoder{}
}

func (e *otpKeyQREncoder) EncodePNG(provisioningURI string, size int) ([]byte, error) {
	if size <= 0 {
		size = 200
	}

	key, err := otp.NewKeyFromURL(provisioningURI)
	if err != nil {
		return nil, fmt.Errorf("failed to parse provisioning URI: %w", err)
	}

	img, err := key.Image(size, size)
	if err != nil {
		return nil, fmt.Errorf("failed to render QR image: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode QR PNG: %w", err)
	}
	return buf.Bytes(), nil
}

var _ interfaces.QREncoder = (*otpKeyQREncoder)(nil)
