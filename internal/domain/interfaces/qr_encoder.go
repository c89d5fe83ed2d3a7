package interfaces

// QREncoder turns a TOTP provisioning URI into a scannable PNG image.
type QREncoder interface {
	EncodePNG(provisioningURI string, size int) ([]byte, error)
}
