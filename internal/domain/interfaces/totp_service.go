package interfaces

// TOTPService generates and validates time-based one-time-password secrets
// per RFC 6238 (30-second step, 6 digits, ±1 step skew).
type TOTPService interface {
	// GenerateSecret returns a fresh base32 secret and the otpauth://
	// provisioning URI for the given account label.
	GenerateSecret(accountLabel string) (secret string, provisioningURI string, err error)
	// ValidateCode checks code against secret for the current step or the
	// immediately adjacent steps.
	ValidateCode(secret string, code string) (bool, error)
}
