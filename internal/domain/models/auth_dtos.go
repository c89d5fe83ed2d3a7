package models

// RegisterInput carries a plain registration request into the coordinator.
type RegisterInput struct {
	Username    string
	DisplayName string
	Email       string
	Password    string
}

// RegisterWithPackageInput extends registration with company sign-up data.
// CardNumber is used only to derive the stored last-4 digits.
type RegisterWithPackageInput struct {
	RegisterInput
	Organization string
	PackageCode  string
	CardNumber   string
}

// RegisterResult reports the outcome of account creation. EmailSent is false
// when the account was created but the confirmation mail failed; the account
// is not rolled back in that case.
type RegisterResult struct {
	UserID    string
	EmailSent bool
	Message   string
}

// LoginInput carries the credentials and the optional client device
// identifier.
type LoginInput struct {
	UsernameOrEmail string
	Password        string
	DeviceID        string
}

// LoginResult mirrors the login response contract: a session token is issued
// on any full password success, with Is2FaRequired flagged independently when
// an MFA challenge is still outstanding for this device.
type LoginResult struct {
	Token           string
	UserID          string
	IsMailConfirmed bool
	Is2FaRequired   bool
	DoctorID        string
}

// VerifyLoginOtpInput resolves an outstanding MFA challenge. Device metadata
// is optional; when fully present, a successful verification registers the
// device as trusted.
type VerifyLoginOtpInput struct {
	AccountID       int64
	Code            string
	DeviceID        string
	Browser         string
	OperatingSystem string
	IPAddress       string
}

// ChangePasswordInput changes the password of an authenticated caller.
type ChangePasswordInput struct {
	AccountID       int64
	CurrentPassword string
	NewPassword     string
}

// ResetPasswordInput completes an OTP-based password reset.
type ResetPasswordInput struct {
	UsernameOrEmail string
	Otp             string
	NewPassword     string
}

// EnrollmentResult is returned when MFA enrollment starts: the caller renders
// the QR image and may display the secret for manual entry.
type EnrollmentResult struct {
	Secret          string
	ProvisioningURI string
	QRImagePNG      []byte
}
