package entity

import (
	"time"
)

// OtpPurpose tags a single-use token with the operation it was issued for.
type OtpPurpose string

const (
	OtpPurposePasswordReset     OtpPurpose = "password_reset"
	OtpPurposeEmailConfirmation OtpPurpose = "email_confirmation"
)

// OtpToken maps to the "otp_tokens" table. At most one unconsumed, unexpired
// token per (AccountID, Purpose) is treated as valid; verification consumes
// it.
type OtpToken struct {
	ID        int64      `db:"id"`
	AccountID int64      `db:"account_id"`
	Purpose   OtpPurpose `db:"purpose"`
	Code      string     `db:"code"`
	IssuedAt  time.Time  `db:"issued_at"`
	ExpiresAt time.Time  `db:"expires_at"`
	Consumed  bool       `db:"consumed"`
}
