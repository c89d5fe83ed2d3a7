package entity

import (
	"time"
)

// AccountStatus tracks the lifecycle of an account row.
type AccountStatus string

const (
	AccountStatusActive      AccountStatus = "active"
	AccountStatusDeactivated AccountStatus = "deactivated"
)

// Account maps to the "accounts" table. MfaSecret is nil until MFA enrollment
// starts; MfaEnabled flips only after one successful code check against that
// secret. Login requires EmailConfirmed.
type Account struct {
	ID             int64         `db:"id"`
	Username       string        `db:"username"`
	DisplayName    string        `db:"display_name"`
	Email          string        `db:"email"`
	PasswordHash   string        `db:"password_hash"`
	EmailConfirmed bool          `db:"email_confirmed"`
	MfaEnabled     bool          `db:"mfa_enabled"`
	MfaSecret      *string       `db:"mfa_secret"`
	Roles          []string      `db:"roles"`
	DoctorID       *int64        `db:"doctor_id"`
	Status         AccountStatus `db:"status"`
	CreatedAt      time.Time     `db:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at"`
	DeletedAt      *time.Time    `db:"deleted_at"`
}
