package entity

import (
	"time"
)

// TrustedDevice maps to the "trusted_devices" table. A device is trusted for
// an account iff a row exists for (AccountID, DeviceID) with Revoked false.
// Revocation flips the flag instead of deleting the row, keeping an audit
// trail of devices that were trusted at some point.
type TrustedDevice struct {
	ID              int64     `db:"id"`
	AccountID       int64     `db:"account_id"`
	DeviceID        string    `db:"device_id"`
	Browser         string    `db:"browser"`
	OperatingSystem string    `db:"operating_system"`
	IPAddress       string    `db:"ip_address"`
	CreatedAt       time.Time `db:"created_at"`
	LastUsedAt      time.Time `db:"last_used_at"`
	Revoked         bool      `db:"revoked"`
}
