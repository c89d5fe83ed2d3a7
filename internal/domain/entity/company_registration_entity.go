package entity

import (
	"time"
)

// CompanyRegistrationStatus tracks a company registration through review.
type CompanyRegistrationStatus string

const (
	CompanyRegistrationPending  CompanyRegistrationStatus = "pending"
	CompanyRegistrationApproved CompanyRegistrationStatus = "approved"
	CompanyRegistrationRejected CompanyRegistrationStatus = "rejected"
)

// CompanyRegistration maps to the "company_registrations" table. CardLast4
// holds only the last four digits of the payment card; the full number is
// never persisted.
type CompanyRegistration struct {
	ID           int64                     `db:"id"`
	AccountID    int64                     `db:"account_id"`
	Email        string                    `db:"email"`
	Organization string                    `db:"organization"`
	PackageCode  string                    `db:"package_code"`
	CardLast4    string                    `db:"card_last4"`
	Status       CompanyRegistrationStatus `db:"status"`
	CreatedAt    time.Time                 `db:"created_at"`
}
