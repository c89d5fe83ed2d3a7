package repository

import (
	"context"

	"github.com/clinova/clinic-backend/internal/domain/entity"
)

// CompanyRegistrationRepository persists company sign-up records created by
// RegisterWithPackage.
type CompanyRegistrationRepository interface {
	Create(ctx context.Context, reg *entity.CompanyRegistration) error
	ExistsPendingByEmail(ctx context.Context, email string) (bool, error)
	FindByAccountID(ctx context.Context, accountID int64) (*entity.CompanyRegistration, error)
}
