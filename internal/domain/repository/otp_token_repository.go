package repository

import (
	"context"
	"time"

	"github.com/clinova/clinic-backend/internal/domain/entity"
)

// OtpTokenRepository persists per-purpose single-use tokens.
type OtpTokenRepository interface {
	Create(ctx context.Context, token *entity.OtpToken) error
	// FindActive returns the latest unconsumed, unexpired token for the
	// (account, purpose) pair, or errors.ErrNotFound.
	FindActive(ctx context.Context, accountID int64, purpose entity.OtpPurpose, now time.Time) (*entity.OtpToken, error)
	// ConsumeAllFor marks every unconsumed token for the pair as consumed and
	// returns how many rows were affected. Used to invalidate prior tokens
	// before issuing a new one.
	ConsumeAllFor(ctx context.Context, accountID int64, purpose entity.OtpPurpose) (int64, error)
	// Consume marks a single token as consumed; errors.ErrNotFound when the
	// token was already consumed or expired.
	Consume(ctx context.Context, id int64, now time.Time) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
