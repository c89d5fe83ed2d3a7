package interfaces

import (
	"context"
)

// NotificationService delivers transactional mail. Delivery is fire-and-forget:
// implementations report success or failure but callers must not treat a
// failed send as fatal to the surrounding operation.
type NotificationService interface {
	SendConfirmationEmail(ctx context.Context, to string, confirmationURL string) error
	SendOtpEmail(ctx context.Context, to string, code string) error
}
