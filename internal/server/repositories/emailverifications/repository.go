package emailverifications

import (
	"context"
	"time"

	"github.com/olegkurtov/accesshub/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, v *models.EmailVerification) (*models.EmailVerification, error)
	// GetByTokenForUpdate locks the verification row so two concurrent
	// confirms of the same token serialize.
	GetByTokenForUpdate(ctx context.Context, token string) (*models.EmailVerification, error)
	MarkVerified(ctx context.Context, id int64) error
	// ExpirePending invalidates unconsumed, unexpired tokens for the account
	// by moving their expiry to now. Rows are kept as an audit trail.
	ExpirePending(ctx context.Context, accountID int64, now time.Time) error
}
