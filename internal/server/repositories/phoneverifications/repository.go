package phoneverifications

import (
	"context"
	"time"

	"github.com/olegkurtov/accesshub/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, v *models.PhoneVerification) (*models.PhoneVerification, error)
	// GetPendingForUpdate returns the most recent unverified code for the
	// account, locked for the rest of the transaction. Expiry is not
	// filtered here so the caller can distinguish Expired from NotFound.
	GetPendingForUpdate(ctx context.Context, accountID int64) (*models.PhoneVerification, error)
	// IncrementAttempts bumps the failed-attempt counter and returns the new
	// value. The caller must commit this even when the verify call fails.
	IncrementAttempts(ctx context.Context, id int64) (int, error)
	MarkVerified(ctx context.Context, id int64) error
	// ExpirePending invalidates any live code for the account so a newly
	// issued code supersedes it.
	ExpirePending(ctx context.Context, accountID int64, now time.Time) error
}
