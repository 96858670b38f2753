package passwordresets

import (
	"context"
	"time"

	"github.com/olegkurtov/accesshub/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, reset *models.PasswordReset) (*models.PasswordReset, error)
	// GetByTokenForUpdate locks the row so a token can be consumed exactly once.
	GetByTokenForUpdate(ctx context.Context, token string) (*models.PasswordReset, error)
	MarkUsed(ctx context.Context, id int64) error
	// ExpirePending invalidates unused, unexpired tokens for the account.
	ExpirePending(ctx context.Context, accountID int64, now time.Time) error
}
