package credentials

import (
	"context"

	"github.com/olegkurtov/accesshub/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, cred *models.Credential) error
	GetByAccountID(ctx context.Context, accountID int64) (*models.Credential, error)
	// Replace swaps the whole salt+digest pair. The two are never updated
	// independently of each other.
	Replace(ctx context.Context, accountID int64, salt, digest []byte) error
}
