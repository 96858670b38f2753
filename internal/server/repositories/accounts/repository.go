package accounts

import (
	"context"

	"github.com/olegkurtov/accesshub/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByID(ctx context.Context, id int64) (*models.Account, error)
	// GetByIDForUpdate locks the account row until the surrounding
	// transaction ends, serializing concurrent admin mutations.
	GetByIDForUpdate(ctx context.Context, id int64) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	UpdateRole(ctx context.Context, id int64, role models.Role) error
	UpdateStatus(ctx context.Context, id int64, status models.Status) error
	// MarkEmailVerified sets email_verified and promotes a pending account
	// to active in the same statement.
	MarkEmailVerified(ctx context.Context, id int64) error
	// MarkPhoneVerified sets phone_verified and records the verified number.
	MarkPhoneVerified(ctx context.Context, id int64, phone string) error
}
