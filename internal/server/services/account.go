package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/olegkurtov/accesshub/internal/common"
	"github.com/olegkurtov/accesshub/internal/credx"
	"github.com/olegkurtov/accesshub/internal/dbx"
	"github.com/olegkurtov/accesshub/internal/logging"
	"github.com/olegkurtov/accesshub/internal/server/auth"
	"github.com/olegkurtov/accesshub/internal/server/models"
	"github.com/olegkurtov/accesshub/internal/server/repositories/repomanager"
)

// adminMinimumRole gates every admin mutation in this service.
const adminMinimumRole = models.RoleAdmin

// AccountService implements admin mutations on other accounts. Every
// operation loads the target under a row lock, runs the authorization
// pipeline against the locked state, and writes in the same transaction, so
// concurrent mutations of one account serialize.
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

// NewAccountService constructs an AccountService.
func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *AccountService {
	return &AccountService{
		db:          db,
		repomanager: m,
		logger:      logger,
	}
}

// GetAccount returns the account with the given id.
func (s *AccountService) GetAccount(ctx context.Context, id int64) (*models.Account, error) {
	return s.repomanager.Accounts(s.db).GetByID(ctx, id)
}

// UpdateRole changes the target account's role on behalf of the actor.
func (s *AccountService) UpdateRole(ctx context.Context, actor *auth.Claims, targetID int64, newRole models.Role) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Accounts(tx)

		target, err := repo.GetByIDForUpdate(ctx, targetID)
		if err != nil {
			return err
		}
		if target.Status == models.StatusDeleted {
			return common.ErrorNotFound
		}

		check := auth.MutationCheck{Actor: actor, Target: target}
		if err := check.AuthorizeRoleChange(adminMinimumRole, newRole); err != nil {
			return err
		}

		if err := repo.UpdateRole(ctx, targetID, newRole); err != nil {
			return fmt.Errorf("error updating role: %w", err)
		}

		s.logger.Info(ctx, "role updated",
			"actor_id", actor.AccountID, "target_id", targetID, "role", int(newRole))
		return nil
	})
}

// UpdateStatus moves the target account between active, suspended, and
// locked. Deletion goes through DeleteAccount; pending is only ever entered
// at registration.
func (s *AccountService) UpdateStatus(ctx context.Context, actor *auth.Claims, targetID int64, status models.Status) error {
	switch status {
	case models.StatusActive, models.StatusSuspended, models.StatusLocked:
	default:
		return common.ErrInvalidInput
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Accounts(tx)

		target, err := repo.GetByIDForUpdate(ctx, targetID)
		if err != nil {
			return err
		}
		// a soft-deleted account stays deleted; status changes must not
		// resurrect it
		if target.Status == models.StatusDeleted {
			return common.ErrorNotFound
		}

		check := auth.MutationCheck{Actor: actor, Target: target}
		if err := check.Authorize(adminMinimumRole); err != nil {
			return err
		}

		if err := repo.UpdateStatus(ctx, targetID, status); err != nil {
			return fmt.Errorf("error updating status: %w", err)
		}

		s.logger.Info(ctx, "status updated",
			"actor_id", actor.AccountID, "target_id", targetID, "status", string(status))
		return nil
	})
}

// ResetAccountPassword replaces the target's credential with one derived from
// the supplied password. Used by admins for accounts that lost email access.
func (s *AccountService) ResetAccountPassword(ctx context.Context, actor *auth.Claims, targetID int64, newPassword string) error {
	salt, digest := credx.Hash(newPassword)

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		target, err := s.repomanager.Accounts(tx).GetByIDForUpdate(ctx, targetID)
		if err != nil {
			return err
		}
		if target.Status == models.StatusDeleted {
			return common.ErrorNotFound
		}

		check := auth.MutationCheck{Actor: actor, Target: target}
		if err := check.Authorize(adminMinimumRole); err != nil {
			return err
		}

		if err := s.repomanager.Credentials(tx).Replace(ctx, targetID, salt, digest); err != nil {
			return fmt.Errorf("error replacing credential: %w", err)
		}

		s.logger.Info(ctx, "password reset by admin",
			"actor_id", actor.AccountID, "target_id", targetID)
		return nil
	})
}

// DeleteAccount soft-deletes the target: the row stays for audit and keeps
// holding its username/email uniqueness.
func (s *AccountService) DeleteAccount(ctx context.Context, actor *auth.Claims, targetID int64) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Accounts(tx)

		target, err := repo.GetByIDForUpdate(ctx, targetID)
		if err != nil {
			return err
		}
		if target.Status == models.StatusDeleted {
			return common.ErrorNotFound
		}

		check := auth.MutationCheck{Actor: actor, Target: target}
		if err := check.Authorize(adminMinimumRole); err != nil {
			return err
		}

		if err := repo.UpdateStatus(ctx, targetID, models.StatusDeleted); err != nil {
			return fmt.Errorf("error deleting account: %w", err)
		}

		s.logger.Info(ctx, "account deleted",
			"actor_id", actor.AccountID, "target_id", targetID)
		return nil
	})
}
