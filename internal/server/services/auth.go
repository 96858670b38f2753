// Package services contains server-side business logic. This file implements
// AuthService, which handles registration, login, password changes, and the
// password reset lifecycle.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/olegkurtov/accesshub/internal/common"
	"github.com/olegkurtov/accesshub/internal/credx"
	"github.com/olegkurtov/accesshub/internal/dbx"
	"github.com/olegkurtov/accesshub/internal/logging"
	"github.com/olegkurtov/accesshub/internal/notify"
	"github.com/olegkurtov/accesshub/internal/server/auth"
	"github.com/olegkurtov/accesshub/internal/server/config"
	"github.com/olegkurtov/accesshub/internal/server/models"
	"github.com/olegkurtov/accesshub/internal/server/repositories/repomanager"
)

const (
	emailTokenValidity = 48 * time.Hour
	resetTokenValidity = 1 * time.Hour
	verifyTokenBytes   = 32
)

// RegisterParams carries the fields needed to create an account.
type RegisterParams struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Phone     *string
	Password  string
}

// AuthService provides authentication-related operations:
// - Register: create accounts with their credential
// - Login: verify credentials and mint a bearer token
// - ChangePassword: self-service password replacement
// - RequestPasswordReset / ResetPassword: the reset token lifecycle
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	issuer      *auth.Issuer
	sender      notify.Sender
	logger      logging.Logger
}

// NewAuthService constructs an AuthService using repositories and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, sender notify.Sender, logger logging.Logger) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: m,
		issuer:      auth.NewIssuer([]byte(cfg.SecretKey), cfg.TokenValidityDuration),
		sender:      sender,
		logger:      logger,
	}
}

// Register creates an account (role User, status pending) together with its
// credential and an initial email verification token in one transaction.
// Username/email collisions surface as ErrorConflict.
func (s *AuthService) Register(ctx context.Context, params *RegisterParams) (*models.Account, error) {
	salt, digest := credx.Hash(params.Password)
	token, err := common.MakeRandHexString(verifyTokenBytes)
	if err != nil {
		return nil, common.ErrorInternal
	}

	var account *models.Account
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		created, err := s.repomanager.Accounts(tx).Create(ctx, &models.Account{
			FirstName: params.FirstName,
			LastName:  params.LastName,
			Username:  params.Username,
			Email:     params.Email,
			Phone:     params.Phone,
			Role:      models.RoleUser,
			Status:    models.StatusPending,
		})
		if err != nil {
			return fmt.Errorf("error creating account: %w", err)
		}

		if err := s.repomanager.Credentials(tx).Create(ctx, &models.Credential{
			AccountID: created.ID,
			Salt:      salt,
			Digest:    digest,
		}); err != nil {
			return fmt.Errorf("error creating credential: %w", err)
		}

		if _, err := s.repomanager.EmailVerifications(tx).Create(ctx, &models.EmailVerification{
			AccountID: created.ID,
			Email:     created.Email,
			Token:     token,
			ExpiresAt: time.Now().Add(emailTokenValidity),
		}); err != nil {
			return fmt.Errorf("error creating email verification: %w", err)
		}

		account = created
		return nil
	}); err != nil {
		return nil, err
	}

	// delivery failure must not undo the registration
	if err := s.sender.SendEmailVerification(ctx, account.Email, token); err != nil {
		s.logger.Warn(ctx, "failed to send verification email", "account_id", account.ID, "error", err)
	}

	return account, nil
}

// Login verifies the email/password pair and, on success, returns a signed
// bearer token and the account. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.Account, error) {
	account, err := s.repomanager.Accounts(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil, common.ErrInvalidCredentials
		}
		return "", nil, common.ErrorInternal
	}

	cred, err := s.repomanager.Credentials(s.db).GetByAccountID(ctx, account.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil, common.ErrInvalidCredentials
		}
		return "", nil, common.ErrorInternal
	}

	if !credx.Verify(password, cred.Salt, cred.Digest) {
		return "", nil, common.ErrInvalidCredentials
	}

	switch account.Status {
	case models.StatusSuspended:
		return "", nil, common.ErrAccountSuspended
	case models.StatusLocked:
		return "", nil, common.ErrAccountLocked
	case models.StatusDeleted:
		// a deleted account must be indistinguishable from a missing one
		return "", nil, common.ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(account.ID, account.Role)
	if err != nil {
		return "", nil, common.ErrorInternal
	}
	return token, account, nil
}

// ChangePassword replaces the caller's credential after verifying the
// current password. The salt+digest pair is swapped wholesale.
func (s *AuthService) ChangePassword(ctx context.Context, accountID int64, current, newPassword string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Credentials(tx)

		cred, err := repo.GetByAccountID(ctx, accountID)
		if err != nil {
			return fmt.Errorf("error loading credential: %w", err)
		}
		if !credx.Verify(current, cred.Salt, cred.Digest) {
			return common.ErrInvalidCredentials
		}

		salt, digest := credx.Hash(newPassword)
		if err := repo.Replace(ctx, accountID, salt, digest); err != nil {
			return fmt.Errorf("error replacing credential: %w", err)
		}
		return nil
	})
}

// RequestPasswordReset issues a fresh reset token for the account behind the
// email, superseding any live one. It reveals nothing about whether the email
// exists: unknown and deleted addresses return nil without side effects.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	account, err := s.repomanager.Accounts(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return common.ErrorInternal
	}
	if account.Status == models.StatusDeleted {
		return nil
	}

	token, err := common.MakeRandHexString(verifyTokenBytes)
	if err != nil {
		return common.ErrorInternal
	}
	now := time.Now()

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.PasswordResets(tx)
		if err := repo.ExpirePending(ctx, account.ID, now); err != nil {
			return fmt.Errorf("error superseding reset tokens: %w", err)
		}
		if _, err := repo.Create(ctx, &models.PasswordReset{
			AccountID: account.ID,
			Email:     account.Email,
			Token:     token,
			ExpiresAt: now.Add(resetTokenValidity),
		}); err != nil {
			return fmt.Errorf("error creating reset token: %w", err)
		}
		return nil
	}); err != nil {
		return err
	}

	if err := s.sender.SendPasswordReset(ctx, account.Email, token); err != nil {
		s.logger.Warn(ctx, "failed to send password reset email", "account_id", account.ID, "error", err)
	}
	return nil
}

// ResetPassword consumes a reset token and replaces the account's credential.
// Consumption and replacement happen in one transaction; the token row is
// locked so two concurrent resets with the same token cannot both succeed.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	salt, digest := credx.Hash(newPassword)

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.PasswordResets(tx)

		reset, err := repo.GetByTokenForUpdate(ctx, token)
		if err != nil {
			return err
		}
		if reset.Expired(time.Now()) {
			return common.ErrExpired
		}
		if reset.Used {
			return common.ErrorNotFound
		}

		if err := repo.MarkUsed(ctx, reset.ID); err != nil {
			return fmt.Errorf("error consuming reset token: %w", err)
		}
		if err := s.repomanager.Credentials(tx).Replace(ctx, reset.AccountID, salt, digest); err != nil {
			return fmt.Errorf("error replacing credential: %w", err)
		}
		return nil
	})
}
