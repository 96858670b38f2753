package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"database/sql"
	"fmt"
	"math/big"
	"time"

	"github.com/olegkurtov/accesshub/internal/common"
	"github.com/olegkurtov/accesshub/internal/dbx"
	"github.com/olegkurtov/accesshub/internal/logging"
	"github.com/olegkurtov/accesshub/internal/notify"
	"github.com/olegkurtov/accesshub/internal/server/models"
	"github.com/olegkurtov/accesshub/internal/server/repositories/repomanager"
)

const (
	phoneCodeValidity = 15 * time.Minute
	phoneCodeDigits   = 6
	maxPhoneAttempts  = 5
)

// VerificationService manages the email and phone verification lifecycles:
// issuing tokens and codes, superseding stale ones, and consuming them.
type VerificationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	sender      notify.Sender
	logger      logging.Logger
}

// NewVerificationService constructs a VerificationService.
func NewVerificationService(db *sql.DB, m repomanager.RepositoryManager, sender notify.Sender, logger logging.Logger) *VerificationService {
	return &VerificationService{
		db:          db,
		repomanager: m,
		sender:      sender,
		logger:      logger,
	}
}

// SendEmailVerification issues a fresh confirmation token for the account and
// mails it out. Any previously live token for the account is expired in the
// same transaction, so at most one token is active at a time.
func (s *VerificationService) SendEmailVerification(ctx context.Context, accountID int64) error {
	account, err := s.repomanager.Accounts(s.db).GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account.EmailVerified {
		return common.ErrAlreadyVerified
	}

	token, err := common.MakeRandHexString(verifyTokenBytes)
	if err != nil {
		return common.ErrorInternal
	}
	now := time.Now()

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.EmailVerifications(tx)
		if err := repo.ExpirePending(ctx, account.ID, now); err != nil {
			return fmt.Errorf("error superseding verification tokens: %w", err)
		}
		if _, err := repo.Create(ctx, &models.EmailVerification{
			AccountID: account.ID,
			Email:     account.Email,
			Token:     token,
			ExpiresAt: now.Add(emailTokenValidity),
		}); err != nil {
			return fmt.Errorf("error creating verification token: %w", err)
		}
		return nil
	}); err != nil {
		return err
	}

	if err := s.sender.SendEmailVerification(ctx, account.Email, token); err != nil {
		s.logger.Warn(ctx, "failed to send verification email", "account_id", account.ID, "error", err)
	}
	return nil
}

// ConfirmEmail consumes a confirmation token, marks the account's email
// verified, and promotes a pending account to active. The token row is locked
// so a second concurrent confirm with the same token serializes and fails
// with ErrAlreadyVerified.
func (s *VerificationService) ConfirmEmail(ctx context.Context, token string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.EmailVerifications(tx)

		v, err := repo.GetByTokenForUpdate(ctx, token)
		if err != nil {
			return err
		}
		if v.Expired(time.Now()) {
			return common.ErrExpired
		}
		if v.Verified {
			return common.ErrAlreadyVerified
		}

		if err := repo.MarkVerified(ctx, v.ID); err != nil {
			return fmt.Errorf("error consuming verification token: %w", err)
		}
		if err := s.repomanager.Accounts(tx).MarkEmailVerified(ctx, v.AccountID); err != nil {
			return fmt.Errorf("error marking email verified: %w", err)
		}
		return nil
	})
}

// SendPhoneCode issues a fresh 6-digit verification code for the phone number
// and hands it to the SMS gateway. A prior pending code for the account is
// superseded and the attempt counter starts from zero on the new row.
func (s *VerificationService) SendPhoneCode(ctx context.Context, accountID int64, phone, carrier string) error {
	account, err := s.repomanager.Accounts(s.db).GetByID(ctx, accountID)
	if err != nil {
		return err
	}

	code, err := generatePhoneCode()
	if err != nil {
		return common.ErrorInternal
	}
	now := time.Now()

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.PhoneVerifications(tx)
		if err := repo.ExpirePending(ctx, account.ID, now); err != nil {
			return fmt.Errorf("error superseding phone codes: %w", err)
		}
		if _, err := repo.Create(ctx, &models.PhoneVerification{
			AccountID: account.ID,
			Phone:     phone,
			Code:      code,
			ExpiresAt: now.Add(phoneCodeValidity),
		}); err != nil {
			return fmt.Errorf("error creating phone code: %w", err)
		}
		return nil
	}); err != nil {
		return err
	}

	if err := s.sender.SendPhoneCode(ctx, phone, carrier, code); err != nil {
		s.logger.Warn(ctx, "failed to send phone code", "account_id", account.ID, "error", err)
	}
	return nil
}

// VerifyPhoneCode checks a submitted code against the account's pending one.
// A failed attempt increments the attempt counter durably: the increment
// commits even though the call returns ErrIncorrectCode. Once the counter
// reaches its ceiling the code is permanently rejected.
func (s *VerificationService) VerifyPhoneCode(ctx context.Context, accountID int64, code string) error {
	var failErr error

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.PhoneVerifications(tx)

		v, err := repo.GetPendingForUpdate(ctx, accountID)
		if err != nil {
			return err
		}
		if v.Expired(time.Now()) {
			return common.ErrExpired
		}
		if v.Attempts >= maxPhoneAttempts {
			return common.ErrAttemptsExhausted
		}

		if subtle.ConstantTimeCompare([]byte(v.Code), []byte(code)) != 1 {
			if _, err := repo.IncrementAttempts(ctx, v.ID); err != nil {
				return fmt.Errorf("error recording failed attempt: %w", err)
			}
			// commit the increment, report the mismatch after
			failErr = common.ErrIncorrectCode
			return nil
		}

		if err := repo.MarkVerified(ctx, v.ID); err != nil {
			return fmt.Errorf("error consuming phone code: %w", err)
		}
		if err := s.repomanager.Accounts(tx).MarkPhoneVerified(ctx, accountID, v.Phone); err != nil {
			return fmt.Errorf("error marking phone verified: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return failErr
}

// generatePhoneCode returns a uniformly random 6-digit code as a string,
// preserving leading zeros.
func generatePhoneCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < phoneCodeDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", phoneCodeDigits, n), nil
}
