package emailverifications

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/olegkurtov/accesshub/internal/common"
	"github.com/olegkurtov/accesshub/internal/dbx"
	"github.com/olegkurtov/accesshub/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, v *models.EmailVerification) (*models.EmailVerification, error) {
	query :=
		`INSERT INTO email_verifications (account_id, email, token, expires_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, v.AccountID, v.Email, v.Token, v.ExpiresAt).
		Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}

func (r *PostgresRepository) GetByTokenForUpdate(ctx context.Context, token string) (*models.EmailVerification, error) {
	query :=
		`SELECT id, account_id, email, token, verified, expires_at, created_at
		 FROM email_verifications
		 WHERE token = $1
		 FOR UPDATE
		 `

	v := &models.EmailVerification{}
	err := r.db.QueryRowContext(ctx, query, token).
		Scan(&v.ID, &v.AccountID, &v.Email, &v.Token, &v.Verified, &v.ExpiresAt, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}

func (r *PostgresRepository) MarkVerified(ctx context.Context, id int64) error {
	query := `UPDATE email_verifications SET verified = TRUE WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) ExpirePending(ctx context.Context, accountID int64, now time.Time) error {
	query :=
		`UPDATE email_verifications SET expires_at = $2
		 WHERE account_id = $1 AND verified = FALSE AND expires_at > $2
		 `

	if _, err := r.db.ExecContext(ctx, query, accountID, now); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
