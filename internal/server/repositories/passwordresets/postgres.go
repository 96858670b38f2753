package passwordresets

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

func (r *PostgresRepository) Create(ctx context.Context, reset *models.PasswordReset) (*models.PasswordReset, error) {
	query :=
		`INSERT INTO password_resets (account_id, email, token, expires_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, reset.AccountID, reset.Email, reset.Token, reset.ExpiresAt).
		Scan(&reset.ID, &reset.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return reset, nil
}

func (r *PostgresRepository) GetByTokenForUpdate(ctx context.Context, token string) (*models.PasswordReset, error) {
	query :=
		`SELECT id, account_id, email, token, used, expires_at, created_at
		 FROM password_resets
		 WHERE token = $1
		 FOR UPDATE
		 `

	reset := &models.PasswordReset{}
	err := r.db.QueryRowContext(ctx, query, token).
		Scan(&reset.ID, &reset.AccountID, &reset.Email, &reset.Token, &reset.Used, &reset.ExpiresAt, &reset.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return reset, nil
}

func (r *PostgresRepository) MarkUsed(ctx context.Context, id int64) error {
	query := `UPDATE password_resets SET used = TRUE WHERE id = $1`

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
		`UPDATE password_resets SET expires_at = $2
		 WHERE account_id = $1 AND used = FALSE AND expires_at > $2
		 `

	if _, err := r.db.ExecContext(ctx, query, accountID, now); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
