package phoneverifications

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

func (r *PostgresRepository) Create(ctx context.Context, v *models.PhoneVerification) (*models.PhoneVerification, error) {
	query :=
		`INSERT INTO phone_verifications (account_id, phone, code, expires_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, v.AccountID, v.Phone, v.Code, v.ExpiresAt).
		Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}

func (r *PostgresRepository) GetPendingForUpdate(ctx context.Context, accountID int64) (*models.PhoneVerification, error) {
	query :=
		`SELECT id, account_id, phone, code, attempts, verified, expires_at, created_at
		 FROM phone_verifications
		 WHERE account_id = $1 AND verified = FALSE
		 ORDER BY created_at DESC
		 LIMIT 1
		 FOR UPDATE
		 `

	v := &models.PhoneVerification{}
	err := r.db.QueryRowContext(ctx, query, accountID).
		Scan(&v.ID, &v.AccountID, &v.Phone, &v.Code, &v.Attempts, &v.Verified, &v.ExpiresAt, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}

func (r *PostgresRepository) IncrementAttempts(ctx context.Context, id int64) (int, error) {
	query :=
		`UPDATE phone_verifications SET attempts = attempts + 1
		 WHERE id = $1
		 RETURNING attempts
		 `

	var attempts int
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&attempts); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return attempts, nil
}

func (r *PostgresRepository) MarkVerified(ctx context.Context, id int64) error {
	query := `UPDATE phone_verifications SET verified = TRUE WHERE id = $1`

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
		`UPDATE phone_verifications SET expires_at = $2
		 WHERE account_id = $1 AND verified = FALSE AND expires_at > $2
		 `

	if _, err := r.db.ExecContext(ctx, query, accountID, now); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
