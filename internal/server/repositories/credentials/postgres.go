package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

func (r *PostgresRepository) Create(ctx context.Context, cred *models.Credential) error {
	query :=
		`INSERT INTO credentials (account_id, salt, digest)
		 VALUES ($1, $2, $3)
		 `

	if _, err := r.db.ExecContext(ctx, query, cred.AccountID, cred.Salt, cred.Digest); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByAccountID(ctx context.Context, accountID int64) (*models.Credential, error) {
	query :=
		`SELECT account_id, salt, digest, updated_at FROM credentials
		 WHERE account_id = $1
		 `

	cred := &models.Credential{}
	err := r.db.QueryRowContext(ctx, query, accountID).
		Scan(&cred.AccountID, &cred.Salt, &cred.Digest, &cred.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return cred, nil
}

func (r *PostgresRepository) Replace(ctx context.Context, accountID int64, salt, digest []byte) error {
	query :=
		`UPDATE credentials SET salt = $2, digest = $3, updated_at = now()
		 WHERE account_id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, accountID, salt, digest)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
