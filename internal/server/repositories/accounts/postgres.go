package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/olegkurtov/accesshub/internal/common"
	"github.com/olegkurtov/accesshub/internal/dbx"
	"github.com/olegkurtov/accesshub/internal/server/models"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const accountColumns = `id, first_name, last_name, username, email, email_verified,
	 phone, phone_verified, role, status, created_at, updated_at`

func scanAccount(row *sql.Row) (*models.Account, error) {
	a := &models.Account{}
	err := row.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Username, &a.Email, &a.EmailVerified,
		&a.Phone, &a.PhoneVerified, &a.Role, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	query :=
		`INSERT INTO accounts (first_name, last_name, username, email, phone, role, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		account.FirstName, account.LastName, account.Username, account.Email,
		account.Phone, account.Role, account.Status).
		Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return scanAccount(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`
	return scanAccount(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return scanAccount(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) UpdateRole(ctx context.Context, id int64, role models.Role) error {
	query := `UPDATE accounts SET role = $2, updated_at = now() WHERE id = $1`
	return r.exec(ctx, query, id, role)
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int64, status models.Status) error {
	query := `UPDATE accounts SET status = $2, updated_at = now() WHERE id = $1`
	return r.exec(ctx, query, id, status)
}

func (r *PostgresRepository) MarkEmailVerified(ctx context.Context, id int64) error {
	query :=
		`UPDATE accounts
		 SET email_verified = TRUE,
		     status = CASE WHEN status = 'pending' THEN 'active' ELSE status END,
		     updated_at = now()
		 WHERE id = $1
		 `
	return r.exec(ctx, query, id)
}

func (r *PostgresRepository) MarkPhoneVerified(ctx context.Context, id int64, phone string) error {
	query :=
		`UPDATE accounts
		 SET phone = $2, phone_verified = TRUE, updated_at = now()
		 WHERE id = $1
		 `
	return r.exec(ctx, query, id, phone)
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return common.ErrorConflict
		}
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
