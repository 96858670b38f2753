package repomanager

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/olegkurtov/accesshub/internal/dbx"
	"github.com/olegkurtov/accesshub/internal/server/migrations"
	"github.com/olegkurtov/accesshub/internal/server/repositories/accounts"
	"github.com/olegkurtov/accesshub/internal/server/repositories/credentials"
	"github.com/olegkurtov/accesshub/internal/server/repositories/emailverifications"
	"github.com/olegkurtov/accesshub/internal/server/repositories/passwordresets"
	"github.com/olegkurtov/accesshub/internal/server/repositories/phoneverifications"
)

type PostgresRepositoryManager struct {
}

func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Credentials(db dbx.DBTX) credentials.Repository {
	return credentials.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) EmailVerifications(db dbx.DBTX) emailverifications.Repository {
	return emailverifications.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) PhoneVerifications(db dbx.DBTX) phoneverifications.Repository {
	return phoneverifications.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) PasswordResets(db dbx.DBTX) passwordresets.Repository {
	return passwordresets.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return err
	}

	return nil
}
