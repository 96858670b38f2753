// Package repomanager hands out repositories bound to a database handle.
// Passing a transactional handle (dbx.WithTx) yields repositories that
// participate in that transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/olegkurtov/accesshub/internal/dbx"
	"github.com/olegkurtov/accesshub/internal/server/repositories/accounts"
	"github.com/olegkurtov/accesshub/internal/server/repositories/credentials"
	"github.com/olegkurtov/accesshub/internal/server/repositories/emailverifications"
	"github.com/olegkurtov/accesshub/internal/server/repositories/passwordresets"
	"github.com/olegkurtov/accesshub/internal/server/repositories/phoneverifications"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Credentials(db dbx.DBTX) credentials.Repository
	EmailVerifications(db dbx.DBTX) emailverifications.Repository
	PhoneVerifications(db dbx.DBTX) phoneverifications.Repository
	PasswordResets(db dbx.DBTX) passwordresets.Repository
}
