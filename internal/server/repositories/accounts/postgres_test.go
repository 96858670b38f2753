package accounts

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/olegkurtov/accesshub/internal/common"
	"github.com/olegkurtov/accesshub/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func accountRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "first_name", "last_name", "username", "email", "email_verified",
		"phone", "phone_verified", "role", "status", "created_at", "updated_at",
	}).AddRow(int64(7), "Ada", "Lovelace", "ada", "ada@example.com", true,
		nil, false, int(models.RoleAdmin), string(models.StatusActive), now, now)
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+accounts\s*\(first_name,\s*last_name,\s*username,\s*email,\s*phone,\s*role,\s*status\)`

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(42), now, now)
	mock.ExpectQuery(q).
		WithArgs("Ada", "Lovelace", "ada", "ada@example.com", nil, int(models.RoleUser), string(models.StatusPending)).
		WillReturnRows(rows)

	a := &models.Account{
		FirstName: "Ada", LastName: "Lovelace",
		Username: "ada", Email: "ada@example.com",
		Role: models.RoleUser, Status: models.StatusPending,
	}
	got, err := repo.Create(context.Background(), a)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 42 {
		t.Fatalf("unexpected account: %+v", got)
	}
}

func TestCreate_UniqueViolation(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+accounts`

	mock.ExpectQuery(q).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "accounts_email_key"})

	_, err := repo.Create(context.Background(), &models.Account{
		Username: "ada", Email: "ada@example.com",
		Role: models.RoleUser, Status: models.StatusPending,
	})
	if !errors.Is(err, common.ErrorConflict) {
		t.Fatalf("want common.ErrorConflict, got %v", err)
	}
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*\s+FROM\s+accounts\s+WHERE\s+id\s*=\s*\$1\s*$`
	mock.ExpectQuery(q).WithArgs(int64(7)).WillReturnRows(accountRows())

	got, err := repo.GetByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.ID != 7 || got.Username != "ada" || got.Role != models.RoleAdmin {
		t.Fatalf("unexpected account: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*\s+FROM\s+accounts\s+WHERE\s+id\s*=\s*\$1\s*$`
	mock.ExpectQuery(q).WithArgs(int64(404)).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 404)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGetByIDForUpdate_UsesRowLock(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*\s+FROM\s+accounts\s+WHERE\s+id\s*=\s*\$1\s+FOR\s+UPDATE\s*$`
	mock.ExpectQuery(q).WithArgs(int64(7)).WillReturnRows(accountRows())

	got, err := repo.GetByIDForUpdate(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetByIDForUpdate error: %v", err)
	}
	if got.ID != 7 {
		t.Fatalf("unexpected account: %+v", got)
	}
}

func TestUpdateRole_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+accounts\s+SET\s+role\s*=\s*\$2`
	mock.ExpectExec(q).WithArgs(int64(404), int(models.RoleAdmin)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateRole(context.Background(), 404, models.RoleAdmin)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestMarkEmailVerified_PromotesPending(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+accounts\s+SET\s+email_verified\s*=\s*TRUE,\s*status\s*=\s*CASE\s+WHEN\s+status\s*=\s*'pending'\s+THEN\s+'active'\s+ELSE\s+status\s+END`
	mock.ExpectExec(q).WithArgs(int64(7)).WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.MarkEmailVerified(context.Background(), 7); err != nil {
		t.Fatalf("MarkEmailVerified error: %v", err)
	}
}

func TestMarkPhoneVerified_Conflict(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+accounts\s+SET\s+phone\s*=\s*\$2`
	mock.ExpectExec(q).WithArgs(int64(7), "+15550001111").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "accounts_phone_key"})

	err := repo.MarkPhoneVerified(context.Background(), 7, "+15550001111")
	if !errors.Is(err, common.ErrorConflict) {
		t.Fatalf("want common.ErrorConflict, got %v", err)
	}
}
