package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/olegkurtov/accesshub/internal/dbx"
	"github.com/olegkurtov/accesshub/internal/logging"
	"github.com/olegkurtov/accesshub/internal/server/models"
	accountsrepo "github.com/olegkurtov/accesshub/internal/server/repositories/accounts"
	credentialsrepo "github.com/olegkurtov/accesshub/internal/server/repositories/credentials"
	emailrepo "github.com/olegkurtov/accesshub/internal/server/repositories/emailverifications"
	resetsrepo "github.com/olegkurtov/accesshub/internal/server/repositories/passwordresets"
	phonerepo "github.com/olegkurtov/accesshub/internal/server/repositories/phoneverifications"
	"github.com/olegkurtov/accesshub/internal/server/repositories/repomanager"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// --- repository fakes ---

type fakeAccountsRepo struct {
	createOut *models.Account
	createErr error

	getOut *models.Account
	getErr error

	updateRoleErr   error
	updateStatusErr error
	markEmailErr    error
	markPhoneErr    error
	gotRole         models.Role
	gotStatus       models.Status
	markedEmailID   int64
	markedPhoneID   int64
	markedPhone     string
	updateRoleCalls int
	markEmailCalls  int
	updateStatCalls int
	markPhoneCalls  int
}

func (f *fakeAccountsRepo) Create(ctx context.Context, a *models.Account) (*models.Account, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createOut, nil
}

func (f *fakeAccountsRepo) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeAccountsRepo) GetByIDForUpdate(ctx context.Context, id int64) (*models.Account, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeAccountsRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeAccountsRepo) UpdateRole(ctx context.Context, id int64, role models.Role) error {
	f.updateRoleCalls++
	f.gotRole = role
	return f.updateRoleErr
}

func (f *fakeAccountsRepo) UpdateStatus(ctx context.Context, id int64, status models.Status) error {
	f.updateStatCalls++
	f.gotStatus = status
	return f.updateStatusErr
}

func (f *fakeAccountsRepo) MarkEmailVerified(ctx context.Context, id int64) error {
	f.markEmailCalls++
	f.markedEmailID = id
	return f.markEmailErr
}

func (f *fakeAccountsRepo) MarkPhoneVerified(ctx context.Context, id int64, phone string) error {
	f.markPhoneCalls++
	f.markedPhoneID = id
	f.markedPhone = phone
	return f.markPhoneErr
}

type fakeCredentialsRepo struct {
	createErr error
	created   *models.Credential

	getOut *models.Credential
	getErr error

	replaceErr    error
	replacedID    int64
	replaceSalt   []byte
	replaceDigest []byte
	replaceCalls  int
}

func (f *fakeCredentialsRepo) Create(ctx context.Context, c *models.Credential) error {
	f.created = c
	return f.createErr
}

func (f *fakeCredentialsRepo) GetByAccountID(ctx context.Context, accountID int64) (*models.Credential, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeCredentialsRepo) Replace(ctx context.Context, accountID int64, salt, digest []byte) error {
	f.replaceCalls++
	f.replacedID = accountID
	f.replaceSalt = salt
	f.replaceDigest = digest
	return f.replaceErr
}

type fakeEmailVerificationsRepo struct {
	createErr error
	created   *models.EmailVerification

	getOut *models.EmailVerification
	getErr error

	markErr   error
	markedID  int64
	markCalls int

	expireErr   error
	expireCalls int
}

func (f *fakeEmailVerificationsRepo) Create(ctx context.Context, v *models.EmailVerification) (*models.EmailVerification, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = v
	return v, nil
}

func (f *fakeEmailVerificationsRepo) GetByTokenForUpdate(ctx context.Context, token string) (*models.EmailVerification, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeEmailVerificationsRepo) MarkVerified(ctx context.Context, id int64) error {
	f.markCalls++
	f.markedID = id
	return f.markErr
}

func (f *fakeEmailVerificationsRepo) ExpirePending(ctx context.Context, accountID int64, now time.Time) error {
	f.expireCalls++
	return f.expireErr
}

type fakePhoneVerificationsRepo struct {
	createErr error
	created   *models.PhoneVerification

	getOut *models.PhoneVerification
	getErr error

	incrementOut   int
	incrementErr   error
	incrementCalls int

	markErr   error
	markCalls int

	expireErr   error
	expireCalls int
}

func (f *fakePhoneVerificationsRepo) Create(ctx context.Context, v *models.PhoneVerification) (*models.PhoneVerification, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = v
	return v, nil
}

func (f *fakePhoneVerificationsRepo) GetPendingForUpdate(ctx context.Context, accountID int64) (*models.PhoneVerification, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakePhoneVerificationsRepo) IncrementAttempts(ctx context.Context, id int64) (int, error) {
	f.incrementCalls++
	return f.incrementOut, f.incrementErr
}

func (f *fakePhoneVerificationsRepo) MarkVerified(ctx context.Context, id int64) error {
	f.markCalls++
	return f.markErr
}

func (f *fakePhoneVerificationsRepo) ExpirePending(ctx context.Context, accountID int64, now time.Time) error {
	f.expireCalls++
	return f.expireErr
}

type fakePasswordResetsRepo struct {
	createErr error
	created   *models.PasswordReset

	getOut *models.PasswordReset
	getErr error

	markErr   error
	markCalls int

	expireErr   error
	expireCalls int
}

func (f *fakePasswordResetsRepo) Create(ctx context.Context, r *models.PasswordReset) (*models.PasswordReset, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = r
	return r, nil
}

func (f *fakePasswordResetsRepo) GetByTokenForUpdate(ctx context.Context, token string) (*models.PasswordReset, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakePasswordResetsRepo) MarkUsed(ctx context.Context, id int64) error {
	f.markCalls++
	return f.markErr
}

func (f *fakePasswordResetsRepo) ExpirePending(ctx context.Context, accountID int64, now time.Time) error {
	f.expireCalls++
	return f.expireErr
}

type fakeRepoManager struct {
	a  *fakeAccountsRepo
	c  *fakeCredentialsRepo
	ev *fakeEmailVerificationsRepo
	pv *fakePhoneVerificationsRepo
	pr *fakePasswordResetsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *fakeRepoManager) Accounts(db dbx.DBTX) accountsrepo.Repository { return m.a }

func (m *fakeRepoManager) Credentials(db dbx.DBTX) credentialsrepo.Repository { return m.c }

func (m *fakeRepoManager) EmailVerifications(db dbx.DBTX) emailrepo.Repository { return m.ev }

func (m *fakeRepoManager) PhoneVerifications(db dbx.DBTX) phonerepo.Repository { return m.pv }

func (m *fakeRepoManager) PasswordResets(db dbx.DBTX) resetsrepo.Repository { return m.pr }

var _ repomanager.RepositoryManager = (*fakeRepoManager)(nil)

// --- notification fake ---

type fakeSender struct {
	emailTo    string
	emailToken string
	resetTo    string
	resetToken string
	phone      string
	carrier    string
	code       string

	emailCalls int
	resetCalls int
	phoneCalls int

	err error
}

func (f *fakeSender) SendEmailVerification(ctx context.Context, to string, token string) error {
	f.emailCalls++
	f.emailTo = to
	f.emailToken = token
	return f.err
}

func (f *fakeSender) SendPasswordReset(ctx context.Context, to string, token string) error {
	f.resetCalls++
	f.resetTo = to
	f.resetToken = token
	return f.err
}

func (f *fakeSender) SendPhoneCode(ctx context.Context, phone string, carrier string, code string) error {
	f.phoneCalls++
	f.phone = phone
	f.carrier = carrier
	f.code = code
	return f.err
}
