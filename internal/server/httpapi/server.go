// Package httpapi is the thin HTTP layer over the services. It decodes and
// validates request bodies, attaches claims from bearer tokens, and maps
// service errors to status codes. No business rules live here.
package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/olegkurtov/accesshub/internal/logging"
	"github.com/olegkurtov/accesshub/internal/server/auth"
	"github.com/olegkurtov/accesshub/internal/server/models"
	"github.com/olegkurtov/accesshub/internal/server/services"
)

// AuthProvider is the slice of AuthService the transport needs.
type AuthProvider interface {
	Register(ctx context.Context, params *services.RegisterParams) (*models.Account, error)
	Login(ctx context.Context, email, password string) (string, *models.Account, error)
	ChangePassword(ctx context.Context, accountID int64, current, newPassword string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// VerificationProvider is the slice of VerificationService the transport needs.
type VerificationProvider interface {
	SendEmailVerification(ctx context.Context, accountID int64) error
	ConfirmEmail(ctx context.Context, token string) error
	SendPhoneCode(ctx context.Context, accountID int64, phone, carrier string) error
	VerifyPhoneCode(ctx context.Context, accountID int64, code string) error
}

// AccountProvider is the slice of AccountService the transport needs.
type AccountProvider interface {
	GetAccount(ctx context.Context, id int64) (*models.Account, error)
	UpdateRole(ctx context.Context, actor *auth.Claims, targetID int64, role models.Role) error
	UpdateStatus(ctx context.Context, actor *auth.Claims, targetID int64, status models.Status) error
	ResetAccountPassword(ctx context.Context, actor *auth.Claims, targetID int64, newPassword string) error
	DeleteAccount(ctx context.Context, actor *auth.Claims, targetID int64) error
}

// Server holds the route handlers and their collaborators.
type Server struct {
	auth         AuthProvider
	verification VerificationProvider
	accounts     AccountProvider
	issuer       *auth.Issuer
	validate     *validator.Validate
	logger       logging.Logger
}

// NewServer constructs the HTTP layer.
func NewServer(a AuthProvider, v VerificationProvider, acc AccountProvider, issuer *auth.Issuer, logger logging.Logger) *Server {
	return &Server{
		auth:         a,
		verification: v,
		accounts:     acc,
		issuer:       issuer,
		validate:     validator.New(),
		logger:       logger,
	}
}

// Router builds the route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/password/forgot", s.handleRequestPasswordReset)
		r.Post("/auth/password/reset", s.handleResetPassword)
		r.Post("/verify/email/confirm", s.handleConfirmEmail)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Post("/auth/password/change", s.handleChangePassword)
			r.Post("/verify/email/send", s.handleSendEmailVerification)
			r.Post("/verify/phone/send", s.handleSendPhoneCode)
			r.Post("/verify/phone/check", s.handleVerifyPhoneCode)

			r.Route("/admin/accounts/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetAccount)
				r.Put("/role", s.handleUpdateRole)
				r.Put("/status", s.handleUpdateStatus)
				r.Post("/password", s.handleAdminResetPassword)
				r.Delete("/", s.handleDeleteAccount)
			})
		})
	})

	return r
}
