package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/olegkurtov/accesshub/internal/common"
	"github.com/olegkurtov/accesshub/internal/server/models"
	"github.com/olegkurtov/accesshub/internal/server/services"
)

type registerRequest struct {
	FirstName string  `json:"first_name" validate:"required,max=100"`
	LastName  string  `json:"last_name" validate:"required,max=100"`
	Username  string  `json:"username" validate:"required,min=3,max=50"`
	Email     string  `json:"email" validate:"required,email"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,e164"`
	Password  string  `json:"password" validate:"required,min=8"`
}

type accountResponse struct {
	ID            int64   `json:"id"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	Username      string  `json:"username"`
	Email         string  `json:"email"`
	EmailVerified bool    `json:"email_verified"`
	Phone         *string `json:"phone,omitempty"`
	PhoneVerified bool    `json:"phone_verified"`
	Role          int     `json:"role"`
	Status        string  `json:"status"`
}

func toAccountResponse(a *models.Account) *accountResponse {
	return &accountResponse{
		ID:            a.ID,
		FirstName:     a.FirstName,
		LastName:      a.LastName,
		Username:      a.Username,
		Email:         a.Email,
		EmailVerified: a.EmailVerified,
		Phone:         a.Phone,
		PhoneVerified: a.PhoneVerified,
		Role:          int(a.Role),
		Status:        string(a.Status),
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	account, err := s.auth.Register(r.Context(), &services.RegisterParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toAccountResponse(account))
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token   string           `json:"token"`
	Account *accountResponse `json:"account"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	token, account, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, &loginResponse{Token: token, Account: toAccountResponse(account)})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	claims := claimsFromContext(r.Context())
	if err := s.auth.ChangePassword(r.Context(), claims.AccountID, req.CurrentPassword, req.NewPassword); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nil)
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (s *Server) handleRequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.auth.RequestPasswordReset(r.Context(), req.Email); err != nil {
		s.writeError(w, r, err)
		return
	}
	// the response must not reveal whether the email exists
	s.writeJSON(w, http.StatusAccepted, nil)
}

type resetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.auth.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nil)
}

func (s *Server) handleSendEmailVerification(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if err := s.verification.SendEmailVerification(r.Context(), claims.AccountID); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusAccepted, nil)
}

type confirmEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

func (s *Server) handleConfirmEmail(w http.ResponseWriter, r *http.Request) {
	var req confirmEmailRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.verification.ConfirmEmail(r.Context(), req.Token); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nil)
}

type sendPhoneCodeRequest struct {
	Phone   string `json:"phone" validate:"required,e164"`
	Carrier string `json:"carrier" validate:"required"`
}

func (s *Server) handleSendPhoneCode(w http.ResponseWriter, r *http.Request) {
	var req sendPhoneCodeRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	claims := claimsFromContext(r.Context())
	if err := s.verification.SendPhoneCode(r.Context(), claims.AccountID, req.Phone, req.Carrier); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusAccepted, nil)
}

type verifyPhoneCodeRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

func (s *Server) handleVerifyPhoneCode(w http.ResponseWriter, r *http.Request) {
	var req verifyPhoneCodeRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	claims := claimsFromContext(r.Context())
	if err := s.verification.VerifyPhoneCode(r.Context(), claims.AccountID, req.Code); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nil)
}

func targetID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, common.ErrInvalidInput
	}
	return id, nil
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	id, err := targetID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	account, err := s.accounts.GetAccount(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toAccountResponse(account))
}

type updateRoleRequest struct {
	Role int `json:"role" validate:"required"`
}

func (s *Server) handleUpdateRole(w http.ResponseWriter, r *http.Request) {
	id, err := targetID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req updateRoleRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	claims := claimsFromContext(r.Context())
	if err := s.accounts.UpdateRole(r.Context(), claims, id, models.Role(req.Role)); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nil)
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := targetID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req updateStatusRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	claims := claimsFromContext(r.Context())
	if err := s.accounts.UpdateStatus(r.Context(), claims, id, models.Status(req.Status)); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nil)
}

type adminResetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

func (s *Server) handleAdminResetPassword(w http.ResponseWriter, r *http.Request) {
	id, err := targetID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req adminResetPasswordRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	claims := claimsFromContext(r.Context())
	if err := s.accounts.ResetAccountPassword(r.Context(), claims, id, req.NewPassword); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nil)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := targetID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	claims := claimsFromContext(r.Context())
	if err := s.accounts.DeleteAccount(r.Context(), claims, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, nil)
}
