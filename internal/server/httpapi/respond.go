package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/olegkurtov/accesshub/internal/common"
)

// result is the uniform response envelope.
type result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(result{Success: true, Data: data})
}

// writeError maps a service error to a status code without leaking
// internals. Unknown errors become a generic 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "something went wrong"

	switch {
	case errors.Is(err, common.ErrInvalidInput):
		status, message = http.StatusBadRequest, "invalid input"
	case errors.Is(err, common.ErrUnauthenticated),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrTokenMalformed):
		status, message = http.StatusUnauthorized, "authentication required"
	case errors.Is(err, common.ErrInvalidCredentials):
		status, message = http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, common.ErrAccountSuspended):
		status, message = http.StatusForbidden, "account suspended"
	case errors.Is(err, common.ErrAccountLocked):
		status, message = http.StatusForbidden, "account locked"
	case errors.Is(err, common.ErrForbidden):
		status, message = http.StatusForbidden, "forbidden"
	case errors.Is(err, common.ErrorNotFound):
		status, message = http.StatusNotFound, "not found"
	case errors.Is(err, common.ErrorConflict):
		status, message = http.StatusConflict, "already exists"
	case errors.Is(err, common.ErrExpired):
		status, message = http.StatusGone, "expired"
	case errors.Is(err, common.ErrAlreadyVerified):
		status, message = http.StatusConflict, "already verified"
	case errors.Is(err, common.ErrAttemptsExhausted):
		status, message = http.StatusTooManyRequests, "verification attempts exhausted"
	case errors.Is(err, common.ErrIncorrectCode):
		status, message = http.StatusBadRequest, "incorrect code"
	case errors.Is(err, common.ErrorTransient):
		status, message = http.StatusServiceUnavailable, "temporary failure, retry later"
	default:
		s.logger.Error(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(result{Success: false, Message: message})
}

// decode unmarshals and validates a request body.
func (s *Server) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return common.ErrInvalidInput
	}
	if err := s.validate.Struct(dst); err != nil {
		return common.ErrInvalidInput
	}
	return nil
}
