package models

import "time"

// EmailVerification is a single-use email confirmation token. Rows are never
// deleted; superseded tokens are expired in place and consumed tokens keep
// their Verified flag as an audit trail.
type EmailVerification struct {
	ID        int64
	AccountID int64
	Email     string
	Token     string
	Verified  bool
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the token is past its expiry at the given instant.
func (v *EmailVerification) Expired(now time.Time) bool {
	return now.After(v.ExpiresAt)
}

// PhoneVerification is a pending SMS code. Attempts counts failed verify
// calls; once it reaches the ceiling the code is permanently rejected,
// regardless of expiry.
type PhoneVerification struct {
	ID        int64
	AccountID int64
	Phone     string
	Code      string
	Attempts  int
	Verified  bool
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the code is past its expiry at the given instant.
func (v *PhoneVerification) Expired(now time.Time) bool {
	return now.After(v.ExpiresAt)
}

// PasswordReset is a single-use password reset token. At most one unused,
// unexpired token per account is live at a time.
type PasswordReset struct {
	ID        int64
	AccountID int64
	Email     string
	Token     string
	Used      bool
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the token is past its expiry at the given instant.
func (r *PasswordReset) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}
