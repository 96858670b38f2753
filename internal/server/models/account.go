// Package models defines server-side data models persisted in the database.
package models

import "time"

// Status is the lifecycle state of an account. Accounts are never physically
// deleted; StatusDeleted keeps the row for audit and uniqueness purposes.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusLocked    Status = "locked"
	StatusDeleted   Status = "deleted"
)

// Account is the identity record. Username, email, and phone (when present)
// are globally unique; Role is always within [RoleUser, RoleOwner].
type Account struct {
	ID            int64
	FirstName     string
	LastName      string
	Username      string
	Email         string
	EmailVerified bool
	Phone         *string
	PhoneVerified bool
	Role          Role
	Status        Status
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Credential holds the password material for exactly one account. It is
// replaced wholesale on password change; the digest is never patched
// independently of its salt.
type Credential struct {
	AccountID int64
	Salt      []byte
	Digest    []byte
	UpdatedAt time.Time
}
