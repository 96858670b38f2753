// Package notify delivers verification emails and SMS codes to account
// holders. SMS delivery goes through carrier email-to-SMS gateways, so
// both channels ride on the same SMTP connection.
package notify

import "context"

// Sender delivers out-of-band verification messages. Delivery failures
// are reported to the caller but must not abort the operation that
// produced the token or code.
type Sender interface {
	SendEmailVerification(ctx context.Context, to string, token string) error
	SendPasswordReset(ctx context.Context, to string, token string) error
	SendPhoneCode(ctx context.Context, phone string, carrier string, code string) error
}
