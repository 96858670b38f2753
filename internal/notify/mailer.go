package notify

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/olegkurtov/accesshub/internal/common"
)

// carrierGateways maps a carrier name to its email-to-SMS gateway domain.
// A message sent to <number>@<gateway> arrives as a text message.
var carrierGateways = map[string]string{
	"att":     "txt.att.net",
	"tmobile": "tmomail.net",
	"verizon": "vtext.com",
	"sprint":  "messaging.sprintpcs.com",
}

// dialer is the part of gomail.Dialer the Mailer uses.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mailer sends verification messages over SMTP.
type Mailer struct {
	dialer dialer
	from   string
}

// NewMailer returns a Mailer that talks to the given SMTP server.
func NewMailer(host string, port int, username, password, from string) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// SendEmailVerification mails a confirmation link token to the address.
func (m *Mailer) SendEmailVerification(_ context.Context, to string, token string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Confirm your email address")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Please confirm your email address using the following token:\n\n%s\n\nThe token expires in 48 hours.", token))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("sending verification email: %w", err)
	}
	return nil
}

// SendPasswordReset mails a password reset token to the address.
func (m *Mailer) SendPasswordReset(_ context.Context, to string, token string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Password reset request")
	msg.SetBody("text/plain", fmt.Sprintf(
		"A password reset was requested for your account. Use the following token:\n\n%s\n\nThe token expires in 1 hour. If you did not request this, ignore this message.", token))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("sending password reset email: %w", err)
	}
	return nil
}

// SendPhoneCode delivers a verification code to a phone number through
// the carrier's email-to-SMS gateway. The number is stripped of
// non-digit characters before addressing.
func (m *Mailer) SendPhoneCode(_ context.Context, phone string, carrier string, code string) error {
	gateway, ok := carrierGateways[strings.ToLower(carrier)]
	if !ok {
		return fmt.Errorf("unknown carrier %q: %w", carrier, common.ErrInvalidInput)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", fmt.Sprintf("%s@%s", digitsOnly(phone), gateway))
	msg.SetBody("text/plain", fmt.Sprintf("Your verification code is %s. It expires in 15 minutes.", code))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("sending phone code: %w", err)
	}
	return nil
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
