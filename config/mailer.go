package config

import (
	"crypto/tls"
	"errors"
	"fmt"

	mail "github.com/go-mail/mail/v2"
)

// ErrMailerNotConfigured is returned when SMTP_HOST or SMTP_FROM is missing.
var ErrMailerNotConfigured = errors.New("smtp not configured (SMTP_HOST/SMTP_FROM)")

// Mailer sends HTML e-mail.
type Mailer interface {
	Send(to []string, subject, html string) error
}

// SMTPMailer delivers mail over SMTP with mandatory STARTTLS.
type SMTPMailer struct {
	Host          string
	Port          int
	User          string
	Pass          string
	From          string // e.g. "Agency Back Office <no-reply@your.org>"
	SkipTLSVerify bool
}

// NewSMTPMailer builds a mailer from settings.
func NewSMTPMailer(s *Settings) *SMTPMailer {
	port := s.SMTPPort
	if port == 0 {
		port = 587
	}
	return &SMTPMailer{
		Host:          s.SMTPHost,
		Port:          port,
		User:          s.SMTPUser,
		Pass:          s.SMTPPass,
		From:          s.SMTPFrom,
		SkipTLSVerify: s.SMTPSkipTLSVerify,
	}
}

// Configured reports whether enough SMTP settings are present to send.
func (m *SMTPMailer) Configured() bool {
	return m != nil && m.Host != "" && m.From != ""
}

func (m *SMTPMailer) Send(to []string, subject, html string) error {
	if len(to) == 0 {
		return nil
	}
	if !m.Configured() {
		return ErrMailerNotConfigured
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", m.From)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)

	d := mail.NewDialer(m.Host, m.Port, m.User, m.Pass)
	d.StartTLSPolicy = mail.MandatoryStartTLS
	d.TLSConfig = &tls.Config{
		ServerName:         m.Host,
		InsecureSkipVerify: m.SkipTLSVerify, // dev only
	}

	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail %q: %w", subject, err)
	}
	return nil
}
