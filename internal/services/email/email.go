// Copyright 2025 TaxiUNN
// Licensed under the EUPL-1.2

// Package email delivers verification codes over SMTP.
package email

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/taxiunn/interactions/internal/config"
)

// Mailer sends verification codes to staff members.
type Mailer interface {
	SendVerificationCode(ctx context.Context, to, code string) error
}

// Service sends email via SMTP using go-mail.
type Service struct {
	cfg *config.SMTPConfig
}

var _ Mailer = (*Service)(nil)

// NewService creates a new email service.
func NewService(cfg *config.SMTPConfig) (*Service, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("SMTP from address is required")
	}

	return &Service{cfg: cfg}, nil
}

// SendVerificationCode sends the verification code email.
func (s *Service) SendVerificationCode(ctx context.Context, to, code string) error {
	subject := "TaxiUNN Verification Code"
	body := fmt.Sprintf("Your verification code is %s", code)

	return s.send(ctx, to, subject, body)
}

func (s *Service) send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()

	if s.cfg.FromName != "" {
		if err := msg.FromFormat(s.cfg.FromName, s.cfg.From); err != nil {
			return fmt.Errorf("setting from address: %w", err)
		}
	} else {
		if err := msg.From(s.cfg.From); err != nil {
			return fmt.Errorf("setting from address: %w", err)
		}
	}

	if err := msg.To(to); err != nil {
		return fmt.Errorf("setting to address: %w", err)
	}

	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
	}

	// Implicit TLS (SSL) for port 465, STARTTLS otherwise
	if s.cfg.TLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
		if s.cfg.Port == 465 {
			opts = append(opts, mail.WithSSL())
		}
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	if s.cfg.Username != "" && s.cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}

	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("creating mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	return nil
}
