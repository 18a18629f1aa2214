package mailer

import (
	"context"
	"fmt"

	"yamdb/pkg/utils"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Sender delivers signup confirmation codes.
type Sender interface {
	SendConfirmationCode(ctx context.Context, to, username, code string) error
}

// New returns an SMTP sender, or a log-only sender when no SMTP host is configured.
func New(config utils.EmailConfig, log *zap.Logger) Sender {
	if config.Host == "" {
		log.Warn("SMTP_HOST not set, confirmation codes will be written to the log")
		return NewLogSender(log)
	}
	return NewSMTPSender(config, log)
}

type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
	log    *zap.Logger
}

func NewSMTPSender(config utils.EmailConfig, log *zap.Logger) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(config.Host, config.Port, config.User, config.Password),
		from:   config.From,
		log:    log.With(zap.String("component", "mailer")),
	}
}

func (s *SMTPSender) SendConfirmationCode(ctx context.Context, to, username, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := buildConfirmationMessage(s.from, to, username, code)
	if err := s.dialer.DialAndSend(m); err != nil {
		s.log.Error("Failed to send confirmation code", zap.Error(err), zap.String("to", to))
		return fmt.Errorf("send confirmation code to %s: %w", to, err)
	}

	s.log.Info("Confirmation code sent", zap.String("to", to))
	return nil
}

func buildConfirmationMessage(from, to, username, code string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "YaMDb confirmation code")
	m.SetBody("text/plain", fmt.Sprintf(
		"Hello, %s!\n\nYour confirmation code: %s\n\nExchange it for an access token at /api/v1/auth/token.\n",
		username, code))
	return m
}

// LogSender writes codes to the log instead of sending mail.
type LogSender struct {
	log *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{log: log.With(zap.String("component", "mailer"))}
}

func (s *LogSender) SendConfirmationCode(_ context.Context, to, username, code string) error {
	s.log.Info("Confirmation code",
		zap.String("to", to),
		zap.String("username", username),
		zap.String("code", code),
	)
	return nil
}
