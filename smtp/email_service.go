package smtp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prior-it/crud/config"
	"github.com/prior-it/crud/core"
	"gopkg.in/gomail.v2"
)

// Sender delivers a composed message, *gomail.Dialer is the default implementation.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailService struct {
	from          string
	d             Sender
	notifications core.EmailAddress
	logger        *slog.Logger
}

// Force struct to implement the core interface
var _ core.EmailService = &EmailService{}

func NewEmailService(cfg config.EmailConfig, logger *slog.Logger) (*EmailService, error) {
	d := gomail.NewDialer(
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
	)
	return newEmailService(cfg, d, logger)
}

// NewEmailServiceWithSender creates an e-mail service that hands its messages to the specified sender
// instead of an smtp server.
func NewEmailServiceWithSender(
	cfg config.EmailConfig,
	sender Sender,
	logger *slog.Logger,
) (*EmailService, error) {
	return newEmailService(cfg, sender, logger)
}

func newEmailService(cfg config.EmailConfig, d Sender, logger *slog.Logger) (*EmailService, error) {
	s := EmailService{
		from:   cfg.From,
		d:      d,
		logger: logger,
	}

	address, err := core.ParseEmailAddress(cfg.Notifications)
	switch {
	case errors.Is(err, core.ErrEmailAddressEmpty):
		logger.Info("Notification e-mail address empty, notifications will not be sent")
	case err != nil:
		return nil, err
	default:
		s.notifications = address
	}

	return &s, nil
}

// SendEmail will build and send a plaintext e-mail message.
// This will open a new server connection and immediately close it after sending the e-mail.
func (s *EmailService) SendEmail(
	ctx context.Context,
	address core.EmailAddress,
	subject string,
	plaintextMessage string,
) error {
	m := gomail.NewMessage()

	m.SetHeader("From", s.from)
	m.SetHeader("To", address.String())
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plaintextMessage)

	return s.send(ctx, m)
}

// SendNotification will send a specific plain-text notification to the configured notification
// address.
func (s *EmailService) SendNotification(
	ctx context.Context,
	subject string,
	message string,
	args ...any,
) error {
	if s.notifications == nil {
		return core.ErrEmailAddressEmpty
	}
	return s.SendEmail(
		ctx,
		s.notifications,
		subject,
		fmt.Sprintf(message, args...),
	)
}

// SendRawMessage will send a raw gomail message using the existing smtp configuration.
// Note that this overrides the "From" header to use the configured value.
// This will open a new server connection and immediately close it after sending the e-mail.
func (s *EmailService) SendRawMessage(
	ctx context.Context,
	message *gomail.Message,
) error {
	message.SetHeader("From", s.from)
	return s.send(ctx, message)
}

func (s *EmailService) send(ctx context.Context, m *gomail.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.d.DialAndSend(m); err != nil {
		return fmt.Errorf("cannot send e-mail %q: %w", m.GetHeader("Subject"), err)
	}
	s.logger.Debug("E-mail sent", "to", m.GetHeader("To"), "subject", m.GetHeader("Subject"))
	return nil
}
