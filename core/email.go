package core

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"gopkg.in/gomail.v2"
)

var (
	ErrInvalidEmailAddress = errors.New("invalid e-mail address")
	ErrEmailAddressEmpty   = errors.New("e-mail address is empty")
)

type EmailAddress interface {
	// String returns the string representation for this e-mail address
	String() string
}

type emailAddress struct {
	address string
}

func (email emailAddress) String() string {
	return email.address
}

// ParseEmailAddress parses an e-mail address from any string.
// This uses RFC-5322 to determine valid e-mail addresses, e.g. "Biggie Smalls <notorious@example.com>"
// Addresses are lowercased, only the address part is kept.
func ParseEmailAddress(address string) (EmailAddress, error) {
	if len(address) == 0 {
		return nil, errors.Join(ErrInvalidEmailAddress, ErrEmailAddressEmpty)
	}
	address = strings.ToLower(address)
	parsed, err := mail.ParseAddress(address)
	if err != nil {
		return nil, errors.Join(
			ErrInvalidEmailAddress,
			fmt.Errorf("cannot parse e-mail address %q: %w", address, err),
		)
	}
	return emailAddress{parsed.Address}, nil
}

type EmailService interface {
	// SendEmail will build and send a plaintext e-mail message.
	SendEmail(
		ctx context.Context,
		address EmailAddress,
		subject string,
		plaintextMessage string,
	) error

	// SendNotification will send a specific plain-text notification to the configured notification
	// address. If no notification address was configured, this returns ErrEmailAddressEmpty.
	SendNotification(
		ctx context.Context,
		subject string,
		message string,
		args ...any,
	) error

	// SendRawMessage will send a raw gomail message using the existing configuration.
	SendRawMessage(ctx context.Context, message *gomail.Message) error
}
