package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/havenfurnitures/storefront-api/pkg/config"
)

// ErrDisabled is returned by the sender used when no SMTP relay is configured.
var ErrDisabled = errors.New("mail delivery is not configured")

// Message is a rendered email ready for delivery.
type Message struct {
	To      []string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers rendered messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// New returns an SMTP sender, or a disabled sender when no host is set.
func New(cfg config.SMTPConfig) Sender {
	if !cfg.Enabled() {
		return disabledSender{}
	}
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// SMTPSender relays mail through a gomail dialer.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// Send dials the relay and delivers msg. The dial itself is not cancellable,
// so ctx only bounds how long the caller waits.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m, err := s.build(msg)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- s.dialer.DialAndSend(m) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send %q: %w", msg.Subject, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *SMTPSender) build(msg Message) (*gomail.Message, error) {
	recipients := make([]string, 0, len(msg.To))
	for _, to := range msg.To {
		if to = strings.TrimSpace(to); to != "" {
			recipients = append(recipients, to)
		}
	}
	if len(recipients) == 0 {
		return nil, errors.New("message has no recipients")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", recipients...)
	if msg.ReplyTo != "" {
		m.SetHeader("Reply-To", msg.ReplyTo)
	}
	m.SetHeader("Subject", msg.Subject)
	switch {
	case msg.Text != "" && msg.HTML != "":
		m.SetBody("text/plain", msg.Text)
		m.AddAlternative("text/html", msg.HTML)
	case msg.HTML != "":
		m.SetBody("text/html", msg.HTML)
	default:
		m.SetBody("text/plain", msg.Text)
	}
	return m, nil
}

type disabledSender struct{}

func (disabledSender) Send(context.Context, Message) error {
	return ErrDisabled
}
