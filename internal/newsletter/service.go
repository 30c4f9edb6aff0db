package newsletter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pkgerrors "github.com/havenfurnitures/storefront-api/pkg/errors"
	"github.com/havenfurnitures/storefront-api/pkg/logger"
	"github.com/havenfurnitures/storefront-api/pkg/mailer"
	"github.com/havenfurnitures/storefront-api/pkg/metrics"
	"github.com/havenfurnitures/storefront-api/pkg/validate"
)

const (
	kindSubscriber = "newsletter_subscriber"
	kindWelcome    = "newsletter_welcome"
)

// Service captures newsletter sign-ups. Nothing is stored; delivering the two
// emails is the whole operation, so delivery failures are returned.
type Service interface {
	Subscribe(ctx context.Context, email string) error
}

type service struct {
	sender   mailer.Sender
	business mailer.Business
	metrics  *metrics.NotificationMetrics
	logg     *logger.Logger
}

func NewService(sender mailer.Sender, business mailer.Business, m *metrics.NotificationMetrics, logg *logger.Logger) (Service, error) {
	if sender == nil {
		return nil, fmt.Errorf("mail sender required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{sender: sender, business: business, metrics: m, logg: logg}, nil
}

func (s *service) Subscribe(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return pkgerrors.Validation("Email is required", map[string]string{"email": "is required"})
	}
	if !validate.IsEmail(email) {
		return pkgerrors.Validation("Valid email is required", map[string]string{"email": "must be a valid email"})
	}
	ctx = s.logg.WithCustomer(ctx, email)

	if s.business.Email != "" {
		notice, err := mailer.NewsletterSubscriber(s.business, email)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render subscriber notice")
		}
		if err := s.send(ctx, kindSubscriber, notice); err != nil {
			return err
		}
	}

	welcome, err := mailer.NewsletterWelcome(s.business, email)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render welcome email")
	}
	return s.send(ctx, kindWelcome, welcome)
}

func (s *service) send(ctx context.Context, kind string, msg mailer.Message) error {
	if err := s.sender.Send(ctx, msg); err != nil {
		if errors.Is(err, mailer.ErrDisabled) {
			s.metrics.Record(kind, metrics.OutcomeSkipped)
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "newsletter delivery is not configured")
		}
		s.metrics.Record(kind, metrics.OutcomeFailed)
		s.logg.Error(s.logg.WithField(ctx, "notification", kind), "send newsletter email", err)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Failed to subscribe to newsletter")
	}
	s.metrics.Record(kind, metrics.OutcomeSent)
	return nil
}
