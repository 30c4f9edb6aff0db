package interests

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/havenfurnitures/storefront-api/internal/catalog"
	"github.com/havenfurnitures/storefront-api/pkg/db/models"
	"github.com/havenfurnitures/storefront-api/pkg/logger"
	"github.com/havenfurnitures/storefront-api/pkg/mailer"
	"github.com/havenfurnitures/storefront-api/pkg/metrics"
)

const (
	kindBusinessInquiry      = "interest_business"
	kindCustomerConfirmation = "interest_confirmation"

	notifyTimeout = 15 * time.Second
)

// Notifier delivers the emails that follow a stored interest.
type Notifier interface {
	Notify(ctx context.Context, interest *models.Interest, product *catalog.ProductDTO)
}

// MailNotifier emails the business inbox and the customer. Delivery is best
// effort: every failure is logged and counted, none is returned.
type MailNotifier struct {
	sender   mailer.Sender
	business mailer.Business
	metrics  *metrics.NotificationMetrics
	logg     *logger.Logger
}

func NewMailNotifier(sender mailer.Sender, business mailer.Business, m *metrics.NotificationMetrics, logg *logger.Logger) *MailNotifier {
	if logg == nil {
		logg = logger.Nop()
	}
	return &MailNotifier{sender: sender, business: business, metrics: m, logg: logg}
}

// Notify runs detached from the request's cancellation so a client hanging up
// after the interest is stored does not abort delivery.
func (n *MailNotifier) Notify(ctx context.Context, interest *models.Interest, product *catalog.ProductDTO) {
	if n == nil || n.sender == nil || interest == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	ctx = n.logg.WithCustomer(n.logg.WithField(ctx, "interest_id", interest.ID.String()), interest.Email)

	inquiry := mailer.Inquiry{
		Name:        interest.Name,
		Email:       interest.Email,
		Phone:       interest.Phone,
		Message:     interest.Message,
		ProductName: interest.ProductName,
	}
	if product != nil {
		inquiry.Category = product.Category.String()
		inquiry.Price = decimal.NewFromFloat(product.Price).StringFixed(2)
	}

	if n.business.Email == "" {
		n.metrics.Record(kindBusinessInquiry, metrics.OutcomeSkipped)
		n.logg.Warn(ctx, "business email not configured; skipping inquiry notification")
	} else {
		n.deliver(ctx, kindBusinessInquiry, func() (mailer.Message, error) {
			return mailer.CustomerInquiry(n.business, inquiry)
		})
	}
	n.deliver(ctx, kindCustomerConfirmation, func() (mailer.Message, error) {
		return mailer.CustomerConfirmation(n.business, inquiry)
	})
}

func (n *MailNotifier) deliver(ctx context.Context, kind string, build func() (mailer.Message, error)) {
	ctx = n.logg.WithField(ctx, "notification", kind)

	msg, err := build()
	if err != nil {
		n.metrics.Record(kind, metrics.OutcomeFailed)
		n.logg.Error(ctx, "render notification", err)
		return
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		if errors.Is(err, mailer.ErrDisabled) {
			n.metrics.Record(kind, metrics.OutcomeSkipped)
			n.logg.Debug(ctx, "mail delivery disabled; notification skipped")
			return
		}
		n.metrics.Record(kind, metrics.OutcomeFailed)
		n.logg.Error(ctx, "send notification", err)
		return
	}
	n.metrics.Record(kind, metrics.OutcomeSent)
}
