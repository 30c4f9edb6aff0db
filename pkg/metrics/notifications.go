package metrics

import "github.com/prometheus/client_golang/prometheus"

// Notification outcomes.
const (
	OutcomeSent    = "sent"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
)

// NotificationMetrics counts outbound email attempts by kind and outcome.
type NotificationMetrics struct {
	outcomes *prometheus.CounterVec
}

// NewNotificationMetrics registers the notification counter on reg.
func NewNotificationMetrics(reg prometheus.Registerer) *NotificationMetrics {
	if reg == nil {
		return &NotificationMetrics{}
	}
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "haven",
		Name:      "notifications_total",
		Help:      "Outbound notifications by kind and outcome.",
	}, []string{"kind", "outcome"})
	reg.MustRegister(outcomes)
	return &NotificationMetrics{outcomes: outcomes}
}

// Record increments the counter for kind/outcome.
func (n *NotificationMetrics) Record(kind, outcome string) {
	if n == nil || n.outcomes == nil {
		return
	}
	n.outcomes.WithLabelValues(normalizeLabel(kind), normalizeLabel(outcome)).Inc()
}
