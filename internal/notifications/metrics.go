package notifications

import (
	"time"

	"github.com/bissquit/statusdash/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "statusdash"

// Delivery outcomes.
const (
	outcomeSuccess = "success"
	outcomeRetry   = "retry"
	outcomeFailed  = "failed"
)

var (
	deliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "sent_total",
			Help:      "Webhook delivery attempts by outcome",
		},
		[]string{"status"},
	)

	deliveryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "send_duration_seconds",
			Help:      "Duration of a single webhook post",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)

	changesNotified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifications",
			Name:      "status_changes_total",
			Help:      "Service status changes announced, by new status",
		},
		[]string{"new_status"},
	)
)

func recordDelivery(outcome string, took time.Duration) {
	deliveries.WithLabelValues(outcome).Inc()
	if took > 0 {
		deliveryDuration.Observe(took.Seconds())
	}
}

func recordChange(status domain.ServiceStatus) {
	changesNotified.WithLabelValues(string(status)).Inc()
}
