package history

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "statusdash"

var (
	pollsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "polls_total",
			Help:      "Total upstream service polls by result",
		},
		[]string{"result"},
	)

	changesRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "changes_recorded_total",
			Help:      "Total service status changes recorded by new status",
		},
		[]string{"status"},
	)

	trackedServices = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "tracked_services",
			Help:      "Number of services whose status is tracked",
		},
	)
)

func recordPoll(result string) {
	pollsTotal.WithLabelValues(result).Inc()
}

func recordChange(status string) {
	changesRecorded.WithLabelValues(status).Inc()
}
