package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the notification pipeline metrics
type Metrics struct {
	NotificationsDelivered  *prometheus.CounterVec
	NotificationsSuppressed *prometheus.CounterVec
	DeliveryFailures        *prometheus.CounterVec
	DeliveryLatency         *prometheus.HistogramVec
	FeedQueries             *prometheus.CounterVec
	RetentionDeleted        *prometheus.CounterVec
}

// NewMetrics creates and registers all notification metrics
func NewMetrics(namespace, subsystem string) *Metrics {
	return &Metrics{
		NotificationsDelivered: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "delivered_total",
			Help:      "Total number of notification rows persisted",
		}, []string{"family"}),
		NotificationsSuppressed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "suppressed_total",
			Help:      "Total number of events that produced no notification",
		}, []string{"reason"}),
		DeliveryFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "delivery_failures_total",
			Help:      "Total number of failed notification writes",
		}, []string{"family"}),
		DeliveryLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "delivery_duration_seconds",
			Help:      "Time spent delivering one event to all recipients",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"family"}),
		FeedQueries: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "feed_queries_total",
			Help:      "Total number of notification feed queries",
		}, []string{"role"}),
		RetentionDeleted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "retention_deleted_total",
			Help:      "Total number of notification rows removed by retention",
		}, []string{"family"}),
	}
}
