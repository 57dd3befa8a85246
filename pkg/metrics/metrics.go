package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	AppointmentsCreated *prometheus.CounterVec
	AppointmentActions  *prometheus.CounterVec
	PaymentsReconciled  *prometheus.CounterVec
	WebhooksReceived    prometheus.Counter
	UploadsTotal        *prometheus.CounterVec
	ExternalCallLatency *prometheus.HistogramVec
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		AppointmentsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointments_created_total",
			Help:      "Total number of appointments created",
		}, []string{"recurring"}),
		AppointmentActions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointment_actions_total",
			Help:      "Total number of appointment status actions",
		}, []string{"action"}),
		PaymentsReconciled: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_reconciled_total",
			Help:      "Total number of payment notifications reconciled",
		}, []string{"status"}),
		WebhooksReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_webhooks_received_total",
			Help:      "Total number of payment provider notifications received",
		}),
		UploadsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "media_uploads_total",
			Help:      "Total number of media store uploads",
		}, []string{"status"}),
		ExternalCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "external_call_duration_seconds",
			Help:      "Duration of outbound calls to external services",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"service"}),
	}
}
