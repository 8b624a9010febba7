package metrics

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/idadental/registration/pkg/notifications"
	"github.com/idadental/registration/pkg/registration"
)

const namespace = "ida"

// Metrics holds Prometheus collectors for the registration flow.
type Metrics struct {
	Submissions    *prometheus.CounterVec
	InFlight       prometheus.Gauge
	SubmitDuration *prometheus.HistogramVec
	Logins         *prometheus.CounterVec
	FormsActive    prometheus.Gauge
	Toasts         *prometheus.CounterVec
}

// NewRegistry returns a registry with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// New registers and returns registration collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registration_submissions_total",
			Help:      "Registration submissions by outcome and authentication method",
		}, []string{"outcome", "method"}),
		InFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registration_submissions_in_flight",
			Help:      "Submissions currently waiting on persistence",
		}),
		SubmitDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "registration_submit_duration_seconds",
			Help:      "Time from submit to outcome",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"method"}),
		Logins: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "identity_logins_total",
			Help:      "Login initiations by connection",
		}, []string{"connection"}),
		FormsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registration_forms_active",
			Help:      "Registration forms currently held by sessions",
		}),
		Toasts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_sent_total",
			Help:      "Toast notifications queued for sessions by type",
		}, []string{"type"}),
	}
}

// Handler exposes the collectors registered on g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// FormObserver returns a state observer for one form. It tracks the in-flight
// gauge, the outcome counter and the submit duration.
// The returned func is safe for concurrent use.
func (m *Metrics) FormObserver(method string) func(from, to registration.State) {
	var (
		mu      sync.Mutex
		started time.Time
	)
	return func(_, to registration.State) {
		mu.Lock()
		defer mu.Unlock()

		switch to {
		case registration.StateSubmitting:
			started = time.Now()
			m.InFlight.Inc()
		case registration.StateSucceeded, registration.StateFailed:
			m.InFlight.Dec()
			m.Submissions.WithLabelValues(string(to), method).Inc()
			if !started.IsZero() {
				m.SubmitDuration.WithLabelValues(method).Observe(time.Since(started).Seconds())
				started = time.Time{}
			}
		}
	}
}

// ToastDeliverer counts every notification the manager sends.
func (m *Metrics) ToastDeliverer() notifications.Deliverer {
	return notifications.DelivererFunc(func(_ context.Context, n notifications.Notification) error {
		m.Toasts.WithLabelValues(string(n.Type)).Inc()
		return nil
	})
}
