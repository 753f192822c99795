// Package metrics defines the Prometheus metrics exported by `sq watch`.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result label values.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics holds the watcher's collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	DueChecks      *prometheus.CounterVec
	RemindersFired prometheus.Counter
	Notifications  *prometheus.CounterVec
	Flushes        *prometheus.CounterVec
	FlushDuration  prometheus.Histogram
	LastFlush      prometheus.Gauge
	Resumes        prometheus.Counter
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		DueChecks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sidequest_due_checks_total",
				Help: "Reminder due-checks by result.",
			},
			[]string{"result"},
		),
		RemindersFired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sidequest_reminders_fired_total",
			Help: "Reminders fired by due-checks.",
		}),
		Notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sidequest_notifications_total",
				Help: "Notification deliveries by sink and result.",
			},
			[]string{"sink", "result"},
		),
		Flushes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sidequest_flushes_total",
				Help: "State flushes by result.",
			},
			[]string{"result"},
		),
		FlushDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sidequest_flush_duration_seconds",
			Help:    "Duration of state flushes.",
			Buckets: prometheus.DefBuckets,
		}),
		LastFlush: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sidequest_last_successful_flush_timestamp_seconds",
			Help: "Unix time of the last successful flush.",
		}),
		Resumes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sidequest_resumes_total",
			Help: "Resume events that triggered an immediate due-check.",
		}),
	}
	m.registry.MustRegister(
		m.DueChecks, m.RemindersFired, m.Notifications,
		m.Flushes, m.FlushDuration, m.LastFlush, m.Resumes,
	)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the collectors in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// ObserveFlush records one flush attempt.
func (m *Metrics) ObserveFlush(started time.Time, err error) {
	m.FlushDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		m.Flushes.WithLabelValues(ResultError).Inc()
		return
	}
	m.Flushes.WithLabelValues(ResultOK).Inc()
	m.LastFlush.SetToCurrentTime()
}

// ObserveDueCheck records one due-check and the reminders it fired.
func (m *Metrics) ObserveDueCheck(fired int, err error) {
	if err != nil {
		m.DueChecks.WithLabelValues(ResultError).Inc()
		return
	}
	m.DueChecks.WithLabelValues(ResultOK).Inc()
	m.RemindersFired.Add(float64(fired))
}

// ObserveNotification records one delivery attempt.
func (m *Metrics) ObserveNotification(sink string, err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.Notifications.WithLabelValues(sink, result).Inc()
}
