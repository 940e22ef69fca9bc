package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the RSVP counters. A nil *Metrics records nothing.
type Metrics struct {
	registry     *prometheus.Registry
	resolutions  *prometheus.CounterVec
	submissions  *prometheus.CounterVec
	declarations prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rsvp_resolutions_total",
			Help: "RSVP token resolutions by outcome.",
		}, []string{"outcome"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rsvp_submissions_total",
			Help: "RSVP submissions by outcome.",
		}, []string{"outcome"}),
		declarations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rsvp_declarations_recorded_total",
			Help: "Attendance declarations committed.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.resolutions,
		m.submissions,
		m.declarations,
	)
	return m
}

func (m *Metrics) Resolution(outcome string) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Submission(outcome string, declarations int) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
	if declarations > 0 {
		m.declarations.Add(float64(declarations))
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
