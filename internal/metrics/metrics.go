// Package metrics exposes the site's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	ThemeChanges      *prometheus.CounterVec
	InvalidAccents    prometheus.Counter
	RevealTransitions *prometheus.CounterVec
	ContactSubmits    *prometheus.CounterVec
	OpenStreams       *prometheus.GaugeVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ThemeChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portfolio",
			Name:      "theme_changes_total",
			Help:      "Theme changes by kind (mode or accent) and resulting value.",
		}, []string{"kind", "value"}),
		InvalidAccents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "portfolio",
			Name:      "theme_invalid_accents_total",
			Help:      "Accent changes rejected because the accent is unknown.",
		}),
		RevealTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portfolio",
			Name:      "reveal_transitions_total",
			Help:      "Section visibility transitions.",
		}, []string{"section", "visible"}),
		ContactSubmits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portfolio",
			Name:      "contact_submissions_total",
			Help:      "Contact form submissions by outcome.",
		}, []string{"outcome"}),
		OpenStreams: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "portfolio",
			Name:      "open_streams",
			Help:      "Currently open live and typewriter streams.",
		}, []string{"kind"}),
	}
	reg.MustRegister(m.ThemeChanges, m.InvalidAccents, m.RevealTransitions, m.ContactSubmits, m.OpenStreams)
	return m
}
