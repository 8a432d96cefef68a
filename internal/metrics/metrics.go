// Package metrics defines the client's Prometheus instruments.
//
// All methods are safe on a nil *Metrics so components can treat metrics as
// optional.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the client's collectors.
type Metrics struct {
	gatherer prometheus.Gatherer

	SessionTransitions *prometheus.CounterVec
	SessionActive      prometheus.Gauge
	LoginFailures      prometheus.Counter
	Registrations      *prometheus.CounterVec
	ActivityRenewals   prometheus.Counter
	LayoutPlacements   *prometheus.CounterVec
	QuizzesCompleted   *prometheus.CounterVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	return NewWith(reg, reg)
}

// NewWith registers the collectors on reg and serves them from g.
func NewWith(reg prometheus.Registerer, g prometheus.Gatherer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		gatherer: g,
		SessionTransitions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "museum_session_transitions_total",
				Help: "Session state transitions by reason",
			},
			[]string{"reason"}, // login, restored, logout, expired, rejected
		),
		SessionActive: f.NewGauge(prometheus.GaugeOpts{
			Name: "museum_session_active",
			Help: "1 while a session is authenticated",
		}),
		LoginFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "museum_login_failures_total",
			Help: "Failed login attempts",
		}),
		Registrations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "museum_registrations_total",
				Help: "Registration attempts by outcome",
			},
			[]string{"outcome"},
		),
		ActivityRenewals: f.NewCounter(prometheus.CounterOpts{
			Name: "museum_session_activity_renewals_total",
			Help: "Activity timestamp renewals",
		}),
		LayoutPlacements: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "museum_layout_placements_total",
				Help: "Exhibit items placed by ring layout, by category",
			},
			[]string{"category"},
		),
		QuizzesCompleted: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "museum_quizzes_completed_total",
				Help: "Completed quizzes by game mode",
			},
			[]string{"game_mode"},
		),
	}
}

// SessionTransition counts a transition and updates the active gauge.
func (m *Metrics) SessionTransition(reason string, active bool) {
	if m == nil {
		return
	}
	m.SessionTransitions.WithLabelValues(reason).Inc()
	if active {
		m.SessionActive.Set(1)
	} else {
		m.SessionActive.Set(0)
	}
}

// LoginFailed counts a failed login.
func (m *Metrics) LoginFailed() {
	if m == nil {
		return
	}
	m.LoginFailures.Inc()
}

// Registration counts a registration attempt.
func (m *Metrics) Registration(ok bool) {
	if m == nil {
		return
	}
	outcome := "failure"
	if ok {
		outcome = "success"
	}
	m.Registrations.WithLabelValues(outcome).Inc()
}

// ActivityRenewed counts an activity renewal.
func (m *Metrics) ActivityRenewed() {
	if m == nil {
		return
	}
	m.ActivityRenewals.Inc()
}

// Placed counts items placed for a category.
func (m *Metrics) Placed(category string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.LayoutPlacements.WithLabelValues(category).Add(float64(n))
}

// QuizCompleted counts a finished quiz.
func (m *Metrics) QuizCompleted(gameMode string) {
	if m == nil {
		return
	}
	m.QuizzesCompleted.WithLabelValues(gameMode).Inc()
}

// Handler serves the registered metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
