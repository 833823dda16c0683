package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the onboarding gateway's Prometheus collectors.
type Metrics struct {
	AdvanceAttempts  *prometheus.CounterVec
	EmailChecks      *prometheus.CounterVec
	Submissions      *prometheus.CounterVec
	FollowUpFailures *prometheus.CounterVec
	ActiveSessions   prometheus.Gauge
}

// New registers all collectors on reg. Pass prometheus.NewRegistry() in tests
// so repeated construction does not collide on the default registry.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		AdvanceAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "onboarding_advance_attempts_total",
			Help: "Next-step attempts by role and outcome",
		}, []string{"role", "outcome"}),
		EmailChecks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "onboarding_email_checks_total",
			Help: "Email availability checks by outcome",
		}, []string{"outcome"}),
		Submissions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "onboarding_submissions_total",
			Help: "Account creation attempts by role and outcome",
		}, []string{"role", "outcome"}),
		FollowUpFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "onboarding_followup_failures_total",
			Help: "Post-registration uploads that failed, by kind",
		}, []string{"kind"}),
		ActiveSessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "onboarding_active_sessions",
			Help: "Registration sessions currently held by this process",
		}),
	}
}

// Nop returns collectors bound to a throwaway registry.
func Nop() *Metrics {
	return New(prometheus.NewRegistry())
}
