// Package metrics exposes admission outcomes as Prometheus counters.
package metrics

import (
	"clinic-scheduling/internal/domain/entity"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	KindDoctor      = "doctor"
	KindAppointment = "appointment"

	outcomeAdmitted = "admitted"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
)

// Admissions counts admission attempts by kind and outcome, and rejected
// attempts by the rules they broke. A nil *Admissions records nothing.
type Admissions struct {
	outcomes   *prometheus.CounterVec
	violations *prometheus.CounterVec
}

func NewAdmissions(reg prometheus.Registerer) *Admissions {
	a := &Admissions{
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Name:      "admissions_total",
			Help:      "Admission attempts by kind and outcome.",
		}, []string{"kind", "outcome"}),
		violations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Name:      "admission_violations_total",
			Help:      "Business rules broken by rejected admissions.",
		}, []string{"kind", "rule"}),
	}
	reg.MustRegister(a.outcomes, a.violations)
	return a
}

func (a *Admissions) Admitted(kind string) {
	if a == nil {
		return
	}
	a.outcomes.WithLabelValues(kind, outcomeAdmitted).Inc()
}

func (a *Admissions) Rejected(kind string, violations []entity.Violation) {
	if a == nil {
		return
	}
	a.outcomes.WithLabelValues(kind, outcomeRejected).Inc()
	for _, v := range violations {
		a.violations.WithLabelValues(kind, string(v.Rule)).Inc()
	}
}

func (a *Admissions) Failed(kind string) {
	if a == nil {
		return
	}
	a.outcomes.WithLabelValues(kind, outcomeFailed).Inc()
}
