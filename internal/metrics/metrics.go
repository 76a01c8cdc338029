// Package metrics exposes prometheus instrumentation for the bridge and
// the HTTP service. All Metrics methods are safe on a nil receiver, so
// instrumented code never needs to branch on whether metrics are attached.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the collectors recorded during Evolve calls.
type Metrics struct {
	evolves         *prometheus.CounterVec
	evolveDuration  prometheus.Histogram
	turns           prometheus.Counter
	objectiveEvals  prometheus.Counter
	constraintEvals prometheus.Counter
	replacements    prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		evolves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "boreal",
			Name:      "evolve_total",
			Help:      "Completed Evolve calls by terminal outcome.",
		}, []string{"outcome"}),
		evolveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "boreal",
			Name:      "evolve_duration_seconds",
			Help:      "Wall time of the reverse-communication loop.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		turns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "boreal",
			Name:      "rc_turns_total",
			Help:      "Reverse-communication turns taken.",
		}),
		objectiveEvals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "boreal",
			Name:      "objective_evaluations_total",
			Help:      "Objective evaluations requested by the solver.",
		}),
		constraintEvals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "boreal",
			Name:      "constraint_evaluations_total",
			Help:      "Constraint evaluations requested by the solver.",
		}),
		replacements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "boreal",
			Name:      "replacements_total",
			Help:      "Individuals replaced after an improving run.",
		}),
	}
	reg.MustRegister(m.evolves, m.evolveDuration, m.turns,
		m.objectiveEvals, m.constraintEvals, m.replacements)
	return m
}

// ObserveEvolve records one finished Evolve call.
func (m *Metrics) ObserveEvolve(success bool, d time.Duration) {
	if m == nil {
		return
	}
	outcome := "error"
	if success {
		outcome = "success"
	}
	m.evolves.WithLabelValues(outcome).Inc()
	m.evolveDuration.Observe(d.Seconds())
}

// IncTurns counts one reverse-communication turn.
func (m *Metrics) IncTurns() {
	if m != nil {
		m.turns.Inc()
	}
}

// IncObjectiveEvals counts one objective evaluation.
func (m *Metrics) IncObjectiveEvals() {
	if m != nil {
		m.objectiveEvals.Inc()
	}
}

// IncConstraintEvals counts one constraint evaluation.
func (m *Metrics) IncConstraintEvals() {
	if m != nil {
		m.constraintEvals.Inc()
	}
}

// IncReplacements counts one improving replacement.
func (m *Metrics) IncReplacements() {
	if m != nil {
		m.replacements.Inc()
	}
}
