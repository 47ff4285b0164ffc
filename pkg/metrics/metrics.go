// Package metrics exports reconciliation activity as Prometheus counters.
package metrics

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/go-drift/compose/pkg/core"
)

// Collector counts reconciliation decisions and rebuilds. It implements
// core.ReconcileObserver.
type Collector struct {
	app       string
	decisions *prometheus.CounterVec
	rebuilds  *prometheus.CounterVec
}

// NewCollector creates a Collector labelled with app and registers it on
// reg. Counters already registered by another Collector are reused.
func NewCollector(app string, reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		app: app,
		decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "compose",
				Name:      "reconcile_decisions_total",
				Help:      "Child slot reconciliation outcomes.",
			},
			[]string{"app", "decision"},
		),
		rebuilds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "compose",
				Name:      "rebuilds_total",
				Help:      "Element rebuilds by view kind.",
			},
			[]string{"app", "kind"},
		),
	}
	if reg == nil {
		return c, nil
	}
	var err error
	if c.decisions, err = register(reg, c.decisions); err != nil {
		return nil, err
	}
	if c.rebuilds, err = register(reg, c.rebuilds); err != nil {
		return nil, err
	}
	return c, nil
}

func register(reg prometheus.Registerer, vec *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	err := reg.Register(vec)
	if err == nil {
		return vec, nil
	}
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(*prometheus.CounterVec); ok {
			return existing, nil
		}
	}
	return nil, fmt.Errorf("register metrics: %w", err)
}

// OnReconcile implements core.ReconcileObserver.
func (c *Collector) OnReconcile(decision core.Decision, _ core.ViewKind) {
	c.decisions.WithLabelValues(c.app, decision.String()).Inc()
}

// OnRebuild implements core.ReconcileObserver.
func (c *Collector) OnRebuild(kind core.ViewKind) {
	c.rebuilds.WithLabelValues(c.app, kind.String()).Inc()
}

// Decisions returns the current count for decision.
func (c *Collector) Decisions(decision core.Decision) float64 {
	return counterValue(c.decisions.WithLabelValues(c.app, decision.String()))
}

// Rebuilds returns the current count of rebuilds of kind.
func (c *Collector) Rebuilds(kind core.ViewKind) float64 {
	return counterValue(c.rebuilds.WithLabelValues(c.app, kind.String()))
}

func counterValue(counter prometheus.Counter) float64 {
	var m dto.Metric
	if err := counter.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}
