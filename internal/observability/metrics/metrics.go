package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// TransitionMetrics counts invoice status mutations by path and outcome.
type TransitionMetrics struct {
	Transitions *prometheus.CounterVec
	Failures    *prometheus.CounterVec
}

var Module = fx.Module("observability.metrics",
	fx.Provide(NewTransitionMetrics),
)

func NewTransitionMetrics() (*TransitionMetrics, error) {
	m := &TransitionMetrics{
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "billfold",
			Name:      "invoice_transitions_total",
			Help:      "Invoice status transitions by operation kind and resulting status.",
		}, []string{"kind", "status"}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "billfold",
			Name:      "invoice_transition_failures_total",
			Help:      "Failed invoice status transitions by operation kind.",
		}, []string{"kind"}),
	}

	for _, c := range []prometheus.Collector{m.Transitions, m.Failures} {
		if err := prometheus.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			return nil, err
		}
	}
	return m, nil
}

// ObserveTransition records a successful mutation. Nil receivers are allowed
// so services can run without metrics in tests.
func (m *TransitionMetrics) ObserveTransition(kind, status string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(kind, status).Inc()
}

func (m *TransitionMetrics) ObserveFailure(kind string) {
	if m == nil {
		return
	}
	m.Failures.WithLabelValues(kind).Inc()
}
