// Package monitoring exposes Prometheus metrics for the extraction
// pipeline and the HTTP surface.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PipelineMetrics counts extraction pipeline outcomes and advisories.
type PipelineMetrics struct {
	TurnsTotal      *prometheus.CounterVec
	AdvisoriesTotal *prometheus.CounterVec
	ExpansionsTotal prometheus.Counter
}

// NewPipelineMetrics registers the pipeline's metrics with reg.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	factory := promauto.With(reg)
	return &PipelineMetrics{
		TurnsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "formulary",
			Subsystem: "pipeline",
			Name:      "turns_total",
			Help:      "Conversation turns processed, by terminal status.",
		}, []string{"status"}),
		AdvisoriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "formulary",
			Subsystem: "pipeline",
			Name:      "advisories_total",
			Help:      "Advisory messages emitted, by kind.",
		}, []string{"kind"}),
		ExpansionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "formulary",
			Subsystem: "pipeline",
			Name:      "expansions_total",
			Help:      "Formulas topped up by the expander.",
		}),
	}
}

// ObserveTurn records a terminal pipeline status.
func (m *PipelineMetrics) ObserveTurn(status string) {
	if m == nil {
		return
	}
	m.TurnsTotal.WithLabelValues(status).Inc()
}

// ObserveAdvisories records emitted advisories of one kind.
func (m *PipelineMetrics) ObserveAdvisories(kind string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.AdvisoriesTotal.WithLabelValues(kind).Add(float64(n))
}

// ObserveExpansion records one expander top-up.
func (m *PipelineMetrics) ObserveExpansion() {
	if m == nil {
		return
	}
	m.ExpansionsTotal.Inc()
}
