package server

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pdiddy/blog-search/internal/widget"
)

// Metrics counts activations by terminal phase and exposes the corpus size.
type Metrics struct {
	activations *prometheus.CounterVec
}

// NewMetrics registers the server metrics on reg.
func NewMetrics(reg prometheus.Registerer, state *widget.SearchState) *Metrics {
	m := &Metrics{
		activations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blog_search_activations_total",
			Help: "Search activations by terminal phase.",
		}, []string{"phase"}),
	}
	corpus := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "blog_search_corpus_records",
		Help: "Records in the loaded search index; -1 until the index has loaded.",
	}, func() float64 {
		n, ok := state.CorpusSize()
		if !ok {
			return -1
		}
		return float64(n)
	})
	reg.MustRegister(m.activations, corpus)
	return m
}

// Observe records one activation that ended in phase. Intermediate phases
// are not counted.
func (m *Metrics) Observe(phase widget.Phase) {
	if !phase.Terminal() {
		return
	}
	m.activations.WithLabelValues(string(phase)).Inc()
}
