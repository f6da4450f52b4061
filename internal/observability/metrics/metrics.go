package metrics

import "github.com/prometheus/client_golang/prometheus"

// ImportMetrics exposes counters for the import pipeline. All methods are
// nil-receiver safe so callers can run without metrics wired.
type ImportMetrics struct {
	outcomesTotal     *prometheus.CounterVec
	translationsTotal *prometheus.CounterVec
	parsedTotal       prometheus.Counter
}

func NewImportMetrics(reg prometheus.Registerer) *ImportMetrics {
	m := &ImportMetrics{
		outcomesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "convosync",
			Subsystem: "sync",
			Name:      "outcomes_total",
			Help:      "Sync outcomes per merge mode",
		}, []string{"mode", "outcome"}),
		translationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "convosync",
			Subsystem: "translate",
			Name:      "titles_total",
			Help:      "Title translation results per provider",
		}, []string{"provider", "status"}),
		parsedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "convosync",
			Subsystem: "parse",
			Name:      "conversations_total",
			Help:      "Conversations successfully parsed from archives",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.outcomesTotal, m.translationsTotal, m.parsedTotal)
	return m
}

func (m *ImportMetrics) ObserveOutcome(mode, outcome string) {
	if m == nil {
		return
	}
	m.outcomesTotal.WithLabelValues(mode, outcome).Inc()
}

func (m *ImportMetrics) ObserveTranslation(provider string, success bool) {
	if m == nil {
		return
	}
	status := "failure"
	if success {
		status = "success"
	}
	m.translationsTotal.WithLabelValues(provider, status).Inc()
}

func (m *ImportMetrics) ObserveParsed(count int) {
	if m == nil {
		return
	}
	m.parsedTotal.Add(float64(count))
}
