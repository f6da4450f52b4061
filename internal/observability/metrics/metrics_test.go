package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestImportMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewImportMetrics(reg)

	m.ObserveOutcome("update", "created")
	m.ObserveOutcome("update", "created")
	m.ObserveOutcome("update", "errors")
	m.ObserveTranslation("gemini", true)
	m.ObserveTranslation("bedrock", false)
	m.ObserveParsed(5)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.outcomesTotal.WithLabelValues("update", "created")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.outcomesTotal.WithLabelValues("update", "errors")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.translationsTotal.WithLabelValues("gemini", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.translationsTotal.WithLabelValues("bedrock", "failure")))
	assert.Equal(t, float64(5), testutil.ToFloat64(m.parsedTotal))
}

func TestNilMetricsSafe(t *testing.T) {
	var m *ImportMetrics
	m.ObserveOutcome("update", "created")
	m.ObserveTranslation("gemini", true)
	m.ObserveParsed(1)
}
