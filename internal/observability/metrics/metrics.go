package metrics

import "github.com/prometheus/client_golang/prometheus"

// ConversationMetrics exposes counters/histograms for dialogue turns and the
// post-booking enrichment pipeline.
type ConversationMetrics struct {
	turnsTotal      *prometheus.CounterVec
	turnLatency     *prometheus.HistogramVec
	toolCallsTotal  *prometheus.CounterVec
	sentimentTotal  *prometheus.CounterVec
	persistFailures prometheus.Counter
}

func NewConversationMetrics(reg prometheus.Registerer) *ConversationMetrics {
	m := &ConversationMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voxcare",
			Subsystem: "conversation",
			Name:      "turns_total",
			Help:      "Total completed dialogue turns",
		}, []string{"status"}),
		turnLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "voxcare",
			Subsystem: "conversation",
			Name:      "turn_latency_seconds",
			Help:      "End-to-end latency of one dialogue turn",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
		toolCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voxcare",
			Subsystem: "conversation",
			Name:      "tool_calls_total",
			Help:      "Total tool calls dispatched",
		}, []string{"tool", "status"}),
		sentimentTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voxcare",
			Subsystem: "sentiment",
			Name:      "analyses_total",
			Help:      "Total post-booking sentiment analyses",
		}, []string{"label", "fallback"}),
		persistFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxcare",
			Subsystem: "sentiment",
			Name:      "persist_failures_total",
			Help:      "Total appointment records lost to sink failures",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.turnLatency, m.toolCallsTotal, m.sentimentTotal, m.persistFailures)
	return m
}

func (m *ConversationMetrics) ObserveTurn(status string, seconds float64) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(status).Inc()
	m.turnLatency.WithLabelValues(status).Observe(seconds)
}

func (m *ConversationMetrics) ObserveToolCall(tool, status string) {
	if m == nil {
		return
	}
	m.toolCallsTotal.WithLabelValues(tool, status).Inc()
}

func (m *ConversationMetrics) ObserveSentiment(label string, fallback bool) {
	if m == nil {
		return
	}
	f := "false"
	if fallback {
		f = "true"
	}
	m.sentimentTotal.WithLabelValues(label, f).Inc()
}

func (m *ConversationMetrics) ObservePersistFailure() {
	if m == nil {
		return
	}
	m.persistFailures.Inc()
}
