package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestConversationMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewConversationMetrics(reg)
	m.ObserveTurn("ok", 0.3)
	m.ObserveToolCall("get_doctor_availability", "ok")
	m.ObserveSentiment("Happy", false)
	m.ObservePersistFailure()
}

func TestConversationMetricsNilSafe(t *testing.T) {
	var m *ConversationMetrics
	m.ObserveTurn("ok", 0.1)
	m.ObserveToolCall("confirm_appointment", "invalid")
	m.ObserveSentiment("Unknown", true)
	m.ObservePersistFailure()
}
