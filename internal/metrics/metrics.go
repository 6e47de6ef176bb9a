package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	dispatchEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "visabot_dispatch_events_total",
			Help: "Inbound events by kind (message/command) and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	flowCompletions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "visabot_flow_completions_total",
			Help: "Terminal actions by flow and result (ok/failed/expired).",
		},
		[]string{"flow", "result"},
	)

	activeSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "visabot_active_sessions",
			Help: "Conversation sessions currently held in memory.",
		},
	)
)

// MustRegister registers collectors with the default registry (idempotent).
func MustRegister() {
	once.Do(func() {
		prometheus.MustRegister(dispatchEvents, flowCompletions, activeSessions)
	})
}

// IncDispatch counts one inbound event
func IncDispatch(kind, outcome string) {
	dispatchEvents.WithLabelValues(kind, outcome).Inc()
}

// IncFlowCompletion counts one terminal action
func IncFlowCompletion(flow, result string) {
	flowCompletions.WithLabelValues(flow, result).Inc()
}

// SetActiveSessions records the current session count
func SetActiveSessions(n int) {
	activeSessions.Set(float64(n))
}
