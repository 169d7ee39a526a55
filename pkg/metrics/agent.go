package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// AgentMetrics records chat turns, tool invocations and settlements.
type AgentMetrics struct {
	turnDuration *prometheus.HistogramVec
	toolCalls    *prometheus.CounterVec
	settlements  *prometheus.CounterVec
}

// NewAgentMetrics registers the agent metrics on the provided registerer.
// A nil registerer yields a no-op recorder, which keeps tests quiet.
func NewAgentMetrics(reg prometheus.Registerer) *AgentMetrics {
	if reg == nil {
		return &AgentMetrics{}
	}
	turnDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "agent_turn_duration_seconds",
		Help:    "Duration of full chat turns in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	toolCalls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "agent_tool_calls_total",
		Help: "Tool invocations requested by the model.",
	}, []string{"tool", "outcome"})
	settlements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_settlements_total",
		Help: "Payment verification attempts.",
	}, []string{"outcome"})
	reg.MustRegister(turnDuration, toolCalls, settlements)
	return &AgentMetrics{
		turnDuration: turnDuration,
		toolCalls:    toolCalls,
		settlements:  settlements,
	}
}

// ObserveTurn records the duration of one chat turn.
func (m *AgentMetrics) ObserveTurn(outcome string, duration time.Duration) {
	if m == nil || m.turnDuration == nil {
		return
	}
	m.turnDuration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// IncToolCall counts a tool invocation by name and outcome.
func (m *AgentMetrics) IncToolCall(tool, outcome string) {
	if m == nil || m.toolCalls == nil {
		return
	}
	m.toolCalls.WithLabelValues(normalizeLabel(tool), normalizeLabel(outcome)).Inc()
}

// IncSettlement counts a payment verification attempt by outcome.
func (m *AgentMetrics) IncSettlement(outcome string) {
	if m == nil || m.settlements == nil {
		return
	}
	m.settlements.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
