package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestAgentMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewAgentMetrics(reg)

	metrics.ObserveTurn("ok", 250*time.Millisecond)
	metrics.IncToolCall("search_products", "ok")
	metrics.IncToolCall("verify_payment", "error")
	metrics.IncSettlement("verified")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "agent_tool_calls_total", "tool", "search_products"); err != nil {
		t.Fatalf("fetch tool calls: %v", err)
	} else if got != 1 {
		t.Fatalf("expected tool calls=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "payment_settlements_total", "outcome", "verified"); err != nil {
		t.Fatalf("fetch settlements: %v", err)
	} else if got != 1 {
		t.Fatalf("expected settlements=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "agent_turn_duration_seconds", "outcome", "ok"); err != nil {
		t.Fatalf("fetch turn duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestAgentMetricsNilSafe(t *testing.T) {
	var metrics *AgentMetrics
	metrics.ObserveTurn("ok", time.Second)
	metrics.IncToolCall("", "")
	metrics.IncSettlement("")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
