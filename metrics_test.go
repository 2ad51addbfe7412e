// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package tiklink

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestNewMetrics tests collector registration
func TestNewMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	if _, err := NewMetrics(registry); err != nil {
		t.Fatalf("NewMetrics() unexpected error: %v", err)
	}
	if _, err := NewMetrics(registry); err == nil {
		t.Error("NewMetrics() expected error on duplicate registration")
	}

	m, err := NewMetrics(nil)
	if err != nil || m == nil {
		t.Fatalf("NewMetrics(nil) = %v, %v", m, err)
	}
}

// TestMetrics_Outcomes tests command counting per outcome
func TestMetrics_Outcomes(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics, err := NewMetrics(registry)
	if err != nil {
		t.Fatalf("NewMetrics() unexpected error: %v", err)
	}

	d := seededDevice()
	link := newTestLink(d, WithMetrics(metrics))
	ctx := context.Background()

	if _, err := List[testHost](ctx, link); err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	_ = DeleteByID[testHost](ctx, link, "*99")

	d.fail = func(*Command) (*Result, error) { return nil, context.DeadlineExceeded }
	_, _ = List[testHost](ctx, link)

	tests := []struct {
		verb, outcome string
		want          float64
	}{
		{"print", OutcomeOK, 1},
		{"remove", OutcomeTrap, 1},
		{"print", OutcomeTransport, 1},
		{"remove", OutcomeOK, 0},
	}
	for _, tt := range tests {
		got := testutil.ToFloat64(metrics.CommandsTotal.WithLabelValues(hostPath, tt.verb, tt.outcome))
		if got != tt.want {
			t.Errorf("commands{%s,%s} = %v, want %v", tt.verb, tt.outcome, got, tt.want)
		}
	}

	if n := testutil.CollectAndCount(metrics.CommandDuration); n != 2 {
		t.Errorf("duration series = %d, want 2", n)
	}
	if n, err := testutil.GatherAndCount(registry, "tiklink_commands_total"); err != nil || n != 4 {
		t.Errorf("GatherAndCount() = %d, %v", n, err)
	}
}

// TestMetrics_Nil tests that a link without metrics works
func TestMetrics_Nil(t *testing.T) {
	var m *Metrics
	m.observeCommand(&Command{Path: hostPath, Verb: VerbPrint}, OutcomeOK, 0)
	m.observeReadbackAmbiguous(hostPath)
}
