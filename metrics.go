// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package tiklink

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Command outcomes recorded by Metrics
const (
	OutcomeOK        = "ok"
	OutcomeTrap      = "trap"
	OutcomeTransport = "transport_error"
)

// Metrics holds the Prometheus collectors updated by a Link
type Metrics struct {
	CommandsTotal     *prometheus.CounterVec
	CommandDuration   *prometheus.HistogramVec
	ReadbackAmbiguous *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg. A nil
// registerer leaves them unregistered.
//
// Example:
//
//	metrics, err := tiklink.NewMetrics(prometheus.DefaultRegisterer)
//	link, _ := tiklink.NewLink(transport, tiklink.WithMetrics(metrics))
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		CommandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tiklink",
				Subsystem: "commands",
				Name:      "total",
				Help:      "Total number of commands sent to the device",
			},
			[]string{"path", "verb", "outcome"},
		),

		CommandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "tiklink",
				Subsystem: "commands",
				Name:      "duration_seconds",
				Help:      "Command round-trip duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"verb"},
		),

		ReadbackAmbiguous: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tiklink",
				Subsystem: "readback",
				Name:      "ambiguous_total",
				Help:      "Total number of adds whose new identifier could not be determined",
			},
			[]string{"path"},
		),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.CommandsTotal, m.CommandDuration, m.ReadbackAmbiguous} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// observeCommand records one Link.Call
func (m *Metrics) observeCommand(cmd *Command, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.CommandsTotal.WithLabelValues(cmd.Path, string(cmd.Verb), outcome).Inc()
	m.CommandDuration.WithLabelValues(string(cmd.Verb)).Observe(elapsed.Seconds())
}

// observeReadbackAmbiguous records a failed identifier recovery
func (m *Metrics) observeReadbackAmbiguous(path string) {
	if m == nil {
		return
	}
	m.ReadbackAmbiguous.WithLabelValues(path).Inc()
}
