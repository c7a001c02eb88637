// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package httpclient

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus collectors for outbound API requests.
type Metrics struct {
	RequestsTotal          *prometheus.CounterVec
	RequestDurationSeconds *prometheus.HistogramVec
}

// NewMetrics creates the request collectors and registers them with reg.
// A nil registerer leaves the collectors unregistered, which keeps tests
// free of global registry collisions.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "subscriber_sync_api_requests_total",
				Help: "Total number of outbound API requests by method and outcome",
			},
			[]string{"method", "outcome"},
		),
		RequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "subscriber_sync_api_request_duration_seconds",
				Help:    "Outbound API request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.RequestsTotal, m.RequestDurationSeconds)
	}

	return m
}
