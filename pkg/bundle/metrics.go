// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bundle

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

const (
	resultSuccess         = "success"
	resultFailure         = "failure"
	resultExpectedFailure = "expected_failure"
)

// Metrics holds the collection metrics of a single run. Each run uses its
// own registry so the rendered file describes that run only.
type Metrics struct {
	registry *prometheus.Registry

	queries       *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
	bytesWritten  *prometheus.CounterVec
	sectionTime   *prometheus.GaugeVec
	runDuration   prometheus.Gauge
}

// NewMetrics registers the collection metrics on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		queries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "konnector_bundle_queries_total",
				Help: "Queries issued while collecting the bundle",
			},
			[]string{"section", "result"}, // success, failure, or expected_failure
		),
		queryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "konnector_bundle_query_duration_seconds",
				Help:    "Time taken by individual queries",
				Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 120},
			},
			[]string{"section"},
		),
		bytesWritten: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "konnector_bundle_artifact_bytes_total",
				Help: "Bytes written to bundle artifacts",
			},
			[]string{"section"},
		),
		sectionTime: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "konnector_bundle_section_duration_seconds",
				Help: "Time taken to collect each section",
			},
			[]string{"section"},
		),
		runDuration: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "konnector_bundle_collection_duration_seconds",
				Help: "Time taken from namespace validation to the end of the last section",
			},
		),
	}
}

func (m *Metrics) observe(a Artifact) {
	result := resultSuccess
	switch {
	case a.Err != nil && a.Expected:
		result = resultExpectedFailure
	case a.Err != nil:
		result = resultFailure
	}
	m.queries.WithLabelValues(a.Section, result).Inc()
	m.queryDuration.WithLabelValues(a.Section).Observe(a.Duration.Seconds())
	m.bytesWritten.WithLabelValues(a.Section).Add(float64(a.Bytes))
}

// WriteText renders every metric in the Prometheus text exposition format.
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to render %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
