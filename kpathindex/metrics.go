// Copyright 2019 eBay Inc.
// Primary authors: Simon Fell, Diego Ongaro,
//                  Raymond Kroeker, and Sathish Kandasamy.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package kpathindex

import (
	metricsutil "github.com/ebay/kpath/util/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

type extendMetrics struct {
	levelDurationSeconds prometheus.Summary
	pathsInserted        prometheus.Counter
	indexK               prometheus.Gauge
}

var metrics extendMetrics

func init() {
	mr := metricsutil.Registry{R: prometheus.DefaultRegisterer}
	metrics = extendMetrics{
		levelDurationSeconds: mr.NewSummary(prometheus.SummaryOpts{
			Namespace: "kpath",
			Subsystem: "index",
			Name:      "extend_level_duration_seconds",
			Help: `The time it takes to extend the index by one level.

This includes joining every path of length k with every edge, materializing
the results, and inserting them. It grows with the size of the index.
`,
			Objectives: metricsutil.DefaultObjectives,
		}),
		pathsInserted: mr.NewCounter(prometheus.CounterOpts{
			Namespace: "kpath",
			Subsystem: "index",
			Name:      "paths_inserted_total",
			Help:      `The number of paths inserted into the index, including loaded edges.`,
		}),
		indexK: mr.NewGauge(prometheus.GaugeOpts{
			Namespace: "kpath",
			Subsystem: "index",
			Name:      "k",
			Help:      `The greatest path length most recently indexed.`,
		}),
	}
}
