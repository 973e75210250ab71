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

package query

import (
	metricsutil "github.com/ebay/kpath/util/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

type queryMetrics struct {
	parseQueryDurationSeconds     prometheus.Summary
	normalizeQueryDurationSeconds prometheus.Summary
	planQueryDurationSeconds      prometheus.Summary
	executeQueryDurationSeconds   prometheus.Summary
	extendDurationSeconds         prometheus.Summary
	queriesTotal                  *prometheus.CounterVec
	pathsReturned                 prometheus.Counter
}

var metrics queryMetrics

func init() {
	mr := metricsutil.Registry{R: prometheus.DefaultRegisterer}
	metrics = queryMetrics{
		parseQueryDurationSeconds: mr.NewSummary(prometheus.SummaryOpts{
			Namespace:  "kpath",
			Subsystem:  "query",
			Name:       "parse_duration_seconds",
			Help:       `The time it takes to parse a path expression into a parse tree.`,
			Objectives: metricsutil.DefaultObjectives,
		}),
		normalizeQueryDurationSeconds: mr.NewSummary(prometheus.SummaryOpts{
			Namespace: "kpath",
			Subsystem: "query",
			Name:      "normalize_duration_seconds",
			Help: `The time it takes to flatten a parse tree and pull its unions up into
a list of union-free trees.`,
			Objectives: metricsutil.DefaultObjectives,
		}),
		planQueryDurationSeconds: mr.NewSummary(prometheus.SummaryOpts{
			Namespace:  "kpath",
			Subsystem:  "query",
			Name:       "plan_duration_seconds",
			Help:       `The time it takes to plan every union-free tree of a query.`,
			Objectives: metricsutil.DefaultObjectives,
		}),
		executeQueryDurationSeconds: mr.NewSummary(prometheus.SummaryOpts{
			Namespace: "kpath",
			Subsystem: "query",
			Name:      "execute_duration_seconds",
			Help: `The time it takes to build the operators of a query and, if requested,
materialize its results. Lazy results are not included.`,
			Objectives: metricsutil.DefaultObjectives,
		}),
		extendDurationSeconds: mr.NewSummary(prometheus.SummaryOpts{
			Namespace:  "kpath",
			Subsystem:  "query",
			Name:       "extend_duration_seconds",
			Help:       `The time it takes to extend the index through the engine, including waiting for the write lock.`,
			Objectives: metricsutil.DefaultObjectives,
		}),
		queriesTotal: mr.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kpath",
			Subsystem: "query",
			Name:      "queries_total",
			Help:      `The number of queries run, by outcome ("ok" or "error").`,
		}, []string{"outcome"}),
		pathsReturned: mr.NewCounter(prometheus.CounterOpts{
			Namespace: "kpath",
			Subsystem: "query",
			Name:      "materialized_paths_total",
			Help:      `The number of paths returned by materialized queries.`,
		}),
	}
}
