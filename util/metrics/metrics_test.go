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

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func Test_Registry(t *testing.T) {
	reg := prometheus.NewRegistry()
	mr := Registry{R: reg}
	c := mr.NewCounter(prometheus.CounterOpts{Name: "things_total", Help: "things"})
	c.Add(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(c))

	cv := mr.NewCounterVec(prometheus.CounterOpts{Name: "level_things_total", Help: "things"}, []string{"level"})
	cv.WithLabelValues("2").Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(cv.WithLabelValues("2")))

	g := mr.NewGauge(prometheus.GaugeOpts{Name: "k", Help: "k"})
	g.Set(4)
	assert.Equal(t, 4.0, testutil.ToFloat64(g))

	mr.NewSummary(prometheus.SummaryOpts{Name: "took_seconds", Help: "took", Objectives: DefaultObjectives})
	count, err := testutil.GatherAndCount(reg)
	assert.NoError(t, err)
	assert.Equal(t, 4, count)

	assert.Panics(t, func() {
		mr.NewGauge(prometheus.GaugeOpts{Name: "k", Help: "k"})
	}, "registering a duplicate name should panic")
}
