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

package tracing

import (
	"fmt"
	"testing"
	"time"

	"github.com/ebay/kpath/config"
	opentracing "github.com/opentracing/opentracing-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	jaegercfg "github.com/uber/jaeger-client-go/config"
)

// Used in Test_UpdateMetric.
type recordingMetric struct {
	// Embedded to satisfy the Metric interface.
	prometheus.Metric
	// A log of Observe calls.
	values []float64
}

func (metric *recordingMetric) Observe(value float64) {
	metric.values = append(metric.values, value)
}

func Test_UpdateMetric(t *testing.T) {
	assert := assert.New(t)
	cfg := jaegercfg.Configuration{
		ServiceName: t.Name(),
	}
	tracer, closer, err := cfg.NewTracer(jaegercfg.ContribObserver(durationObserver{}))
	require.NoError(t, err)
	defer func() {
		assert.NoError(closer.Close())
	}()
	metric := &recordingMetric{Metric: prometheus.NewSummary(prometheus.SummaryOpts{
		Name: "recording",
		Help: "test",
	})}
	for i := 0; i < 3; i++ {
		span := tracer.StartSpan(t.Name())
		UpdateMetric(span, metric)
		time.Sleep(time.Millisecond)
		span.Finish()
	}
	assert.Len(metric.values, 3)
	for _, value := range metric.values {
		dur := time.Duration(value * 1e9)
		assert.True(dur >= time.Millisecond, "duration: %v", dur)
		assert.True(dur <= time.Second, "duration: %v", dur)
	}
}

func Test_taggedMetric(t *testing.T) {
	metric := prometheus.NewSummary(prometheus.SummaryOpts{
		Namespace:  "kpath",
		Subsystem:  "query",
		Name:       "parse_seconds",
		Help:       "Time spent parsing queries.",
		Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01},
	})
	assert.Equal(t, "kpath_query_parse_seconds", fmt.Sprint(taggedMetric{metric}))
}

func Test_New(t *testing.T) {
	defer opentracing.SetGlobalTracer(opentracing.NoopTracer{})

	tracer, err := New(t.Name(), nil)
	require.NoError(t, err)
	tracer.Close()
	tracer.Close()

	_, err = New(t.Name(), &config.Tracing{Type: "jaeger"})
	assert.EqualError(t, err, "tracing: empty Jaeger collector URL")
	_, err = New(t.Name(), &config.Tracing{Type: "zipkin", CollectorURL: "http://localhost:1"})
	assert.EqualError(t, err, `tracing: unsupported type "zipkin"`)

	tracer, err = New(t.Name(), &config.Tracing{
		Type:         "jaeger",
		CollectorURL: "http://localhost:1/api/traces",
	})
	require.NoError(t, err)
	_, isNoop := opentracing.GlobalTracer().(opentracing.NoopTracer)
	assert.False(t, isNoop)
	tracer.Close()
}
