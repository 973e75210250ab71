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

// Package tracing reports OpenTracing spans to Jaeger and ties span durations
// to Prometheus metrics.
package tracing

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/ebay/kpath/config"
	opentracing "github.com/opentracing/opentracing-go"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	jaeger "github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
	jaegerTransport "github.com/uber/jaeger-client-go/transport"
)

// metricTag is the span tag that UpdateMetric sets.
const metricTag = "metric"

// A Tracer owns the global opentracing tracer installed by New.
type Tracer struct {
	closer func() error
}

// New installs a Jaeger tracer as the global opentracing tracer. Spans are
// sent to cfg.CollectorURL, which should accept jaeger.thrift over HTTP. If
// cfg is nil, spans are discarded, but they still update the metrics attached
// with UpdateMetric. Callers should Close the returned Tracer before exiting
// so that buffered spans are flushed.
func New(serviceName string, cfg *config.Tracing) (*Tracer, error) {
	reporter, err := newReporter(cfg)
	if err != nil {
		return nil, err
	}
	jcfg := jaegercfg.Configuration{
		ServiceName: serviceName,
		Sampler: &jaegercfg.SamplerConfig{
			Type:  jaeger.SamplerTypeConst,
			Param: 1,
		},
	}
	tracer, closer, err := jcfg.NewTracer(
		jaegercfg.ContribObserver(durationObserver{}),
		jaegercfg.Logger(jaegerLogger{log.WithField("component", "jaeger")}),
		jaegercfg.Reporter(reporter))
	if err != nil {
		return nil, fmt.Errorf("tracing: unable to create Jaeger tracer: %v", err)
	}
	opentracing.SetGlobalTracer(tracer)
	return &Tracer{closer: closer.Close}, nil
}

func newReporter(cfg *config.Tracing) (jaeger.Reporter, error) {
	if cfg == nil {
		log.Warn("No tracing configuration: spans will not be reported")
		return jaeger.NewNullReporter(), nil
	}
	if cfg.Type != "" && cfg.Type != "jaeger" {
		return nil, fmt.Errorf("tracing: unsupported type %q", cfg.Type)
	}
	if cfg.CollectorURL == "" {
		return nil, fmt.Errorf("tracing: empty Jaeger collector URL")
	}
	return jaeger.NewRemoteReporter(jaegerTransport.NewHTTPTransport(cfg.CollectorURL)), nil
}

// Close flushes and stops the tracer. Calling it again does nothing.
func (t *Tracer) Close() {
	if t.closer == nil {
		return
	}
	if err := t.closer(); err != nil {
		log.WithError(err).Warn("Error closing Jaeger tracer")
	}
	t.closer = nil
}

// jaegerLogger implements jaeger.Logger.
type jaegerLogger struct {
	entry *log.Entry
}

func (l jaegerLogger) Error(msg string) {
	l.entry.Error(strings.TrimSpace(msg))
}

func (l jaegerLogger) Infof(msg string, args ...interface{}) {
	l.entry.Infof(strings.TrimSpace(msg), args...)
}

// durationObserver implements jaeger.ContribObserver. It attaches a spanTimer
// to every span.
type durationObserver struct{}

func (durationObserver) OnStartSpan(span opentracing.Span, operationName string,
	options opentracing.StartSpanOptions) (jaeger.ContribSpanObserver, bool) {
	start := options.StartTime
	if start.IsZero() {
		start = time.Now()
	}
	return &spanTimer{start: start}, true
}

// spanTimer implements jaeger.ContribSpanObserver. When the span finishes, it
// observes the span's duration in the metric named by the span's metric tag.
type spanTimer struct {
	start time.Time
	lock  sync.Mutex
	// Set from the metric tag; may be nil. Protected by lock.
	metric Metric
}

func (t *spanTimer) OnSetOperationName(name string) {}

func (t *spanTimer) OnSetTag(key string, value interface{}) {
	tagged, ok := value.(taggedMetric)
	if key != metricTag || !ok {
		return
	}
	t.lock.Lock()
	t.metric = tagged.Metric
	t.lock.Unlock()
}

func (t *spanTimer) OnFinish(options opentracing.FinishOptions) {
	end := options.FinishTime
	if end.IsZero() {
		end = time.Now()
	}
	t.lock.Lock()
	metric := t.metric
	t.lock.Unlock()
	if metric != nil {
		metric.Observe(end.Sub(t.start).Seconds())
	}
}

// Metric is a Prometheus metric that accepts observations, such as a
// prometheus.Summary or prometheus.Histogram.
type Metric interface {
	prometheus.Metric
	Observe(float64)
}

// UpdateMetric makes the span observe its duration, in seconds, in metric
// when it finishes. This only takes effect with a tracer created by New.
func UpdateMetric(span opentracing.Span, metric Metric) {
	span.SetTag(metricTag, taggedMetric{metric})
}

// taggedMetric is the value of the metric tag. Tracers that report it show
// the metric's name.
type taggedMetric struct {
	Metric
}

// fqNameRE extracts the name from a prometheus.Desc's String output, which
// looks like: Desc{fqName: "kpath_query_parse_seconds", help: ...}.
var fqNameRE = regexp.MustCompile(`fqName: "([^"]*)"`)

func (m taggedMetric) String() string {
	match := fqNameRE.FindStringSubmatch(m.Desc().String())
	if match == nil {
		return ""
	}
	return match[1]
}
