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

// Package query provides a high level entry point for evaluating path
// expressions against a k-path index. It runs the entire query processor,
// including the parser, the union puller, the planner, and the executor.
package query

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ebay/kpath/graph"
	"github.com/ebay/kpath/kpathindex"
	"github.com/ebay/kpath/query/exec"
	"github.com/ebay/kpath/query/parser"
	"github.com/ebay/kpath/query/parsetree"
	"github.com/ebay/kpath/query/planner"
	"github.com/ebay/kpath/query/planner/plandef"
	"github.com/ebay/kpath/util/clocks"
	"github.com/ebay/kpath/util/tracing"
	opentracing "github.com/opentracing/opentracing-go"
	log "github.com/sirupsen/logrus"
)

// Options contains various settings that affect the query processing.
type Options struct {
	// If set, the results are drained into a snapshot before Query returns,
	// and Result.Paths is set. Otherwise Result.Stream is a lazy stream.
	Materialize bool
	// If positive, at most this many paths are returned.
	Limit int
	// If set, phase timings are measured with this clock instead of
	// clocks.Wall.
	Clock clocks.Source
}

// Engine provides a high level interface for running queries and growing the
// index they run against. An Engine can be used concurrently; queries share
// the index while Extend has exclusive access to it.
type Engine struct {
	index *kpathindex.Index
	// Used to number sessions.
	lastSessionID atomic.Uint64
	// Queries hold this for reading while planning and evaluating. Extend
	// holds it for writing.
	lock sync.RWMutex
}

// New creates a new Engine that queries the given index. The index should
// already be loaded.
func New(index *kpathindex.Index) *Engine {
	return &Engine{index: index}
}

// A Session identifies a single query. It owns the streams the query
// produces.
type Session struct {
	ID         uint64
	Expression string
}

func (s *Session) String() string {
	return fmt.Sprintf("query %d (%s)", s.ID, s.Expression)
}

// Branch is the plan for one union-free tree of a query.
type Branch struct {
	Tree     *parsetree.Tree
	Plan     *plandef.Plan
	Estimate planner.Estimate
}

// Timings report how long each phase of a query took.
type Timings struct {
	Parse     time.Duration
	Normalize time.Duration
	Plan      time.Duration
	Execute   time.Duration
}

// Total returns the sum of all the phases.
func (t Timings) Total() time.Duration {
	return t.Parse + t.Normalize + t.Plan + t.Execute
}

// Result describes an evaluated query.
type Result struct {
	Session *Session
	// The parsed expression, flattened.
	Tree *parsetree.Tree
	// One entry per union-free tree, in the order their results appear.
	Branches []Branch
	// Set if Options.Materialize was false. The stream reads from the index
	// lazily, so it must be drained before the index is next extended.
	Stream *graph.Stream
	// Set if Options.Materialize was true.
	Paths   *graph.Materialized
	Timings Timings
}

// Estimate returns the sum of the estimates of every branch.
func (r *Result) Estimate() planner.Estimate {
	var total planner.Estimate
	for _, b := range r.Branches {
		total.Cost += b.Estimate.Cost
		total.Cardinality += b.Estimate.Cardinality
	}
	return total
}

// Query evaluates a path expression through the steps Parse, Normalize, Plan
// and Execute. The result contains the paths matching the expression: for
// each union-free tree in the order the union puller produced them, the paths
// of that tree. Paths are not deduplicated across trees.
//
// Query checks ctx between phases but doesn't interrupt a phase once it has
// started.
func (e *Engine) Query(ctx context.Context, rawQuery string, opt Options) (*Result, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "query")
	defer span.Finish()
	clock := opt.Clock
	if clock == nil {
		clock = clocks.Wall
	}
	session := &Session{
		ID:         e.lastSessionID.Add(1),
		Expression: rawQuery,
	}
	span.SetTag("session", session.ID)
	res, err := e.query(ctx, clock, session, opt)
	if err != nil {
		metrics.queriesTotal.WithLabelValues("error").Inc()
		log.WithFields(log.Fields{
			"session": session.ID,
			"error":   err,
		}).Debug("Query failed")
		return nil, err
	}
	metrics.queriesTotal.WithLabelValues("ok").Inc()
	log.WithFields(log.Fields{
		"session":  session.ID,
		"branches": len(res.Branches),
		"took":     res.Timings.Total(),
	}).Debug("Query completed")
	return res, nil
}

func (e *Engine) query(ctx context.Context, clock clocks.Source, session *Session, opt Options) (*Result, error) {
	res := &Result{Session: session}

	span, _ := opentracing.StartSpanFromContext(ctx, "parse query")
	tracing.UpdateMetric(span, metrics.parseQueryDurationSeconds)
	start := clock.Now()
	tree, err := parser.Parse(session.Expression)
	res.Timings.Parse = clock.Now().Sub(start)
	span.Finish()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	span, _ = opentracing.StartSpanFromContext(ctx, "normalize query")
	tracing.UpdateMetric(span, metrics.normalizeQueryDurationSeconds)
	start = clock.Now()
	res.Tree = tree.Flatten()
	trees, err := parsetree.PullUnions(res.Tree)
	res.Timings.Normalize = clock.Now().Sub(start)
	span.Finish()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.lock.RLock()
	defer e.lock.RUnlock()

	span, _ = opentracing.StartSpanFromContext(ctx, "plan query")
	tracing.UpdateMetric(span, metrics.planQueryDurationSeconds)
	start = clock.Now()
	res.Branches = make([]Branch, len(trees))
	for i, t := range trees {
		plan, est, err := planner.Plan(t, e.index)
		if err != nil {
			span.Finish()
			log.WithFields(log.Fields{
				"session": session.ID,
				"tree":    t,
				"error":   err,
			}).Warn("Planner failed")
			return nil, err
		}
		res.Branches[i] = Branch{Tree: t, Plan: plan, Estimate: est}
	}
	res.Timings.Plan = clock.Now().Sub(start)
	span.Finish()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	span, _ = opentracing.StartSpanFromContext(ctx, "execute query")
	tracing.UpdateMetric(span, metrics.executeQueryDurationSeconds)
	defer span.Finish()
	start = clock.Now()
	streams := make([]*graph.Stream, len(res.Branches))
	for i, b := range res.Branches {
		streams[i], err = exec.Execute(e.index, b.Plan, session)
		if err != nil {
			return nil, err
		}
	}
	stream := graph.Concat(streams...).WithOwner(session).Limit(opt.Limit)
	if opt.Materialize {
		res.Paths = stream.Materialize()
		metrics.pathsReturned.Add(float64(res.Paths.Len()))
	} else {
		res.Stream = stream
	}
	res.Timings.Execute = clock.Now().Sub(start)
	return res, nil
}

// Extend grows the index to targetK, waiting for running queries to finish
// planning and materializing first. It returns the number of paths inserted.
// See kpathindex.Extend.
func (e *Engine) Extend(ctx context.Context, targetK int) (int, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "extend index")
	tracing.UpdateMetric(span, metrics.extendDurationSeconds)
	defer span.Finish()
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	e.lock.Lock()
	defer e.lock.Unlock()
	return kpathindex.Extend(e.index, targetK)
}

// Stats returns a summary of the index.
func (e *Engine) Stats() kpathindex.Stats {
	e.lock.RLock()
	defer e.lock.RUnlock()
	return e.index.Stats()
}
