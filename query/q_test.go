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
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ebay/kpath/graph"
	"github.com/ebay/kpath/kpathindex"
	"github.com/ebay/kpath/query/parser"
	"github.com/ebay/kpath/query/planner"
	"github.com/ebay/kpath/util/clocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEngine returns an engine over an index at k=2 with MaxK 3 for the graph:
//
//	1 -a-> 2 -b-> 3 -a-> 4
//	2 -a-> 5 -b-> 6
func testEngine(t *testing.T) *Engine {
	index := kpathindex.New(kpathindex.Options{MaxK: 3})
	kpathindex.Load(index, []graph.Edge{
		{Src: 1, Label: "a", Dst: 2},
		{Src: 2, Label: "b", Dst: 3},
		{Src: 3, Label: "a", Dst: 4},
		{Src: 2, Label: "a", Dst: 5},
		{Src: 5, Label: "b", Dst: 6},
	})
	_, err := kpathindex.Extend(index, 2)
	require.NoError(t, err)
	return New(index)
}

func pathStrings(m *graph.Materialized) []string {
	var out []string
	m.Each(func(p graph.Path) {
		out = append(out, p.String())
	})
	return out
}

func Test_Query(t *testing.T) {
	tests := []struct {
		query    string
		branches []string
		exp      []string
	}{
		{
			query:    "a",
			branches: []string{"a"},
			exp:      []string{"1 -a-> 2", "2 -a-> 5", "3 -a-> 4"},
		},
		{
			query:    "a/b",
			branches: []string{"a/b"},
			exp:      []string{"1 -a-> 2 -b-> 3", "2 -a-> 5 -b-> 6"},
		},
		{
			query:    "a/b/a",
			branches: []string{"a/b/a"},
			exp:      []string{"1 -a-> 2 -b-> 3 -a-> 4"},
		},
		{
			query:    "a/(b|a)",
			branches: []string{"a/b", "a/a"},
			exp:      []string{"1 -a-> 2 -b-> 3", "2 -a-> 5 -b-> 6", "1 -a-> 2 -a-> 5"},
		},
		{
			query:    "(a/b)/a | c",
			branches: []string{"a/b/a", "c"},
			exp:      []string{"1 -a-> 2 -b-> 3 -a-> 4"},
		},
		{
			query:    "b|b",
			branches: []string{"b", "b"},
			exp:      []string{"2 -b-> 3", "5 -b-> 6", "2 -b-> 3", "5 -b-> 6"},
		},
	}
	engine := testEngine(t)
	for _, test := range tests {
		t.Run(test.query, func(t *testing.T) {
			res, err := engine.Query(context.Background(), test.query, Options{Materialize: true})
			require.NoError(t, err)
			require.NotNil(t, res.Paths)
			assert.Nil(t, res.Stream)
			var branches []string
			for _, b := range res.Branches {
				branches = append(branches, b.Tree.String())
			}
			assert.Equal(t, test.branches, branches)
			assert.Equal(t, test.exp, pathStrings(res.Paths))
		})
	}
}

func Test_Query_plan(t *testing.T) {
	engine := testEngine(t)
	res, err := engine.Query(context.Background(), "a/b/a", Options{Materialize: true})
	require.NoError(t, err)
	require.Len(t, res.Branches, 1)
	// Joining "a" with "b,a" is cheaper than joining "a,b" with "a".
	assert.Equal(t, "HashJoin\n\tIndexLookup a\n\tIndexLookup b,a\n", res.Branches[0].Plan.String())
	assert.Equal(t, planner.Estimate{Cost: 6, Cardinality: 1}, res.Branches[0].Estimate)
	assert.Equal(t, planner.Estimate{Cost: 6, Cardinality: 1}, res.Estimate())
}

func Test_Query_lazy(t *testing.T) {
	engine := testEngine(t)
	res, err := engine.Query(context.Background(), "a/b", Options{})
	require.NoError(t, err)
	assert.Nil(t, res.Paths)
	require.NotNil(t, res.Stream)
	assert.Equal(t, fmt.Sprintf("query %d (a/b)", res.Session.ID), res.Stream.Owner().String())
	m := res.Stream.Materialize()
	assert.Equal(t, []string{"1 -a-> 2 -b-> 3", "2 -a-> 5 -b-> 6"}, pathStrings(m))
}

func Test_Query_limit(t *testing.T) {
	engine := testEngine(t)
	res, err := engine.Query(context.Background(), "a", Options{Materialize: true, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"1 -a-> 2", "2 -a-> 5"}, pathStrings(res.Paths))
}

func Test_Query_sessions(t *testing.T) {
	engine := testEngine(t)
	res1, err := engine.Query(context.Background(), "a", Options{})
	require.NoError(t, err)
	res2, err := engine.Query(context.Background(), "b", Options{})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), res1.Session.ID)
	assert.Equal(t, uint64(2), res2.Session.ID)
	assert.Equal(t, "query 2 (b)", res2.Session.String())
}

func Test_Query_timings(t *testing.T) {
	engine := testEngine(t)
	clock := clocks.NewMock().AutoAdvance(time.Millisecond)
	res, err := engine.Query(context.Background(), "a/b", Options{Materialize: true, Clock: clock})
	require.NoError(t, err)
	assert.Equal(t, Timings{
		Parse:     time.Millisecond,
		Normalize: time.Millisecond,
		Plan:      time.Millisecond,
		Execute:   time.Millisecond,
	}, res.Timings)
	assert.Equal(t, 4*time.Millisecond, res.Timings.Total())
}

func Test_Query_errors(t *testing.T) {
	engine := testEngine(t)
	_, err := engine.Query(context.Background(), "a/", Options{})
	var parseErr *parser.ParseError
	assert.True(t, errors.As(err, &parseErr), "got %v", err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = engine.Query(ctx, "a/b", Options{})
	assert.Equal(t, context.Canceled, err)

	empty := New(kpathindex.New(kpathindex.Options{}))
	_, err = empty.Query(context.Background(), "a", Options{})
	assert.Equal(t, planner.ErrIndexEmpty, err)
}

func Test_Extend(t *testing.T) {
	engine := testEngine(t)
	inserted, err := engine.Extend(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)
	assert.Equal(t, 3, engine.Stats().K)

	res, err := engine.Query(context.Background(), "a/b/a", Options{Materialize: true})
	require.NoError(t, err)
	assert.Equal(t, "IndexLookup a,b,a\n", res.Branches[0].Plan.String())
	assert.Equal(t, []string{"1 -a-> 2 -b-> 3 -a-> 4"}, pathStrings(res.Paths))

	_, err = engine.Extend(context.Background(), 4)
	assert.True(t, errors.Is(err, kpathindex.ErrTargetTooLarge))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = engine.Extend(ctx, 3)
	assert.Equal(t, context.Canceled, err)
}

func Test_Engine_concurrent(t *testing.T) {
	engine := testEngine(t)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				res, err := engine.Query(context.Background(), "a/b|b", Options{Materialize: true})
				if assert.NoError(t, err) {
					assert.Equal(t, 4, res.Paths.Len())
				}
			}
		}()
	}
	_, err := engine.Extend(context.Background(), 3)
	assert.NoError(t, err)
	wg.Wait()
}
