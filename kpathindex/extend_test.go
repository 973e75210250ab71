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
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/ebay/kpath/graph"
	"github.com/ebay/kpath/pathid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Extend_scenario(t *testing.T) {
	assert := assert.New(t)
	index := New(Options{})
	assert.Equal(2, Load(index, []graph.Edge{{Src: 1, Label: "a", Dst: 2}, {Src: 2, Label: "a", Dst: 3}}))
	assert.Equal(1, index.K())

	inserted, err := Extend(index, 2)
	require.NoError(t, err)
	assert.Equal(1, inserted)
	assert.Equal(2, index.K())
	assert.Equal([]string{"1 -a-> 2 -a-> 3"},
		drain(index.Search(graph.PathPrefix{ID: pathid.New("a", "a")})))
	assert.Equal([]string{"1 -a-> 2", "2 -a-> 3"},
		drain(index.Search(graph.PathPrefix{ID: pathid.New("a")})))
}

func Test_Extend_noop(t *testing.T) {
	index := New(Options{})
	Load(index, []graph.Edge{{Src: 1, Label: "a", Dst: 2}, {Src: 2, Label: "a", Dst: 3}})
	_, err := Extend(index, 3)
	require.NoError(t, err)
	before := index.Stats()
	for _, target := range []int{3, 2, 0, -1} {
		inserted, err := Extend(index, target)
		assert.NoError(t, err)
		assert.Equal(t, 0, inserted)
	}
	assert.Equal(t, before, index.Stats())
}

func Test_Extend_errors(t *testing.T) {
	_, err := Extend(New(Options{}), 2)
	assert.Equal(t, ErrNotLoaded, err)

	index := New(Options{MaxK: 3})
	Load(index, []graph.Edge{{Src: 1, Label: "a", Dst: 2}})
	_, err = Extend(index, 4)
	assert.True(t, errors.Is(err, ErrTargetTooLarge), "err: %v", err)
	assert.EqualError(t, err, "kpathindex: target k exceeds maximum: requested 4, maximum is 3")
	assert.Equal(t, 1, index.K())
	assert.Equal(t, 1, index.Len())

	inserted, err := Extend(index, 3)
	assert.NoError(t, err)
	assert.Equal(t, 0, inserted)
	assert.Equal(t, 3, index.K())
}

func Test_Extend_cycle(t *testing.T) {
	index := New(Options{})
	Load(index, []graph.Edge{{Src: 1, Label: "a", Dst: 2}, {Src: 2, Label: "b", Dst: 1}})
	inserted, err := Extend(index, 4)
	require.NoError(t, err)
	// Each level derives one path starting from each vertex.
	assert.Equal(t, 6, inserted)
	assert.Equal(t, []string{"1 -a-> 2 -b-> 1 -a-> 2 -b-> 1"},
		drain(index.Search(graph.PathPrefix{ID: pathid.New("a", "b", "a", "b")})))
	assert.Equal(t, []string{"2 -b-> 1 -a-> 2 -b-> 1 -a-> 2"},
		drain(index.Search(graph.PathPrefix{ID: pathid.New("b", "a", "b", "a")})))
}

// walks returns every walk of exactly the given length over edges, formatted
// as strings and sorted.
func walks(edges []graph.Edge, length int) []string {
	var out []string
	var extend func(p graph.Path)
	extend = func(p graph.Path) {
		if p.Len() == length {
			out = append(out, p.String())
			return
		}
		for _, e := range edges {
			if e.Src == p.End() {
				q, _ := p.Concat(graph.MustPath(e))
				extend(q)
			}
		}
	}
	for _, e := range edges {
		extend(graph.MustPath(e))
	}
	sort.Strings(out)
	return out
}

// Checks that the index holds exactly the walks of each length, for random
// graphs.
func Test_Extend_complete(t *testing.T) {
	rnd := rand.New(rand.NewSource(11))
	for trial := 0; trial < 5; trial++ {
		t.Run(fmt.Sprintf("trial%d", trial), func(t *testing.T) {
			edges := make([]graph.Edge, 12)
			for i := range edges {
				edges[i] = graph.Edge{
					Src:   graph.Vertex(rnd.Intn(6)),
					Label: string(rune('a' + rnd.Intn(2))),
					Dst:   graph.Vertex(rnd.Intn(6)),
				}
			}
			index := New(Options{})
			Load(index, edges)
			const target = 3
			_, err := Extend(index, target)
			require.NoError(t, err)
			for length := 1; length <= target; length++ {
				var got []string
				for _, id := range index.Registry().PathIDs(length) {
					got = append(got, drain(index.Search(graph.PathPrefix{ID: id}))...)
				}
				sort.Strings(got)
				assert.Equal(t, walks(edges, length), got, "length %d", length)
			}
		})
	}
}
