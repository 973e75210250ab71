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

package graph

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func pathStrings(paths []Path) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = p.String()
	}
	return out
}

func Test_HashJoin(t *testing.T) {
	left := []Path{
		MustPath(Edge{1, "a", 2}),
		MustPath(Edge{2, "a", 3}),
		MustPath(Edge{4, "a", 2}),
	}
	right := []Path{
		MustPath(Edge{2, "b", 5}),
		MustPath(Edge{3, "b", 6}),
		MustPath(Edge{7, "b", 8}),
		MustPath(Edge{2, "c", 9}),
	}
	out := drain(HashJoin(FromSlice(left), FromSlice(right)))
	assert.Equal(t, []string{
		"1 -a-> 2 -b-> 5",
		"4 -a-> 2 -b-> 5",
		"2 -a-> 3 -b-> 6",
		"1 -a-> 2 -c-> 9",
		"4 -a-> 2 -c-> 9",
	}, pathStrings(out))
}

func Test_HashJoin_empty(t *testing.T) {
	one := []Path{MustPath(Edge{1, "a", 2})}
	assert.Empty(t, drain(HashJoin(Empty(), FromSlice(one))))
	assert.Empty(t, drain(HashJoin(FromSlice(one), Empty())))
	assert.Empty(t, drain(HashJoin(Empty(), Empty())))
}

func Test_HashJoin_self(t *testing.T) {
	s := FromSlice(testPaths())
	assert.PanicsWithValue(t, ErrSelfJoin, func() { HashJoin(s, s) })
}

func Test_HashJoin_lazy(t *testing.T) {
	pulled := 0
	right := NewStream(func() (Path, bool) {
		pulled++
		return MustPath(Edge{2, "b", Vertex(pulled)}), true
	}, 1000)
	out := HashJoin(FromSlice([]Path{MustPath(Edge{1, "a", 2})}), right)
	assert.Equal(t, 1, out.Estimate())
	for i := 0; i < 3; i++ {
		_, ok := out.Next()
		assert.True(t, ok)
	}
	assert.Equal(t, 3, pulled)
}

func Test_HashJoin_owner(t *testing.T) {
	out := HashJoin(Empty(), Empty().WithOwner(testOwner("q")))
	assert.Equal(t, "q", out.Owner().String())
}

// Checks the join against a nested loop over random inputs, and that two runs
// over the same inputs produce the same order.
func Test_HashJoin_matchesNestedLoop(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	randomPaths := func(n int) []Path {
		paths := make([]Path, n)
		for i := range paths {
			paths[i] = MustPath(Edge{
				Src:   Vertex(rnd.Intn(20)),
				Label: fmt.Sprintf("l%d", rnd.Intn(3)),
				Dst:   Vertex(rnd.Intn(20)),
			})
		}
		return paths
	}
	left, right := randomPaths(200), randomPaths(200)
	var exp []string
	for _, p := range left {
		for _, q := range right {
			if p.End() == q.Start() {
				exp = append(exp, concat(p, q).String())
			}
		}
	}
	first := pathStrings(drain(HashJoin(FromSlice(left), FromSlice(right))))
	second := pathStrings(drain(HashJoin(FromSlice(left), FromSlice(right))))
	assert.Equal(t, first, second)
	sort.Strings(exp)
	sort.Strings(first)
	assert.Equal(t, exp, first)
}

func Test_joinTable(t *testing.T) {
	table := newJoinTable(0)
	assert.Len(t, table.buckets, minJoinBuckets)
	assert.Len(t, newJoinTable(1000).buckets, 1024)
	assert.Len(t, newJoinTable(1<<30).buckets, maxJoinBuckets)

	for v := Vertex(0); v < 100; v++ {
		table.add(MustPath(Edge{v, "a", v % 10}))
	}
	assert.Equal(t, 100, table.size)
	assert.Len(t, table.lookup(3), 10)
	assert.Nil(t, table.lookup(10))
	assert.Equal(t, Vertex(3), table.lookup(3)[0].Start())
	assert.Equal(t, Vertex(93), table.lookup(3)[9].Start())
}
