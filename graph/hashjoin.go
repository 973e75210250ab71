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
	"encoding/binary"
	"errors"

	"github.com/RoaringBitmap/roaring/roaring64"
	"github.com/cespare/xxhash/v2"
	"github.com/ebay/kpath/util/cmp"
)

// ErrSelfJoin is the panic value when a stream is joined with itself.
var ErrSelfJoin = errors.New("graph: stream joined with itself")

const (
	minJoinBuckets = 16
	maxJoinBuckets = 1 << 16
)

// HashJoin returns the stream of concatenations p⧺q for every path p from left
// and q from right where p.End() == q.Start().
//
// The left stream is read entirely into a hash table keyed by end vertex the
// first time the output is pulled. The right stream is then read lazily; for
// each right path, the matching left paths are emitted in the order they were
// read from left. Given deterministic inputs the output order is
// deterministic. Results are not deduplicated.
//
// The output's estimate is the smaller of the two input estimates. HashJoin
// panics with ErrSelfJoin if left and right are the same stream.
func HashJoin(left, right *Stream) *Stream {
	if left == right {
		panic(ErrSelfJoin)
	}
	var table *joinTable
	var probe Path
	var matches []Path
	next := func() (Path, bool) {
		if table == nil {
			table = buildJoinTable(left)
		}
		for len(matches) == 0 {
			var ok bool
			probe, ok = right.Next()
			if !ok {
				return Path{}, false
			}
			matches = table.lookup(probe.Start())
		}
		out := concat(matches[0], probe)
		matches = matches[1:]
		return out, true
	}
	owner := left.Owner()
	if owner == nil {
		owner = right.Owner()
	}
	return NewStream(next, cmp.MinInt(left.Estimate(), right.Estimate())).WithOwner(owner)
}

// A joinTable maps vertices to the paths ending at them. Buckets are chosen by
// hashing the vertex, and a bitmap of every key lets lookups of absent
// vertices skip the hashing entirely.
type joinTable struct {
	keys    *roaring64.Bitmap
	buckets [][]joinEntry
	mask    uint64
	// The number of paths in the table.
	size int
}

type joinEntry struct {
	vertex Vertex
	paths  []Path
}

func buildJoinTable(build *Stream) *joinTable {
	table := newJoinTable(build.Estimate())
	for {
		p, ok := build.Next()
		if !ok {
			return table
		}
		table.add(p)
	}
}

func newJoinTable(sizeHint int) *joinTable {
	n := minJoinBuckets
	for n < sizeHint && n < maxJoinBuckets {
		n *= 2
	}
	return &joinTable{
		keys:    roaring64.New(),
		buckets: make([][]joinEntry, n),
		mask:    uint64(n - 1),
	}
}

func (t *joinTable) bucket(v Vertex) uint64 {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v))
	return xxhash.Sum64(buf[:]) & t.mask
}

func (t *joinTable) add(p Path) {
	v := p.End()
	t.keys.Add(uint64(v))
	t.size++
	b := t.bucket(v)
	entries := t.buckets[b]
	for i := range entries {
		if entries[i].vertex == v {
			entries[i].paths = append(entries[i].paths, p)
			return
		}
	}
	t.buckets[b] = append(entries, joinEntry{vertex: v, paths: []Path{p}})
}

// lookup returns the paths ending at v, in insertion order. The caller must
// not modify the returned slice.
func (t *joinTable) lookup(v Vertex) []Path {
	if !t.keys.Contains(uint64(v)) {
		return nil
	}
	for _, entry := range t.buckets[t.bucket(v)] {
		if entry.vertex == v {
			return entry.paths
		}
	}
	return nil
}
