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

// Package kpathindex implements the k-path index: a multimap from path
// identifier to every concrete path in the graph with that label sequence, for
// every length from 1 through the index's k.
//
// The index is loaded with the graph's edges (k=1) and grown with Extend. It
// supports any number of concurrent readers but only a single writer.
// Streams returned by Search are lazy and read from the index as they are
// pulled; pulling from such a stream after the index has been modified panics
// with ErrConcurrentModification. Callers that read from and then write to the
// index must materialize their reads first.
package kpathindex

import (
	"errors"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/ebay/kpath/graph"
	"github.com/ebay/kpath/pathid"
	"github.com/ebay/kpath/util/cmp"
	"github.com/google/btree"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrConcurrentModification is the panic value when a lazy stream from Search
// is pulled after the index was modified.
var ErrConcurrentModification = errors.New("kpathindex: index modified while a search stream was pending")

// searchBatchSize is the number of items a search stream reads from the tree
// at a time.
const searchBatchSize = 256

// Options control the behavior of an Index. The zero value is usable.
type Options struct {
	// If positive, Extend refuses targets greater than this.
	MaxK int
	// The identifier registry to maintain. If nil, the index creates its own.
	Registry *pathid.Registry
}

// Index is a k-path index. Create one with New.
type Index struct {
	options  Options
	registry *pathid.Registry
	// Incremented by every insert. Used to detect stale search streams.
	version atomic.Uint64
	// Protects locked.
	lock sync.RWMutex
	// Protected by lock.
	locked struct {
		// Holds indexItems.
		tree *btree.BTree
		// The number of paths stored for each identifier.
		counts map[pathid.ID]int
		// The greatest path length fully indexed. 0 until the index is loaded.
		k int
		// The last sequence number assigned to an item.
		seq uint64
	}
}

// New returns an empty index with k=0.
func New(options Options) *Index {
	registry := options.Registry
	if registry == nil {
		registry = pathid.NewRegistry()
	}
	index := &Index{
		options:  options,
		registry: registry,
	}
	index.locked.tree = btree.New(16)
	index.locked.counts = make(map[pathid.ID]int)
	return index
}

// indexItem is the btree.Item stored in the tree. Items are ordered by
// identifier, then by the vertices of the path, then by insertion order, so
// that all the paths matching a PathPrefix are contiguous.
type indexItem struct {
	key      string
	vertices []uint64
	seq      uint64
	path     graph.Path
}

func (item indexItem) Less(other btree.Item) bool {
	o := other.(indexItem)
	if item.key != o.key {
		return item.key < o.key
	}
	if c := cmp.CompareUint64s(item.vertices, o.vertices); c != 0 {
		return c < 0
	}
	return item.seq < o.seq
}

func vertexKey(vs []graph.Vertex) []uint64 {
	out := make([]uint64, len(vs))
	for i, v := range vs {
		out[i] = uint64(v)
	}
	return out
}

// K returns the greatest path length that the index holds completely.
func (index *Index) K() int {
	index.lock.RLock()
	defer index.lock.RUnlock()
	return index.locked.k
}

func (index *Index) setK(k int) {
	index.lock.Lock()
	index.locked.k = k
	index.lock.Unlock()
}

// MaxK returns the configured limit for Extend, or 0 if there is none.
func (index *Index) MaxK() int {
	return index.options.MaxK
}

// Registry returns the registry of identifiers the index has stored paths for.
func (index *Index) Registry() *pathid.Registry {
	return index.registry
}

// Insert adds the path to the index under its identifier. It does not check
// for duplicates: inserting the same path twice stores it twice. Insert panics
// if p has no edges.
func (index *Index) Insert(p graph.Path) {
	if p.Len() == 0 {
		log.Panicf("kpathindex: cannot insert empty path")
	}
	id := p.ID()
	index.lock.Lock()
	index.locked.seq++
	index.locked.tree.ReplaceOrInsert(indexItem{
		key:      id.String(),
		vertices: vertexKey(p.Vertices()),
		seq:      index.locked.seq,
		path:     p,
	})
	index.locked.counts[id]++
	index.version.Add(1)
	index.lock.Unlock()
	index.registry.Register(id)
}

// Count returns the number of paths stored under id.
func (index *Index) Count(id pathid.ID) int {
	index.lock.RLock()
	defer index.lock.RUnlock()
	return index.locked.counts[id]
}

// Len returns the total number of paths in the index.
func (index *Index) Len() int {
	index.lock.RLock()
	defer index.lock.RUnlock()
	return index.locked.tree.Len()
}

// Search returns a lazy stream of every path matching prefix, ordered by
// vertex sequence and then insertion order. If nothing matches, the stream is
// empty. The stream must be drained (or abandoned) before the index is next
// modified; see ErrConcurrentModification.
func (index *Index) Search(prefix graph.PathPrefix) *graph.Stream {
	s := &searchStream{
		index:   index,
		version: index.version.Load(),
		prefix:  prefix,
		pivot: indexItem{
			key:      prefix.ID.String(),
			vertices: vertexKey(prefix.Vertices),
		},
	}
	estimate := index.Count(prefix.ID)
	return graph.NewStream(s.next, estimate)
}

// searchStream reads matching items out of the tree in batches.
type searchStream struct {
	index   *Index
	version uint64
	prefix  graph.PathPrefix
	// The next batch starts at the first item >= pivot.
	pivot indexItem
	// Items read but not yet returned.
	batch []graph.Path
	// Set once the tree has no more matching items.
	done bool
}

func (s *searchStream) next() (graph.Path, bool) {
	if s.index.version.Load() != s.version {
		panic(ErrConcurrentModification)
	}
	if len(s.batch) == 0 && !s.done {
		s.fill()
	}
	if len(s.batch) == 0 {
		return graph.Path{}, false
	}
	p := s.batch[0]
	s.batch = s.batch[1:]
	return p, true
}

func (s *searchStream) fill() {
	s.batch = make([]graph.Path, 0, searchBatchSize)
	var last indexItem
	s.index.lock.RLock()
	s.index.locked.tree.AscendGreaterOrEqual(s.pivot, func(btreeItem btree.Item) bool {
		item := btreeItem.(indexItem)
		if item.key != s.pivot.key || !s.prefix.Matches(item.path) {
			s.done = true
			return false
		}
		s.batch = append(s.batch, item.path)
		last = item
		return len(s.batch) < searchBatchSize
	})
	s.index.lock.RUnlock()
	if len(s.batch) < searchBatchSize {
		s.done = true
		return
	}
	s.pivot = indexItem{key: last.key, vertices: last.vertices, seq: last.seq + 1}
}

// IDStat describes the paths stored under a single identifier.
type IDStat struct {
	ID    pathid.ID
	Count int
}

// Stats describes the contents of an index.
type Stats struct {
	K     int
	Paths int
	IDs   []IDStat
}

// Stats returns a summary of the index. IDs are ordered by length, then by
// their string encoding.
func (index *Index) Stats() Stats {
	index.lock.RLock()
	stats := Stats{
		K:     index.locked.k,
		Paths: index.locked.tree.Len(),
		IDs:   make([]IDStat, 0, len(index.locked.counts)),
	}
	for id, count := range index.locked.counts {
		stats.IDs = append(stats.IDs, IDStat{ID: id, Count: count})
	}
	index.lock.RUnlock()
	sort.Slice(stats.IDs, func(i, j int) bool {
		a, b := stats.IDs[i].ID, stats.IDs[j].ID
		if a.Len() != b.Len() {
			return a.Len() < b.Len()
		}
		return a.String() < b.String()
	})
	return stats
}

var countPrinter = message.NewPrinter(language.English)

// Table returns the stats as rows for table.PrettyPrint, starting with a
// header row. Counts are formatted with thousands separators.
func (stats Stats) Table() [][]string {
	t := make([][]string, 0, len(stats.IDs)+2)
	t = append(t, []string{"Path ID", "Length", "Paths"})
	for _, s := range stats.IDs {
		t = append(t, []string{
			s.ID.String(),
			countPrinter.Sprint(s.ID.Len()),
			countPrinter.Sprint(s.Count),
		})
	}
	t = append(t, []string{"(total)", countPrinter.Sprintf("k=%d", stats.K), countPrinter.Sprint(stats.Paths)})
	return t
}
