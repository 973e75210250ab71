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
	"errors"
	"fmt"

	"github.com/ebay/kpath/util/cmp"
)

// ErrStreamConsumed is the panic value when a lazy Stream that has already
// been pulled from is asked for another full pass.
var ErrStreamConsumed = errors.New("graph: stream already consumed")

// A Stream is a lazy, single-pass sequence of paths. Paths are pulled one at a
// time with Next. A Stream can't be counted or iterated twice; call
// Materialize to capture it into a Materialized snapshot that can.
//
// Streams are not safe for concurrent use.
type Stream struct {
	// Produces the next path. Set to nil once exhausted.
	next func() (Path, bool)
	// A rough guess of the number of paths the stream will produce.
	estimate int
	// For diagnostics only; may be nil.
	owner fmt.Stringer
	// Set once Next has been called.
	pulled bool
	// If the stream iterates over a snapshot and hasn't been pulled from,
	// Materialize returns this instead of draining the stream.
	snapshot *Materialized
}

// NewStream returns a stream that calls next to produce each path, until next
// returns false. estimate is a guess of how many paths next will produce, used
// for cost estimates; it need not be accurate.
func NewStream(next func() (Path, bool), estimate int) *Stream {
	return &Stream{next: next, estimate: estimate}
}

// Empty returns a stream with no paths.
func Empty() *Stream {
	return NewStream(func() (Path, bool) { return Path{}, false }, 0)
}

// FromSlice returns a stream over the given paths. The stream does not copy
// paths, so the caller must not modify it while the stream is in use.
func FromSlice(paths []Path) *Stream {
	i := 0
	return NewStream(func() (Path, bool) {
		if i >= len(paths) {
			return Path{}, false
		}
		i++
		return paths[i-1], true
	}, len(paths))
}

// Next returns the next path in the stream. It returns false once the stream
// is exhausted, and every time after that.
func (s *Stream) Next() (Path, bool) {
	s.pulled = true
	if s.next == nil {
		return Path{}, false
	}
	p, ok := s.next()
	if !ok {
		s.next = nil
	}
	return p, ok
}

// Estimate returns the guess of the number of paths the stream produces.
func (s *Stream) Estimate() int {
	return s.estimate
}

// Owner returns the diagnostic owner set with WithOwner, or nil.
func (s *Stream) Owner() fmt.Stringer {
	return s.owner
}

// WithOwner sets the query or component that the stream belongs to. The owner
// only appears in diagnostics. It returns s.
func (s *Stream) WithOwner(owner fmt.Stringer) *Stream {
	s.owner = owner
	return s
}

// IsMaterialized returns true if the stream iterates over a Materialized
// snapshot rather than deriving its paths lazily.
func (s *Stream) IsMaterialized() bool {
	return s.snapshot != nil
}

// Materialize drains the stream into a snapshot. It panics with
// ErrStreamConsumed if paths have already been pulled from the stream.
func (s *Stream) Materialize() *Materialized {
	if s.pulled {
		panic(ErrStreamConsumed)
	}
	if s.snapshot != nil {
		s.pulled = true
		s.next = nil
		return s.snapshot
	}
	paths := make([]Path, 0, s.estimate)
	s.ForEach(func(p Path) {
		paths = append(paths, p)
	})
	return &Materialized{paths: paths, owner: s.owner}
}

// ForEach calls fn for every path in the stream, in order. It panics with
// ErrStreamConsumed if paths have already been pulled from the stream.
func (s *Stream) ForEach(fn func(Path)) {
	if s.pulled {
		panic(ErrStreamConsumed)
	}
	for {
		p, ok := s.Next()
		if !ok {
			return
		}
		fn(p)
	}
}

// Limit returns a stream that produces at most the first n paths of s. If n
// is not positive, it returns s.
func (s *Stream) Limit(n int) *Stream {
	if n <= 0 {
		return s
	}
	remaining := n
	return NewStream(func() (Path, bool) {
		if remaining == 0 {
			return Path{}, false
		}
		remaining--
		return s.Next()
	}, cmp.MinInt(s.estimate, n)).WithOwner(s.owner)
}

func (s *Stream) String() string {
	if s.owner == nil {
		return fmt.Sprintf("Stream(~%d)", s.estimate)
	}
	return fmt.Sprintf("Stream(~%d, owner=%v)", s.estimate, s.owner)
}

// Concat returns a stream that produces every path of each of the given
// streams, in order. Each input stream is pulled only once the previous one is
// exhausted.
func Concat(streams ...*Stream) *Stream {
	estimate := 0
	for _, s := range streams {
		estimate += s.estimate
	}
	i := 0
	return NewStream(func() (Path, bool) {
		for i < len(streams) {
			if p, ok := streams[i].Next(); ok {
				return p, true
			}
			i++
		}
		return Path{}, false
	}, estimate)
}

// A Materialized is an owned snapshot of a stream's paths. Unlike a Stream, it
// can be counted and iterated any number of times.
type Materialized struct {
	paths []Path
	owner fmt.Stringer
}

// Collect returns a snapshot of the given paths. It takes ownership of the
// slice.
func Collect(paths []Path) *Materialized {
	return &Materialized{paths: paths}
}

// Len returns the number of paths in the snapshot.
func (m *Materialized) Len() int {
	return len(m.paths)
}

// Paths returns the paths in the snapshot. The caller must not modify the
// returned slice.
func (m *Materialized) Paths() []Path {
	return m.paths
}

// Each calls fn for each path in order.
func (m *Materialized) Each(fn func(Path)) {
	for _, p := range m.paths {
		fn(p)
	}
}

// Owner returns the diagnostic owner of the stream the snapshot was taken
// from, or nil.
func (m *Materialized) Owner() fmt.Stringer {
	return m.owner
}

// Stream returns a new single-pass stream over the snapshot.
func (m *Materialized) Stream() *Stream {
	s := FromSlice(m.paths).WithOwner(m.owner)
	s.snapshot = m
	return s
}
