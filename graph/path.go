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

// Package graph defines the labeled-graph value types (vertices, edges, and
// paths) along with PathStreams, the lazy sequences of paths that flow between
// the index and the query operators.
package graph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ebay/kpath/pathid"
)

// A Vertex identifies a node in the graph.
type Vertex uint64

// An Edge is a directed, labeled edge from Src to Dst.
type Edge struct {
	Src   Vertex
	Label string
	Dst   Vertex
}

func (e Edge) String() string {
	return fmt.Sprintf("%d -%s-> %d", e.Src, e.Label, e.Dst)
}

var (
	// ErrPathEmpty is returned when constructing a path with no edges.
	ErrPathEmpty = errors.New("graph: path has no edges")
	// ErrPathDiscontinuous is returned when one edge of a path doesn't start
	// where the previous edge ended.
	ErrPathDiscontinuous = errors.New("graph: path is not contiguous")
)

// A Path is a walk through the graph: a non-empty sequence of edges where each
// edge starts at the vertex the previous edge ended at. Paths are immutable.
type Path struct {
	edges []Edge
	id    pathid.ID
}

// NewPath returns the path made of the given edges. It returns an error
// wrapping ErrPathEmpty or ErrPathDiscontinuous if the edges don't form a
// walk.
func NewPath(edges ...Edge) (Path, error) {
	if len(edges) == 0 {
		return Path{}, ErrPathEmpty
	}
	labels := make([]string, len(edges))
	for i, e := range edges {
		if i > 0 && edges[i-1].Dst != e.Src {
			return Path{}, fmt.Errorf("%w: edge %d (%v) doesn't start at %d",
				ErrPathDiscontinuous, i, e, edges[i-1].Dst)
		}
		labels[i] = e.Label
	}
	return Path{
		edges: append([]Edge(nil), edges...),
		id:    pathid.New(labels...),
	}, nil
}

// MustPath is like NewPath but panics on error. It's intended for tests and
// for edges that are already known to be contiguous.
func MustPath(edges ...Edge) Path {
	p, err := NewPath(edges...)
	if err != nil {
		panic(err)
	}
	return p
}

// ID returns the identifier of the path's label sequence.
func (p Path) ID() pathid.ID {
	return p.id
}

// Len returns the number of edges in the path.
func (p Path) Len() int {
	return len(p.edges)
}

// Start returns the first vertex of the path.
func (p Path) Start() Vertex {
	return p.edges[0].Src
}

// End returns the last vertex of the path. This is the join attribute when the
// path is the left side of a concatenation.
func (p Path) End() Vertex {
	return p.edges[len(p.edges)-1].Dst
}

// Edges returns a copy of the path's edges.
func (p Path) Edges() []Edge {
	return append([]Edge(nil), p.edges...)
}

// Vertices returns the Len()+1 vertices the path visits, in order.
func (p Path) Vertices() []Vertex {
	if len(p.edges) == 0 {
		return nil
	}
	vs := make([]Vertex, 0, len(p.edges)+1)
	vs = append(vs, p.edges[0].Src)
	for _, e := range p.edges {
		vs = append(vs, e.Dst)
	}
	return vs
}

// Concat returns the path made of p's edges followed by q's edges. It returns
// an error wrapping ErrPathDiscontinuous if p doesn't end where q starts.
func (p Path) Concat(q Path) (Path, error) {
	if p.Len() == 0 {
		return q, nil
	}
	if q.Len() == 0 {
		return p, nil
	}
	if p.End() != q.Start() {
		return Path{}, fmt.Errorf("%w: %v ends at %d but %v starts at %d",
			ErrPathDiscontinuous, p, p.End(), q, q.Start())
	}
	return concat(p, q), nil
}

// concat joins two non-empty paths whose join attributes are known to match.
func concat(p, q Path) Path {
	edges := make([]Edge, 0, len(p.edges)+len(q.edges))
	edges = append(edges, p.edges...)
	edges = append(edges, q.edges...)
	return Path{edges: edges, id: p.id.Concat(q.id)}
}

// String returns a representation like "1 -a-> 2 -b-> 3".
func (p Path) String() string {
	if len(p.edges) == 0 {
		return "(empty path)"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d", p.edges[0].Src)
	for _, e := range p.edges {
		fmt.Fprintf(&b, " -%s-> %d", e.Label, e.Dst)
	}
	return b.String()
}
