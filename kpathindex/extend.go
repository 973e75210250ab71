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
	"time"

	"github.com/ebay/kpath/graph"
	log "github.com/sirupsen/logrus"
)

var (
	// ErrTargetTooLarge is returned by Extend when the target exceeds the
	// index's MaxK.
	ErrTargetTooLarge = errors.New("kpathindex: target k exceeds maximum")
	// ErrNotLoaded is returned by Extend when the index has not been loaded.
	ErrNotLoaded = errors.New("kpathindex: index has not been loaded")
)

// Load inserts each edge as a path of length 1 and sets k to 1. It returns the
// number of paths inserted. Load should be called once, on an empty index.
func Load(index *Index, edges []graph.Edge) int {
	for _, e := range edges {
		index.Insert(graph.MustPath(e))
	}
	index.setK(1)
	metrics.pathsInserted.Add(float64(len(edges)))
	metrics.indexK.Set(1)
	log.WithFields(log.Fields{
		"edges": len(edges),
		"ids":   index.registry.Len(),
	}).Info("Loaded edges into k-path index")
	return len(edges)
}

// Extend grows the index until it holds every path of length targetK. Each
// level joins every path of length k with every path of length 1 and inserts
// the results, then increments k. It returns the total number of paths
// inserted. If the index already satisfies targetK, Extend does nothing and
// returns 0.
//
// Extend returns an error without modifying the index if the index hasn't
// been loaded or if targetK exceeds MaxK. If a level fails, Extend returns 0
// and the error.
func Extend(index *Index, targetK int) (int, error) {
	k := index.K()
	if targetK <= k {
		return 0, nil
	}
	if k == 0 {
		return 0, ErrNotLoaded
	}
	if maxK := index.MaxK(); maxK > 0 && targetK > maxK {
		return 0, fmt.Errorf("%w: requested %d, maximum is %d", ErrTargetTooLarge, targetK, maxK)
	}
	total := 0
	for k < targetK {
		inserted, err := extendLevel(index, k)
		if err != nil {
			return 0, fmt.Errorf("extending index from k=%d: %w", k, err)
		}
		total += inserted
		k++
	}
	return total, nil
}

// extendLevel derives and inserts every path of length k+1, then sets the
// index's k to k+1.
func extendLevel(index *Index, k int) (int, error) {
	start := time.Now()
	sourceK := lengthStream(index, k)
	k1 := lengthStream(index, 1)
	joined := graph.HashJoin(sourceK, k1)
	// Every search stream must be drained before the first insert.
	newPaths := joined.Materialize()
	for _, p := range newPaths.Paths() {
		if p.Len() != k+1 {
			return 0, fmt.Errorf("derived path %v has length %d, expected %d", p, p.Len(), k+1)
		}
		index.Insert(p)
	}
	index.setK(k + 1)
	elapsed := time.Since(start)
	metrics.levelDurationSeconds.Observe(elapsed.Seconds())
	metrics.pathsInserted.Add(float64(newPaths.Len()))
	metrics.indexK.Set(float64(k + 1))
	log.WithFields(log.Fields{
		"k":        k + 1,
		"inserted": newPaths.Len(),
		"ids":      len(index.registry.PathIDs(k + 1)),
		"elapsed":  elapsed,
	}).Info("Extended k-path index")
	return newPaths.Len(), nil
}

// lengthStream returns the concatenation of the search streams for every
// registered identifier of the given length.
func lengthStream(index *Index, length int) *graph.Stream {
	ids := index.registry.PathIDs(length)
	streams := make([]*graph.Stream, len(ids))
	for i, id := range ids {
		streams[i] = index.Search(graph.PathPrefix{ID: id})
	}
	return graph.Concat(streams...)
}
