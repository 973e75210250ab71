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

package pathid

import (
	"sort"
	"sync"
)

// A Registry enumerates the IDs that have been seen, grouped by length. It is
// safe for concurrent use.
type Registry struct {
	lock sync.RWMutex
	// byLen[n] is the set of registered IDs of length n.
	byLen map[int]map[ID]struct{}
	// The greatest length of any registered ID.
	maxLen int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byLen: make(map[int]map[ID]struct{}),
	}
}

// Register adds id to the registry. It returns true if id was not already
// registered. The empty ID is ignored.
func (r *Registry) Register(id ID) bool {
	if id.Len() == 0 {
		return false
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	set := r.byLen[id.Len()]
	if set == nil {
		set = make(map[ID]struct{})
		r.byLen[id.Len()] = set
	}
	if _, exists := set[id]; exists {
		return false
	}
	set[id] = struct{}{}
	if id.Len() > r.maxLen {
		r.maxLen = id.Len()
	}
	return true
}

// PathIDs returns every registered ID of the given length, sorted by their
// string encoding. The returned slice is owned by the caller.
func (r *Registry) PathIDs(length int) []ID {
	r.lock.RLock()
	set := r.byLen[length]
	ids := make([]ID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	r.lock.RUnlock()
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].key < ids[j].key
	})
	return ids
}

// MaxLength returns the length of the longest registered ID, or 0 if the
// registry is empty.
func (r *Registry) MaxLength() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.maxLen
}

// Len returns the number of registered IDs of every length.
func (r *Registry) Len() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	n := 0
	for _, set := range r.byLen {
		n += len(set)
	}
	return n
}
