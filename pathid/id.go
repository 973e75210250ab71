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

// Package pathid defines path identifiers: canonical encodings of the label
// sequence that a path traverses. It also contains a registry that enumerates
// the identifiers known for each path length.
package pathid

import (
	"strings"

	"github.com/ebay/kpath/util/cmp"
	log "github.com/sirupsen/logrus"
)

// separator joins labels in the canonical encoding of an ID. Labels may not
// contain it.
const separator = ","

// An ID identifies the type of a path by its ordered sequence of edge labels.
// IDs are immutable values; two IDs are equal (==) iff their label sequences
// are equal. The zero value is the empty identifier, which has length 0.
type ID struct {
	// The labels joined with separator.
	key string
	// The number of labels.
	n int
}

// New returns the ID for the given label sequence. It panics if any label is
// empty or contains a comma.
func New(labels ...string) ID {
	for _, label := range labels {
		checkLabel(label)
	}
	return ID{key: strings.Join(labels, separator), n: len(labels)}
}

func checkLabel(label string) {
	if label == "" {
		log.Panicf("pathid: empty label")
	}
	if strings.Contains(label, separator) {
		log.Panicf("pathid: label %q contains %q", label, separator)
	}
}

// Parse is the inverse of ID.String. An empty string results in the empty ID.
func Parse(s string) ID {
	if s == "" {
		return ID{}
	}
	return New(strings.Split(s, separator)...)
}

// Len returns the number of labels in the ID.
func (id ID) Len() int {
	return id.n
}

// Labels returns a new slice containing the labels in order.
func (id ID) Labels() []string {
	if id.n == 0 {
		return nil
	}
	return strings.Split(id.key, separator)
}

// Label returns the i-th label. It panics if i is out of range.
func (id ID) Label(i int) string {
	if i < 0 || i >= id.n {
		log.Panicf("pathid: label index %d out of range for %v", i, id)
	}
	return id.Labels()[i]
}

// Concat returns the ID whose label sequence is id's labels followed by
// other's labels.
func (id ID) Concat(other ID) ID {
	switch {
	case id.n == 0:
		return other
	case other.n == 0:
		return id
	}
	return ID{key: id.key + separator + other.key, n: id.n + other.n}
}

// String returns the labels joined by commas, like "a,b".
func (id ID) String() string {
	return id.key
}

// Key implements cmp.Key.
func (id ID) Key(b *strings.Builder) {
	b.WriteString("pathid:")
	b.WriteString(id.key)
}

var _ cmp.Key = ID{}
