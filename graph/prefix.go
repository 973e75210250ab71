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

	"github.com/ebay/kpath/pathid"
)

// A PathPrefix requests paths from the index. It matches every path whose
// identifier equals ID and whose vertex sequence begins with Vertices. An
// empty Vertices matches every path with the identifier.
type PathPrefix struct {
	ID       pathid.ID
	Vertices []Vertex
}

// Matches returns true if p satisfies the prefix.
func (prefix PathPrefix) Matches(p Path) bool {
	if p.ID() != prefix.ID {
		return false
	}
	if len(prefix.Vertices) == 0 {
		return true
	}
	vs := p.Vertices()
	if len(prefix.Vertices) > len(vs) {
		return false
	}
	for i, v := range prefix.Vertices {
		if vs[i] != v {
			return false
		}
	}
	return true
}

func (prefix PathPrefix) String() string {
	if len(prefix.Vertices) == 0 {
		return fmt.Sprintf("[%v]", prefix.ID)
	}
	return fmt.Sprintf("[%v %v]", prefix.ID, prefix.Vertices)
}
