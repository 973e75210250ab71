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

package exec

import (
	"fmt"

	"github.com/ebay/kpath/graph"
	"github.com/ebay/kpath/pathid"
	"github.com/ebay/kpath/query/planner"
	"github.com/ebay/kpath/query/planner/plandef"
)

// indexLookup is the leaf Operator. It returns the paths stored in the index
// under the identifier that the plan's Label inputs compose into. It only
// reads from the index.
type indexLookup struct {
	plan  *plandef.Plan
	index Index
	id    pathid.ID
	owner fmt.Stringer
}

func newIndexLookup(index Index, plan *plandef.Plan, owner fmt.Stringer) *indexLookup {
	return &indexLookup{
		plan:  plan,
		index: index,
		id:    plan.PathIDOfChildren(),
		owner: owner,
	}
}

func (l *indexLookup) Evaluate() *graph.Stream {
	return l.index.Search(graph.PathPrefix{ID: l.id}).WithOwner(l.owner)
}

// Cost is constant: a lookup has no inputs to evaluate.
func (l *indexLookup) Cost() int64 {
	return planner.LookupCost
}

func (l *indexLookup) Cardinality() int64 {
	return int64(l.index.Count(l.id))
}

func (l *indexLookup) Plan() *plandef.Plan {
	return l.plan
}
