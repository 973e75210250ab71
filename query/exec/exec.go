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
	"github.com/ebay/kpath/query/planner/plandef"
)

// Index is the read-only view of the k-path index that operators need.
// *kpathindex.Index satisfies this interface.
type Index interface {
	Search(prefix graph.PathPrefix) *graph.Stream
	Count(id pathid.ID) int
}

// An Operator is an executable node of a physical plan.
type Operator interface {
	// Evaluate returns a lazy stream of the operator's results. Each call
	// returns an independent stream.
	Evaluate() *graph.Stream
	// Cost returns the estimated cost of evaluating the operator, including
	// its inputs.
	Cost() int64
	// Cardinality returns the estimated number of paths Evaluate produces.
	Cardinality() int64
	// Plan returns the plan node this operator was built from.
	Plan() *plandef.Plan
}

// Build converts the plan into a tree of Operators. The owner is attached to
// every resulting stream for diagnostics; it may be nil. Build returns an
// error if the plan is malformed.
func Build(index Index, plan *plandef.Plan, owner fmt.Stringer) (Operator, error) {
	switch op := plan.Operator.(type) {
	case *plandef.IndexLookup:
		for _, input := range plan.Inputs {
			if _, ok := input.Operator.(*plandef.Label); !ok {
				return nil, fmt.Errorf("exec: IndexLookup input must be a Label, got %v", input.Operator)
			}
		}
		if len(plan.Inputs) == 0 {
			return nil, fmt.Errorf("exec: IndexLookup with no Label inputs")
		}
		return newIndexLookup(index, plan, owner), nil
	case *plandef.HashJoin:
		if len(plan.Inputs) != 2 {
			return nil, fmt.Errorf("exec: HashJoin with %d inputs, need 2", len(plan.Inputs))
		}
		left, err := Build(index, plan.Inputs[0], owner)
		if err != nil {
			return nil, err
		}
		right, err := Build(index, plan.Inputs[1], owner)
		if err != nil {
			return nil, err
		}
		return newHashJoin(plan, left, right, owner), nil
	default:
		return nil, fmt.Errorf("exec: unexpected operator %T (%v) at plan root", op, op)
	}
}

// Execute builds the plan and evaluates it, returning the stream of matching
// paths.
func Execute(index Index, plan *plandef.Plan, owner fmt.Stringer) (*graph.Stream, error) {
	op, err := Build(index, plan, owner)
	if err != nil {
		return nil, err
	}
	return op.Evaluate(), nil
}
