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
	"github.com/ebay/kpath/query/planner"
	"github.com/ebay/kpath/query/planner/plandef"
	"github.com/sirupsen/logrus"
)

// hashJoin concatenates the paths of its left input with the paths of its
// right input that start where they end. The left input is read into a hash
// table keyed by end vertex; the right input is then streamed through it. See
// graph.HashJoin.
type hashJoin struct {
	plan  *plandef.Plan
	left  Operator
	right Operator
	owner fmt.Stringer
}

func newHashJoin(plan *plandef.Plan, left, right Operator, owner fmt.Stringer) *hashJoin {
	if left == right {
		logrus.Panicf("hashJoin operation with the same input on both sides: %v", left.Plan().Operator)
	}
	return &hashJoin{
		plan:  plan,
		left:  left,
		right: right,
		owner: owner,
	}
}

// Evaluate evaluates both inputs into independent streams and joins them.
func (h *hashJoin) Evaluate() *graph.Stream {
	return graph.HashJoin(h.left.Evaluate(), h.right.Evaluate()).WithOwner(h.owner)
}

// Cost is the sum of the input costs plus the number of paths expected from
// both inputs, all of which are read once.
func (h *hashJoin) Cost() int64 {
	return planner.JoinCost(h.left.Cost(), h.left.Cardinality(),
		h.right.Cost(), h.right.Cardinality())
}

func (h *hashJoin) Cardinality() int64 {
	return planner.JoinCardinality(h.left.Cardinality(), h.right.Cardinality())
}

func (h *hashJoin) Plan() *plandef.Plan {
	return h.plan
}
