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

// Package planner turns a union-free parse tree into a physical plan made of
// index lookups and hash joins.
//
// The label sequence of the tree is split into consecutive segments. Each
// segment no longer than the index's k becomes an IndexLookup; longer
// sequences are formed by hash-joining two shorter ones. The planner picks the
// split that minimizes the estimated cost, using the same cost model as the
// executable operators: a lookup costs 1, and a join costs the cost of its
// inputs plus the estimated number of paths they produce.
package planner

import (
	"errors"
	"fmt"
	"math"

	"github.com/ebay/kpath/pathid"
	"github.com/ebay/kpath/query/parsetree"
	"github.com/ebay/kpath/query/planner/plandef"
	log "github.com/sirupsen/logrus"
)

// Stats provides the index statistics needed for planning.
// *kpathindex.Index satisfies this interface.
type Stats interface {
	// K returns the greatest path length in the index.
	K() int
	// Count returns the number of paths stored under id.
	Count(id pathid.ID) int
}

// ErrIndexEmpty is returned when planning against an index with k < 1.
var ErrIndexEmpty = errors.New("planner: index holds no paths (k < 1)")

// LookupCost is the cost of an index lookup.
const LookupCost = 1

// JoinCost returns the cost of a hash join given the costs and estimated
// cardinalities of its inputs.
func JoinCost(leftCost, leftCard, rightCost, rightCard int64) int64 {
	return leftCost + rightCost + leftCard + rightCard
}

// JoinCardinality estimates the number of paths a hash join produces given the
// estimated cardinalities of its inputs.
func JoinCardinality(leftCard, rightCard int64) int64 {
	if leftCard < rightCard {
		return leftCard
	}
	return rightCard
}

// An Estimate is the planner's prediction for a plan.
type Estimate struct {
	Cost        int64
	Cardinality int64
}

// Plan returns the cheapest plan for the union-free tree, along with its
// estimated cost. It returns an error if the tree contains a UNION or is
// otherwise malformed, or if stats.K() < 1.
func Plan(tree *parsetree.Tree, stats Stats) (*plandef.Plan, Estimate, error) {
	if err := tree.Validate(); err != nil {
		return nil, Estimate{}, err
	}
	labels, err := tree.LabelSequence()
	if err != nil {
		return nil, Estimate{}, err
	}
	k := stats.K()
	if k < 1 {
		return nil, Estimate{}, ErrIndexEmpty
	}
	p := &planner{labels: labels, k: k, stats: stats}
	p.solve()
	best := p.best[0][len(labels)]
	plan := p.build(0, len(labels))
	log.WithFields(log.Fields{
		"tree":        tree,
		"cost":        best.Cost,
		"cardinality": best.Cardinality,
	}).Debugf("Planned query:\n%v", plan)
	return plan, best.Estimate, nil
}

type planner struct {
	labels []string
	k      int
	stats  Stats
	// best[i][j] describes the cheapest plan for labels[i:j].
	best [][]choice
}

type choice struct {
	Estimate
	// If 0, labels[i:j] is a single IndexLookup. Otherwise, the plan joins
	// labels[i:split] with labels[split:j].
	split int
}

// solve fills in p.best for every interval, shortest first.
func (p *planner) solve() {
	n := len(p.labels)
	p.best = make([][]choice, n+1)
	for i := range p.best {
		p.best[i] = make([]choice, n+1)
	}
	for length := 1; length <= n; length++ {
		for i := 0; i+length <= n; i++ {
			j := i + length
			if length <= p.k {
				id := pathid.New(p.labels[i:j]...)
				p.best[i][j] = choice{Estimate: Estimate{
					Cost:        LookupCost,
					Cardinality: int64(p.stats.Count(id)),
				}}
				continue
			}
			best := choice{Estimate: Estimate{Cost: math.MaxInt64}}
			for split := i + 1; split < j; split++ {
				left, right := p.best[i][split], p.best[split][j]
				cost := JoinCost(left.Cost, left.Cardinality, right.Cost, right.Cardinality)
				if cost < best.Cost {
					best = choice{
						Estimate: Estimate{
							Cost:        cost,
							Cardinality: JoinCardinality(left.Cardinality, right.Cardinality),
						},
						split: split,
					}
				}
			}
			p.best[i][j] = best
		}
	}
}

// build returns the plan chosen for labels[i:j].
func (p *planner) build(i, j int) *plandef.Plan {
	c := p.best[i][j]
	if c.split == 0 {
		return plandef.NewIndexLookup(p.labels[i:j]...)
	}
	if c.split <= i || c.split >= j {
		panic(fmt.Sprintf("planner: invalid split %d for [%d, %d)", c.split, i, j))
	}
	return plandef.NewHashJoin(p.build(i, c.split), p.build(c.split, j))
}
