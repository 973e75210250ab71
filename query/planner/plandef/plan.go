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

// Package plandef defines the output of the query planner: trees of physical
// operators that evaluate a union-free path expression against the k-path
// index.
package plandef

import (
	"fmt"
	"strings"

	"github.com/ebay/kpath/pathid"
	"github.com/ebay/kpath/util/cmp"
)

// A Plan is a tree of physical operators that can be executed to find the
// paths matching a union-free path expression.
type Plan struct {
	// Which operation to execute, including its scalar arguments.
	Operator Operator
	// The plans whose results the operator takes as inputs, if any. A HashJoin
	// takes two inputs. An IndexLookup takes one Label input per label in its
	// identifier. A Label takes none.
	Inputs []*Plan
}

// String returns a multi-line indented human-readable string describing the
// execution plan.
func (plan *Plan) String() string {
	var b strings.Builder
	var print func(plan *Plan, indent string)
	print = func(plan *Plan, indent string) {
		fmt.Fprintf(&b, "%v%v\n", indent, plan.Operator)
		if _, isLookup := plan.Operator.(*IndexLookup); isLookup {
			return
		}
		for _, input := range plan.Inputs {
			print(input, indent+"\t")
		}
	}
	print(plan, "")
	return b.String()
}

// Key implements cmp.Key.
func (plan *Plan) Key(b *strings.Builder) {
	plan.Operator.Key(b)
	if len(plan.Inputs) == 0 {
		return
	}
	b.WriteString(" (")
	for i, input := range plan.Inputs {
		if i > 0 {
			b.WriteString(", ")
		}
		input.Key(b)
	}
	b.WriteByte(')')
}

// PathIDOfChildren returns the identifier formed by concatenating the
// identifiers of the plan's inputs, in order.
func (plan *Plan) PathIDOfChildren() pathid.ID {
	var id pathid.ID
	for _, input := range plan.Inputs {
		id = id.Concat(input.PathID())
	}
	return id
}

// PathID returns the identifier of the paths the plan produces.
func (plan *Plan) PathID() pathid.ID {
	if label, ok := plan.Operator.(*Label); ok {
		return pathid.New(label.Name)
	}
	return plan.PathIDOfChildren()
}

// Operator is a physical, executable operator.
type Operator interface {
	String() string
	cmp.Key
	anOperator()
}

// ImplementOperator is a list of types that implement Operator.
// This serves as documentation and as a compile-time check.
var ImplementOperator = []Operator{
	new(IndexLookup),
	new(HashJoin),
	new(Label),
}

// An IndexLookup Operator fetches every path from the index whose identifier
// is the concatenation of its Label inputs.
type IndexLookup struct {
	// The identifier that the inputs compose into. Set by NewIndexLookup for
	// display purposes.
	ID pathid.ID
}

func (op *IndexLookup) anOperator() {}

func (op *IndexLookup) String() string {
	return fmt.Sprintf("IndexLookup %v", op.ID)
}

// Key implements cmp.Key.
func (op *IndexLookup) Key(b *strings.Builder) {
	b.WriteString("IndexLookup")
}

// A HashJoin Operator takes two inputs and concatenates each path from the
// first input with each path from the second input that starts where it ends.
type HashJoin struct{}

func (op *HashJoin) anOperator() {}

func (op *HashJoin) String() string {
	return "HashJoin"
}

// Key implements cmp.Key.
func (op *HashJoin) Key(b *strings.Builder) {
	b.WriteString("HashJoin")
}

// A Label Operator names a single edge label. It only appears as an input of
// an IndexLookup, and is not executed itself.
type Label struct {
	Name string
}

func (op *Label) anOperator() {}

func (op *Label) String() string {
	return op.Name
}

// Key implements cmp.Key.
func (op *Label) Key(b *strings.Builder) {
	b.WriteString("Label ")
	b.WriteString(op.Name)
}

// NewIndexLookup returns a plan that looks up the identifier made of the
// given labels.
func NewIndexLookup(labels ...string) *Plan {
	inputs := make([]*Plan, len(labels))
	for i, label := range labels {
		inputs[i] = &Plan{Operator: &Label{Name: label}}
	}
	plan := &Plan{
		Operator: &IndexLookup{},
		Inputs:   inputs,
	}
	plan.Operator.(*IndexLookup).ID = plan.PathIDOfChildren()
	return plan
}

// NewHashJoin returns a plan that joins left and right.
func NewHashJoin(left, right *Plan) *Plan {
	return &Plan{
		Operator: &HashJoin{},
		Inputs:   []*Plan{left, right},
	}
}
