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

// Package parsetree defines the parse tree of a path expression. Leaves are
// edge labels; internal nodes are UNION (alternation) or CONCATENATION
// operators. The package also contains the rewrite that removes UNION nodes
// from a tree by distributing them into separate union-free trees.
package parsetree

import (
	"fmt"
	"strings"
)

// Kind identifies the type of a parse tree node.
type Kind int

// The kinds of parse tree nodes.
const (
	Leaf Kind = iota
	Union
	Concatenation
)

func (k Kind) String() string {
	switch k {
	case Leaf:
		return "LEAF"
	case Union:
		return "UNION"
	case Concatenation:
		return "CONCATENATION"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// A Tree is a node in a parse tree, along with all its descendants. A leaf
// node has a Label and no Children. An operator node (Union or
// Concatenation) has no Label and at least two Children. Each node exclusively
// owns its children: no node appears twice in a tree, or in two trees.
type Tree struct {
	Kind     Kind
	Label    string
	Children []*Tree
	// Set on the topmost node of a tree.
	IsRoot bool
}

// NewLeaf returns a leaf node for the given edge label.
func NewLeaf(label string) *Tree {
	return &Tree{Kind: Leaf, Label: label}
}

// NewUnion returns a UNION node over the given children.
func NewUnion(children ...*Tree) *Tree {
	return &Tree{Kind: Union, Children: children}
}

// NewConcat returns a CONCATENATION node over the given children.
func NewConcat(children ...*Tree) *Tree {
	return &Tree{Kind: Concatenation, Children: children}
}

// IsLeaf returns true if the node has no children.
func (t *Tree) IsLeaf() bool {
	return len(t.Children) == 0
}

// Clone returns a deep copy of the tree. The copy shares no nodes with t.
func (t *Tree) Clone() *Tree {
	if t == nil {
		return nil
	}
	clone := &Tree{
		Kind:   t.Kind,
		Label:  t.Label,
		IsRoot: t.IsRoot,
	}
	if len(t.Children) > 0 {
		clone.Children = make([]*Tree, len(t.Children))
		for i, child := range t.Children {
			clone.Children[i] = child.Clone()
		}
	}
	return clone
}

// Flatten merges operator nodes into their parents when both have the same
// kind, so that "(a/b)/c" becomes "a/b/c". It modifies the tree in place and
// returns t.
func (t *Tree) Flatten() *Tree {
	if t.IsLeaf() {
		return t
	}
	children := make([]*Tree, 0, len(t.Children))
	for _, child := range t.Children {
		child.Flatten()
		if child.Kind == t.Kind && !child.IsLeaf() {
			children = append(children, child.Children...)
		} else {
			children = append(children, child)
		}
	}
	t.Children = children
	return t
}

// Contains returns true if t or any of its descendants has the given kind.
func (t *Tree) Contains(kind Kind) bool {
	if t.Kind == kind {
		return true
	}
	for _, child := range t.Children {
		if child.Contains(kind) {
			return true
		}
	}
	return false
}

// ContainsSubtreesThroughOperator returns true if some node of kind op in t
// has, as consecutive children, the operands of s1 followed by the operands of
// s2. The operands of a subtree are its children if it is itself of kind op,
// or the subtree itself otherwise. Children are compared structurally.
//
// The check does not look through nested nodes of the same kind, so callers
// should Flatten t first.
func (t *Tree) ContainsSubtreesThroughOperator(s1, s2 *Tree, op Kind) bool {
	want := append(operands(s1, op), operands(s2, op)...)
	return t.containsRun(want, op)
}

func operands(s *Tree, op Kind) []*Tree {
	if s.Kind == op && !s.IsLeaf() {
		return append([]*Tree(nil), s.Children...)
	}
	return []*Tree{s}
}

func (t *Tree) containsRun(want []*Tree, op Kind) bool {
	if t.Kind == op && hasRun(t.Children, want) {
		return true
	}
	for _, child := range t.Children {
		if child.containsRun(want, op) {
			return true
		}
	}
	return false
}

// hasRun returns true if want appears as a contiguous subsequence of
// children.
func hasRun(children, want []*Tree) bool {
	for start := 0; start+len(want) <= len(children); start++ {
		match := true
		for i := range want {
			if !children[start+i].Equal(want[i]) {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// Equal returns true if t and other have the same structure, kinds, and
// labels. IsRoot is not compared.
func (t *Tree) Equal(other *Tree) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Kind != other.Kind || t.Label != other.Label || len(t.Children) != len(other.Children) {
		return false
	}
	for i := range t.Children {
		if !t.Children[i].Equal(other.Children[i]) {
			return false
		}
	}
	return true
}

// String returns the tree in path expression syntax, like "a/(b|c)". Nested
// operator nodes are parenthesized when needed to preserve the structure.
func (t *Tree) String() string {
	var b strings.Builder
	t.format(&b)
	return b.String()
}

func (t *Tree) format(b *strings.Builder) {
	if t == nil {
		b.WriteString("<nil>")
		return
	}
	var sep string
	switch t.Kind {
	case Leaf:
		b.WriteString(t.Label)
		return
	case Union:
		sep = "|"
	case Concatenation:
		sep = "/"
	default:
		fmt.Fprintf(b, "%v", t.Kind)
		return
	}
	for i, child := range t.Children {
		if i > 0 {
			b.WriteString(sep)
		}
		parens := child != nil && !child.IsLeaf() &&
			(child.Kind == t.Kind || (t.Kind == Concatenation && child.Kind == Union))
		if parens {
			b.WriteByte('(')
		}
		child.format(b)
		if parens {
			b.WriteByte(')')
		}
	}
}

// LabelSequence returns the labels of the tree's leaves, in order. It returns
// an error if the tree contains a UNION node.
func (t *Tree) LabelSequence() ([]string, error) {
	if t.Contains(Union) {
		return nil, &MalformedTreeError{Tree: t, Reason: "label sequence of a tree containing UNION"}
	}
	var labels []string
	var walk func(n *Tree)
	walk = func(n *Tree) {
		if n.Kind == Leaf {
			labels = append(labels, n.Label)
			return
		}
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(t)
	return labels, nil
}

// MalformedTreeError describes a parse tree that violates the structural rules
// for its node kinds.
type MalformedTreeError struct {
	// The offending node (possibly nil).
	Tree   *Tree
	Reason string
}

func (e *MalformedTreeError) Error() string {
	if e.Tree == nil {
		return fmt.Sprintf("malformed parse tree: %s", e.Reason)
	}
	return fmt.Sprintf("malformed parse tree at %v: %s", e.Tree, e.Reason)
}

// Validate returns a *MalformedTreeError if the tree is nil, or if any of its
// nodes is a leaf with children or an empty label, an operator with fewer than
// two children, or of an unknown kind.
func (t *Tree) Validate() error {
	if t == nil {
		return &MalformedTreeError{Reason: "empty tree"}
	}
	switch t.Kind {
	case Leaf:
		if len(t.Children) > 0 {
			return &MalformedTreeError{Tree: t, Reason: "leaf has children"}
		}
		if t.Label == "" {
			return &MalformedTreeError{Tree: t, Reason: "leaf has empty label"}
		}
		return nil
	case Union, Concatenation:
		if len(t.Children) < 2 {
			return &MalformedTreeError{Tree: t,
				Reason: fmt.Sprintf("%v has %d children, need at least 2", t.Kind, len(t.Children))}
		}
	default:
		return &MalformedTreeError{Tree: t, Reason: fmt.Sprintf("unknown kind %v", t.Kind)}
	}
	for _, child := range t.Children {
		if child == nil {
			return &MalformedTreeError{Tree: t, Reason: "nil child"}
		}
		if err := child.Validate(); err != nil {
			return err
		}
	}
	return nil
}
