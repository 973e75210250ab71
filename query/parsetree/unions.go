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

package parsetree

import (
	log "github.com/sirupsen/logrus"
)

// PullUnions rewrites tree into a list of trees that contain no UNION nodes,
// such that the paths matched by tree are exactly the paths matched by any of
// the returned trees. For example, "a/(b|c)/d" becomes ["a/b/d", "a/c/d"].
// The input tree is not modified.
//
// The trees are split in a fixed order, so the same input always produces the
// same list in the same order:
//   - A tree whose root is a UNION is removed from the list, and each of its
//     children is appended as a new root.
//   - Otherwise, the tree is cloned. Its first UNION node is replaced by that
//     node's first child, and the clone's first UNION node is replaced by its
//     second child. The clone is appended to the list. The first UNION node is
//     found by checking a node's children before descending into them,
//     starting at the root.
//
// This repeats until no tree in the list contains a UNION. UNION nodes with
// more than two children are first rewritten as right-nested pairs, so "a|b|c"
// is handled as "a|(b|c)". Each returned tree is flattened.
//
// PullUnions returns a *MalformedTreeError if the tree fails Validate.
func PullUnions(tree *Tree) ([]*Tree, error) {
	if err := tree.Validate(); err != nil {
		return nil, err
	}
	root := binarizeUnions(tree.Clone())
	root.IsRoot = true
	trees := []*Tree{root}
	for {
		var unionTrees []*Tree
		for _, t := range trees {
			if t.Contains(Union) {
				unionTrees = append(unionTrees, t)
			}
		}
		if len(unionTrees) == 0 {
			break
		}
		for _, t := range unionTrees {
			if t.Kind == Union {
				trees = remove(trees, t)
				for _, child := range t.Children {
					clone := child.Clone()
					clone.IsRoot = true
					trees = append(trees, clone)
				}
				continue
			}
			clone := t.Clone()
			replaceFirstUnion(t, 0)
			replaceFirstUnion(clone, 1)
			log.WithFields(log.Fields{
				"left":  t,
				"right": clone,
			}).Debug("Split parse tree on UNION")
			trees = append(trees, clone)
		}
	}
	for _, t := range trees {
		t.Flatten()
	}
	return trees, nil
}

// remove returns trees without the node t, preserving order.
func remove(trees []*Tree, t *Tree) []*Tree {
	for i := range trees {
		if trees[i] == t {
			return append(trees[:i], trees[i+1:]...)
		}
	}
	return trees
}

// replaceFirstUnion finds the first UNION node below t and replaces it in its
// parent with its child at the given index. A node's children are checked
// before its descendants. It returns true if a UNION node was replaced.
func replaceFirstUnion(t *Tree, childIndex int) bool {
	for i, child := range t.Children {
		if child.Kind == Union {
			t.Children[i] = child.Children[childIndex]
			return true
		}
	}
	for _, child := range t.Children {
		if replaceFirstUnion(child, childIndex) {
			return true
		}
	}
	return false
}

// binarizeUnions rewrites every UNION node with more than two children into a
// right-nested chain of two-child UNION nodes, in place. It returns t.
func binarizeUnions(t *Tree) *Tree {
	for _, child := range t.Children {
		binarizeUnions(child)
	}
	if t.Kind == Union && len(t.Children) > 2 {
		rest := NewUnion(t.Children[1:]...)
		binarizeUnions(rest)
		t.Children = []*Tree{t.Children[0], rest}
	}
	return t
}
