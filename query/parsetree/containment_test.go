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
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ContainsSubtreesThroughOperator_allChildren(t *testing.T) {
	//            UNION
	//          /       \
	//   CONCATENATION  CONCATENATION
	//      /   \          /     \
	//     a     b        c       d
	s1 := NewConcat(leaves("a", "b")...)
	s2 := NewConcat(leaves("c", "d")...)
	root := NewUnion(s1, s2)

	assert.True(t, root.ContainsSubtreesThroughOperator(s1, s2, Union))
	assert.False(t, root.ContainsSubtreesThroughOperator(s2, s1, Union))
	assert.False(t, root.ContainsSubtreesThroughOperator(s1, s2, Concatenation))
}

func Test_ContainsSubtreesThroughOperator_notAdjacent(t *testing.T) {
	//              UNION
	//           /    |    \
	//  CONCATENATION c  CONCATENATION
	//      /   \          /     \
	//     a     b        d       e
	s1 := NewConcat(leaves("a", "b")...)
	s2 := NewConcat(leaves("d", "e")...)
	root := NewUnion(s1, NewLeaf("c"), s2)

	assert.False(t, root.ContainsSubtreesThroughOperator(s1, s2, Union))
	assert.False(t, root.ContainsSubtreesThroughOperator(s1, s2, Concatenation))
	assert.False(t, root.ContainsSubtreesThroughOperator(s2, s1, Concatenation))
}

func Test_ContainsSubtreesThroughOperator_partialChildren(t *testing.T) {
	//        CONCATENATION
	//        /  |  |  |  \
	//       a   b  c  d   e
	s1 := NewConcat(leaves("b", "c")...)
	s2 := NewConcat(leaves("d", "e")...)
	root := NewConcat(leaves("a", "b", "c", "d", "e")...)

	assert.True(t, root.ContainsSubtreesThroughOperator(s1, s2, Concatenation))
	assert.False(t, root.ContainsSubtreesThroughOperator(s2, s1, Concatenation))
	assert.False(t, root.ContainsSubtreesThroughOperator(s1, s2, Union))
	assert.False(t, root.ContainsSubtreesThroughOperator(s2, s1, Union))
}

func Test_ContainsSubtreesThroughOperator_needsFlatten(t *testing.T) {
	//        CONCATENATION
	//          /      \
	//   CONCATENATION  c
	//      /    \
	//     a      b
	s1 := NewConcat(leaves("a", "b")...)
	s2 := NewLeaf("c")
	root := NewConcat(s1.Clone(), NewLeaf("c"))

	assert.False(t, root.ContainsSubtreesThroughOperator(s1, s2, Concatenation))
	assert.False(t, root.ContainsSubtreesThroughOperator(s2, s1, Concatenation))
	assert.False(t, root.ContainsSubtreesThroughOperator(s1, s2, Union))
	assert.False(t, root.ContainsSubtreesThroughOperator(s2, s1, Union))

	root.Flatten()
	assert.True(t, root.ContainsSubtreesThroughOperator(s1, s2, Concatenation))
}

func Test_ContainsSubtreesThroughOperator_nested(t *testing.T) {
	// x/((a/b|c)|d) contains a/b and c through the inner UNION.
	s1 := NewConcat(leaves("a", "b")...)
	s2 := NewLeaf("c")
	root := NewConcat(NewLeaf("x"), NewUnion(NewUnion(s1.Clone(), NewLeaf("c")), NewLeaf("d")))
	assert.True(t, root.ContainsSubtreesThroughOperator(s1, s2, Union))
	root.Flatten()
	assert.True(t, root.ContainsSubtreesThroughOperator(s1, s2, Union))
	assert.False(t, root.ContainsSubtreesThroughOperator(s2, NewLeaf("x"), Union))
}
