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

package parser

import (
	"github.com/ebay/kpath/query/parsetree"
	p "github.com/vektah/goparsify"
)

// pathExpr is the parser function called by Parse. It extracts an entire
// path expression.
var pathExpr p.Parser

func init() {
	// If you need to debug what the parser is doing, build with -tags debug;
	// see parser_debug.go.

	label := p.Chars("A-Za-z0-9_:.\\-", 1).Map(func(n *p.Result) { // knows
		n.Result = parsetree.NewLeaf(n.Token)
	})
	// group refers to pathExpr by pointer, since pathExpr is defined in terms
	// of group.
	group := p.Seq("(", p.Cut(), &pathExpr, ")").Map(child(2)) // (a|b)
	atom := p.Any(label, group)
	// Each trailing "/ atom" must match completely or not at all, so input
	// like "a/" is left unparsed rather than silently dropping the "/".
	concat := p.Seq(atom, p.Some(p.Seq("/", atom))).Map(operator(parsetree.Concatenation)) // a/b/c
	pathExpr = p.Seq(concat, p.Some(p.Seq("|", concat))).Map(operator(parsetree.Union))    // a|b/c
}

// child is a helper to generate a goparsify Map function that will grab a child
// result at a specific index and set it as the result for this node. This is
// useful for picking out the interesting part of a Seq().
func child(idx int) func(*p.Result) {
	return func(n *p.Result) {
		n.Result = n.Child[idx].Result
	}
}

// operator returns a goparsify Map function that combines the results of a
// Seq(x, Some(Seq(sep, x))) into a single node of the given kind. A single x is
// passed through as is.
func operator(kind parsetree.Kind) func(*p.Result) {
	return func(n *p.Result) {
		first := n.Child[0].Result.(*parsetree.Tree)
		rest := n.Child[1].Child
		if len(rest) == 0 {
			n.Result = first
			return
		}
		children := make([]*parsetree.Tree, 0, len(rest)+1)
		children = append(children, first)
		for _, more := range rest {
			children = append(children, more.Child[1].Result.(*parsetree.Tree))
		}
		n.Result = &parsetree.Tree{Kind: kind, Children: children}
	}
}
