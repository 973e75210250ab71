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

// Package parser parses path expressions into parse trees.
//
// A path expression is built from edge labels with two operators:
// concatenation, written '/', and alternation (UNION), written '|'.
// Concatenation binds tighter than alternation, and parentheses group. For
// example, "knows/(worksAt|studiesAt)" matches a "knows" edge followed by
// either a "worksAt" or a "studiesAt" edge. Labels consist of the characters
// A-Z, a-z, 0-9, '_', ':', '.', and '-'. Whitespace between tokens is
// ignored.
package parser

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ebay/kpath/query/parsetree"
	"github.com/sirupsen/logrus"
	"github.com/vektah/goparsify"
)

// MustParse parses a path expression and panics if an error occurs. This is
// primarily meant for writing unit tests.
func MustParse(in string) *parsetree.Tree {
	tree, err := Parse(in)
	if err != nil {
		panic(fmt.Sprintf("unable to parse path expression: '%s': %v",
			strings.Replace(in, "\n", "\\n", -1), err))
	}
	return tree
}

// Parse parses a path expression. The returned tree is marked as a root and
// is not flattened: parenthesized groups become nested nodes. If the input
// can't be fully parsed, Parse returns a *ParseError.
func Parse(in string) (*parsetree.Tree, error) {
	result, err := parse(in, pathExpr)
	if err != nil {
		return nil, err
	}
	tree, ok := result.Result.(*parsetree.Tree)
	if !ok {
		return nil, fmt.Errorf("invalid result type: %T", result.Result)
	}
	tree.IsRoot = true
	return tree, nil
}

// parse runs the parser over the whole input. If the input doesn't parse
// completely, it returns a *ParseError locating the failure.
func parse(in string, parser goparsify.Parser) (*goparsify.Result, error) {
	state := goparsify.NewState(in)
	state.WS = goparsify.UnicodeWhitespace
	result := new(goparsify.Result)
	parser(state, result)
	if state.Errored() {
		expected := strings.Trim(fmt.Sprintf("%q", expectedText(&state.Error)), `"`)
		return nil, newParseError(in, state.Error.Pos(), "expected "+expected)
	}
	state.WS(state)
	if rest := state.Get(); rest != "" {
		return nil, newParseError(in, state.Pos,
			fmt.Sprintf("unparsed text: '%s'", strings.TrimRightFunc(rest, unicode.IsSpace)))
	}
	return result, nil
}

func newParseError(in string, offset int, details string) *ParseError {
	line, col := coordinates(in, offset)
	return &ParseError{
		Input:   in,
		Offset:  offset,
		Line:    line,
		Column:  col,
		Details: details,
	}
}

// ParseError captures more detailed information about a parsing error, and
// where it occurred.
type ParseError struct {
	// The input string to the parser which resulted in this error.
	Input string
	// Offset is the byte offset into 'Input' at which the error occurred.
	Offset int
	// Line is the line number in 'Input' at which the error occurred.
	Line int
	// Column is the column (in runes) into the indicated Line that the error
	// occurred. Line & Column represent the same point in 'Input' as 'Offset'.
	Column int
	// The specific parser error that occurred.
	Details string
}

func (p *ParseError) Error() string {
	return fmt.Sprintf("unable to parse path expression: line %d column %d: %s",
		p.Line, p.Column, p.Details)
}

// coordinates converts a byte offset into input to a 1-based line and rune
// column. Offsets in trailing whitespace are moved back to the end of the
// last token.
func coordinates(input string, offset int) (line, col int) {
	input = strings.TrimRightFunc(input, unicode.IsSpace)
	if offset > len(input) {
		offset = len(input)
	}
	before := input[:offset]
	lineStart := strings.LastIndexByte(before, '\n') + 1
	return strings.Count(before, "\n") + 1, utf8.RuneCountInString(before[lineStart:]) + 1
}

// expectedText extracts from the supplied goparsify Error the expected text
// i.e. the error from an unmatched parser. This relies on the format of the
// error message generated by goparsify.
func expectedText(e *goparsify.Error) string {
	msg := e.Error()
	expectedIdx := strings.Index(msg, "expected")
	if expectedIdx == -1 {
		logrus.WithField("err", msg).
			Warn("Got goparsify error with missing 'expected' string")
		return msg
	}
	return msg[expectedIdx+len("expected")+1:]
}
