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

// Package table formats data into a text-based table for human consumption.
package table

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ebay/kpath/util/cmp"
	"golang.org/x/text/unicode/norm"
)

// Options control how the table is generated.
type Options int

const (
	// HeaderRow formats the first row as a header, with a divider below it.
	HeaderRow Options = 1 << iota
	// SkipEmpty generates nothing when the table has no rows besides the
	// header.
	SkipEmpty
	// RightJustify pads cells on the left rather than the right.
	RightJustify
)

// PrettyPrint writes 't' as a formatted table to the supplied Writer. Rows may
// have differing numbers of cells; missing cells are rendered empty. Cells are
// single-line.
func PrettyPrint(dest io.Writer, t [][]string, opts Options) {
	if len(t) == 0 {
		return
	}
	if opts&SkipEmpty != 0 && opts&HeaderRow != 0 && len(t) == 1 {
		return
	}
	numCols := 0
	for _, row := range t {
		numCols = cmp.MaxInt(numCols, len(row))
	}
	widths := make([]int, numCols)
	for _, row := range t {
		for c, cell := range row {
			widths[c] = cmp.MaxInt(widths[c], charsWide(cell))
		}
	}
	w := bufio.NewWriterSize(dest, 256)
	defer w.Flush()
	for r, row := range t {
		for c := 0; c < numCols; c++ {
			cell := ""
			if c < len(row) {
				cell = row[c]
			}
			pad := strings.Repeat(" ", widths[c]-charsWide(cell))
			w.WriteByte(' ')
			if opts&RightJustify != 0 {
				w.WriteString(pad)
				w.WriteString(cell)
			} else {
				w.WriteString(cell)
				w.WriteString(pad)
			}
			w.WriteString(" |")
		}
		w.WriteByte('\n')
		if r == 0 && opts&HeaderRow != 0 {
			for _, width := range widths {
				w.WriteByte(' ')
				w.WriteString(strings.Repeat("-", width))
				w.WriteString(" |")
			}
			w.WriteByte('\n')
		}
	}
}

// charsWide estimates how wide a string will be on a typical terminal.
func charsWide(s string) int {
	return utf8.RuneCountInString(norm.NFC.String(s))
}
