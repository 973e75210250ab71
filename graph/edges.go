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

package graph

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadEdges parses an edge list. Each line holds a source vertex, a label, and
// a destination vertex, separated by whitespace, like "1 knows 2". Blank lines
// and lines starting with '#' are ignored. Vertices are unsigned decimal
// integers. Labels may not contain commas.
func ReadEdges(r io.Reader) ([]Edge, error) {
	var edges []Edge
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("line %d: expected 3 fields (src label dst), got %d",
				lineNo, len(fields))
		}
		src, err := parseVertex(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid source vertex: %v", lineNo, err)
		}
		dst, err := parseVertex(fields[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid destination vertex: %v", lineNo, err)
		}
		if strings.Contains(fields[1], ",") {
			return nil, fmt.Errorf("line %d: label %q may not contain ','", lineNo, fields[1])
		}
		edges = append(edges, Edge{Src: src, Label: fields[1], Dst: dst})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return edges, nil
}

func parseVertex(s string) (Vertex, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	return Vertex(v), err
}
