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

package rpc

// QueryRequest asks the server to evaluate a path expression.
type QueryRequest struct {
	Expression string `json:"expression"`
	// If positive, at most this many paths are returned. Otherwise the
	// server's default limit applies.
	Limit int `json:"limit,omitempty"`
}

// QueryResult is one chunk of a query's results. The first chunk carries the
// branches; every chunk carries up to a server-chosen number of paths.
type QueryResult struct {
	Branches []Branch `json:"branches,omitempty"`
	Paths    []Path   `json:"paths,omitempty"`
}

// Branch describes the plan for one union-free tree of a query.
type Branch struct {
	Tree        string `json:"tree"`
	Plan        string `json:"plan"`
	Cost        int64  `json:"cost"`
	Cardinality int64  `json:"cardinality"`
}

// Path is a path in the graph: its identifier and its vertices in order.
type Path struct {
	ID       string   `json:"id"`
	Vertices []uint64 `json:"vertices"`
}

// ExtendRequest asks the server to index every path of length K.
type ExtendRequest struct {
	K int `json:"k"`
}

// ExtendResult reports the outcome of an ExtendRequest.
type ExtendResult struct {
	K        int `json:"k"`
	Inserted int `json:"inserted"`
}

// StatsRequest asks for a summary of the index.
type StatsRequest struct{}

// StatsResult summarizes the index.
type StatsResult struct {
	K     int      `json:"k"`
	Paths int      `json:"paths"`
	IDs   []IDStat `json:"ids"`
}

// IDStat is the number of paths stored under a path identifier.
type IDStat struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}
