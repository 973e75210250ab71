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

// Package exec evaluates physical plans built by the query planner against the
// k-path index.
//
// Each node in the plan is converted into an Operator, creating a parallel
// tree of Operators. Evaluating the root Operator returns a lazy PathStream;
// paths are pulled through the tree on demand, so nothing is read from the
// index until the caller starts consuming results. Every Operator also reports
// an estimated cost and cardinality, which follow the planner's cost model.
package exec
