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

// Package config contains the configuration for the kpath binaries. The
// configuration is typically loaded from a JSON file on disk.
package config

// KPath describes the configuration for a kpath server or client.
type KPath struct {
	// Edge list to load into the index at startup. Each line holds
	// "source label destination", whitespace separated; see graph.ReadEdges.
	GraphFile string `json:"graphFile,omitempty"`

	// The index is extended to this k after loading the graph. Values of 1 or
	// less leave the index at k=1.
	InitialK int `json:"initialK,omitempty"`

	// A logrus level name. Defaults to "info".
	LogLevel string `json:"logLevel,omitempty"`

	// Settings for extending the index.
	Extender Extender `json:"extender"`

	// Settings for query evaluation.
	Query Query `json:"query"`

	// Configuration for API servers. Ignored by the client tool.
	API *API `json:"api,omitempty"`

	// If non-nil, the configuration for distributed tracing (OpenTracing). If
	// nil, traces are not reported anywhere.
	Tracing *Tracing `json:"tracing,omitempty"`
}

// Extender contains settings for growing the index.
type Extender struct {
	// If positive, requests to extend the index beyond this k are rejected.
	// The number of paths can grow exponentially in k, so servers should set
	// this.
	MaxK int `json:"maxK,omitempty"`
}

// Query contains settings for query evaluation.
type Query struct {
	// The maximum number of result paths returned by a query when the request
	// doesn't specify a limit. Zero means unlimited.
	DefaultLimit int `json:"defaultLimit,omitempty"`
}

// API contains configuration for the API server.
type API struct {
	// The host:port to listen on for HTTP requests.
	HTTPAddress string `json:"httpAddress"`
	// If set, the host:port to listen on for gRPC requests.
	GRPCAddress string `json:"grpcAddress,omitempty"`
}

// Tracing contains configuration related to distributed execution tracing.
type Tracing struct {
	// Must be "jaeger" (for now).
	Type string `json:"type"`

	// An endpoint that accepts jaeger.thrift over HTTP, such as
	// "http://localhost:14268/api/traces".
	CollectorURL string `json:"collectorURL"`
}
