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

// Command kpath-client provides command line access to k-path indexes. It can
// build an index from an edge list in-process and query it, or query a
// running kpath-api server.
package main

import (
	"context"
	"strconv"
	"time"

	docopt "github.com/docopt/docopt-go"
	"github.com/ebay/kpath/config"
	"github.com/ebay/kpath/rpc"
	"github.com/ebay/kpath/util/debuglog"
	grpcclientutil "github.com/ebay/kpath/util/grpc/client"
	"github.com/ebay/kpath/util/tracing"
	opentracing "github.com/opentracing/opentracing-go"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var fmtr = message.NewPrinter(language.English)

const usage = `kpath-client is a command-line tool for k-path indexes.

Usage:
  kpath-client [-k=NUM --maxk=NUM --trace=URL --progress] query [--limit=NUM --plan] GRAPH EXPR
  kpath-client [-k=NUM --maxk=NUM --trace=URL --progress] stats GRAPH
  kpath-client [--api=HOST -t=DUR] remote query [--limit=NUM --plan] EXPR
  kpath-client [--api=HOST -t=DUR] remote extend K
  kpath-client [--api=HOST -t=DUR] remote stats

Options:
  -k=NUM                  Extend the in-process index to this k before running the command [default: 2]
  --maxk=NUM              Refuse to extend the in-process index beyond this k [default: 6]
  --limit=NUM             Return at most this many paths; 0 means unlimited [default: 0]
  --plan                  Print the plan chosen for each union-free branch of the query.
  --progress              Show a progress bar while reading the graph file.
  --trace=URL             Send OpenTracing traces to this Jaeger collector.
  --api=HOST              Host and port of the kpath gRPC API to connect to [default: localhost:9989]
  -t=DUR, --timeout=DUR   Timeout for calls to the API server [default: 10s]

Examples:
  # Find every path labeled knows, then knows or likes.
  kpath-client query -k 2 social.edges "knows/(knows|likes)"

  # Show how many paths the index holds for each label sequence.
  kpath-client stats -k 3 social.edges

  # Ask a running server to index paths of length 3.
  kpath-client remote extend 3
`

type options struct {
	// Options
	K                int    `docopt:"-k"`
	MaxK             int    `docopt:"--maxk"`
	Limit            int    `docopt:"--limit"`
	Plan             bool   `docopt:"--plan"`
	Progress         bool   `docopt:"--progress"`
	TracingCollector string `docopt:"--trace"`
	Server           string `docopt:"--api"`
	// Timeout is never zero; it's set to 1 hour if the user passes 0s.
	Timeout       time.Duration
	TimeoutString string `docopt:"--timeout"`

	GraphFile  string `docopt:"GRAPH"`
	Expression string `docopt:"EXPR"`
	TargetK    int
	TargetKArg string `docopt:"K"`

	// Commands
	Query  bool `docopt:"query"`
	Stats  bool `docopt:"stats"`
	Remote bool `docopt:"remote"`
	Extend bool `docopt:"extend"`
}

func parseArgs(argv []string) (*options, error) {
	opts, err := docopt.ParseArgs(usage, argv, "")
	if err != nil {
		return nil, err
	}
	var options options
	err = opts.Bind(&options)
	if err != nil {
		return nil, err
	}
	if options.TimeoutString != "" {
		options.Timeout, err = time.ParseDuration(options.TimeoutString)
		if err != nil {
			return nil, err
		}
	}
	if options.Timeout == 0 {
		options.Timeout = time.Hour
	}
	if options.Extend {
		options.TargetK, err = strconv.Atoi(options.TargetKArg)
		if err != nil {
			return nil, err
		}
	}
	return &options, nil
}

func main() {
	debuglog.Configure(debuglog.Options{})
	options, err := parseArgs(nil)
	if err != nil {
		log.Fatalf("Error parsing command-line arguments: %v", err)
	}
	ctx := context.Background()

	if options.TracingCollector != "" {
		tracer, err := tracing.New("kpath-client", &config.Tracing{
			Type:         "jaeger",
			CollectorURL: options.TracingCollector,
		})
		if err != nil {
			log.WithError(err).Warn("Could not initialize OpenTracing tracer")
		} else {
			defer tracer.Close()
		}
	}
	span, ctx := opentracing.StartSpanFromContext(ctx, "kpath-client run")
	defer span.Finish()

	// Local commands build the index in-process and aren't subject to the
	// timeout.
	timeoutCtx, cancelFunc := context.WithTimeout(ctx, options.Timeout)
	defer cancelFunc()
	var remote *remoteClient
	if options.Remote {
		conn, err := grpcclientutil.InsecureDialContext(ctx, options.Server)
		if err != nil {
			log.Fatalf("Unable to connect to %v: %v", options.Server, err)
		}
		defer conn.Close()
		remote = &remoteClient{kpath: rpc.NewKPathClient(conn)}
	}

	switch {
	case options.Remote && options.Query:
		if err := remote.query(timeoutCtx, options); err != nil {
			log.Fatalf("Error executing query: %v", err)
		}
	case options.Remote && options.Extend:
		if err := remote.extend(timeoutCtx, options); err != nil {
			log.Fatalf("Error extending index: %v", err)
		}
	case options.Remote && options.Stats:
		if err := remote.stats(timeoutCtx); err != nil {
			log.Fatalf("Error fetching stats: %v", err)
		}
	case options.Query:
		if err := queryLocal(ctx, options); err != nil {
			log.Fatalf("Error executing query: %v", err)
		}
	case options.Stats:
		if err := statsLocal(ctx, options); err != nil {
			log.Fatalf("Error fetching stats: %v", err)
		}
	default:
		log.Fatalf("command not implemented")
	}
}
