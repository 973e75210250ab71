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

package main

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ebay/kpath/api"
	"github.com/ebay/kpath/config"
	"github.com/ebay/kpath/graph"
	"github.com/ebay/kpath/kpathindex"
	"github.com/ebay/kpath/rpc"
	grpcclientutil "github.com/ebay/kpath/util/grpc/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

const testGraph = `# a small graph
1 a 2
2 b 3
3 a 4
2 a 5
5 b 6
`

func Test_parseArgs(t *testing.T) {
	options, err := parseArgs([]string{"query", "--limit", "5", "--plan", "g.edges", "a/(b|c)"})
	require.NoError(t, err)
	assert.True(t, options.Query)
	assert.False(t, options.Remote)
	assert.Equal(t, 2, options.K)
	assert.Equal(t, 6, options.MaxK)
	assert.Equal(t, 5, options.Limit)
	assert.True(t, options.Plan)
	assert.Equal(t, "g.edges", options.GraphFile)
	assert.Equal(t, "a/(b|c)", options.Expression)
	assert.Equal(t, 10*time.Second, options.Timeout)

	options, err = parseArgs([]string{"-k", "3", "stats", "g.edges"})
	require.NoError(t, err)
	assert.True(t, options.Stats)
	assert.Equal(t, 3, options.K)

	options, err = parseArgs([]string{"--api", "example.com:80", "-t", "0s", "remote", "extend", "4"})
	require.NoError(t, err)
	assert.True(t, options.Remote)
	assert.True(t, options.Extend)
	assert.Equal(t, 4, options.TargetK)
	assert.Equal(t, "example.com:80", options.Server)
	assert.Equal(t, time.Hour, options.Timeout)
}

func writeGraph(t *testing.T) string {
	filename := filepath.Join(t.TempDir(), "test.edges")
	require.NoError(t, os.WriteFile(filename, []byte(testGraph), 0644))
	return filename
}

func Test_buildEngine(t *testing.T) {
	opts := &options{GraphFile: writeGraph(t), K: 3, MaxK: 3, Progress: true}
	engine, err := buildEngine(context.Background(), opts)
	require.NoError(t, err)
	stats := engine.Stats()
	assert.Equal(t, 3, stats.K)
	// 5 edges, 4 paths of length 2, and 2 of length 3.
	assert.Equal(t, 11, stats.Paths)

	opts.K = 4
	_, err = buildEngine(context.Background(), opts)
	assert.ErrorIs(t, err, kpathindex.ErrTargetTooLarge)

	opts.GraphFile = filepath.Join(t.TempDir(), "missing.edges")
	_, err = buildEngine(context.Background(), opts)
	assert.Error(t, err)
}

func Test_writePaths(t *testing.T) {
	var b bytes.Buffer
	writePaths(&b, []graph.Path{
		graph.MustPath(graph.Edge{Src: 1, Label: "a", Dst: 2}, graph.Edge{Src: 2, Label: "b", Dst: 3}),
	})
	assert.Equal(t, ""+
		" # | Path ID | Path            |\n"+
		" - | ------- | --------------- |\n"+
		" 1 | a,b     | 1 -a-> 2 -b-> 3 |\n"+
		"\n1 paths.\n",
		b.String())

	b.Reset()
	writePaths(&b, nil)
	assert.Equal(t, "\n0 paths.\n", b.String())
}

func Test_remote(t *testing.T) {
	opts := &options{GraphFile: writeGraph(t), K: 2, MaxK: 3}
	engine, err := buildEngine(context.Background(), opts)
	require.NoError(t, err)
	lis := bufconn.Listen(1024 * 1024)
	grpcServer := api.New(&config.KPath{}, engine).GRPCServer()
	go grpcServer.Serve(lis)
	defer grpcServer.Stop()
	conn, err := grpcclientutil.InsecureDialContext(context.Background(), "bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}))
	require.NoError(t, err)
	defer conn.Close()

	var out bytes.Buffer
	client := &remoteClient{kpath: rpc.NewKPathClient(conn), out: &out}
	ctx := context.Background()

	err = client.query(ctx, &options{Expression: "a/b", Plan: true})
	require.NoError(t, err)
	assert.Equal(t, ""+
		"Branch 1: a/b (cost 1, cardinality 2)\n"+
		"IndexLookup a,b\n\n"+
		" # | Path ID | Vertices |\n"+
		" - | ------- | -------- |\n"+
		" 1 | a,b     | 1 2 3    |\n"+
		" 2 | a,b     | 2 5 6    |\n"+
		"\n2 paths.\n",
		out.String())

	err = client.query(ctx, &options{Expression: "a/"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	out.Reset()
	require.NoError(t, client.extend(ctx, &options{TargetK: 3}))
	assert.Equal(t, "Index is at k=3; inserted 2 paths.\n", out.String())

	err = client.extend(ctx, &options{TargetK: 4})
	assert.Contains(t, err.Error(), "requested 4, maximum is 3")

	out.Reset()
	require.NoError(t, client.stats(ctx))
	assert.Contains(t, out.String(), " (total) |    k=3 |    11 |\n")
}
