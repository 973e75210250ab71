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
	"context"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ebay/kpath/kpathindex"
	"github.com/ebay/kpath/pathid"
	"github.com/ebay/kpath/rpc"
	"github.com/ebay/kpath/util/table"
)

// remoteClient calls a kpath-api server over gRPC.
type remoteClient struct {
	kpath rpc.KPathClient
	// If nil, os.Stdout is used.
	out io.Writer
}

func (c *remoteClient) writer() io.Writer {
	if c.out == nil {
		return os.Stdout
	}
	return c.out
}

func (c *remoteClient) query(ctx context.Context, options *options) error {
	stream, err := c.kpath.Query(ctx, &rpc.QueryRequest{
		Expression: options.Expression,
		Limit:      options.Limit,
	})
	if err != nil {
		return err
	}
	w := c.writer()
	t := [][]string{{"#", "Path ID", "Vertices"}}
	for {
		res, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if options.Plan {
			for i, b := range res.Branches {
				fmtr.Fprintf(w, "Branch %d: %v (cost %d, cardinality %d)\n%v\n",
					i+1, b.Tree, b.Cost, b.Cardinality, b.Plan)
			}
		}
		for _, p := range res.Paths {
			vs := make([]string, len(p.Vertices))
			for j, v := range p.Vertices {
				vs[j] = strconv.FormatUint(v, 10)
			}
			t = append(t, []string{fmtr.Sprint(len(t)), p.ID, strings.Join(vs, " ")})
		}
	}
	table.PrettyPrint(w, t, table.HeaderRow|table.SkipEmpty)
	fmtr.Fprintf(w, "\n%d paths.\n", len(t)-1)
	return nil
}

func (c *remoteClient) extend(ctx context.Context, options *options) error {
	res, err := c.kpath.Extend(ctx, &rpc.ExtendRequest{K: options.TargetK})
	if err != nil {
		return err
	}
	fmtr.Fprintf(c.writer(), "Index is at k=%d; inserted %d paths.\n", res.K, res.Inserted)
	return nil
}

func (c *remoteClient) stats(ctx context.Context) error {
	res, err := c.kpath.Stats(ctx, new(rpc.StatsRequest))
	if err != nil {
		return err
	}
	stats := kpathindex.Stats{
		K:     res.K,
		Paths: res.Paths,
		IDs:   make([]kpathindex.IDStat, len(res.IDs)),
	}
	for i, id := range res.IDs {
		stats.IDs[i] = kpathindex.IDStat{ID: pathid.Parse(id.ID), Count: id.Count}
	}
	table.PrettyPrint(c.writer(), stats.Table(), table.HeaderRow|table.RightJustify)
	return nil
}
