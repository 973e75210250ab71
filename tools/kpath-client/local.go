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
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cheggaaa/pb"
	"github.com/ebay/kpath/graph"
	"github.com/ebay/kpath/kpathindex"
	"github.com/ebay/kpath/query"
	"github.com/ebay/kpath/util/clocks"
	"github.com/ebay/kpath/util/table"
	log "github.com/sirupsen/logrus"
)

// buildEngine loads the graph file into a new in-process index and extends it
// to options.K.
func buildEngine(ctx context.Context, options *options) (*query.Engine, error) {
	start := clocks.Wall.Now()
	edges, err := readGraph(options.GraphFile, options.Progress)
	if err != nil {
		return nil, err
	}
	index := kpathindex.New(kpathindex.Options{MaxK: options.MaxK})
	kpathindex.Load(index, edges)
	engine := query.New(index)
	if options.K > 1 {
		if _, err := engine.Extend(ctx, options.K); err != nil {
			return nil, err
		}
	}
	log.Infof("Built index over %v edges to k=%d in %s",
		fmtr.Sprint(len(edges)), index.K(), clocks.Wall.Now().Sub(start))
	return engine, nil
}

func readGraph(filename string, progress bool) ([]graph.Edge, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var r io.Reader = f
	if progress {
		info, err := f.Stat()
		if err != nil {
			return nil, err
		}
		bar := pb.New64(info.Size()).
			SetUnits(pb.U_BYTES).
			Prefix(fmt.Sprintf("Reading %s ", filepath.Base(filename)))
		bar.Output = os.Stderr
		bar.SetMaxWidth(100)
		bar.Start()
		defer bar.Finish()
		r = bar.NewProxyReader(f)
	}
	edges, err := graph.ReadEdges(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return edges, nil
}

func queryLocal(ctx context.Context, options *options) error {
	engine, err := buildEngine(ctx, options)
	if err != nil {
		return err
	}
	res, err := engine.Query(ctx, options.Expression, query.Options{
		Materialize: true,
		Limit:       options.Limit,
	})
	if err != nil {
		return err
	}
	if options.Plan {
		for i, b := range res.Branches {
			fmtr.Printf("Branch %d: %v (cost %d, cardinality %d)\n%v\n",
				i+1, b.Tree, b.Estimate.Cost, b.Estimate.Cardinality, b.Plan)
		}
	}
	writePaths(os.Stdout, res.Paths.Paths())
	log.Infof("Query took %s", res.Timings.Total())
	return nil
}

// writePaths prints the paths as a table followed by their count.
func writePaths(w io.Writer, paths []graph.Path) {
	t := make([][]string, len(paths)+1)
	t[0] = []string{"#", "Path ID", "Path"}
	for i, p := range paths {
		t[i+1] = []string{fmtr.Sprint(i + 1), p.ID().String(), p.String()}
	}
	table.PrettyPrint(w, t, table.HeaderRow|table.SkipEmpty)
	fmtr.Fprintf(w, "\n%d paths.\n", len(paths))
}

func statsLocal(ctx context.Context, options *options) error {
	engine, err := buildEngine(ctx, options)
	if err != nil {
		return err
	}
	table.PrettyPrint(os.Stdout, engine.Stats().Table(), table.HeaderRow|table.RightJustify)
	return nil
}
