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

package api

import (
	"context"
	"errors"
	"net"

	"github.com/ebay/kpath/graph"
	"github.com/ebay/kpath/kpathindex"
	"github.com/ebay/kpath/query"
	"github.com/ebay/kpath/query/parser"
	"github.com/ebay/kpath/rpc"
	grpcserverutil "github.com/ebay/kpath/util/grpc/server"
	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// queryChunkSize is the most paths sent in a single QueryResult.
const queryChunkSize = 256

func (s *Server) startGRPC() error {
	log.Infof("Starting gRPC API server on %v", s.cfg.API.GRPCAddress)
	l, err := net.Listen("tcp", s.cfg.API.GRPCAddress)
	if err != nil {
		return err
	}
	go s.GRPCServer().Serve(l)
	return nil
}

// GRPCServer returns a new gRPC server with the KPath service registered. The
// caller is responsible for serving it.
func (s *Server) GRPCServer() *grpc.Server {
	grpcServer := grpcserverutil.NewServer()
	rpc.RegisterKPathServer(grpcServer, (*kpathService)(s))
	grpc_prometheus.Register(grpcServer)
	return grpcServer
}

// kpathService implements rpc.KPathServer.
type kpathService Server

// Query implements rpc.KPathServer.
func (s *kpathService) Query(req *rpc.QueryRequest, stream rpc.KPath_QueryServer) error {
	limit := req.Limit
	if limit <= 0 {
		limit = s.cfg.Query.DefaultLimit
	}
	res, err := s.engine.Query(stream.Context(), req.Expression, query.Options{
		Materialize: true,
		Limit:       limit,
	})
	if err != nil {
		var parseErr *parser.ParseError
		if errors.As(err, &parseErr) {
			return status.Error(codes.InvalidArgument, err.Error())
		}
		return err
	}
	chunk := &rpc.QueryResult{Branches: make([]rpc.Branch, len(res.Branches))}
	for i, b := range res.Branches {
		chunk.Branches[i] = rpc.Branch{
			Tree:        b.Tree.String(),
			Plan:        b.Plan.String(),
			Cost:        b.Estimate.Cost,
			Cardinality: b.Estimate.Cardinality,
		}
	}
	for _, p := range res.Paths.Paths() {
		chunk.Paths = append(chunk.Paths, newRPCPath(p))
		if len(chunk.Paths) == queryChunkSize {
			if err := stream.Send(chunk); err != nil {
				return err
			}
			chunk = new(rpc.QueryResult)
		}
	}
	if len(chunk.Paths) > 0 || chunk.Branches != nil {
		return stream.Send(chunk)
	}
	return nil
}

func newRPCPath(p graph.Path) rpc.Path {
	vs := p.Vertices()
	res := rpc.Path{
		ID:       p.ID().String(),
		Vertices: make([]uint64, len(vs)),
	}
	for i, v := range vs {
		res.Vertices[i] = uint64(v)
	}
	return res
}

// Extend implements rpc.KPathServer.
func (s *kpathService) Extend(ctx context.Context, req *rpc.ExtendRequest) (*rpc.ExtendResult, error) {
	inserted, err := s.engine.Extend(ctx, req.K)
	switch {
	case errors.Is(err, kpathindex.ErrTargetTooLarge):
		return nil, status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, kpathindex.ErrNotLoaded):
		return nil, status.Error(codes.FailedPrecondition, err.Error())
	case err != nil:
		return nil, err
	}
	return &rpc.ExtendResult{
		K:        s.engine.Stats().K,
		Inserted: inserted,
	}, nil
}

// Stats implements rpc.KPathServer.
func (s *kpathService) Stats(ctx context.Context, req *rpc.StatsRequest) (*rpc.StatsResult, error) {
	stats := s.engine.Stats()
	res := &rpc.StatsResult{
		K:     stats.K,
		Paths: stats.Paths,
		IDs:   make([]rpc.IDStat, len(stats.IDs)),
	}
	for i, id := range stats.IDs {
		res.IDs[i] = rpc.IDStat{ID: id.ID.String(), Count: id.Count}
	}
	return res, nil
}
