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

// Package api implements the kpath HTTP API. It exposes path queries, index
// extension, and index statistics over a query.Engine.
package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/ebay/kpath/config"
	"github.com/ebay/kpath/graph"
	"github.com/ebay/kpath/kpathindex"
	"github.com/ebay/kpath/query"
	"github.com/ebay/kpath/query/parser"
	"github.com/ebay/kpath/rpc"
	"github.com/ebay/kpath/util/table"
	"github.com/ebay/kpath/util/web"
	"github.com/julienschmidt/httprouter"
	opentracing "github.com/opentracing/opentracing-go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// Server is an implementation of the HTTP interface to the k-path index.
type Server struct {
	cfg    *config.KPath
	engine *query.Engine
}

// New returns a new API server. The returned Server will not start handling
// traffic until a subsequent call to Run.
func New(cfg *config.KPath, engine *query.Engine) *Server {
	return &Server{
		cfg:    cfg,
		engine: engine,
	}
}

// Run listens for HTTP requests on the configured address, and for gRPC
// requests if a gRPC address is configured. It blocks until the HTTP listener
// fails.
func (s *Server) Run() error {
	if s.cfg.API == nil {
		return errors.New("api field missing in config")
	}
	if s.cfg.API.GRPCAddress != "" {
		if err := s.startGRPC(); err != nil {
			return err
		}
	}
	log.Infof("Listening for HTTP requests on %s", s.cfg.API.HTTPAddress)
	return http.ListenAndServe(s.cfg.API.HTTPAddress, s.Handler())
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	m := httprouter.New()
	m.POST("/query", s.queryHTTP)
	m.POST("/extend", s.extend)
	m.GET("/stats", s.stats)
	m.GET("/stats.txt", s.statsTable)
	// prometheus metrics
	m.Handler("GET", "/metrics", promhttp.Handler())

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Debugf("[API] %v %v", r.Method, r.URL)
		m.ServeHTTP(w, r)
	})
}

// Structure to hold the JSON response for HTTP queries.
type queryResponse struct {
	Error    string       `json:"error,omitempty"`
	Query    string       `json:"query"`
	Branches []rpc.Branch `json:"branches,omitempty"`
	NumPaths int          `json:"numPaths"`
	Paths    []rpc.Path   `json:"paths"`
}

// queryHTTP evaluates the path expression in the "q" form field. The optional
// "limit" field caps the number of paths returned; it defaults to the
// configured query.defaultLimit.
func (s *Server) queryHTTP(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	querySpan, ctx := opentracing.StartSpanFromContext(r.Context(), "http query")
	defer querySpan.Finish()

	resp := queryResponse{Paths: []rpc.Path{}}
	status := http.StatusOK
	// Always write out JSON, even for errors.
	defer func() {
		web.WriteJSON(w, status, resp)
	}()

	if err := r.ParseForm(); err != nil {
		resp.Error = fmt.Sprintf("Unable to parse POST data: %v", err)
		status = http.StatusBadRequest
		return
	}
	resp.Query = r.Form.Get("q")
	if strings.TrimSpace(resp.Query) == "" {
		resp.Error = "Missing query: set the 'q' field"
		status = http.StatusBadRequest
		return
	}
	limit := s.cfg.Query.DefaultLimit
	if r.Form.Get("limit") != "" {
		var err error
		limit, err = strconv.Atoi(r.Form.Get("limit"))
		if err != nil || limit < 0 {
			resp.Error = fmt.Sprintf("Invalid limit %q", r.Form.Get("limit"))
			status = http.StatusBadRequest
			return
		}
	}
	log.Debugf("query string: %s", resp.Query)

	res, err := s.engine.Query(ctx, resp.Query, query.Options{
		Materialize: true,
		Limit:       limit,
	})
	if err != nil {
		resp.Error = fmt.Sprintf("Error during query: %v", err)
		var parseErr *parser.ParseError
		if errors.As(err, &parseErr) {
			status = http.StatusBadRequest
		} else {
			status = http.StatusInternalServerError
		}
		return
	}
	for _, b := range res.Branches {
		resp.Branches = append(resp.Branches, rpc.Branch{
			Tree:        b.Tree.String(),
			Plan:        b.Plan.String(),
			Cost:        b.Estimate.Cost,
			Cardinality: b.Estimate.Cardinality,
		})
	}
	resp.NumPaths = res.Paths.Len()
	res.Paths.Each(func(p graph.Path) {
		resp.Paths = append(resp.Paths, newRPCPath(p))
	})
}

// extend grows the index to the k given in the "k" form field.
func (s *Server) extend(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseForm(); err != nil {
		web.WriteError(w, http.StatusBadRequest, "Unable to parse POST data: %v", err)
		return
	}
	k, err := strconv.Atoi(r.Form.Get("k"))
	if err != nil {
		web.WriteError(w, http.StatusBadRequest, "Invalid k %q", r.Form.Get("k"))
		return
	}
	inserted, err := s.engine.Extend(r.Context(), k)
	switch {
	case errors.Is(err, kpathindex.ErrTargetTooLarge) || errors.Is(err, kpathindex.ErrNotLoaded):
		web.WriteError(w, http.StatusBadRequest, "Unable to extend index: %v", err)
		return
	case err != nil:
		web.Write(w, err)
		return
	}
	web.Write(w, rpc.ExtendResult{
		K:        s.engine.Stats().K,
		Inserted: inserted,
	})
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	res, err := (*kpathService)(s).Stats(r.Context(), new(rpc.StatsRequest))
	web.Write(w, err, res)
}

func (s *Server) statsTable(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var b strings.Builder
	table.PrettyPrint(&b, s.engine.Stats().Table(), table.HeaderRow|table.RightJustify)
	web.Write(w, b.String())
}
