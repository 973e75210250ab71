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

// Command kpath-api runs a k-path index API server daemon.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/ebay/kpath/api"
	"github.com/ebay/kpath/config"
	"github.com/ebay/kpath/graph"
	"github.com/ebay/kpath/kpathindex"
	"github.com/ebay/kpath/query"
	"github.com/ebay/kpath/util/debuglog"
	"github.com/ebay/kpath/util/tracing"
	log "github.com/sirupsen/logrus"
)

func main() {
	debuglog.Configure(debuglog.Options{})
	cfgFile := flag.String("cfg", "config.json", "config file")
	flag.Parse()

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		log.Fatalf("Unable to load configuration: %v", err)
	}
	if cfg.API == nil {
		log.Fatal("api field missing in config")
	}
	if err := debuglog.Configure(debuglog.Options{Level: cfg.LogLevel}); err != nil {
		log.Fatalf("Unable to configure logging: %v", err)
	}
	log.Infof("Using config: %+v", cfg)

	tracer, err := tracing.New("kpath-api", cfg.Tracing)
	if err != nil {
		log.Fatalf("Unable to initialize distributed tracing: %v", err)
	}
	defer tracer.Close()

	index := kpathindex.New(kpathindex.Options{MaxK: cfg.Extender.MaxK})
	if err := loadGraph(index, cfg.GraphFile); err != nil {
		log.Fatalf("Unable to load graph: %v", err)
	}
	engine := query.New(index)
	if cfg.InitialK > 1 {
		if _, err := engine.Extend(context.Background(), cfg.InitialK); err != nil {
			log.Fatalf("Unable to extend index to initial k: %v", err)
		}
	}

	apiServer := api.New(cfg, engine)
	go func() {
		log.Infof("Server::Run returned %v", apiServer.Run())
		os.Exit(-1)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("kpath API server exiting")
}

func loadGraph(index *kpathindex.Index, filename string) error {
	if filename == "" {
		log.Warn("No graph file configured; serving an empty graph")
		kpathindex.Load(index, nil)
		return nil
	}
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	edges, err := graph.ReadEdges(f)
	if err != nil {
		return err
	}
	kpathindex.Load(index, edges)
	return nil
}
