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

// Package grpcclientutil has helpers for configuring gRPC clients.
package grpcclientutil

import (
	"context"
	"time"

	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/grpc-ecosystem/grpc-opentracing/go/otgrpc"
	opentracing "github.com/opentracing/opentracing-go"
	"google.golang.org/grpc"
	"google.golang.org/grpc/backoff"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"
)

// InsecureDialContext connects to the given address. It sets up Prometheus and
// OpenTracing monitoring. It disables transport-level security.
//
// The actual connection happens in the background; the given 'connectCtx' can
// be used to cancel this background activity. The caller must not pass
// grpc.WithBlock() as an option.
func InsecureDialContext(connectCtx context.Context, address string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	tracer := opentracing.GlobalTracer()
	backoffCfg := backoff.DefaultConfig
	backoffCfg.MaxDelay = time.Second
	return grpc.DialContext(connectCtx, address, append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithConnectParams(grpc.ConnectParams{Backoff: backoffCfg}),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			// 10s is the minimum keepalive allowed by the client library.
			Time:                time.Second * 10,
			Timeout:             time.Second,
			PermitWithoutStream: true,
		}),
		grpc.WithChainUnaryInterceptor(
			otgrpc.OpenTracingClientInterceptor(tracer),
			grpc_prometheus.UnaryClientInterceptor),
		grpc.WithChainStreamInterceptor(
			otgrpc.OpenTracingStreamClientInterceptor(tracer),
			grpc_prometheus.StreamClientInterceptor),
	}, opts...)...)
}
