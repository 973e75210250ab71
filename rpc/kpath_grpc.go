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

package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// KPathServer is the server API for the KPath service.
type KPathServer interface {
	// Query evaluates a path expression and streams back the results.
	Query(*QueryRequest, KPath_QueryServer) error
	// Extend grows the index.
	Extend(context.Context, *ExtendRequest) (*ExtendResult, error)
	// Stats summarizes the index.
	Stats(context.Context, *StatsRequest) (*StatsResult, error)
}

// RegisterKPathServer registers srv with s.
func RegisterKPathServer(s *grpc.Server, srv KPathServer) {
	s.RegisterService(&kPathServiceDesc, srv)
}

// KPath_QueryServer is the server side of a Query stream.
type KPath_QueryServer interface {
	Send(*QueryResult) error
	grpc.ServerStream
}

type kPathQueryServer struct {
	grpc.ServerStream
}

func (x *kPathQueryServer) Send(m *QueryResult) error {
	return x.ServerStream.SendMsg(m)
}

func kPathQueryHandler(srv interface{}, stream grpc.ServerStream) error {
	m := new(QueryRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(KPathServer).Query(m, &kPathQueryServer{stream})
}

func kPathExtendHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ExtendRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(KPathServer).Extend(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/kpath.KPath/Extend",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(KPathServer).Extend(ctx, req.(*ExtendRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func kPathStatsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(StatsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(KPathServer).Stats(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/kpath.KPath/Stats",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(KPathServer).Stats(ctx, req.(*StatsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var kPathServiceDesc = grpc.ServiceDesc{
	ServiceName: "kpath.KPath",
	HandlerType: (*KPathServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Extend",
			Handler:    kPathExtendHandler,
		},
		{
			MethodName: "Stats",
			Handler:    kPathStatsHandler,
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Query",
			Handler:       kPathQueryHandler,
			ServerStreams: true,
		},
	},
	Metadata: "kpath",
}

// KPathClient is the client API for the KPath service.
type KPathClient interface {
	Query(ctx context.Context, in *QueryRequest, opts ...grpc.CallOption) (KPath_QueryClient, error)
	Extend(ctx context.Context, in *ExtendRequest, opts ...grpc.CallOption) (*ExtendResult, error)
	Stats(ctx context.Context, in *StatsRequest, opts ...grpc.CallOption) (*StatsResult, error)
}

type kPathClient struct {
	cc grpc.ClientConnInterface
}

// NewKPathClient returns a client that calls the KPath service over cc. Every
// call uses the JSON codec.
func NewKPathClient(cc grpc.ClientConnInterface) KPathClient {
	return &kPathClient{cc}
}

func (c *kPathClient) Query(ctx context.Context, in *QueryRequest, opts ...grpc.CallOption) (KPath_QueryClient, error) {
	opts = append(CallOptions(), opts...)
	stream, err := c.cc.NewStream(ctx, &kPathServiceDesc.Streams[0], "/kpath.KPath/Query", opts...)
	if err != nil {
		return nil, err
	}
	x := &kPathQueryClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

// KPath_QueryClient is the client side of a Query stream.
type KPath_QueryClient interface {
	Recv() (*QueryResult, error)
	grpc.ClientStream
}

type kPathQueryClient struct {
	grpc.ClientStream
}

func (x *kPathQueryClient) Recv() (*QueryResult, error) {
	m := new(QueryResult)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *kPathClient) Extend(ctx context.Context, in *ExtendRequest, opts ...grpc.CallOption) (*ExtendResult, error) {
	out := new(ExtendResult)
	opts = append(CallOptions(), opts...)
	err := c.cc.Invoke(ctx, "/kpath.KPath/Extend", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *kPathClient) Stats(ctx context.Context, in *StatsRequest, opts ...grpc.CallOption) (*StatsResult, error) {
	out := new(StatsResult)
	opts = append(CallOptions(), opts...)
	err := c.cc.Invoke(ctx, "/kpath.KPath/Stats", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}
