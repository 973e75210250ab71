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

// Package rpc defines the kpath gRPC service and its messages.
//
// Messages are plain Go structs encoded as JSON on the wire. Clients select
// the encoding with the CallOptions returned by CallOptions; servers pick it
// up from the request's content subtype once this package is imported.
package rpc

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content subtype of the JSON codec.
const CodecName = "json"

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// jsonCodec implements encoding.Codec.
type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("rpc: unable to marshal %T: %v", v, err)
	}
	return b, nil
}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("rpc: unable to unmarshal %T: %v", v, err)
	}
	return nil
}

func (jsonCodec) Name() string {
	return CodecName
}

// CallOptions returns the options clients need to talk to a kpath server.
func CallOptions() []grpc.CallOption {
	return []grpc.CallOption{grpc.CallContentSubtype(CodecName)}
}
