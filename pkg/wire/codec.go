// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hank PDK Contributors

package wire

import (
	"bytes"
	"encoding/json"
)

// Codec turns wire values into bytes and back. Host and plugin must agree
// on the codec; the plugin kit never inspects encoded bytes itself.
//
// The method set matches grpc's encoding.Codec so a Codec can also be
// registered with a gRPC server or client.
type Codec interface {
	// Name identifies the codec, e.g. "json".
	Name() string
	// Marshal encodes v.
	Marshal(v any) ([]byte, error)
	// Unmarshal decodes data into v, which must be a pointer.
	Unmarshal(data []byte, v any) error
}

// JSON is the default Codec.
var JSON Codec = jsonCodec{}

type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(v any) ([]byte, error) {
	//nolint:wrapcheck // callers attach context
	return json.Marshal(v)
}

// Unmarshal treats empty input as an empty object so hosts may answer
// fire-and-forget calls with no bytes at all.
func (jsonCodec) Unmarshal(data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		data = []byte("{}")
	}
	//nolint:wrapcheck // callers attach context
	return json.Unmarshal(data, v)
}
