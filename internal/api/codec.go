// Package api is the wire contract between the tripvault client and server:
// the VaultService gRPC descriptor, its request and response messages and a
// client stub. vault.proto describes the schema.
//
// The messages are plain Go structs encoded with protowire. The codec below
// replaces grpc's default "proto" codec at init time. Values that are real
// proto.Message implementations still go through google.golang.org/protobuf,
// so anything else in the process keeps working.
package api

import (
	"fmt"

	"google.golang.org/grpc/encoding"
	encproto "google.golang.org/grpc/encoding/proto"
	"google.golang.org/protobuf/proto"
)

// message is implemented by every request and response type.
type message interface {
	appendWire(b []byte) []byte
	consumeWire(b []byte) error
}

type codec struct{}

func (codec) Marshal(v any) ([]byte, error) {
	switch m := v.(type) {
	case message:
		return m.appendWire(nil), nil
	case proto.Message:
		return proto.Marshal(m)
	}
	return nil, fmt.Errorf("api: cannot marshal %T", v)
}

func (codec) Unmarshal(data []byte, v any) error {
	switch m := v.(type) {
	case message:
		if err := m.consumeWire(data); err != nil {
			return fmt.Errorf("api: unmarshal %T: %w", v, err)
		}
		return nil
	case proto.Message:
		return proto.Unmarshal(data, m)
	}
	return fmt.Errorf("api: cannot unmarshal into %T", v)
}

func (codec) Name() string {
	return encproto.Name
}

func init() {
	encoding.RegisterCodec(codec{})
}
