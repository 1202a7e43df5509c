package rpc

import "encoding/json"

// Codec encodes messages as JSON. It satisfies both connect.Codec and
// grpc's encoding.Codec, so the same message structs travel over either
// transport.
type Codec struct{}

func (Codec) Name() string {
	return "json"
}

func (Codec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (Codec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}
