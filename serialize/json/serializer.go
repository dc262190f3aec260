package json

import (
	"encoding/json"

	"consolebridge/serialize"
)

var _ serialize.Serializer = Serializer{}

type Serializer struct{}

func (Serializer) Code() byte {
	return 1
}

// Encode sends a json.RawMessage as is, Marshal would re-escape it.
func (Serializer) Encode(val any) ([]byte, error) {
	if raw, ok := val.(json.RawMessage); ok {
		return raw, nil
	}
	return json.Marshal(val)
}

func (Serializer) Decode(data []byte, val any) error {
	return json.Unmarshal(data, val)
}
