package proto

import (
	"encoding/json"
	"reflect"

	"consolebridge/internal/errs"
	"consolebridge/serialize"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

var _ serialize.Serializer = Serializer{}

// Serializer -> protobuf messages are marshaled as they are. Any other
// value travels as its JSON document inside google.protobuf.BytesValue, so
// numbers keep every digit and json.RawMessage passes through untouched.
type Serializer struct{}

func (Serializer) Code() byte {
	return 2
}

func (Serializer) Encode(val any) ([]byte, error) {
	if msg, ok := val.(proto.Message); ok {
		return proto.Marshal(msg)
	}
	data, ok := val.(json.RawMessage)
	if ok && len(data) == 0 {
		data = json.RawMessage("null")
	}
	if !ok {
		var err error
		if data, err = json.Marshal(val); err != nil {
			return nil, err
		}
	}
	return proto.Marshal(wrapperspb.Bytes(data))
}

func (Serializer) Decode(data []byte, val any) error {
	if msg, ok := val.(proto.Message); ok {
		return proto.Unmarshal(data, msg)
	}
	if rv := reflect.ValueOf(val); rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errs.ErrProtoDeserializeTyp
	}
	doc := &wrapperspb.BytesValue{}
	if err := proto.Unmarshal(data, doc); err != nil {
		return err
	}
	return json.Unmarshal(doc.GetValue(), val)
}
