package message

import (
	"bytes"
	"encoding/binary"
	"strings"

	"consolebridge/internal/errs"
)

const (
	splitter     = '\n'
	pairSplitter = '\r'

	// version, compressor and serializer, one byte each
	reqFixedHeadLength = 15
)

// Request -> the rpc envelope, one per call
type Request struct {
	Module string `json:"module"`
	Bridge string `json:"bridge"`
	Method string `json:"method"`
	Args   []any  `json:"args"`

	// Meta travels as HTTP headers or ipc frame meta, never inside the envelope.
	Meta map[string]string `json:"-"`
}

// Address returns module.bridge.method, the name the embedded host exposes.
func (r *Request) Address() string {
	return r.Module + "." + r.Bridge + "." + r.Method
}

// ParseAddress splits module.bridge.method.
func ParseAddress(address string) (module, bridge, method string, err error) {
	parts := strings.SplitN(address, ".", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", "", errs.ErrInvalidAddress
	}
	return parts[0], parts[1], parts[2], nil
}

// ReqFrame -> ipc request frame
type ReqFrame struct {
	// 头部
	HeadLength uint32
	BodyLength uint32
	MessageId  uint32
	Version    uint8
	Compresser uint8
	Serializer uint8

	Module string
	Bridge string
	Method string

	Meta map[string]string

	// serialized args
	Data []byte
}

func EncodeReq(req *ReqFrame) []byte {
	bs := make([]byte, req.HeadLength+req.BodyLength)
	binary.BigEndian.PutUint32(bs[:4], req.HeadLength)
	binary.BigEndian.PutUint32(bs[4:8], req.BodyLength)
	binary.BigEndian.PutUint32(bs[8:12], req.MessageId)
	bs[12] = req.Version
	bs[13] = req.Compresser
	bs[14] = req.Serializer

	cur := bs[reqFixedHeadLength:]
	for _, s := range []string{req.Module, req.Bridge, req.Method} {
		copy(cur, s)
		cur = cur[len(s):]
		cur[0] = splitter
		cur = cur[1:]
	}
	for key, value := range req.Meta {
		copy(cur, key)
		cur = cur[len(key):]
		cur[0] = pairSplitter
		cur = cur[1:]
		copy(cur, value)
		cur = cur[len(value):]
		cur[0] = splitter
		cur = cur[1:]
	}
	copy(cur, req.Data)
	return bs
}

func DecodeReq(bs []byte) (*ReqFrame, error) {
	if len(bs) < reqFixedHeadLength {
		return nil, errs.ErrFrameTooShort
	}
	req := &ReqFrame{}
	req.HeadLength = binary.BigEndian.Uint32(bs[:4])
	req.BodyLength = binary.BigEndian.Uint32(bs[4:8])
	req.MessageId = binary.BigEndian.Uint32(bs[8:12])
	req.Version = bs[12]
	req.Compresser = bs[13]
	req.Serializer = bs[14]
	if req.HeadLength < reqFixedHeadLength || uint64(len(bs)) < uint64(req.HeadLength)+uint64(req.BodyLength) {
		return nil, errs.ErrFrameTooShort
	}

	header := bs[reqFixedHeadLength:req.HeadLength]
	names := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		index := bytes.IndexByte(header, splitter)
		if index == -1 {
			return nil, errs.ErrInvalidAddress
		}
		names = append(names, string(header[:index]))
		header = header[index+1:]
	}
	req.Module, req.Bridge, req.Method = names[0], names[1], names[2]

	if len(header) > 0 {
		req.Meta = make(map[string]string, 4)
	}
	for len(header) > 0 {
		index := bytes.IndexByte(header, splitter)
		if index == -1 {
			break
		}
		pair := header[:index]
		pairIndex := bytes.IndexByte(pair, pairSplitter)
		if pairIndex != -1 {
			req.Meta[string(pair[:pairIndex])] = string(pair[pairIndex+1:])
		}
		header = header[index+1:]
	}

	if req.BodyLength != 0 {
		req.Data = bs[req.HeadLength : req.HeadLength+req.BodyLength]
	}
	return req, nil
}

func (req *ReqFrame) CalculateHeaderLength() {
	// 不要忘了分隔符
	headLength := reqFixedHeadLength + len(req.Module) + 1 + len(req.Bridge) + 1 + len(req.Method) + 1
	for key, value := range req.Meta {
		headLength += len(key) + 1 + len(value) + 1
	}
	req.HeadLength = uint32(headLength)
}

func (req *ReqFrame) CalculateBodyLength() {
	req.BodyLength = uint32(len(req.Data))
}
