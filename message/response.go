package message

import (
	"encoding/binary"

	"consolebridge/internal/errs"
)

const respHeadLength = 17

// Response -> transport outcome of one call. Data is the raw JSON body.
type Response struct {
	StatusCode int
	Data       []byte
}

// Success reports a 2xx status.
func (r *Response) Success() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// RespFrame -> ipc response frame
type RespFrame struct {
	HeadLength uint32
	BodyLength uint32
	MessageId  uint32
	Version    uint8
	Compresser uint8
	Serializer uint8
	// same meaning as an HTTP status code
	Status uint16

	// serialized result, or {"message": ...} when Status is not 2xx
	Data []byte
}

func EncodeResp(resp *RespFrame) []byte {
	bs := make([]byte, resp.HeadLength+resp.BodyLength)
	binary.BigEndian.PutUint32(bs[:4], resp.HeadLength)
	binary.BigEndian.PutUint32(bs[4:8], resp.BodyLength)
	binary.BigEndian.PutUint32(bs[8:12], resp.MessageId)
	bs[12] = resp.Version
	bs[13] = resp.Compresser
	bs[14] = resp.Serializer
	binary.BigEndian.PutUint16(bs[15:17], resp.Status)
	copy(bs[resp.HeadLength:], resp.Data)
	return bs
}

func DecodeResp(bs []byte) (*RespFrame, error) {
	if len(bs) < respHeadLength {
		return nil, errs.ErrFrameTooShort
	}
	resp := &RespFrame{}
	resp.HeadLength = binary.BigEndian.Uint32(bs[:4])
	resp.BodyLength = binary.BigEndian.Uint32(bs[4:8])
	resp.MessageId = binary.BigEndian.Uint32(bs[8:12])
	resp.Version = bs[12]
	resp.Compresser = bs[13]
	resp.Serializer = bs[14]
	resp.Status = binary.BigEndian.Uint16(bs[15:17])
	if resp.HeadLength < respHeadLength || uint64(len(bs)) < uint64(resp.HeadLength)+uint64(resp.BodyLength) {
		return nil, errs.ErrFrameTooShort
	}
	if resp.BodyLength != 0 {
		resp.Data = bs[resp.HeadLength : resp.HeadLength+resp.BodyLength]
	}
	return resp, nil
}

func (resp *RespFrame) CalculateHeaderLength() {
	resp.HeadLength = respHeadLength
}

func (resp *RespFrame) CalculateBodyLength() {
	resp.BodyLength = uint32(len(resp.Data))
}
