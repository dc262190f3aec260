package lz4

import (
	"encoding/binary"
	"errors"

	"consolebridge/compress"

	"github.com/pierrec/lz4/v4"
)

var _ compress.Compressor = Compressor{}

var errCorrupted = errors.New("lz4: corrupted block")

const (
	blockRaw byte = iota
	blockLz4
)

// Compressor lz4 block compression. Decompression is several times faster
// than gzip, which suits many small frames.
//
// Layout: 4 bytes original length, 1 byte block kind, block.
type Compressor struct{}

func (Compressor) Code() byte {
	return 2
}

func (Compressor) Compress(data []byte) ([]byte, error) {
	buf := make([]byte, 5+lz4.CompressBlockBound(len(data)))
	binary.BigEndian.PutUint32(buf[:4], uint32(len(data)))
	var c lz4.Compressor
	n, err := c.CompressBlock(data, buf[5:])
	if err != nil {
		return nil, err
	}
	// n == 0 means incompressible
	if n == 0 {
		buf[4] = blockRaw
		n = copy(buf[5:], data)
		return buf[:5+n], nil
	}
	buf[4] = blockLz4
	return buf[:5+n], nil
}

func (Compressor) UnCompress(data []byte) ([]byte, error) {
	if len(data) < 5 {
		return nil, errCorrupted
	}
	size := binary.BigEndian.Uint32(data[:4])
	if size > compress.MaxSize {
		return nil, compress.ErrTooLarge
	}
	switch data[4] {
	case blockRaw:
		if uint32(len(data)-5) != size {
			return nil, errCorrupted
		}
		res := make([]byte, size)
		copy(res, data[5:])
		return res, nil
	case blockLz4:
		res := make([]byte, size)
		n, err := lz4.UncompressBlock(data[5:], res)
		if err != nil {
			return nil, err
		}
		return res[:n], nil
	default:
		return nil, errCorrupted
	}
}
