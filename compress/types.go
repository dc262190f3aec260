package compress

import (
	"errors"
	"io"
)

// MaxSize bounds what UnCompress may produce, whatever the input declares.
const MaxSize = 64 << 20

var ErrTooLarge = errors.New("compress: uncompressed data exceeds the maximum size")

// ReadAll reads r up to MaxSize and fails with ErrTooLarge past it.
func ReadAll(r io.Reader) ([]byte, error) {
	res, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if len(res) > MaxSize {
		return nil, ErrTooLarge
	}
	return res, err
}

// Compressor -> ipc body compression. Code is written into every frame so
// the host can pick the same algorithm for the response.
type Compressor interface {
	Code() byte
	Compress(data []byte) ([]byte, error)
	UnCompress(data []byte) ([]byte, error)
}

var _ Compressor = DoNothingCompressor{}

// DoNothingCompressor 避免 nil 检测
type DoNothingCompressor struct{}

func (DoNothingCompressor) Code() byte {
	return 0
}

func (DoNothingCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

func (DoNothingCompressor) UnCompress(data []byte) ([]byte, error) {
	return data, nil
}
