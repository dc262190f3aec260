package gzip

import (
	"bytes"
	"compress/gzip"

	"consolebridge/compress"
)

var _ compress.Compressor = Compressor{}

// Compressor implements the Compressor interface
type Compressor struct{}

func (Compressor) Code() byte {
	return 1
}

func (Compressor) Compress(data []byte) ([]byte, error) {
	res := bytes.NewBuffer(nil)
	w := gzip.NewWriter(res)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	// Close must run before reading res, a deferred Close leaves the
	// buffer without the footer and UnCompress returns nothing
	if err := w.Close(); err != nil {
		return nil, err
	}
	return res.Bytes(), nil
}

func (Compressor) UnCompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = r.Close()
	}()
	return compress.ReadAll(r)
}
