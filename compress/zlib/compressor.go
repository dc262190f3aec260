package zlib

import (
	"bytes"
	"compress/zlib"

	"consolebridge/compress"
)

var _ compress.Compressor = Compressor{}

type Compressor struct{}

func (Compressor) Code() byte {
	return 4
}

func (Compressor) Compress(data []byte) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	w := zlib.NewWriter(buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (Compressor) UnCompress(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = r.Close()
	}()
	return compress.ReadAll(r)
}
