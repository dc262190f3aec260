package snappy

import (
	"bytes"
	"io"

	"consolebridge/compress"

	"github.com/golang/snappy"
)

var _ compress.Compressor = Compressor{}

// Compressor uses the snappy framing format
type Compressor struct{}

func (Compressor) Code() byte {
	return 3
}

func (Compressor) Compress(data []byte) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	w := snappy.NewBufferedWriter(buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	// Close flushes the buffered writer, do not defer it
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (Compressor) UnCompress(data []byte) ([]byte, error) {
	r := snappy.NewReader(bytes.NewReader(data))
	res, err := compress.ReadAll(r)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, err
	}
	return res, nil
}
