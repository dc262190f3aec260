package ipc

import (
	"encoding/binary"
	"io"
	"net"

	"consolebridge/internal/errs"
)

// every frame starts with its head length and body length
const lenBytes = 8

// maxFrameSize bounds a single frame, a peer announcing more is dropped.
const maxFrameSize = 64 << 20

// ReadMsg reads one whole frame, length prefix included.
func ReadMsg(conn net.Conn) ([]byte, error) {
	lenBs := make([]byte, lenBytes)
	if _, err := io.ReadFull(conn, lenBs); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, errs.ErrReadLenData
		}
		return nil, err
	}
	headLength := binary.BigEndian.Uint32(lenBs[:4])
	bodyLength := binary.BigEndian.Uint32(lenBs[4:8])
	total := uint64(headLength) + uint64(bodyLength)
	if total < lenBytes {
		return nil, errs.ErrFrameTooShort
	}
	if total > maxFrameSize {
		return nil, errs.ErrFrameTooLarge
	}
	bs := make([]byte, total)
	copy(bs[:lenBytes], lenBs)
	if _, err := io.ReadFull(conn, bs[lenBytes:]); err != nil {
		return nil, err
	}
	return bs, nil
}

// WriteMsg writes bs fully.
func WriteMsg(conn net.Conn, bs []byte) error {
	for len(bs) > 0 {
		n, err := conn.Write(bs)
		if err != nil {
			return err
		}
		bs = bs[n:]
	}
	return nil
}
