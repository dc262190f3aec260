package ipc

import (
	"encoding/binary"
	"net"
	"testing"

	"consolebridge/internal/errs"
	"consolebridge/message"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMsg(t *testing.T) {
	frame := &message.ReqFrame{
		MessageId: 3,
		Module:    "people",
		Bridge:    "PeopleBridge",
		Method:    "GetEmployee",
		Data:      []byte(`["e-1"]`),
	}
	frame.CalculateHeaderLength()
	frame.CalculateBodyLength()
	encoded := message.EncodeReq(frame)

	tooLarge := make([]byte, lenBytes)
	binary.BigEndian.PutUint32(tooLarge[:4], 16)
	binary.BigEndian.PutUint32(tooLarge[4:8], maxFrameSize)

	tooShort := make([]byte, lenBytes)
	binary.BigEndian.PutUint32(tooShort[:4], 2)

	testCases := []struct {
		name    string
		input   []byte
		want    []byte
		wantErr error
	}{
		{
			name:  "whole frame",
			input: encoded,
			want:  encoded,
		},
		{
			name:    "truncated length",
			input:   []byte{0, 0, 0},
			wantErr: errs.ErrReadLenData,
		},
		{
			name:    "too large",
			input:   tooLarge,
			wantErr: errs.ErrFrameTooLarge,
		},
		{
			name:    "too short",
			input:   tooShort,
			wantErr: errs.ErrFrameTooShort,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server, client := net.Pipe()
			go func() {
				_ = WriteMsg(client, tc.input)
				_ = client.Close()
			}()
			defer server.Close()
			bs, err := ReadMsg(server)
			if tc.wantErr != nil {
				assert.Equal(t, tc.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, bs)
		})
	}
}

func TestSplitAddress(t *testing.T) {
	testCases := []struct {
		addr        string
		wantNetwork string
		wantAddress string
	}{
		{addr: "unix:///run/console.sock", wantNetwork: "unix", wantAddress: "/run/console.sock"},
		{addr: "/run/console.sock", wantNetwork: "unix", wantAddress: "/run/console.sock"},
		{addr: "tcp://127.0.0.1:9000", wantNetwork: "tcp", wantAddress: "127.0.0.1:9000"},
		{addr: "127.0.0.1:9000", wantNetwork: "tcp", wantAddress: "127.0.0.1:9000"},
	}
	for _, tc := range testCases {
		t.Run(tc.addr, func(t *testing.T) {
			network, address := SplitAddress(tc.addr)
			assert.Equal(t, tc.wantNetwork, network)
			assert.Equal(t, tc.wantAddress, address)
		})
	}
}

func TestCodecByName(t *testing.T) {
	for _, name := range []string{"", "none", "gzip", "lz4", "snappy", "zlib"} {
		c, err := CompressorByName(name)
		require.NoError(t, err)
		assert.NotNil(t, c)
	}
	_, err := CompressorByName("brotli")
	assert.Error(t, err)

	for _, name := range []string{"", "json", "proto"} {
		s, err := SerializerByName(name)
		require.NoError(t, err)
		assert.NotNil(t, s)
	}
	_, err = SerializerByName("xml")
	assert.Error(t, err)
}
