package ipc

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"consolebridge"
	"consolebridge/compress"
	"consolebridge/internal/errs"
	"consolebridge/message"
	"consolebridge/serialize"
	jsonser "consolebridge/serialize/json"

	"github.com/gotomicro/ekit/bean/option"
	"github.com/silenceper/pool"
)

const (
	protocolVersion = 1
	metaDeadline    = "deadline"
	// rawSerializer marks a body that is plain JSON, used by the host when
	// it can not answer with the caller's codecs
	rawSerializer = 0
	noCompression = 0
)

var _ consolebridge.Proxy = (*Client)(nil)

// Client talks to the embedded desktop host over its local socket.
type Client struct {
	connPool   pool.Pool
	serializer serialize.Serializer
	compressor compress.Compressor
	messageId  uint32
}

func ClientWithSerializer(s serialize.Serializer) option.Option[Client] {
	return func(client *Client) {
		client.serializer = s
	}
}

func ClientWithCompressor(c compress.Compressor) option.Option[Client] {
	return func(client *Client) {
		client.compressor = c
	}
}

// SplitAddress turns unix:///run/console.sock, tcp://127.0.0.1:9000 or a
// bare socket path into a network and an address for net.Dial.
func SplitAddress(addr string) (network, address string) {
	switch {
	case strings.HasPrefix(addr, "unix://"):
		return "unix", strings.TrimPrefix(addr, "unix://")
	case strings.HasPrefix(addr, "tcp://"):
		return "tcp", strings.TrimPrefix(addr, "tcp://")
	case strings.HasPrefix(addr, "/"), strings.HasPrefix(addr, "."):
		return "unix", addr
	default:
		return "tcp", addr
	}
}

// NewClient does not dial, connections are opened on first use.
func NewClient(addr string, opts ...option.Option[Client]) (*Client, error) {
	if addr == "" {
		return nil, errs.ErrNoOrigin
	}
	network, address := SplitAddress(addr)
	poolConfig := &pool.Config{
		InitialCap: 0,
		MaxIdle:    4,
		MaxCap:     16,
		Factory: func() (interface{}, error) {
			return net.Dial(network, address)
		},
		Close: func(i interface{}) error {
			return i.(net.Conn).Close()
		},
		IdleTimeout: time.Minute,
	}
	connPool, err := pool.NewChannelPool(poolConfig)
	if err != nil {
		return nil, err
	}
	client := &Client{
		connPool:   connPool,
		serializer: jsonser.Serializer{},
		compressor: compress.DoNothingCompressor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

func (c *Client) Invoke(ctx context.Context, req *message.Request) (*message.Response, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	frame, err := c.frame(ctx, req)
	if err != nil {
		return nil, err
	}
	type result struct {
		resp *message.Response
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		resp, er := c.doInvoke(frame)
		ch <- result{resp: resp, err: er}
	}()
	select {
	case res := <-ch:
		return res.resp, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Client) frame(ctx context.Context, req *message.Request) (*message.ReqFrame, error) {
	if err := checkFields(req); err != nil {
		return nil, err
	}
	args := req.Args
	if args == nil {
		args = []any{}
	}
	data, err := c.serializer.Encode(args)
	if err != nil {
		return nil, fmt.Errorf("encode args: %w", err)
	}
	data, err = c.compressor.Compress(data)
	if err != nil {
		return nil, fmt.Errorf("compress args: %w", err)
	}
	meta := make(map[string]string, len(req.Meta)+1)
	for key, val := range req.Meta {
		meta[key] = val
	}
	if deadline, ok := ctx.Deadline(); ok {
		meta[metaDeadline] = strconv.FormatInt(deadline.UnixMilli(), 10)
	}
	frame := &message.ReqFrame{
		MessageId:  atomic.AddUint32(&c.messageId, 1),
		Version:    protocolVersion,
		Compresser: c.compressor.Code(),
		Serializer: c.serializer.Code(),
		Module:     req.Module,
		Bridge:     req.Bridge,
		Method:     req.Method,
		Meta:       meta,
		Data:       data,
	}
	frame.CalculateHeaderLength()
	frame.CalculateBodyLength()
	return frame, nil
}

// checkFields rejects names the frame header can not carry, a newline
// would silently cut the address short.
func checkFields(req *message.Request) error {
	check := func(field, val string) error {
		if strings.ContainsAny(val, "\n\r") {
			return errs.InvalidFrameField(field, val)
		}
		return nil
	}
	if err := check("module", req.Module); err != nil {
		return err
	}
	if err := check("bridge", req.Bridge); err != nil {
		return err
	}
	if err := check("method", req.Method); err != nil {
		return err
	}
	for key, val := range req.Meta {
		if err := check("meta key", key); err != nil {
			return err
		}
		if err := check("meta value", val); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) doInvoke(frame *message.ReqFrame) (*message.Response, error) {
	val, err := c.connPool.Get()
	if err != nil {
		return nil, fmt.Errorf("connect host: %w", err)
	}
	conn := val.(net.Conn)
	resp, err := c.roundTrip(conn, frame)
	if err != nil {
		// the stream may be half read, never reuse it
		_ = c.connPool.Close(val)
		return nil, err
	}
	_ = c.connPool.Put(val)
	return resp, nil
}

func (c *Client) roundTrip(conn net.Conn, frame *message.ReqFrame) (*message.Response, error) {
	if err := WriteMsg(conn, message.EncodeReq(frame)); err != nil {
		return nil, err
	}
	bs, err := ReadMsg(conn)
	if err != nil {
		return nil, err
	}
	respFrame, err := message.DecodeResp(bs)
	if err != nil {
		return nil, err
	}
	if respFrame.MessageId != frame.MessageId {
		return nil, errs.ErrMessageIdMismatch
	}
	data := respFrame.Data
	if respFrame.Compresser != noCompression {
		if respFrame.Compresser != c.compressor.Code() {
			return nil, errs.UnknownCompressor(respFrame.Compresser)
		}
		if data, err = c.compressor.UnCompress(data); err != nil {
			return nil, fmt.Errorf("uncompress result: %w", err)
		}
	}
	raw := json.RawMessage(data)
	if respFrame.Serializer != rawSerializer && len(data) > 0 {
		if respFrame.Serializer != c.serializer.Code() {
			return nil, errs.UnknownSerializer(respFrame.Serializer)
		}
		raw = nil
		if err = c.serializer.Decode(data, &raw); err != nil {
			return nil, fmt.Errorf("decode result: %w", err)
		}
	}
	return &message.Response{
		StatusCode: int(respFrame.Status),
		Data:       raw,
	}, nil
}

// Close releases pooled connections.
func (c *Client) Close() error {
	c.connPool.Release()
	return nil
}
