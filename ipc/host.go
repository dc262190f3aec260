package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"consolebridge/compress"
	"consolebridge/dispatch"
	"consolebridge/internal/errs"
	"consolebridge/message"
	"consolebridge/serialize"

	"github.com/gotomicro/ekit/bean/option"
	"go.uber.org/zap"
	"golang.org/x/net/netutil"
)

// Host serves a dispatcher over the desktop socket. Every connection is
// handled sequentially, callers needing parallelism open more connections.
type Host struct {
	handler     dispatch.Handler
	logger      *zap.Logger
	maxConns    int
	serializers []serialize.Serializer
	compressors []compress.Compressor

	mutex    sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	closed   bool
}

func HostWithLogger(logger *zap.Logger) option.Option[Host] {
	return func(h *Host) {
		h.logger = logger
	}
}

// HostWithMaxConns caps concurrently served connections, 0 means no cap.
func HostWithMaxConns(n int) option.Option[Host] {
	return func(h *Host) {
		h.maxConns = n
	}
}

func NewHost(handler dispatch.Handler, opts ...option.Option[Host]) *Host {
	res := &Host{
		handler: handler,
		logger:  zap.NewNop(),
		// a code is one byte, so an array of 256 is enough
		serializers: make([]serialize.Serializer, 256),
		compressors: make([]compress.Compressor, 256),
		conns:       make(map[net.Conn]struct{}, 4),
	}
	for _, s := range Serializers() {
		res.RegisterSerializer(s)
	}
	for _, c := range Compressors() {
		res.RegisterCompressor(c)
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

func (h *Host) RegisterSerializer(s serialize.Serializer) {
	h.serializers[s.Code()] = s
}

func (h *Host) RegisterCompressor(c compress.Compressor) {
	h.compressors[c.Code()] = c
}

// Start listens on addr (see SplitAddress) and blocks until Close.
func (h *Host) Start(addr string) error {
	network, address := SplitAddress(addr)
	if network == "unix" {
		// a stale socket file from a crashed host blocks Listen
		_ = os.Remove(address)
	}
	listener, err := net.Listen(network, address)
	if err != nil {
		return err
	}
	return h.Serve(listener)
}

func (h *Host) Serve(listener net.Listener) error {
	if h.maxConns > 0 {
		listener = netutil.LimitListener(listener, h.maxConns)
	}
	h.mutex.Lock()
	if h.closed {
		h.mutex.Unlock()
		return listener.Close()
	}
	h.listener = listener
	h.mutex.Unlock()
	h.logger.Info("desktop host listening", zap.String("address", listener.Addr().String()))

	for {
		conn, err := listener.Accept()
		if errors.Is(err, net.ErrClosed) {
			return nil
		}
		if err != nil {
			h.logger.Warn("accept connection", zap.Error(err))
			continue
		}
		if !h.track(conn) {
			_ = conn.Close()
			return nil
		}
		go h.handleConn(conn)
	}
}

func (h *Host) track(conn net.Conn) bool {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if h.closed {
		return false
	}
	h.conns[conn] = struct{}{}
	return true
}

func (h *Host) handleConn(conn net.Conn) {
	defer func() {
		h.mutex.Lock()
		delete(h.conns, conn)
		h.mutex.Unlock()
		_ = conn.Close()
	}()
	for {
		bs, err := ReadMsg(conn)
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				h.logger.Debug("read frame", zap.Error(err))
			}
			return
		}
		req, err := message.DecodeReq(bs)
		if err != nil {
			h.logger.Debug("decode frame", zap.Error(err))
			return
		}
		resp := h.Invoke(req)
		resp.CalculateHeaderLength()
		resp.CalculateBodyLength()
		if err = WriteMsg(conn, message.EncodeResp(resp)); err != nil {
			h.logger.Debug("write frame", zap.Error(err))
			return
		}
	}
}

// Invoke runs one request frame and builds its response frame. The
// response reuses the request's serializer and compressor.
func (h *Host) Invoke(req *message.ReqFrame) *message.RespFrame {
	resp := &message.RespFrame{
		MessageId:  req.MessageId,
		Version:    req.Version,
		Compresser: req.Compresser,
		Serializer: req.Serializer,
	}
	serializer := h.serializers[req.Serializer]
	compressor := h.compressors[req.Compresser]
	if serializer == nil || compressor == nil {
		resp.Serializer, resp.Compresser = rawSerializer, noCompression
		resp.Status = http.StatusBadRequest
		var err error = errs.UnknownSerializer(req.Serializer)
		if compressor == nil {
			err = errs.UnknownCompressor(req.Compresser)
		}
		resp.Data = dispatch.FailureBody(err.Error())
		return resp
	}

	ctx := context.Background()
	if ms, err := strconv.ParseInt(req.Meta[metaDeadline], 10, 64); err == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, time.UnixMilli(ms))
		defer cancel()
	}

	status := http.StatusOK
	result, err := h.call(ctx, req, serializer, compressor)
	if err != nil {
		var msg string
		status, msg = dispatch.Status(err)
		result = dispatch.FailureBody(msg)
	}
	data, err := serializer.Encode(result)
	if err == nil {
		data, err = compressor.Compress(data)
	}
	if err != nil {
		h.logger.Error("encode result", zap.String("address", req.Module+"."+req.Bridge+"."+req.Method), zap.Error(err))
		resp.Serializer, resp.Compresser = rawSerializer, noCompression
		status, data = http.StatusInternalServerError, nil
	}
	resp.Status = uint16(status)
	resp.Data = data
	return resp
}

func (h *Host) call(ctx context.Context, req *message.ReqFrame,
	serializer serialize.Serializer, compressor compress.Compressor) (json.RawMessage, error) {
	args := []json.RawMessage{}
	if len(req.Data) > 0 {
		data, err := compressor.UnCompress(req.Data)
		if err != nil {
			return nil, dispatch.BadRequest("uncompress args: %v", err)
		}
		if err = serializer.Decode(data, &args); err != nil {
			return nil, dispatch.BadRequest("decode args: %v", err)
		}
	}
	return h.handler.Dispatch(ctx, req.Module, req.Bridge, req.Method, args)
}

// Close stops accepting and drops open connections.
func (h *Host) Close() error {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	for conn := range h.conns {
		_ = conn.Close()
	}
	if h.listener != nil {
		return h.listener.Close()
	}
	return nil
}
