package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"consolebridge/dispatch"

	"github.com/gotomicro/ekit/bean/option"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const defaultMaxBodyBytes = 4 << 20

type envelope struct {
	Module string            `json:"module"`
	Bridge string            `json:"bridge"`
	Method string            `json:"method"`
	Args   []json.RawMessage `json:"args"`
}

// Server exposes a Handler at one POST path.
type Server struct {
	handler      dispatch.Handler
	path         string
	logger       *zap.Logger
	middlewares  []mux.MiddlewareFunc
	metrics      http.Handler
	maxBodyBytes int64

	router *mux.Router
	srv    *http.Server
}

func ServerWithPath(path string) option.Option[Server] {
	return func(s *Server) {
		s.path = path
	}
}

func ServerWithLogger(logger *zap.Logger) option.Option[Server] {
	return func(s *Server) {
		s.logger = logger
	}
}

// ServerWithMiddlewares wraps the rpc route, the first one is the outermost.
func ServerWithMiddlewares(mdls ...mux.MiddlewareFunc) option.Option[Server] {
	return func(s *Server) {
		s.middlewares = append(s.middlewares, mdls...)
	}
}

// ServerWithMetrics mounts h at /metrics.
func ServerWithMetrics(h http.Handler) option.Option[Server] {
	return func(s *Server) {
		s.metrics = h
	}
}

func ServerWithMaxBodyBytes(n int64) option.Option[Server] {
	return func(s *Server) {
		s.maxBodyBytes = n
	}
}

func NewServer(handler dispatch.Handler, opts ...option.Option[Server]) *Server {
	res := &Server{
		handler:      handler,
		path:         DefaultPath,
		logger:       zap.NewNop(),
		maxBodyBytes: defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(res)
	}
	router := mux.NewRouter()
	var rpcHandler http.Handler = http.HandlerFunc(res.handleRPC)
	for i := len(res.middlewares) - 1; i >= 0; i-- {
		rpcHandler = res.middlewares[i](rpcHandler)
	}
	router.Handle(res.path, rpcHandler).Methods(http.MethodPost)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)
	if res.metrics != nil {
		router.Handle("/metrics", res.metrics).Methods(http.MethodGet)
	}
	res.router = router
	res.srv = &http.Server{
		Handler:           res,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return res
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start blocks until the server stops. A Shutdown is not reported as an error.
func (s *Server) Start(address string) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return err
	}
	return s.Serve(listener)
}

func (s *Server) Serve(listener net.Listener) error {
	s.logger.Info("rpc server listening", zap.String("address", listener.Addr().String()), zap.String("path", s.path))
	err := s.srv.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	var env envelope
	if err := json.NewDecoder(body).Decode(&env); err != nil {
		s.fail(w, dispatch.BadRequest("invalid envelope: %v", err))
		return
	}
	if env.Module == "" || env.Bridge == "" || env.Method == "" {
		s.fail(w, dispatch.BadRequest("module, bridge and method are required"))
		return
	}
	if env.Args == nil {
		env.Args = []json.RawMessage{}
	}
	data, err := s.handler.Dispatch(r.Context(), env.Module, env.Bridge, env.Method, env.Args)
	if err != nil {
		s.logger.Debug("call failed",
			zap.String("address", env.Module+"."+env.Bridge+"."+env.Method),
			zap.Error(err))
		s.fail(w, err)
		return
	}
	s.write(w, http.StatusOK, data)
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status, msg := dispatch.Status(err)
	s.write(w, status, dispatch.FailureBody(msg))
}

func (s *Server) write(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("write response", zap.Error(err))
	}
}
