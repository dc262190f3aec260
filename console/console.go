// Package console wires the five domain bridges to whichever transport the
// environment calls for, so page-level code never checks the environment.
package console

import (
	"context"
	"io"
	"time"

	"consolebridge"
	"consolebridge/config"
	"consolebridge/facade/capital"
	"consolebridge/facade/people"
	"consolebridge/facade/pilot"
	"consolebridge/facade/pulse"
	"consolebridge/facade/stock"
	"consolebridge/internal/errs"
	"consolebridge/ipc"
	"consolebridge/registry/etcd"
	"consolebridge/rpc"

	"github.com/gotomicro/ekit/bean/option"
	clientv3 "go.etcd.io/etcd/client/v3"
	"go.uber.org/zap"
)

type Console struct {
	Capital capital.Service
	Stock   stock.Service
	People  people.Service
	Pulse   pulse.Service
	Pilot   pilot.Service

	// Mode is consolebridge.ModeDesktop or consolebridge.ModeWeb
	Mode string

	closer io.Closer
}

// New selects every façade between desktop and web. Both proxies may be
// set, only the selected one is ever called. env is read once so all
// façades land on the same side.
func New(env consolebridge.Environment, desktop, web consolebridge.Proxy, mdls ...consolebridge.Middleware) *Console {
	chain := consolebridge.Chain(mdls...)
	if desktop != nil {
		desktop = chain(desktop)
	}
	if web != nil {
		web = chain(web)
	}
	mode := consolebridge.Mode(env)
	fixed := consolebridge.StaticEnv(mode == consolebridge.ModeDesktop)
	return &Console{
		Capital: consolebridge.Select(fixed, consolebridge.Pair[capital.Service]{
			Desktop: capital.NewClient(desktop), Web: capital.NewClient(web)}),
		Stock: consolebridge.Select(fixed, consolebridge.Pair[stock.Service]{
			Desktop: stock.NewClient(desktop), Web: stock.NewClient(web)}),
		People: consolebridge.Select(fixed, consolebridge.Pair[people.Service]{
			Desktop: people.NewClient(desktop), Web: people.NewClient(web)}),
		Pulse: consolebridge.Select(fixed, consolebridge.Pair[pulse.Service]{
			Desktop: pulse.NewClient(desktop), Web: pulse.NewClient(web)}),
		Pilot: consolebridge.Select(fixed, consolebridge.Pair[pilot.Service]{
			Desktop: pilot.NewClient(desktop), Web: pilot.NewClient(web)}),
		Mode: mode,
	}
}

type openOptions struct {
	logger      *zap.Logger
	middlewares []consolebridge.Middleware
}

func WithLogger(logger *zap.Logger) option.Option[openOptions] {
	return func(o *openOptions) {
		o.logger = logger
	}
}

func WithMiddlewares(mdls ...consolebridge.Middleware) option.Option[openOptions] {
	return func(o *openOptions) {
		o.middlewares = append(o.middlewares, mdls...)
	}
}

// Dial builds only the transport env selects: the ipc client when
// embedded, otherwise the HTTP client, resolved through etcd when no
// origin is configured. The returned closer releases it.
func Dial(cfg config.Client, env consolebridge.Environment, opts ...option.Option[openOptions]) (consolebridge.Proxy, io.Closer, error) {
	o := &openOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	dial := consolebridge.Select(env, consolebridge.Pair[func() (consolebridge.Proxy, []io.Closer, error)]{
		Desktop: func() (consolebridge.Proxy, []io.Closer, error) {
			return dialDesktop(cfg)
		},
		Web: func() (consolebridge.Proxy, []io.Closer, error) {
			return dialWeb(cfg, o.logger)
		},
	})
	proxy, closers, err := dial()
	if err != nil {
		return nil, nil, err
	}
	mdls := append([]consolebridge.Middleware{consolebridge.LoggingMiddleware(o.logger)}, o.middlewares...)
	return consolebridge.Chain(mdls...)(proxy), multiCloser(closers), nil
}

// Open dials and assembles every façade over the result.
func Open(cfg config.Client, env consolebridge.Environment, opts ...option.Option[openOptions]) (*Console, error) {
	fixed := consolebridge.StaticEnv(env.Embedded())
	proxy, closer, err := Dial(cfg, fixed, opts...)
	if err != nil {
		return nil, err
	}
	c := New(fixed, proxy, proxy)
	c.closer = closer
	return c, nil
}

func dialDesktop(cfg config.Client) (consolebridge.Proxy, []io.Closer, error) {
	s, err := ipc.SerializerByName(cfg.Serializer)
	if err != nil {
		return nil, nil, err
	}
	comp, err := ipc.CompressorByName(cfg.Compressor)
	if err != nil {
		return nil, nil, err
	}
	client, err := ipc.NewClient(cfg.HostSocket, ipc.ClientWithSerializer(s), ipc.ClientWithCompressor(comp))
	if err != nil {
		return nil, nil, err
	}
	return client, []io.Closer{client}, nil
}

func dialWeb(cfg config.Client, logger *zap.Logger) (consolebridge.Proxy, []io.Closer, error) {
	opts := []option.Option[rpc.Client]{rpc.ClientWithPath(cfg.Path)}
	var closers []io.Closer
	if cfg.Origin == "" {
		endpoints := cfg.Endpoints()
		if len(endpoints) == 0 {
			return nil, nil, errs.ErrNoOrigin
		}
		etcdClient, err := clientv3.New(clientv3.Config{
			Endpoints:   endpoints,
			DialTimeout: 5 * time.Second,
		})
		if err != nil {
			return nil, nil, err
		}
		reg, err := etcd.NewRegistry(etcdClient)
		if err != nil {
			_ = etcdClient.Close()
			return nil, nil, err
		}
		resolver, err := rpc.NewResolver(reg, cfg.Service, rpc.ResolverWithLogger(logger))
		if err != nil {
			_ = reg.Close()
			_ = etcdClient.Close()
			return nil, nil, err
		}
		closers = append(closers, resolver, reg, etcdClient)
		opts = append(opts, rpc.ClientWithResolver(resolver))
	}
	client, err := rpc.NewClient(cfg.Origin, opts...)
	if err != nil {
		_ = multiCloser(closers).Close()
		return nil, nil, err
	}
	return client, closers, nil
}

// Close releases whatever Open dialed.
func (c *Console) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

type multiCloser []io.Closer

func (m multiCloser) Close() error {
	var firstErr error
	for _, c := range m {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Ping checks the selected side answers by reading pulse health.
func (c *Console) Ping(ctx context.Context) error {
	_, err := c.Pulse.GetHealth(ctx)
	return err
}
