package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"consolebridge/config"
	"consolebridge/dispatch"
	"consolebridge/ipc"
	"consolebridge/observability/metrics/prometheus"
	"consolebridge/observability/opentelemetry"
	"consolebridge/ratelimit"
	"consolebridge/registry"
	"consolebridge/registry/etcd"
	"consolebridge/rpc"

	"github.com/go-redis/redis/v9"
	"github.com/gotomicro/ekit/bean/option"
	"github.com/gorilla/mux"
	prom "github.com/prometheus/client_golang/prometheus"
	clientv3 "go.etcd.io/etcd/client/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type dispatchOption = option.Option[dispatch.Dispatcher]

func main() {
	configPath := flag.String("config", "", "yaml config file")
	envFile := flag.String("env", ".env", "dotenv file")
	flag.Parse()

	cfg, err := config.LoadServer(*configPath, *envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer func() {
		_ = logger.Sync()
	}()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err = run(ctx, cfg, logger); err != nil {
		logger.Error("console server stopped", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(cfg config.Log) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}
	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		zc.Level = level
	}
	return zc.Build()
}

func run(ctx context.Context, cfg config.Server, logger *zap.Logger) error {
	d := newDispatcher(dispatch.DispatcherWithLogger(logger))
	limiter, err := newLimiter(cfg.RateLimit)
	if err != nil {
		return err
	}

	metricsReg := prom.NewRegistry()
	srv := rpc.NewServer(d, serverOptions(cfg, logger, limiter, metricsReg)...)

	var host *ipc.Host
	if cfg.IPC.Address != "" {
		var handler dispatch.Handler = d
		if limiter != nil {
			handler = &ratelimit.MethodLimiter{Limiter: limiter, Next: d}
		}
		host = ipc.NewHost(handler, ipc.HostWithLogger(logger), ipc.HostWithMaxConns(cfg.IPC.MaxConns))
	}

	var reg registry.Registry
	if endpoints := cfg.Registry.EndpointList(); len(endpoints) > 0 {
		etcdClient, err := clientv3.New(clientv3.Config{
			Endpoints:   endpoints,
			DialTimeout: 5 * time.Second,
		})
		if err != nil {
			return err
		}
		defer etcdClient.Close()
		if reg, err = etcd.NewRegistry(etcdClient); err != nil {
			return err
		}
		inst := registry.ServiceInstance{
			Name:    cfg.Registry.Service,
			Address: cfg.Registry.Advertise,
			Weight:  cfg.Registry.Weight,
			Group:   cfg.Registry.Group,
		}
		if err = reg.Register(ctx, inst); err != nil {
			return err
		}
		logger.Info("registered", zap.String("service", inst.Name), zap.String("address", inst.Address))
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return srv.Start(cfg.HTTP.Address)
	})
	if host != nil {
		eg.Go(func() error {
			return host.Start(cfg.IPC.Address)
		})
	}

	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if reg != nil {
			// closing the session revokes the lease and with it the registration
			_ = reg.Close()
		}
		if host != nil {
			_ = host.Close()
		}
		return srv.Shutdown(shutdownCtx)
	})
	return eg.Wait()
}

func serverOptions(cfg config.Server, logger *zap.Logger, limiter ratelimit.Limiter,
	metricsReg *prom.Registry) []option.Option[rpc.Server] {
	mdls := []mux.MiddlewareFunc{
		rpc.RequestID(),
		rpc.AccessLog(logger),
		(&opentelemetry.ServerMiddlewareBuilder{}).Build(),
	}
	opts := []option.Option[rpc.Server]{
		rpc.ServerWithLogger(logger),
		rpc.ServerWithPath(cfg.HTTP.Path),
	}
	if cfg.Metrics {
		mdls = append(mdls, (&prometheus.ServerMiddlewareBuilder{
			Namespace:  "console",
			Subsystem:  "rpc",
			Name:       "http",
			Help:       "console rpc requests",
			Registerer: metricsReg,
		}).Build())
		opts = append(opts, rpc.ServerWithMetrics(prometheus.Handler(metricsReg)))
	}
	if limiter != nil {
		mdls = append(mdls, ratelimit.Middleware(limiter, ratelimit.KeyByClientIP, logger))
	}
	return append(opts, rpc.ServerWithMiddlewares(mdls...))
}

func newLimiter(cfg config.RateLimit) (ratelimit.Limiter, error) {
	switch cfg.Kind {
	case config.LimitNone:
		return nil, nil
	case config.LimitToken:
		return ratelimit.NewTokenBucketLimiter(float64(cfg.Rate), cfg.Burst), nil
	case config.LimitFixed:
		return ratelimit.NewFixWindowLimiter(cfg.Interval, int64(cfg.Rate)), nil
	case config.LimitSlide:
		return ratelimit.NewSlideWindowLimiter(cfg.Rate, cfg.Interval), nil
	case config.LimitRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis})
		return ratelimit.NewRedisSlideWindowLimiter(rdb, "consolebridge", cfg.Rate, cfg.Interval), nil
	default:
		return nil, fmt.Errorf("unknown limiter %q", cfg.Kind)
	}
}
