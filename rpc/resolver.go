package rpc

import (
	"context"
	"strings"
	"sync"
	"time"

	"consolebridge/internal/errs"
	"consolebridge/loadbalance"
	"consolebridge/loadbalance/roundrobin"
	"consolebridge/registry"

	"github.com/gotomicro/ekit/bean/option"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Resolver turns a service name into an origin using a registry. The
// instance list is cached and refreshed whenever the registry reports a
// change.
type Resolver struct {
	service  string
	registry registry.Registry
	picker   loadbalance.Picker
	timeout  time.Duration
	logger   *zap.Logger

	group     singleflight.Group
	mutex     sync.RWMutex
	instances []registry.ServiceInstance
	loaded    bool

	close     chan struct{}
	closeOnce sync.Once
}

func ResolverWithPicker(p loadbalance.Picker) option.Option[Resolver] {
	return func(r *Resolver) {
		r.picker = p
	}
}

// ResolverWithTimeout bounds each registry lookup, not the rpc call.
func ResolverWithTimeout(timeout time.Duration) option.Option[Resolver] {
	return func(r *Resolver) {
		r.timeout = timeout
	}
}

func ResolverWithLogger(logger *zap.Logger) option.Option[Resolver] {
	return func(r *Resolver) {
		r.logger = logger
	}
}

func NewResolver(r registry.Registry, service string, opts ...option.Option[Resolver]) (*Resolver, error) {
	res := &Resolver{
		service:  service,
		registry: r,
		picker:   &roundrobin.Picker{Filter: loadbalance.GroupFilter},
		timeout:  3 * time.Second,
		logger:   zap.NewNop(),
		close:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(res)
	}
	events, err := r.Subscribe(service)
	if err != nil {
		return nil, err
	}
	go res.watch(events)
	return res, nil
}

// Resolve picks one instance and returns its origin.
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	instances, err := r.list(ctx)
	if err != nil {
		return "", err
	}
	ins, err := r.picker.Pick(ctx, instances)
	if err != nil {
		return "", err
	}
	return origin(ins.Address), nil
}

func (r *Resolver) list(ctx context.Context) ([]registry.ServiceInstance, error) {
	r.mutex.RLock()
	if r.loaded {
		res := r.instances
		r.mutex.RUnlock()
		return res, nil
	}
	r.mutex.RUnlock()
	val, err, _ := r.group.Do(r.service, func() (interface{}, error) {
		return r.refresh(ctx)
	})
	if err != nil {
		return nil, err
	}
	return val.([]registry.ServiceInstance), nil
}

func (r *Resolver) refresh(ctx context.Context) ([]registry.ServiceInstance, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	instances, err := r.registry.ListServices(ctx, r.service)
	if err != nil {
		return nil, err
	}
	if len(instances) == 0 {
		return nil, errs.ErrNoInstanceAvailable
	}
	r.mutex.Lock()
	r.instances = instances
	r.loaded = true
	r.mutex.Unlock()
	return instances, nil
}

func (r *Resolver) watch(events <-chan registry.Event) {
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
			// refresh the whole list instead of applying single events
			if _, err := r.refresh(context.Background()); err != nil {
				r.logger.Warn("refresh service instances", zap.String("service", r.service), zap.Error(err))
				r.mutex.Lock()
				r.instances, r.loaded = nil, false
				r.mutex.Unlock()
			}
		case <-r.close:
			return
		}
	}
}

func (r *Resolver) Close() error {
	r.closeOnce.Do(func() {
		close(r.close)
	})
	return nil
}

func origin(address string) string {
	if strings.Contains(address, "://") {
		return strings.TrimRight(address, "/")
	}
	return "http://" + address
}
