package etcd

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"consolebridge/internal/errs"
	"consolebridge/registry"

	"go.etcd.io/etcd/api/v3/mvccpb"
	clientv3 "go.etcd.io/etcd/client/v3"
	"go.etcd.io/etcd/client/v3/concurrency"
)

var _ registry.Registry = (*Registry)(nil)

const defaultPrefix = "/consolebridge"

// Registry keeps instances under prefix/service/address, bound to the
// lease of one session so they vanish when the process dies.
type Registry struct {
	client      *clientv3.Client
	sess        *concurrency.Session
	prefix      string
	mutex       sync.RWMutex
	watchCancel []func()
	closed      bool
}

type Option func(r *Registry)

func WithPrefix(prefix string) Option {
	return func(r *Registry) {
		r.prefix = prefix
	}
}

func NewRegistry(c *clientv3.Client, opts ...Option) (*Registry, error) {
	sess, err := concurrency.NewSession(c)
	if err != nil {
		return nil, err
	}
	res := &Registry{
		client: c,
		sess:   sess,
		prefix: defaultPrefix,
	}
	for _, opt := range opts {
		opt(res)
	}
	return res, nil
}

func (r *Registry) Register(ctx context.Context, inst registry.ServiceInstance) error {
	val, err := json.Marshal(inst)
	if err != nil {
		return err
	}
	_, err = r.client.Put(ctx, r.instanceKey(inst), string(val), clientv3.WithLease(r.sess.Lease()))
	return err
}

func (r *Registry) Unregister(ctx context.Context, inst registry.ServiceInstance) error {
	_, err := r.client.Delete(ctx, r.instanceKey(inst))
	return err
}

func (r *Registry) ListServices(ctx context.Context, serviceName string) ([]registry.ServiceInstance, error) {
	resp, err := r.client.Get(ctx, r.serviceKey(serviceName), clientv3.WithPrefix())
	if err != nil {
		return nil, err
	}
	res := make([]registry.ServiceInstance, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		var si registry.ServiceInstance
		if err = json.Unmarshal(kv.Value, &si); err != nil {
			return nil, err
		}
		res = append(res, si)
	}
	return res, nil
}

// Subscribe streams changes under the service until Close.
func (r *Registry) Subscribe(serviceName string) (<-chan registry.Event, error) {
	r.mutex.Lock()
	if r.closed {
		r.mutex.Unlock()
		return nil, errs.ErrRegistryClosed
	}
	ctx, cancel := context.WithCancel(context.Background())
	r.watchCancel = append(r.watchCancel, cancel)
	r.mutex.Unlock()

	ctx = clientv3.WithRequireLeader(ctx)
	watchCh := r.client.Watch(ctx, r.serviceKey(serviceName), clientv3.WithPrefix())
	res := make(chan registry.Event)
	go func() {
		defer close(res)
		for resp := range watchCh {
			if resp.Canceled {
				return
			}
			if resp.Err() != nil {
				continue
			}
			for _, ev := range resp.Events {
				select {
				case res <- toEvent(ev):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return res, nil
}

func toEvent(ev *clientv3.Event) registry.Event {
	var si registry.ServiceInstance
	switch ev.Type {
	case mvccpb.PUT:
		_ = json.Unmarshal(ev.Kv.Value, &si)
		return registry.Event{Type: registry.EventTypeAdd, Instance: si}
	case mvccpb.DELETE:
		return registry.Event{Type: registry.EventTypeDelete, Instance: si}
	default:
		return registry.Event{Type: registry.EventTypeUnknown}
	}
}

func (r *Registry) Close() error {
	r.mutex.Lock()
	cancels := r.watchCancel
	r.watchCancel = nil
	r.closed = true
	r.mutex.Unlock()
	for _, cancel := range cancels {
		cancel()
	}
	// the session owns the lease, closing it revokes every registered key
	return r.sess.Close()
}

func (r *Registry) serviceKey(serviceName string) string {
	return fmt.Sprintf("%s/%s/", r.prefix, serviceName)
}

func (r *Registry) instanceKey(inst registry.ServiceInstance) string {
	return r.serviceKey(inst.Name) + inst.Address
}
