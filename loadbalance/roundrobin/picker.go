package roundrobin

import (
	"context"
	"sync"

	"consolebridge/internal/errs"
	"consolebridge/loadbalance"
	"consolebridge/registry"
)

var _ loadbalance.Picker = (*Picker)(nil)

type Picker struct {
	cnt    uint64
	mutex  sync.Mutex
	Filter loadbalance.Filter
}

func (p *Picker) Pick(ctx context.Context, instances []registry.ServiceInstance) (registry.ServiceInstance, error) {
	candidates := loadbalance.Candidates(ctx, instances, p.Filter)
	if len(candidates) == 0 {
		return registry.ServiceInstance{}, errs.ErrNoInstanceAvailable
	}
	// an atomic counter would only give a rough rotation once the candidate
	// list changes size, the lock keeps it strict
	p.mutex.Lock()
	index := p.cnt % uint64(len(candidates))
	p.cnt++
	p.mutex.Unlock()
	return candidates[index], nil
}
