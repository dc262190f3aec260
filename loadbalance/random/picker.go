package random

import (
	"context"
	"math/rand"

	"consolebridge/internal/errs"
	"consolebridge/loadbalance"
	"consolebridge/registry"
)

var (
	_ loadbalance.Picker = (*Picker)(nil)
	_ loadbalance.Picker = (*WeightPicker)(nil)
)

type Picker struct {
	Filter loadbalance.Filter
}

func (p *Picker) Pick(ctx context.Context, instances []registry.ServiceInstance) (registry.ServiceInstance, error) {
	candidates := loadbalance.Candidates(ctx, instances, p.Filter)
	if len(candidates) == 0 {
		return registry.ServiceInstance{}, errs.ErrNoInstanceAvailable
	}
	return candidates[rand.Intn(len(candidates))], nil
}

// WeightPicker picks proportionally to ServiceInstance.Weight. Instances
// with weight 0 are never picked unless all weights are 0.
type WeightPicker struct {
	Filter loadbalance.Filter
}

func (p *WeightPicker) Pick(ctx context.Context, instances []registry.ServiceInstance) (registry.ServiceInstance, error) {
	candidates := loadbalance.Candidates(ctx, instances, p.Filter)
	if len(candidates) == 0 {
		return registry.ServiceInstance{}, errs.ErrNoInstanceAvailable
	}
	var totalWeight uint64
	for _, ins := range candidates {
		totalWeight += uint64(ins.Weight)
	}
	if totalWeight == 0 {
		return candidates[rand.Intn(len(candidates))], nil
	}
	val := rand.Int63n(int64(totalWeight))
	for _, ins := range candidates {
		val -= int64(ins.Weight)
		if val < 0 {
			return ins, nil
		}
	}
	// unreachable, val always drops below zero before the loop ends
	return candidates[len(candidates)-1], nil
}
