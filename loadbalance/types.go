package loadbalance

import (
	"context"

	"consolebridge/registry"
)

// Picker chooses the rpc server the next call goes to.
type Picker interface {
	Pick(ctx context.Context, instances []registry.ServiceInstance) (registry.ServiceInstance, error)
}

type Filter func(ctx context.Context, ins registry.ServiceInstance) bool

type groupKey struct{}

// WithGroup restricts picking to instances of group.
func WithGroup(ctx context.Context, group string) context.Context {
	return context.WithValue(ctx, groupKey{}, group)
}

// GroupFilter keeps instances whose group matches the one in ctx. Without a
// group in ctx every instance passes.
func GroupFilter(ctx context.Context, ins registry.ServiceInstance) bool {
	group, ok := ctx.Value(groupKey{}).(string)
	if !ok {
		return true
	}
	return group == ins.Group
}

// Candidates applies filter, a nil filter keeps everything.
func Candidates(ctx context.Context, instances []registry.ServiceInstance, filter Filter) []registry.ServiceInstance {
	if filter == nil {
		return instances
	}
	res := make([]registry.ServiceInstance, 0, len(instances))
	for _, ins := range instances {
		if filter(ctx, ins) {
			res = append(res, ins)
		}
	}
	return res
}
