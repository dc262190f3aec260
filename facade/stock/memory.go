package stock

import (
	"context"
	"sort"
	"sync"

	"consolebridge/dispatch"
)

var _ Service = (*Memory)(nil)

type Memory struct {
	mutex sync.RWMutex
	items map[string]Item
}

func NewMemory(items ...Item) *Memory {
	res := &Memory{items: make(map[string]Item, len(items))}
	for _, it := range items {
		res.items[it.SKU] = it
	}
	return res
}

func (m *Memory) GetInventory(_ context.Context) ([]Item, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	res := make([]Item, 0, len(m.items))
	for _, it := range m.items {
		res = append(res, it)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].SKU < res[j].SKU
	})
	return res, nil
}

func (m *Memory) GetItem(_ context.Context, sku string) (Item, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	it, ok := m.items[sku]
	if !ok {
		return Item{}, dispatch.NotFound("item %s not found", sku)
	}
	return it, nil
}

func (m *Memory) AdjustStock(_ context.Context, sku string, delta int) (Item, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	it, ok := m.items[sku]
	if !ok {
		return Item{}, dispatch.NotFound("item %s not found", sku)
	}
	if it.Quantity+delta < 0 {
		return Item{}, dispatch.BadRequest("insufficient stock for %s: have %d, need %d", sku, it.Quantity, -delta)
	}
	it.Quantity += delta
	m.items[sku] = it
	return it, nil
}
