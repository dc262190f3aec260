// Package stock is the inventory bridge.
package stock

import "context"

const (
	Module = "stock"
	Bridge = "StockBridge"
)

type Item struct {
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	Quantity     int    `json:"quantity"`
	Location     string `json:"location"`
	ReorderLevel int    `json:"reorderLevel"`
}

// Low reports whether the item reached its reorder level.
func (i Item) Low() bool {
	return i.Quantity <= i.ReorderLevel
}

type Service interface {
	GetInventory(ctx context.Context) ([]Item, error)
	GetItem(ctx context.Context, sku string) (Item, error)
	AdjustStock(ctx context.Context, sku string, delta int) (Item, error)
}
