package stock

import (
	"context"

	"consolebridge"
)

var _ Service = (*Client)(nil)

type Client struct {
	stub *consolebridge.Stub
}

func NewClient(p consolebridge.Proxy) *Client {
	return &Client{stub: consolebridge.NewStub(p, Module, Bridge)}
}

func (c *Client) GetInventory(ctx context.Context) ([]Item, error) {
	return consolebridge.Invoke[[]Item](ctx, c.stub, "GetInventory")
}

func (c *Client) GetItem(ctx context.Context, sku string) (Item, error) {
	return consolebridge.Invoke[Item](ctx, c.stub, "GetItem", sku)
}

// AdjustStock adds delta, negative for withdrawals, and returns the new state.
func (c *Client) AdjustStock(ctx context.Context, sku string, delta int) (Item, error) {
	return consolebridge.Invoke[Item](ctx, c.stub, "AdjustStock", sku, delta)
}
