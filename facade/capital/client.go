package capital

import (
	"context"

	"consolebridge"
)

var _ Service = (*Client)(nil)

// Client reaches CapitalBridge through any proxy.
type Client struct {
	stub *consolebridge.Stub
}

func NewClient(p consolebridge.Proxy) *Client {
	return &Client{stub: consolebridge.NewStub(p, Module, Bridge)}
}

func (c *Client) GetTransactions(ctx context.Context, filter TransactionFilter) ([]Transaction, error) {
	return consolebridge.Invoke[[]Transaction](ctx, c.stub, "GetTransactions", filter)
}

func (c *Client) GetAccounts(ctx context.Context) ([]Account, error) {
	return consolebridge.Invoke[[]Account](ctx, c.stub, "GetAccounts")
}

func (c *Client) CreateTransaction(ctx context.Context, tx NewTransaction) (Transaction, error) {
	return consolebridge.Invoke[Transaction](ctx, c.stub, "CreateTransaction", tx)
}
