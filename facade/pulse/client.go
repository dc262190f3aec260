package pulse

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

func (c *Client) GetHealth(ctx context.Context) (Health, error) {
	return consolebridge.Invoke[Health](ctx, c.stub, "GetHealth")
}

func (c *Client) GetAlerts(ctx context.Context, severity string) ([]Alert, error) {
	return consolebridge.Invoke[[]Alert](ctx, c.stub, "GetAlerts", severity)
}

func (c *Client) AcknowledgeAlert(ctx context.Context, id string) (Alert, error) {
	return consolebridge.Invoke[Alert](ctx, c.stub, "AcknowledgeAlert", id)
}
