package people

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

func (c *Client) GetEmployees(ctx context.Context, department string) ([]Employee, error) {
	return consolebridge.Invoke[[]Employee](ctx, c.stub, "GetEmployees", department)
}

func (c *Client) GetEmployee(ctx context.Context, id string) (Employee, error) {
	return consolebridge.Invoke[Employee](ctx, c.stub, "GetEmployee", id)
}
