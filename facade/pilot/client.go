package pilot

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

func (c *Client) GetTasks(ctx context.Context, status string) ([]Task, error) {
	return consolebridge.Invoke[[]Task](ctx, c.stub, "GetTasks", status)
}

func (c *Client) RunCommand(ctx context.Context, command string) (CommandResult, error) {
	return consolebridge.Invoke[CommandResult](ctx, c.stub, "RunCommand", command)
}
