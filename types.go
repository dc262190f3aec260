package consolebridge

import (
	"context"

	"consolebridge/message"
)

//go:generate mockgen -package=mocks -destination=mocks/proxy.mock.go -source=types.go Proxy

// Proxy -> one transport able to carry an rpc envelope: the HTTP client,
// the ipc client or the in-process dispatcher.
type Proxy interface {
	Invoke(ctx context.Context, req *message.Request) (*message.Response, error)
}

// ProxyFunc adapts a function to Proxy.
type ProxyFunc func(ctx context.Context, req *message.Request) (*message.Response, error)

func (f ProxyFunc) Invoke(ctx context.Context, req *message.Request) (*message.Response, error) {
	return f(ctx, req)
}
