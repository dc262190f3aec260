package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"consolebridge"
	"consolebridge/internal/errs"
	"consolebridge/message"

	"github.com/gotomicro/ekit/bean/option"
)

// DefaultPath is where the console server accepts envelopes.
const DefaultPath = "/rpc"

var _ consolebridge.Proxy = (*Client)(nil)

// Client posts envelopes to the console rpc endpoint. It neither retries
// nor sets a timeout, cancellation is up to the caller's ctx.
type Client struct {
	origin   string
	path     string
	client   *http.Client
	resolver *Resolver
}

func ClientWithPath(path string) option.Option[Client] {
	return func(c *Client) {
		c.path = path
	}
}

func ClientWithHTTPClient(client *http.Client) option.Option[Client] {
	return func(c *Client) {
		c.client = client
	}
}

// ClientWithResolver picks the origin per call from the registry. origin
// passed to NewClient is then only a fallback.
func ClientWithResolver(r *Resolver) option.Option[Client] {
	return func(c *Client) {
		c.resolver = r
	}
}

// NewClient builds a client for origin, e.g. https://console.example.com.
func NewClient(origin string, opts ...option.Option[Client]) (*Client, error) {
	res := &Client{
		origin: strings.TrimRight(origin, "/"),
		path:   DefaultPath,
		client: &http.Client{},
	}
	for _, opt := range opts {
		opt(res)
	}
	if res.origin == "" && res.resolver == nil {
		return nil, errs.ErrNoOrigin
	}
	if !strings.HasPrefix(res.path, "/") {
		res.path = "/" + res.path
	}
	return res, nil
}

func (c *Client) Invoke(ctx context.Context, req *message.Request) (*message.Response, error) {
	origin, err := c.endpoint(ctx)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, origin+c.path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for key, val := range req.Meta {
		httpReq.Header.Set(key, val)
	}
	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()
	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return &message.Response{
		StatusCode: httpResp.StatusCode,
		Data:       data,
	}, nil
}

func (c *Client) endpoint(ctx context.Context) (string, error) {
	if c.resolver == nil {
		return c.origin, nil
	}
	origin, err := c.resolver.Resolve(ctx)
	if err != nil {
		if c.origin != "" {
			return c.origin, nil
		}
		return "", err
	}
	return origin, nil
}
