package consolebridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"consolebridge/message"

	"github.com/tidwall/gjson"
)

var null = json.RawMessage("null")

// Stub binds a proxy to one module and bridge. Typed façades call Call
// with their own method name instead of hand-writing the transport.
type Stub struct {
	proxy  Proxy
	module string
	bridge string
}

func NewStub(proxy Proxy, module, bridge string) *Stub {
	return &Stub{
		proxy:  proxy,
		module: module,
		bridge: bridge,
	}
}

func (s *Stub) Module() string {
	return s.module
}

func (s *Stub) Bridge() string {
	return s.bridge
}

// Call forwards method and args positionally and returns the result body
// untouched. method is not checked here, the other side owns validation.
func (s *Stub) Call(ctx context.Context, method string, args ...any) (json.RawMessage, error) {
	if args == nil {
		args = []any{}
	}
	req := &message.Request{
		Module: s.module,
		Bridge: s.bridge,
		Method: method,
		Args:   args,
	}
	resp, err := s.proxy.Invoke(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", s.module, method, err)
	}
	if !resp.Success() {
		return nil, s.remoteError(method, resp.StatusCode, errorMessage(resp.Data))
	}
	if len(bytes.TrimSpace(resp.Data)) == 0 {
		return null, nil
	}
	if !gjson.ValidBytes(resp.Data) {
		return nil, s.remoteError(method, resp.StatusCode, FallbackMessage)
	}
	return resp.Data, nil
}

func (s *Stub) remoteError(method string, status int, msg string) *RemoteError {
	return &RemoteError{
		Module:     s.module,
		Bridge:     s.bridge,
		Method:     method,
		StatusCode: status,
		Message:    msg,
	}
}

// errorMessage pulls "message" out of a failure body.
func errorMessage(data []byte) string {
	if !gjson.ValidBytes(data) {
		return FallbackMessage
	}
	msg := gjson.GetBytes(data, "message")
	if msg.Type != gjson.String || msg.Str == "" {
		return FallbackMessage
	}
	return msg.Str
}

// Invoke calls method through s and decodes the result into T.
func Invoke[T any](ctx context.Context, s *Stub, method string, args ...any) (T, error) {
	var res T
	data, err := s.Call(ctx, method, args...)
	if err != nil {
		return res, err
	}
	if err = json.Unmarshal(data, &res); err != nil {
		return res, fmt.Errorf("%s.%s: decode result: %w", s.module, method, err)
	}
	return res, nil
}

// Exec calls a method whose result is ignored.
func Exec(ctx context.Context, s *Stub, method string, args ...any) error {
	_, err := s.Call(ctx, method, args...)
	return err
}
