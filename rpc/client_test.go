package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"consolebridge"
	"consolebridge/internal/errs"
	"consolebridge/message"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	_, err := NewClient("")
	assert.Equal(t, errs.ErrNoOrigin, err)

	c, err := NewClient("https://console.example.com/", ClientWithPath("bridge"))
	require.NoError(t, err)
	assert.Equal(t, "https://console.example.com", c.origin)
	assert.Equal(t, "/bridge", c.path)
	assert.Zero(t, c.client.Timeout)
}

func TestClient_Invoke(t *testing.T) {
	testCases := []struct {
		name    string
		status  int
		body    string
		want    json.RawMessage
		wantErr string
	}{
		{
			name:   "success body untouched",
			status: http.StatusOK,
			body:   `{"id":1,"amount":42}`,
			want:   json.RawMessage(`{"id":1,"amount":42}`),
		},
		{
			name:    "failure with message",
			status:  http.StatusInternalServerError,
			body:    `{"message":"db down"}`,
			wantErr: "db down",
		},
		{
			name:    "failure with html body",
			status:  http.StatusBadGateway,
			body:    `<html>bad gateway</html>`,
			wantErr: consolebridge.FallbackMessage,
		},
		{
			name:    "failure without body",
			status:  http.StatusNotFound,
			wantErr: consolebridge.FallbackMessage,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, DefaultPath, r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				bs, err := io.ReadAll(r.Body)
				require.NoError(t, err)
				assert.JSONEq(t, `{"module":"capital","bridge":"CapitalBridge","method":"GetTransactions","args":[{"from":"2024-01-01"}]}`, string(bs))
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c, err := NewClient(srv.URL)
			require.NoError(t, err)
			stub := consolebridge.NewStub(c, "capital", "CapitalBridge")
			res, err := stub.Call(context.Background(), "GetTransactions", map[string]string{"from": "2024-01-01"})
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tc.wantErr, err.Error())
				var re *consolebridge.RemoteError
				require.ErrorAs(t, err, &re)
				assert.Equal(t, tc.status, re.StatusCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, res)
		})
	}
}

func TestClient_Invoke_Meta(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "abc", r.Header.Get(RequestIDHeader))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)
	resp, err := c.Invoke(context.Background(), &message.Request{
		Module: "stock",
		Bridge: "StockBridge",
		Method: "GetInventory",
		Args:   []any{},
		Meta:   map[string]string{RequestIDHeader: "abc"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []byte(`[]`), resp.Data)
}

func TestClient_Invoke_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewClient(url)
	require.NoError(t, err)
	stub := consolebridge.NewStub(c, "pulse", "PulseBridge")
	_, err = stub.Call(context.Background(), "GetHealth")
	require.Error(t, err)
	var re *consolebridge.RemoteError
	assert.False(t, errors.As(err, &re))
}
