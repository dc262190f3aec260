package consolebridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"

	"consolebridge/message"
	"consolebridge/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestStub_Call(t *testing.T) {
	testCases := []struct {
		name    string
		method  string
		args    []any
		mock    func(ctrl *gomock.Controller) Proxy
		want    json.RawMessage
		wantErr error
	}{
		{
			name:   "success body is returned untouched",
			method: "GetTransactions",
			mock: func(ctrl *gomock.Controller) Proxy {
				p := mocks.NewMockProxy(ctrl)
				p.EXPECT().Invoke(gomock.Any(), &message.Request{
					Module: "capital",
					Bridge: "CapitalBridge",
					Method: "GetTransactions",
					Args:   []any{},
				}).Return(&message.Response{
					StatusCode: 200,
					Data:       []byte(`{"id":1,"amount":42}`),
				}, nil)
				return p
			},
			want: json.RawMessage(`{"id":1,"amount":42}`),
		},
		{
			name:   "args are forwarded in order",
			method: "CreateTransaction",
			args:   []any{"acc-1", 42.5, map[string]any{"memo": "rent"}},
			mock: func(ctrl *gomock.Controller) Proxy {
				p := mocks.NewMockProxy(ctrl)
				p.EXPECT().Invoke(gomock.Any(), &message.Request{
					Module: "capital",
					Bridge: "CapitalBridge",
					Method: "CreateTransaction",
					Args:   []any{"acc-1", 42.5, map[string]any{"memo": "rent"}},
				}).Return(&message.Response{StatusCode: 201, Data: []byte(`true`)}, nil)
				return p
			},
			want: json.RawMessage(`true`),
		},
		{
			name:   "unknown method still goes out",
			method: "NoSuchMethod",
			mock: func(ctrl *gomock.Controller) Proxy {
				p := mocks.NewMockProxy(ctrl)
				p.EXPECT().Invoke(gomock.Any(), &message.Request{
					Module: "capital",
					Bridge: "CapitalBridge",
					Method: "NoSuchMethod",
					Args:   []any{},
				}).Return(&message.Response{StatusCode: 404, Data: []byte(`{"message":"method NoSuchMethod not found"}`)}, nil)
				return p
			},
			wantErr: &RemoteError{
				Module:     "capital",
				Bridge:     "CapitalBridge",
				Method:     "NoSuchMethod",
				StatusCode: 404,
				Message:    "method NoSuchMethod not found",
			},
		},
		{
			name:   "failure message",
			method: "GetTransactions",
			mock: func(ctrl *gomock.Controller) Proxy {
				p := mocks.NewMockProxy(ctrl)
				p.EXPECT().Invoke(gomock.Any(), gomock.Any()).
					Return(&message.Response{StatusCode: 500, Data: []byte(`{"message":"db down"}`)}, nil)
				return p
			},
			wantErr: &RemoteError{
				Module:     "capital",
				Bridge:     "CapitalBridge",
				Method:     "GetTransactions",
				StatusCode: 500,
				Message:    "db down",
			},
		},
		{
			name:   "unparseable failure body",
			method: "GetTransactions",
			mock: func(ctrl *gomock.Controller) Proxy {
				p := mocks.NewMockProxy(ctrl)
				p.EXPECT().Invoke(gomock.Any(), gomock.Any()).
					Return(&message.Response{StatusCode: 502, Data: []byte(`<html>bad gateway</html>`)}, nil)
				return p
			},
			wantErr: &RemoteError{
				Module:     "capital",
				Bridge:     "CapitalBridge",
				Method:     "GetTransactions",
				StatusCode: 502,
				Message:    FallbackMessage,
			},
		},
		{
			name:   "failure without message",
			method: "GetTransactions",
			mock: func(ctrl *gomock.Controller) Proxy {
				p := mocks.NewMockProxy(ctrl)
				p.EXPECT().Invoke(gomock.Any(), gomock.Any()).
					Return(&message.Response{StatusCode: 503, Data: []byte(`{"error":"busy"}`)}, nil)
				return p
			},
			wantErr: &RemoteError{
				Module:     "capital",
				Bridge:     "CapitalBridge",
				Method:     "GetTransactions",
				StatusCode: 503,
				Message:    FallbackMessage,
			},
		},
		{
			name:   "malformed success body",
			method: "GetTransactions",
			mock: func(ctrl *gomock.Controller) Proxy {
				p := mocks.NewMockProxy(ctrl)
				p.EXPECT().Invoke(gomock.Any(), gomock.Any()).
					Return(&message.Response{StatusCode: 200, Data: []byte(`{"id":`)}, nil)
				return p
			},
			wantErr: &RemoteError{
				Module:     "capital",
				Bridge:     "CapitalBridge",
				Method:     "GetTransactions",
				StatusCode: 200,
				Message:    FallbackMessage,
			},
		},
		{
			name:   "empty success body",
			method: "GetTransactions",
			mock: func(ctrl *gomock.Controller) Proxy {
				p := mocks.NewMockProxy(ctrl)
				p.EXPECT().Invoke(gomock.Any(), gomock.Any()).
					Return(&message.Response{StatusCode: 204}, nil)
				return p
			},
			want: json.RawMessage(`null`),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			stub := NewStub(tc.mock(ctrl), "capital", "CapitalBridge")
			res, err := stub.Call(context.Background(), tc.method, tc.args...)
			assert.Equal(t, tc.wantErr, err)
			if err != nil {
				return
			}
			assert.Equal(t, tc.want, res)
		})
	}
}

func TestStub_CallTransportError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	cause := errors.New("connection refused")
	p := mocks.NewMockProxy(ctrl)
	p.EXPECT().Invoke(gomock.Any(), gomock.Any()).Return(nil, cause)

	_, err := NewStub(p, "stock", "StockBridge").Call(context.Background(), "GetInventory")
	require.Error(t, err)
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "stock.GetInventory: connection refused", err.Error())
}

func TestRemoteError_Detail(t *testing.T) {
	err := &RemoteError{
		Module:     "capital",
		Bridge:     "CapitalBridge",
		Method:     "GetTransactions",
		StatusCode: 500,
		Message:    "db down",
	}
	assert.Equal(t, "db down", err.Error())
	assert.Equal(t, "capital.CapitalBridge.GetTransactions: status 500: db down", err.Detail())
}

func TestInvoke(t *testing.T) {
	type transaction struct {
		Id     int     `json:"id"`
		Amount float64 `json:"amount"`
	}
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	p := mocks.NewMockProxy(ctrl)
	p.EXPECT().Invoke(gomock.Any(), gomock.Any()).
		Return(&message.Response{StatusCode: 200, Data: []byte(`{"id":1,"amount":42}`)}, nil)
	p.EXPECT().Invoke(gomock.Any(), gomock.Any()).
		Return(&message.Response{StatusCode: 200, Data: []byte(`"not an object"`)}, nil)

	stub := NewStub(p, "capital", "CapitalBridge")
	tx, err := Invoke[transaction](context.Background(), stub, "GetTransactions")
	require.NoError(t, err)
	assert.Equal(t, transaction{Id: 1, Amount: 42}, tx)

	_, err = Invoke[transaction](context.Background(), stub, "GetTransactions")
	assert.Error(t, err)
}

func TestStub_ConcurrentCalls(t *testing.T) {
	var mu sync.Mutex
	seen := make(map[string][]any)
	p := ProxyFunc(func(ctx context.Context, req *message.Request) (*message.Response, error) {
		mu.Lock()
		seen[req.Method] = req.Args
		mu.Unlock()
		data, _ := json.Marshal(req.Args)
		return &message.Response{StatusCode: 200, Data: data}, nil
	})
	stub := NewStub(p, "pulse", "PulseBridge")

	var wg sync.WaitGroup
	results := make([]json.RawMessage, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := stub.Call(context.Background(), fmt.Sprintf("Method%d", i), i)
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}
	wg.Wait()

	require.Len(t, seen, 16)
	for i := 0; i < 16; i++ {
		assert.Equal(t, []any{i}, seen[fmt.Sprintf("Method%d", i)])
		assert.JSONEq(t, fmt.Sprintf("[%d]", i), string(results[i]))
	}
}
