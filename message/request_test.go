package message

import (
	"encoding/json"
	"testing"

	"consolebridge/internal/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequest_MarshalJSON(t *testing.T) {
	req := &Request{
		Module: "capital",
		Bridge: "CapitalBridge",
		Method: "GetTransactions",
		Args:   []any{"2024-01", 3},
		Meta:   map[string]string{"traceparent": "00-abc"},
	}
	data, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"module":"capital","bridge":"CapitalBridge","method":"GetTransactions","args":["2024-01",3]}`, string(data))
}

func TestParseAddress(t *testing.T) {
	testCases := []struct {
		name       string
		address    string
		wantModule string
		wantBridge string
		wantMethod string
		wantErr    error
	}{
		{
			name:       "full address",
			address:    "stock.StockBridge.GetInventory",
			wantModule: "stock",
			wantBridge: "StockBridge",
			wantMethod: "GetInventory",
		},
		{
			name:    "missing method",
			address: "stock.StockBridge",
			wantErr: errs.ErrInvalidAddress,
		},
		{
			name:    "empty bridge",
			address: "stock..GetInventory",
			wantErr: errs.ErrInvalidAddress,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			module, bridge, method, err := ParseAddress(tc.address)
			assert.Equal(t, tc.wantErr, err)
			if err != nil {
				return
			}
			assert.Equal(t, tc.wantModule, module)
			assert.Equal(t, tc.wantBridge, bridge)
			assert.Equal(t, tc.wantMethod, method)
			req := &Request{Module: module, Bridge: bridge, Method: method}
			assert.Equal(t, tc.address, req.Address())
		})
	}
}

func TestEncodeDecodeReq(t *testing.T) {
	testCases := []struct {
		name string
		req  *ReqFrame
	}{
		{
			name: "no meta",
			req: &ReqFrame{
				MessageId:  7,
				Version:    1,
				Compresser: 2,
				Serializer: 1,
				Module:     "people",
				Bridge:     "PeopleBridge",
				Method:     "GetEmployee",
				Data:       []byte(`["e-1"]`),
			},
		},
		{
			name: "with meta",
			req: &ReqFrame{
				MessageId:  8,
				Version:    1,
				Serializer: 1,
				Module:     "pulse",
				Bridge:     "PulseBridge",
				Method:     "GetHealth",
				Meta: map[string]string{
					"traceparent": "00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01",
				},
				Data: []byte(`[]`),
			},
		},
		{
			name: "no body",
			req: &ReqFrame{
				MessageId: 9,
				Module:    "pilot",
				Bridge:    "PilotBridge",
				Method:    "GetTasks",
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.req.CalculateHeaderLength()
			tc.req.CalculateBodyLength()
			bs := EncodeReq(tc.req)
			req, err := DecodeReq(bs)
			require.NoError(t, err)
			assert.Equal(t, tc.req, req)
		})
	}
}

func TestDecodeReq_Malformed(t *testing.T) {
	_, err := DecodeReq([]byte{0, 0, 0})
	assert.Equal(t, errs.ErrFrameTooShort, err)

	req := &ReqFrame{Module: "capital", Bridge: "CapitalBridge", Method: "GetAccounts", Data: []byte(`[]`)}
	req.CalculateHeaderLength()
	req.CalculateBodyLength()
	bs := EncodeReq(req)
	_, err = DecodeReq(bs[:len(bs)-1])
	assert.Equal(t, errs.ErrFrameTooShort, err)
}
