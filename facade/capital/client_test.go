package capital

import (
	"context"
	"net/http"
	"testing"
	"time"

	"consolebridge/dispatch"
	"consolebridge/message"
	"consolebridge/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestClient(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	testCases := []struct {
		name    string
		call    func(c *Client) (any, error)
		wantReq *message.Request
		resp    *message.Response
		want    any
		wantErr string
	}{
		{
			name: "get transactions",
			call: func(c *Client) (any, error) {
				return c.GetTransactions(context.Background(), TransactionFilter{AccountID: "acc-1"})
			},
			wantReq: &message.Request{
				Module: Module, Bridge: Bridge, Method: "GetTransactions",
				Args: []any{TransactionFilter{AccountID: "acc-1"}},
			},
			resp: &message.Response{StatusCode: http.StatusOK, Data: []byte(`[{"id":1,"amount":42}]`)},
			want: []Transaction{{ID: 1, Amount: 42}},
		},
		{
			name: "get transactions failure",
			call: func(c *Client) (any, error) {
				return c.GetTransactions(context.Background(), TransactionFilter{})
			},
			wantReq: &message.Request{
				Module: Module, Bridge: Bridge, Method: "GetTransactions",
				Args: []any{TransactionFilter{}},
			},
			resp:    &message.Response{StatusCode: http.StatusInternalServerError, Data: []byte(`{"message":"db down"}`)},
			wantErr: "db down",
		},
		{
			name: "get accounts",
			call: func(c *Client) (any, error) {
				return c.GetAccounts(context.Background())
			},
			wantReq: &message.Request{Module: Module, Bridge: Bridge, Method: "GetAccounts", Args: []any{}},
			resp: &message.Response{StatusCode: http.StatusOK,
				Data: []byte(`[{"id":"acc-1","name":"Operating","balance":100,"currency":"EUR"}]`)},
			want: []Account{{ID: "acc-1", Name: "Operating", Balance: 100, Currency: "EUR"}},
		},
		{
			name: "create transaction",
			call: func(c *Client) (any, error) {
				return c.CreateTransaction(context.Background(), NewTransaction{AccountID: "acc-1", Amount: -5})
			},
			wantReq: &message.Request{
				Module: Module, Bridge: Bridge, Method: "CreateTransaction",
				Args: []any{NewTransaction{AccountID: "acc-1", Amount: -5}},
			},
			resp: &message.Response{StatusCode: http.StatusOK,
				Data: []byte(`{"id":7,"accountId":"acc-1","amount":-5,"currency":"EUR","createdAt":"2024-03-01T12:00:00Z"}`)},
			want: Transaction{ID: 7, AccountID: "acc-1", Amount: -5, Currency: "EUR", CreatedAt: created},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			p := mocks.NewMockProxy(ctrl)
			p.EXPECT().Invoke(gomock.Any(), tc.wantReq).Return(tc.resp, nil)

			got, err := tc.call(NewClient(p))
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tc.wantErr, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestClient_Dispatcher(t *testing.T) {
	d := dispatch.NewDispatcher()
	m := NewMemory(Account{ID: "acc-1", Name: "Operating", Balance: 10, Currency: "EUR"})
	require.NoError(t, d.Register(Module, Bridge, m))
	c := NewClient(d)
	ctx := context.Background()

	tx, err := c.CreateTransaction(ctx, NewTransaction{AccountID: "acc-1", Amount: 5, Description: "refund"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), tx.ID)

	_, err = c.CreateTransaction(ctx, NewTransaction{AccountID: "acc-1", Amount: -100})
	require.Error(t, err)
	assert.Equal(t, "insufficient funds in account acc-1", err.Error())

	_, err = c.CreateTransaction(ctx, NewTransaction{AccountID: "acc-9", Amount: 1})
	require.Error(t, err)
	assert.Equal(t, "account acc-9 not found", err.Error())

	accounts, err := c.GetAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, float64(15), accounts[0].Balance)
}
