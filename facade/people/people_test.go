package people

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"consolebridge"
	"consolebridge/dispatch"
	"consolebridge/message"
	"consolebridge/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestClient_GetEmployees(t *testing.T) {
	testCases := []struct {
		name    string
		resp    *message.Response
		err     error
		want    []Employee
		wantErr string
	}{
		{
			name: "found",
			resp: &message.Response{StatusCode: http.StatusOK, Data: []byte(`[{"id":"e-1","name":"Ada"}]`)},
			want: []Employee{{ID: "e-1", Name: "Ada"}},
		},
		{
			name:    "no message",
			resp:    &message.Response{StatusCode: http.StatusServiceUnavailable, Data: []byte(`{}`)},
			wantErr: consolebridge.FallbackMessage,
		},
		{
			name:    "transport",
			err:     errors.New("connection reset"),
			wantErr: "people.GetEmployees: connection reset",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			p := mocks.NewMockProxy(ctrl)
			p.EXPECT().Invoke(gomock.Any(), &message.Request{
				Module: Module, Bridge: Bridge, Method: "GetEmployees", Args: []any{"Engineering"},
			}).Return(tc.resp, tc.err)

			got, err := NewClient(p).GetEmployees(context.Background(), "Engineering")
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
	require.NoError(t, d.Register(Module, Bridge, NewMemory(
		Employee{ID: "e-2", Name: "Grace", Department: "Engineering"},
		Employee{ID: "e-1", Name: "Ada", Department: "engineering"},
		Employee{ID: "e-3", Name: "Linus", Department: "Sales"},
	)))
	c := NewClient(d)
	ctx := context.Background()

	testCases := []struct {
		department string
		want       []string
	}{
		{department: "", want: []string{"Ada", "Grace", "Linus"}},
		{department: "ENGINEERING", want: []string{"Ada", "Grace"}},
		{department: "Legal", want: []string{}},
	}
	for _, tc := range testCases {
		t.Run(tc.department, func(t *testing.T) {
			got, err := c.GetEmployees(ctx, tc.department)
			require.NoError(t, err)
			names := make([]string, 0, len(got))
			for _, e := range got {
				names = append(names, e.Name)
			}
			assert.Equal(t, tc.want, names)
		})
	}

	e, err := c.GetEmployee(ctx, "e-3")
	require.NoError(t, err)
	assert.Equal(t, "Linus", e.Name)

	_, err = c.GetEmployee(ctx, "e-9")
	require.Error(t, err)
	assert.Equal(t, "employee e-9 not found", err.Error())
}
