package rpc

import (
	"context"
	"errors"
	"testing"
	"time"

	"consolebridge/internal/errs"
	"consolebridge/registry"
	"consolebridge/registry/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestResolver_Resolve(t *testing.T) {
	testCases := []struct {
		name    string
		mock    func(r *mocks.MockRegistry)
		want    []string
		wantErr error
	}{
		{
			name: "round robin over instances",
			mock: func(r *mocks.MockRegistry) {
				r.EXPECT().ListServices(gomock.Any(), "console-rpc").Return([]registry.ServiceInstance{
					{Name: "console-rpc", Address: "10.0.0.1:8080"},
					{Name: "console-rpc", Address: "https://console.internal/"},
				}, nil).Times(1)
			},
			want: []string{"http://10.0.0.1:8080", "https://console.internal", "http://10.0.0.1:8080"},
		},
		{
			name: "empty registry",
			mock: func(r *mocks.MockRegistry) {
				r.EXPECT().ListServices(gomock.Any(), "console-rpc").Return(nil, nil)
			},
			wantErr: errs.ErrNoInstanceAvailable,
		},
		{
			name: "registry error",
			mock: func(r *mocks.MockRegistry) {
				r.EXPECT().ListServices(gomock.Any(), "console-rpc").Return(nil, errors.New("etcd unavailable"))
			},
			wantErr: errors.New("etcd unavailable"),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			reg := mocks.NewMockRegistry(ctrl)
			events := make(chan registry.Event)
			reg.EXPECT().Subscribe("console-rpc").Return((<-chan registry.Event)(events), nil)
			tc.mock(reg)

			r, err := NewResolver(reg, "console-rpc")
			require.NoError(t, err)
			defer r.Close()

			if tc.wantErr != nil {
				_, err = r.Resolve(context.Background())
				assert.Equal(t, tc.wantErr, err)
				return
			}
			for _, want := range tc.want {
				got, err := r.Resolve(context.Background())
				require.NoError(t, err)
				assert.Equal(t, want, got)
			}
		})
	}
}

func TestResolver_Watch(t *testing.T) {
	ctrl := gomock.NewController(t)
	reg := mocks.NewMockRegistry(ctrl)
	events := make(chan registry.Event, 1)
	reg.EXPECT().Subscribe("console-rpc").Return((<-chan registry.Event)(events), nil)
	gomock.InOrder(
		reg.EXPECT().ListServices(gomock.Any(), "console-rpc").Return([]registry.ServiceInstance{
			{Address: "10.0.0.1:8080"},
		}, nil),
		reg.EXPECT().ListServices(gomock.Any(), "console-rpc").Return([]registry.ServiceInstance{
			{Address: "10.0.0.2:8080"},
		}, nil),
	)

	r, err := NewResolver(reg, "console-rpc")
	require.NoError(t, err)
	defer r.Close()

	got, err := r.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.1:8080", got)

	events <- registry.Event{Type: registry.EventTypeAdd, Instance: registry.ServiceInstance{Address: "10.0.0.2:8080"}}
	assert.Eventually(t, func() bool {
		got, err := r.Resolve(context.Background())
		return err == nil && got == "http://10.0.0.2:8080"
	}, time.Second, 10*time.Millisecond)
}
