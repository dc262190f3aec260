package pilot

import (
	"context"
	"net/http"
	"testing"

	"consolebridge/dispatch"
	"consolebridge/message"
	"consolebridge/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestClient_RunCommand(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := mocks.NewMockProxy(ctrl)
	p.EXPECT().Invoke(gomock.Any(), &message.Request{
		Module: Module, Bridge: Bridge, Method: "RunCommand", Args: []any{"echo hi"},
	}).Return(&message.Response{StatusCode: http.StatusOK,
		Data: []byte(`{"command":"echo hi","output":["hi"],"exitCode":0}`)}, nil)

	got, err := NewClient(p).RunCommand(context.Background(), "echo hi")
	require.NoError(t, err)
	assert.Equal(t, CommandResult{Command: "echo hi", Output: []string{"hi"}}, got)
}

func TestMemory_RunCommand(t *testing.T) {
	m := NewMemory(
		Task{ID: "t-1", Title: "rotate keys", Status: TaskTodo},
		Task{ID: "t-2", Title: "patch hosts", Status: TaskRunning},
	)
	ctx := context.Background()
	testCases := []struct {
		command  string
		want     []string
		wantExit int
	}{
		{command: "echo  hello   world", want: []string{"hello world"}},
		{command: "status", want: []string{"todo     1", "running  1", "done     0"}},
		{command: "tasks running", want: []string{"t-2  [running]  patch hosts"}},
		{command: "start t-1", want: []string{"t-1 -> running"}},
		{command: "done t-2", want: []string{"t-2 -> done"}},
		{command: "status", want: []string{"todo     0", "running  1", "done     1"}},
		{command: "done t-9", want: []string{"no such task: t-9"}, wantExit: 1},
		{command: "start", want: []string{"usage: start <id>"}, wantExit: 2},
		{command: "rm -rf /", want: []string{"command not found: rm"}, wantExit: exitNotFound},
	}
	for _, tc := range testCases {
		t.Run(tc.command, func(t *testing.T) {
			got, err := m.RunCommand(ctx, tc.command)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Output)
			assert.Equal(t, tc.wantExit, got.ExitCode)
		})
	}

	help, err := m.RunCommand(ctx, "help")
	require.NoError(t, err)
	assert.NotEmpty(t, help.Output)
}

func TestClient_Dispatcher(t *testing.T) {
	d := dispatch.NewDispatcher()
	require.NoError(t, d.Register(Module, Bridge, NewMemory(
		Task{ID: "t-1", Status: TaskTodo},
		Task{ID: "t-2", Status: TaskDone},
	)))
	c := NewClient(d)
	ctx := context.Background()

	todo, err := c.GetTasks(ctx, TaskTodo)
	require.NoError(t, err)
	assert.Equal(t, []Task{{ID: "t-1", Status: TaskTodo}}, todo)

	_, err = c.RunCommand(ctx, "   ")
	require.Error(t, err)
	assert.Equal(t, "command is required", err.Error())
}
