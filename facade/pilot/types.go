// Package pilot is the operations bridge: task board and a command console.
package pilot

import "context"

const (
	Module = "pilot"
	Bridge = "PilotBridge"
)

const (
	TaskTodo    = "todo"
	TaskRunning = "running"
	TaskDone    = "done"
)

type Task struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Status   string `json:"status"`
	Assignee string `json:"assignee"`
}

// CommandResult is what a terminal would show for one command line.
type CommandResult struct {
	Command  string   `json:"command"`
	Output   []string `json:"output"`
	ExitCode int      `json:"exitCode"`
}

type Service interface {
	// GetTasks lists tasks in status, every task when status is "".
	GetTasks(ctx context.Context, status string) ([]Task, error)
	RunCommand(ctx context.Context, command string) (CommandResult, error)
}
