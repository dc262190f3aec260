package pilot

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"consolebridge/dispatch"
)

var _ Service = (*Memory)(nil)

const exitNotFound = 127

type Memory struct {
	mutex sync.RWMutex
	tasks []Task
}

func NewMemory(tasks ...Task) *Memory {
	return &Memory{tasks: append([]Task(nil), tasks...)}
}

func (m *Memory) GetTasks(_ context.Context, status string) ([]Task, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	res := make([]Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		if status == "" || t.Status == status {
			res = append(res, t)
		}
	}
	return res, nil
}

// RunCommand understands help, status, tasks [status], start <id>,
// done <id> and echo. Anything else exits with 127 like a shell would.
func (m *Memory) RunCommand(ctx context.Context, command string) (CommandResult, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return CommandResult{}, dispatch.BadRequest("command is required")
	}
	res := CommandResult{Command: strings.Join(fields, " ")}
	name, args := fields[0], fields[1:]
	switch name {
	case "help":
		res.Output = []string{
			"help            show this help",
			"status          count tasks per status",
			"tasks [status]  list tasks",
			"start <id>      move a task to running",
			"done <id>       move a task to done",
			"echo <text>     print text",
		}
	case "status":
		counts := map[string]int{}
		m.mutex.RLock()
		for _, t := range m.tasks {
			counts[t.Status]++
		}
		m.mutex.RUnlock()
		for _, s := range []string{TaskTodo, TaskRunning, TaskDone} {
			res.Output = append(res.Output, fmt.Sprintf("%-8s %d", s, counts[s]))
		}
	case "tasks":
		status := ""
		if len(args) > 0 {
			status = args[0]
		}
		tasks, _ := m.GetTasks(ctx, status)
		for _, t := range tasks {
			res.Output = append(res.Output, fmt.Sprintf("%s  [%s]  %s", t.ID, t.Status, t.Title))
		}
	case "start", "done":
		if len(args) != 1 {
			res.Output = []string{"usage: " + name + " <id>"}
			res.ExitCode = 2
			break
		}
		status := TaskRunning
		if name == "done" {
			status = TaskDone
		}
		if !m.move(args[0], status) {
			res.Output = []string{"no such task: " + args[0]}
			res.ExitCode = 1
			break
		}
		res.Output = []string{args[0] + " -> " + status}
	case "echo":
		res.Output = []string{strings.Join(args, " ")}
	default:
		res.Output = []string{"command not found: " + name}
		res.ExitCode = exitNotFound
	}
	return res, nil
}

func (m *Memory) move(id, status string) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			m.tasks[i].Status = status
			return true
		}
	}
	return false
}
