package people

import (
	"context"
	"sort"
	"strings"

	"consolebridge/dispatch"
)

var _ Service = (*Memory)(nil)

// Memory is a read-only directory.
type Memory struct {
	employees []Employee
	byID      map[string]int
}

func NewMemory(employees ...Employee) *Memory {
	sorted := append([]Employee(nil), employees...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})
	res := &Memory{
		employees: sorted,
		byID:      make(map[string]int, len(sorted)),
	}
	for i, e := range sorted {
		res.byID[e.ID] = i
	}
	return res
}

// GetEmployees matches department case-insensitively.
func (m *Memory) GetEmployees(_ context.Context, department string) ([]Employee, error) {
	res := make([]Employee, 0, len(m.employees))
	for _, e := range m.employees {
		if department == "" || strings.EqualFold(e.Department, department) {
			res = append(res, e)
		}
	}
	return res, nil
}

func (m *Memory) GetEmployee(_ context.Context, id string) (Employee, error) {
	i, ok := m.byID[id]
	if !ok {
		return Employee{}, dispatch.NotFound("employee %s not found", id)
	}
	return m.employees[i], nil
}
