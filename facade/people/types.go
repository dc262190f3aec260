// Package people is the HR directory bridge.
package people

import "context"

const (
	Module = "people"
	Bridge = "PeopleBridge"
)

type Employee struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Title      string `json:"title"`
	Email      string `json:"email"`
}

type Service interface {
	// GetEmployees lists a department, every employee when department is "".
	GetEmployees(ctx context.Context, department string) ([]Employee, error)
	GetEmployee(ctx context.Context, id string) (Employee, error)
}
