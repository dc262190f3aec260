package main

import (
	"time"

	"consolebridge/dispatch"
	"consolebridge/facade/capital"
	"consolebridge/facade/people"
	"consolebridge/facade/pilot"
	"consolebridge/facade/pulse"
	"consolebridge/facade/stock"
)

// newDispatcher exposes the in-memory backends with demo data.
func newDispatcher(opts ...dispatchOption) *dispatch.Dispatcher {
	d := dispatch.NewDispatcher(opts...)
	d.MustRegister(capital.Module, capital.Bridge, capital.NewMemory(
		capital.Account{ID: "acc-ops", Name: "Operating", Balance: 125000, Currency: "EUR"},
		capital.Account{ID: "acc-pay", Name: "Payroll", Balance: 48000, Currency: "EUR"},
	))
	d.MustRegister(stock.Module, stock.Bridge, stock.NewMemory(
		stock.Item{SKU: "SKU-1001", Name: "Server rack", Quantity: 4, Location: "A1", ReorderLevel: 2},
		stock.Item{SKU: "SKU-1002", Name: "Patch cable", Quantity: 350, Location: "B3", ReorderLevel: 100},
		stock.Item{SKU: "SKU-1003", Name: "SSD 2TB", Quantity: 12, Location: "C2", ReorderLevel: 15},
	))
	d.MustRegister(people.Module, people.Bridge, people.NewMemory(
		people.Employee{ID: "e-1", Name: "Ada Lovelace", Department: "Engineering", Title: "Staff Engineer", Email: "ada@example.com"},
		people.Employee{ID: "e-2", Name: "Grace Hopper", Department: "Engineering", Title: "Director", Email: "grace@example.com"},
		people.Employee{ID: "e-3", Name: "Mary Jackson", Department: "Finance", Title: "Controller", Email: "mary@example.com"},
	))
	d.MustRegister(pulse.Module, pulse.Bridge, pulse.NewMemory(
		[]pulse.ServiceHealth{
			{Name: "api", Status: pulse.StatusHealthy, LatencyMs: 12},
			{Name: "database", Status: pulse.StatusHealthy, LatencyMs: 4},
			{Name: "queue", Status: pulse.StatusDegraded, LatencyMs: 230},
		},
		[]pulse.Alert{
			{ID: "al-1", Severity: pulse.SeverityWarning, Source: "queue", Message: "consumer lag above 10k", RaisedAt: time.Now().Add(-time.Hour)},
			{ID: "al-2", Severity: pulse.SeverityInfo, Source: "api", Message: "deploy finished", RaisedAt: time.Now().Add(-3 * time.Hour)},
		},
	))
	d.MustRegister(pilot.Module, pilot.Bridge, pilot.NewMemory(
		pilot.Task{ID: "t-1", Title: "Rotate TLS certificates", Status: pilot.TaskTodo, Assignee: "e-1"},
		pilot.Task{ID: "t-2", Title: "Drain queue backlog", Status: pilot.TaskRunning, Assignee: "e-2"},
		pilot.Task{ID: "t-3", Title: "Close Q1 books", Status: pilot.TaskDone, Assignee: "e-3"},
	))
	return d
}
