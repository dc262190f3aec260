package pulse

import (
	"context"
	"sync"
	"time"

	"consolebridge/dispatch"
)

var _ Service = (*Memory)(nil)

type Memory struct {
	mutex    sync.RWMutex
	services []ServiceHealth
	alerts   []Alert
	now      func() time.Time
}

func NewMemory(services []ServiceHealth, alerts []Alert) *Memory {
	return &Memory{
		services: append([]ServiceHealth(nil), services...),
		alerts:   append([]Alert(nil), alerts...),
		now:      time.Now,
	}
}

// GetHealth reports the worst status among services.
func (m *Memory) GetHealth(_ context.Context) (Health, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	res := Health{
		Status:    StatusHealthy,
		Services:  append([]ServiceHealth{}, m.services...),
		CheckedAt: m.now(),
	}
	for _, s := range m.services {
		if rank(s.Status) > rank(res.Status) {
			res.Status = s.Status
		}
	}
	return res, nil
}

func rank(status string) int {
	switch status {
	case StatusHealthy:
		return 0
	case StatusDegraded:
		return 1
	default:
		return 2
	}
}

func (m *Memory) GetAlerts(_ context.Context, severity string) ([]Alert, error) {
	switch severity {
	case "", SeverityInfo, SeverityWarning, SeverityCritical:
	default:
		return nil, dispatch.BadRequest("unknown severity %q", severity)
	}
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	res := make([]Alert, 0, len(m.alerts))
	for _, a := range m.alerts {
		if severity == "" || a.Severity == severity {
			res = append(res, a)
		}
	}
	return res, nil
}

// AcknowledgeAlert is idempotent.
func (m *Memory) AcknowledgeAlert(_ context.Context, id string) (Alert, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	for i := range m.alerts {
		if m.alerts[i].ID == id {
			m.alerts[i].Acknowledged = true
			return m.alerts[i], nil
		}
	}
	return Alert{}, dispatch.NotFound("alert %s not found", id)
}
