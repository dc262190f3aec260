// Package pulse is the monitoring bridge: service health and alerts.
package pulse

import (
	"context"
	"time"
)

const (
	Module = "pulse"
	Bridge = "PulseBridge"
)

const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
	StatusDown     = "down"
)

const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

type ServiceHealth struct {
	Name      string `json:"name"`
	Status    string `json:"status"`
	LatencyMs int64  `json:"latencyMs"`
}

type Health struct {
	Status    string          `json:"status"`
	Services  []ServiceHealth `json:"services"`
	CheckedAt time.Time       `json:"checkedAt"`
}

type Alert struct {
	ID           string    `json:"id"`
	Severity     string    `json:"severity"`
	Source       string    `json:"source"`
	Message      string    `json:"message"`
	Acknowledged bool      `json:"acknowledged"`
	RaisedAt     time.Time `json:"raisedAt"`
}

type Service interface {
	GetHealth(ctx context.Context) (Health, error)
	// GetAlerts lists alerts of severity, every alert when severity is "".
	GetAlerts(ctx context.Context, severity string) ([]Alert, error)
	AcknowledgeAlert(ctx context.Context, id string) (Alert, error)
}
