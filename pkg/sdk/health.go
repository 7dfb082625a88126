package cinephile

import (
	"context"

	healthuc "github.com/cinephile-labs/cinephile/internal/usecase/health"
)

// HealthStatus represents the aggregated system health. CatalogSize is -1
// when the database is unreachable.
type HealthStatus struct {
	Status      string            // "ok" or "degraded"
	Checks      map[string]string // component to "ok"/"error"
	CatalogSize int
}

// Health checks the health of all system components.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status:      string(report.Status),
		Checks:      checks,
		CatalogSize: report.CatalogSize,
	}
}

// healthUseCase is the internal interface for health checks.
type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
