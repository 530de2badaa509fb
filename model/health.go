package model

import "time"

// HealthStatus is the three-level integration health signal.
type HealthStatus string

const (
	HealthHealthy  HealthStatus = "healthy"
	HealthDegraded HealthStatus = "degraded"
	HealthDown     HealthStatus = "down"
)

// CalculateStatus maps a success rate and a recent-failure count to a health
// status. The thresholds and evaluation order are a deliberately simple,
// auditable rule and must not be reworked:
//
//	healthy  when successRate >= 98 and errorsLast24h < 5
//	degraded when successRate >= 90 or errorsLast24h < 20
//	down     otherwise
func CalculateStatus(successRate float64, errorsLast24h int) HealthStatus {
	if successRate >= 98 && errorsLast24h < 5 {
		return HealthHealthy
	}
	if successRate >= 90 || errorsLast24h < 20 {
		return HealthDegraded
	}
	return HealthDown
}

// IntegrationStats is the trailing-24h event rollup for one integration.
type IntegrationStats struct {
	Integration   Integration  `json:"integration"`
	Status        HealthStatus `json:"status"`
	TotalEvents   int          `json:"total_events"`
	ErrorsLast24h int          `json:"errors_last_24h"`
	SuccessRate   float64      `json:"success_rate"`
	LastSync      *time.Time   `json:"last_sync,omitempty"`
}

// HealthOverview counts integrations in each status across the fixed catalog.
type HealthOverview struct {
	Healthy      int                `json:"healthy"`
	Degraded     int                `json:"degraded"`
	Down         int                `json:"down"`
	Integrations []IntegrationStats `json:"integrations"`
}

// PipelineStats is the system-overview rollup scoped to one pipeline.
type PipelineStats struct {
	PipelineID    string  `json:"pipeline_id"`
	Name          string  `json:"name"`
	Instances     int     `json:"instances"`
	SuccessRate   float64 `json:"success_rate"`
	Executions24h int     `json:"executions_24h"`
}

// FailingInstanceSummary is one entry of the recent-failures list.
type FailingInstanceSummary struct {
	InstanceID          string     `json:"instance_id"`
	ClientID            string     `json:"client_id"`
	ClientName          string     `json:"client_name"`
	PipelineID          string     `json:"pipeline_id"`
	PipelineName        string     `json:"pipeline_name"`
	LastError           string     `json:"last_error,omitempty"`
	ConsecutiveFailures int        `json:"consecutive_failures"`
	LastSync            *time.Time `json:"last_sync,omitempty"`
}

// SyncSystemOverview is the system-wide sync health report.
type SyncSystemOverview struct {
	OverallHealth    float64                  `json:"overall_health"`
	ActiveClients    int                      `json:"active_clients"`
	TotalInstances   int                      `json:"total_instances"`
	FailingInstances int                      `json:"failing_instances"`
	StaleInstances   int                      `json:"stale_instances"`
	PipelineStats    []PipelineStats          `json:"pipeline_stats"`
	RecentFailures   []FailingInstanceSummary `json:"recent_failures"`
}
