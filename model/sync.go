package model

import "time"

type SyncDirection string

const (
	DirectionPull SyncDirection = "pull"
	DirectionPush SyncDirection = "push"
)

type InstanceStatus string

const (
	InstanceHealthy  InstanceStatus = "healthy"
	InstanceStale    InstanceStatus = "stale"
	InstanceFailing  InstanceStatus = "failing"
	InstanceDisabled InstanceStatus = "disabled"
)

type ExecutionStatus string

const (
	ExecutionRunning ExecutionStatus = "running"
	ExecutionSuccess ExecutionStatus = "success"
	ExecutionPartial ExecutionStatus = "partial"
	ExecutionFailed  ExecutionStatus = "failed"
)

type SyncTrigger string

const (
	TriggerSchedule SyncTrigger = "schedule"
	TriggerManual   SyncTrigger = "manual"
	TriggerWebhook  SyncTrigger = "webhook"
)

// RecentExecutionsCap bounds the per-instance recent-executions list.
const RecentExecutionsCap = 10

// SyncPipeline is the static definition of a recurring data flow. Pipelines
// are materialized once from the built-in catalog and never mutated.
type SyncPipeline struct {
	PipelineID         string        `json:"pipeline_id"`
	Name               string        `json:"name"`
	Integration        Integration   `json:"integration"`
	DataType           string        `json:"data_type"`
	Direction          SyncDirection `json:"direction"`
	IntervalMinutes    int           `json:"interval_minutes"`
	StalenessThreshold int           `json:"staleness_threshold_minutes"`
}

// Interval returns the pipeline schedule interval as a duration.
func (p *SyncPipeline) Interval() time.Duration {
	return time.Duration(p.IntervalMinutes) * time.Minute
}

// Staleness returns the staleness threshold as a duration.
func (p *SyncPipeline) Staleness() time.Duration {
	return time.Duration(p.StalenessThreshold) * time.Minute
}

// SyncRequest is the sanitized outbound request record of an execution.
// Authorization material is redacted before it is stored.
type SyncRequest struct {
	Method   string            `json:"method"`
	URL      string            `json:"url"`
	Headers  map[string]string `json:"headers,omitempty"`
	BodySize int               `json:"body_size,omitempty"`
}

// SyncResponse is the inbound response record; absent while running.
type SyncResponse struct {
	StatusCode int   `json:"status_code"`
	DurationMs int64 `json:"duration_ms"`
	BodySize   int   `json:"body_size,omitempty"`
}

type SyncError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// FieldChange records one field-level change applied during an execution.
type FieldChange struct {
	RecordID string      `json:"record_id"`
	Field    string      `json:"field"`
	Action   string      `json:"action"` // created or updated
	OldValue interface{} `json:"old_value,omitempty"`
	NewValue interface{} `json:"new_value,omitempty"`
}

// SyncResults holds the per-execution record counts and detail lists.
type SyncResults struct {
	RecordsFetched int           `json:"records_fetched"`
	RecordsCreated int           `json:"records_created"`
	RecordsUpdated int           `json:"records_updated"`
	RecordsSkipped int           `json:"records_skipped"`
	RecordsFailed  int           `json:"records_failed"`
	Errors         []SyncError   `json:"errors,omitempty"`
	Warnings       []string      `json:"warnings,omitempty"`
	Changes        []FieldChange `json:"changes,omitempty"`
}

// SyncExecution is one run of a pipeline for one instance. Immutable once
// completed.
type SyncExecution struct {
	ExecutionID string          `json:"execution_id"`
	InstanceID  string          `json:"instance_id"`
	PipelineID  string          `json:"pipeline_id"`
	ClientID    string          `json:"client_id"`
	Status      ExecutionStatus `json:"status"`
	Trigger     SyncTrigger     `json:"trigger"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	Request     SyncRequest     `json:"request"`
	Response    *SyncResponse   `json:"response,omitempty"`
	Results     SyncResults     `json:"results"`
}

// SyncWindowStats is the rollup of an instance's executions inside one
// trailing time window.
type SyncWindowStats struct {
	TotalExecutions int     `json:"total_executions"`
	Successful      int     `json:"successful"`
	Failed          int     `json:"failed"`
	SuccessRate     float64 `json:"success_rate"`
	AvgDurationMs   int64   `json:"avg_duration_ms"`
	RecordsFetched  int     `json:"records_fetched"`
}

type SyncInstanceStats struct {
	Last24h SyncWindowStats `json:"last_24h"`
	Last7d  SyncWindowStats `json:"last_7d"`
}

// SyncInstance binds one pipeline to one client. Status and stats are
// recomputed whenever a new execution is recorded, never lazily at read time.
type SyncInstance struct {
	InstanceID        string            `json:"instance_id"`
	ClientID          string            `json:"client_id"`
	ClientName        string            `json:"client_name"`
	PipelineID        string            `json:"pipeline_id"`
	Status            InstanceStatus    `json:"status"`
	Enabled           bool              `json:"enabled"`
	LastSync          *time.Time        `json:"last_sync,omitempty"`
	NextScheduledSync time.Time         `json:"next_scheduled_sync"`
	Stats             SyncInstanceStats `json:"stats"`
	RecentExecutions  []*SyncExecution  `json:"recent_executions"`
}

// Clone returns a copy of the instance that is safe to read or marshal
// outside the store lock. Executions are immutable once recorded, so the
// copy shares them through a fresh slice.
func (i *SyncInstance) Clone() *SyncInstance {
	c := *i
	c.RecentExecutions = make([]*SyncExecution, len(i.RecentExecutions))
	copy(c.RecentExecutions, i.RecentExecutions)
	return &c
}

// LastExecution returns the most recent execution, or nil when the instance
// has never run. RecentExecutions is kept most-recent-first.
func (i *SyncInstance) LastExecution() *SyncExecution {
	if len(i.RecentExecutions) == 0 {
		return nil
	}
	return i.RecentExecutions[0]
}

// ConsecutiveFailures counts the run of failed executions at the head of the
// execution chain. Computed from stored history rather than randomized.
func (i *SyncInstance) ConsecutiveFailures() int {
	n := 0
	for _, ex := range i.RecentExecutions {
		if ex.Status != ExecutionFailed {
			break
		}
		n++
	}
	return n
}

// DeriveInstanceStatus derives an instance status from its execution history
// and schedule, relative to now. Pure: the generator and the manual trigger
// both record executions and then call this.
func DeriveInstanceStatus(executions []*SyncExecution, pipeline *SyncPipeline, nextScheduled time.Time, enabled bool, now time.Time) InstanceStatus {
	if !enabled {
		return InstanceDisabled
	}
	if len(executions) > 0 && executions[0].Status == ExecutionFailed {
		return InstanceFailing
	}
	if now.Sub(nextScheduled) > pipeline.Staleness() {
		return InstanceStale
	}
	return InstanceHealthy
}

// ComputeWindowStats rolls up the executions that started at or after cutoff.
// success and partial both count as successful; rate is 100 when the window
// is empty.
func ComputeWindowStats(executions []*SyncExecution, cutoff time.Time) SyncWindowStats {
	stats := SyncWindowStats{SuccessRate: 100}
	var totalDuration int64
	var timed int64
	for _, ex := range executions {
		if ex.StartedAt.Before(cutoff) {
			continue
		}
		stats.TotalExecutions++
		switch ex.Status {
		case ExecutionSuccess, ExecutionPartial:
			stats.Successful++
		case ExecutionFailed:
			stats.Failed++
		}
		stats.RecordsFetched += ex.Results.RecordsFetched
		if ex.Response != nil {
			totalDuration += ex.Response.DurationMs
			timed++
		}
	}
	if stats.TotalExecutions > 0 {
		stats.SuccessRate = float64(stats.Successful) / float64(stats.TotalExecutions) * 100
	}
	if timed > 0 {
		stats.AvgDurationMs = totalDuration / timed
	}
	return stats
}
