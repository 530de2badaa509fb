/*
Copyright 2025 Pulseboard Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package pulseboard

import (
	"time"

	"github.com/pulseboard/pulseboard/model"
	"github.com/pulseboard/pulseboard/store"
)

const recentFailuresCap = 10

// GetEventStats computes the trailing-24h event rollup for one integration.
// An integration with no events in the window is treated as fully healthy
// (success rate 100).
func (p *Pulseboard) GetEventStats(integration model.Integration) (*model.IntegrationStats, error) {
	if !model.IsValidIntegration(string(integration)) {
		return nil, store.ErrNotFound
	}

	// One query, one snapshot: the counts and the last-sync timestamp must
	// come from the same store state, or a concurrent insert skews them
	// against each other.
	result := p.events.Query(store.EventQuery{Integration: integration, Limit: p.events.Capacity()})

	since := time.Now().Add(-24 * time.Hour)
	total, failures := 0, 0
	for _, e := range result.Events {
		if e.CreatedAt.Before(since) {
			continue
		}
		total++
		if e.Status == model.EventFailure {
			failures++
		}
	}

	successRate := float64(100)
	if total > 0 {
		successRate = float64(total-failures) / float64(total) * 100
	}

	stats := &model.IntegrationStats{
		Integration:   integration,
		TotalEvents:   total,
		ErrorsLast24h: failures,
		SuccessRate:   successRate,
		Status:        model.CalculateStatus(successRate, failures),
	}

	// Last sync is the most recent event's timestamp, regardless of window.
	// Events come back newest first.
	if len(result.Events) > 0 {
		ts := result.Events[0].CreatedAt
		stats.LastSync = &ts
	}
	return stats, nil
}

// GetHealthOverview counts integrations in each health status across the
// fixed catalog.
func (p *Pulseboard) GetHealthOverview() (*model.HealthOverview, error) {
	overview := &model.HealthOverview{
		Integrations: make([]model.IntegrationStats, 0, len(model.Integrations)),
	}
	for _, integration := range model.Integrations {
		stats, err := p.GetEventStats(integration)
		if err != nil {
			return nil, err
		}
		overview.Integrations = append(overview.Integrations, *stats)
		switch stats.Status {
		case model.HealthHealthy:
			overview.Healthy++
		case model.HealthDegraded:
			overview.Degraded++
		case model.HealthDown:
			overview.Down++
		}
	}
	return overview, nil
}

// GetSystemOverview produces the system-wide sync health report: overall
// success rate across all executions in the trailing 24h, client and
// instance counts, per-pipeline rollups and the recent-failures list.
func (p *Pulseboard) GetSystemOverview() *model.SyncSystemOverview {
	now := time.Now()
	cutoff := now.Add(-24 * time.Hour)

	instances := p.sync.Instances()
	overview := &model.SyncSystemOverview{
		OverallHealth:  executionSuccessRate(p.sync.AllExecutions(), cutoff),
		ActiveClients:  len(p.sync.Clients()),
		TotalInstances: len(instances),
		PipelineStats:  make([]model.PipelineStats, 0),
		RecentFailures: make([]model.FailingInstanceSummary, 0),
	}

	for _, inst := range instances {
		switch inst.Status {
		case model.InstanceFailing:
			overview.FailingInstances++
		case model.InstanceStale:
			overview.StaleInstances++
		}
	}

	for _, pipeline := range p.sync.Pipelines() {
		executions := p.sync.ExecutionsByPipeline(pipeline.PipelineID)
		stats := model.PipelineStats{
			PipelineID:  pipeline.PipelineID,
			Name:        pipeline.Name,
			SuccessRate: executionSuccessRate(executions, cutoff),
		}
		for _, inst := range instances {
			if inst.PipelineID == pipeline.PipelineID {
				stats.Instances++
			}
		}
		for _, ex := range executions {
			if !ex.StartedAt.Before(cutoff) {
				stats.Executions24h++
			}
		}
		overview.PipelineStats = append(overview.PipelineStats, stats)
	}

	for _, inst := range instances {
		if inst.Status != model.InstanceFailing {
			continue
		}
		if len(overview.RecentFailures) >= recentFailuresCap {
			break
		}
		summary := model.FailingInstanceSummary{
			InstanceID:          inst.InstanceID,
			ClientID:            inst.ClientID,
			ClientName:          inst.ClientName,
			PipelineID:          inst.PipelineID,
			ConsecutiveFailures: inst.ConsecutiveFailures(),
			LastSync:            inst.LastSync,
		}
		if pipeline, err := p.sync.GetPipeline(inst.PipelineID); err == nil {
			summary.PipelineName = pipeline.Name
		}
		if last := inst.LastExecution(); last != nil && len(last.Results.Errors) > 0 {
			summary.LastError = last.Results.Errors[0].Message
		}
		overview.RecentFailures = append(overview.RecentFailures, summary)
	}

	return overview
}

// executionSuccessRate is the share of executions at or after cutoff that
// completed successfully (success and partial both count); 100 when none.
func executionSuccessRate(executions []*model.SyncExecution, cutoff time.Time) float64 {
	total, successful := 0, 0
	for _, ex := range executions {
		if ex.StartedAt.Before(cutoff) {
			continue
		}
		total++
		if ex.Status == model.ExecutionSuccess || ex.Status == model.ExecutionPartial {
			successful++
		}
	}
	if total == 0 {
		return 100
	}
	return float64(successful) / float64(total) * 100
}
