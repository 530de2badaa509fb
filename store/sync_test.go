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

package store

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/pulseboard/pulseboard/model"
	"github.com/stretchr/testify/assert"
)

func newSyncFixture(t *testing.T) (*SyncStore, *model.SyncInstance, *model.SyncPipeline) {
	t.Helper()
	s := NewSyncStore()
	pipeline, err := s.GetPipeline("pipe_gusto_payroll")
	assert.NoError(t, err)

	inst := &model.SyncInstance{
		InstanceID:        "inst_test_1",
		ClientID:          "client_001",
		ClientName:        "Acme Mechanical",
		PipelineID:        pipeline.PipelineID,
		Status:            model.InstanceHealthy,
		Enabled:           true,
		NextScheduledSync: time.Now().Add(pipeline.Interval()),
	}
	s.Replace([]*model.SyncInstance{inst}, nil)
	return s, inst, pipeline
}

func newExecution(inst *model.SyncInstance, status model.ExecutionStatus, startedAt time.Time) *model.SyncExecution {
	completed := startedAt.Add(time.Second)
	return &model.SyncExecution{
		ExecutionID: model.GenerateUUIDWithSuffix("exec"),
		InstanceID:  inst.InstanceID,
		PipelineID:  inst.PipelineID,
		ClientID:    inst.ClientID,
		Status:      status,
		Trigger:     model.TriggerSchedule,
		StartedAt:   startedAt,
		CompletedAt: &completed,
		Response:    &model.SyncResponse{StatusCode: 200, DurationMs: 1000},
		Results:     model.SyncResults{RecordsFetched: 10},
	}
}

func TestPipelineCatalog(t *testing.T) {
	s := NewSyncStore()

	pipelines := s.Pipelines()
	assert.Len(t, pipelines, 8)

	ids := make(map[string]bool)
	for _, p := range pipelines {
		assert.True(t, model.IsValidIntegration(string(p.Integration)))
		assert.Greater(t, p.IntervalMinutes, 0)
		assert.Greater(t, p.StalenessThreshold, p.IntervalMinutes)
		ids[p.PipelineID] = true
	}
	assert.Len(t, ids, 8)
}

func TestGetPipelineNotFound(t *testing.T) {
	s := NewSyncStore()
	_, err := s.GetPipeline("pipe_missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordExecutionUpdatesInstance(t *testing.T) {
	s, inst, pipeline := newSyncFixture(t)

	now := time.Now()
	exec := newExecution(inst, model.ExecutionSuccess, now.Add(-time.Minute))
	err := s.RecordExecution(exec, pipeline, now)
	assert.NoError(t, err)

	got, err := s.GetInstance(inst.InstanceID)
	assert.NoError(t, err)
	assert.Equal(t, model.InstanceHealthy, got.Status)
	assert.Equal(t, exec, got.LastExecution())
	assert.NotNil(t, got.LastSync)
	assert.Equal(t, *exec.CompletedAt, *got.LastSync)
	assert.WithinDuration(t, now.Add(pipeline.Interval()), got.NextScheduledSync, time.Second)
	assert.Equal(t, 1, got.Stats.Last24h.TotalExecutions)
	assert.Equal(t, float64(100), got.Stats.Last24h.SuccessRate)
}

func TestRecordExecutionFailureMarksInstanceFailing(t *testing.T) {
	s, inst, pipeline := newSyncFixture(t)

	now := time.Now()
	failed := newExecution(inst, model.ExecutionFailed, now)
	failed.Results.Errors = []model.SyncError{{Code: "timeout", Message: "Upstream request timed out"}}
	assert.NoError(t, s.RecordExecution(failed, pipeline, now))

	got, err := s.GetInstance(inst.InstanceID)
	assert.NoError(t, err)
	assert.Equal(t, model.InstanceFailing, got.Status)
	assert.Equal(t, 1, got.ConsecutiveFailures())

	// A subsequent success clears the failing state.
	assert.NoError(t, s.RecordExecution(newExecution(inst, model.ExecutionSuccess, now.Add(time.Minute)), pipeline, now.Add(time.Minute)))
	got, err = s.GetInstance(inst.InstanceID)
	assert.NoError(t, err)
	assert.Equal(t, model.InstanceHealthy, got.Status)
	assert.Equal(t, 0, got.ConsecutiveFailures())
}

func TestRecordExecutionCapsRecentList(t *testing.T) {
	s, inst, pipeline := newSyncFixture(t)

	now := time.Now()
	for i := 0; i < model.RecentExecutionsCap+5; i++ {
		exec := newExecution(inst, model.ExecutionSuccess, now.Add(time.Duration(i)*time.Minute))
		assert.NoError(t, s.RecordExecution(exec, pipeline, now))
	}

	got, err := s.GetInstance(inst.InstanceID)
	assert.NoError(t, err)
	assert.Len(t, got.RecentExecutions, model.RecentExecutionsCap)

	// The full history is retained for window rollups.
	history, err := s.Executions(inst.InstanceID, 0)
	assert.NoError(t, err)
	assert.Len(t, history, model.RecentExecutionsCap+5)
	assert.Equal(t, model.RecentExecutionsCap+5, got.Stats.Last24h.TotalExecutions)
}

func TestRecordExecutionUnknownInstance(t *testing.T) {
	s, _, pipeline := newSyncFixture(t)

	exec := newExecution(&model.SyncInstance{InstanceID: "inst_missing"}, model.ExecutionSuccess, time.Now())
	err := s.RecordExecution(exec, pipeline, time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExecutionsLimit(t *testing.T) {
	s, inst, pipeline := newSyncFixture(t)

	now := time.Now()
	for i := 0; i < 5; i++ {
		assert.NoError(t, s.RecordExecution(newExecution(inst, model.ExecutionSuccess, now.Add(time.Duration(i)*time.Minute)), pipeline, now))
	}

	limited, err := s.Executions(inst.InstanceID, 2)
	assert.NoError(t, err)
	assert.Len(t, limited, 2)

	// Newest first.
	assert.True(t, limited[0].StartedAt.After(limited[1].StartedAt))

	_, err = s.Executions("inst_missing", 2)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClientsAreDistinct(t *testing.T) {
	s := NewSyncStore()
	pipeline := s.Pipelines()[0]

	instances := make([]*model.SyncInstance, 0, 4)
	for i := 0; i < 4; i++ {
		clientID := fmt.Sprintf("client_%03d", i%2+1)
		instances = append(instances, &model.SyncInstance{
			InstanceID: fmt.Sprintf("inst_%d", i),
			ClientID:   clientID,
			ClientName: fmt.Sprintf("Client %s", clientID),
			PipelineID: pipeline.PipelineID,
			Enabled:    true,
		})
	}
	s.Replace(instances, nil)

	clients := s.Clients()
	assert.Len(t, clients, 2)
	assert.Equal(t, "client_001", clients[0].ClientID)
	assert.Equal(t, "client_002", clients[1].ClientID)
}

func TestReplaceIsDestructive(t *testing.T) {
	s, inst, pipeline := newSyncFixture(t)
	assert.NoError(t, s.RecordExecution(newExecution(inst, model.ExecutionSuccess, time.Now()), pipeline, time.Now()))

	s.Replace(nil, nil)
	assert.Empty(t, s.Instances())
	assert.Empty(t, s.AllExecutions())
	_, err := s.GetInstance(inst.InstanceID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExecutionsByPipeline(t *testing.T) {
	s := NewSyncStore()
	payroll, err := s.GetPipeline("pipe_gusto_payroll")
	assert.NoError(t, err)
	expenses, err := s.GetPipeline("pipe_ramp_expenses")
	assert.NoError(t, err)

	a := &model.SyncInstance{InstanceID: "inst_a", ClientID: "client_001", PipelineID: payroll.PipelineID, Enabled: true}
	b := &model.SyncInstance{InstanceID: "inst_b", ClientID: "client_001", PipelineID: expenses.PipelineID, Enabled: true}
	s.Replace([]*model.SyncInstance{a, b}, nil)

	now := time.Now()
	assert.NoError(t, s.RecordExecution(newExecution(a, model.ExecutionSuccess, now), payroll, now))
	assert.NoError(t, s.RecordExecution(newExecution(b, model.ExecutionSuccess, now), expenses, now))
	assert.NoError(t, s.RecordExecution(newExecution(b, model.ExecutionFailed, now), expenses, now))

	assert.Len(t, s.ExecutionsByPipeline(payroll.PipelineID), 1)
	assert.Len(t, s.ExecutionsByPipeline(expenses.PipelineID), 2)
	assert.Len(t, s.AllExecutions(), 3)
}

func TestInstancesReturnDetachedCopies(t *testing.T) {
	s, inst, pipeline := newSyncFixture(t)

	before := s.Instances()[0]
	assert.Empty(t, before.RecentExecutions)
	assert.Equal(t, model.InstanceHealthy, before.Status)

	now := time.Now()
	assert.NoError(t, s.RecordExecution(newExecution(inst, model.ExecutionFailed, now), pipeline, now))

	// The earlier listing is a snapshot; recording must not show through it.
	assert.Empty(t, before.RecentExecutions)
	assert.Equal(t, model.InstanceHealthy, before.Status)

	// Writes to a returned instance do not reach the store either.
	got, err := s.GetInstance(inst.InstanceID)
	assert.NoError(t, err)
	got.Enabled = false
	again, err := s.GetInstance(inst.InstanceID)
	assert.NoError(t, err)
	assert.True(t, again.Enabled)
}

func TestSetInstanceEnabled(t *testing.T) {
	s, inst, pipeline := newSyncFixture(t)
	now := time.Now()
	assert.NoError(t, s.RecordExecution(newExecution(inst, model.ExecutionSuccess, now), pipeline, now))

	assert.NoError(t, s.SetInstanceEnabled(inst.InstanceID, false))
	got, err := s.GetInstance(inst.InstanceID)
	assert.NoError(t, err)
	assert.False(t, got.Enabled)
	assert.Equal(t, model.InstanceDisabled, got.Status)

	assert.NoError(t, s.SetInstanceEnabled(inst.InstanceID, true))
	got, err = s.GetInstance(inst.InstanceID)
	assert.NoError(t, err)
	assert.True(t, got.Enabled)
	assert.Equal(t, model.InstanceHealthy, got.Status)

	assert.ErrorIs(t, s.SetInstanceEnabled("inst_missing", false), ErrNotFound)
}

func TestConcurrentInstanceReadsAndRecording(t *testing.T) {
	s, inst, pipeline := newSyncFixture(t)

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			if _, err := json.Marshal(s.Instances()); err != nil {
				t.Error(err)
				return
			}
		}
	}()

	now := time.Now()
	for i := 0; i < 50; i++ {
		status := model.ExecutionSuccess
		if i%5 == 0 {
			status = model.ExecutionFailed
		}
		exec := newExecution(inst, status, now.Add(time.Duration(i)*time.Second))
		assert.NoError(t, s.RecordExecution(exec, pipeline, now))
	}

	close(done)
	wg.Wait()
}
