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
	"sync"
	"time"

	"github.com/pulseboard/pulseboard/model"
)

// pipelineCatalog is the fixed, built-in list of pipeline definitions.
// Materialized once and reused; never mutated.
var pipelineCatalog = []*model.SyncPipeline{
	{PipelineID: "pipe_procore_projects", Name: "Procore Projects", Integration: model.IntegrationProcore, DataType: "projects", Direction: model.DirectionPull, IntervalMinutes: 30, StalenessThreshold: 90},
	{PipelineID: "pipe_procore_budgets", Name: "Procore Budgets", Integration: model.IntegrationProcore, DataType: "budgets", Direction: model.DirectionPull, IntervalMinutes: 60, StalenessThreshold: 180},
	{PipelineID: "pipe_gusto_payroll", Name: "Gusto Payroll", Integration: model.IntegrationGusto, DataType: "payroll", Direction: model.DirectionPull, IntervalMinutes: 120, StalenessThreshold: 360},
	{PipelineID: "pipe_gusto_employees", Name: "Gusto Employees", Integration: model.IntegrationGusto, DataType: "employees", Direction: model.DirectionPull, IntervalMinutes: 240, StalenessThreshold: 720},
	{PipelineID: "pipe_quickbooks_invoices", Name: "QuickBooks Invoices", Integration: model.IntegrationQuickBooks, DataType: "invoices", Direction: model.DirectionPush, IntervalMinutes: 30, StalenessThreshold: 90},
	{PipelineID: "pipe_quickbooks_payments", Name: "QuickBooks Payments", Integration: model.IntegrationQuickBooks, DataType: "payments", Direction: model.DirectionPull, IntervalMinutes: 60, StalenessThreshold: 180},
	{PipelineID: "pipe_plaid_transactions", Name: "Plaid Transactions", Integration: model.IntegrationPlaid, DataType: "transactions", Direction: model.DirectionPull, IntervalMinutes: 15, StalenessThreshold: 45},
	{PipelineID: "pipe_ramp_expenses", Name: "Ramp Expenses", Integration: model.IntegrationRamp, DataType: "expenses", Direction: model.DirectionPull, IntervalMinutes: 60, StalenessThreshold: 180},
}

// Client is one distinct client owning sync instances.
type Client struct {
	ClientID   string `json:"client_id"`
	ClientName string `json:"client_name"`
}

// SyncStore holds pipelines, per-client instances and execution history in
// process memory. RecentExecutions on each instance is capped; the store
// keeps the full generated history per instance for window rollups. Instance
// read paths return copies; executions are immutable once recorded and may
// be shared.
type SyncStore struct {
	mu        sync.RWMutex
	once      sync.Once
	pipelines []*model.SyncPipeline

	instances  []*model.SyncInstance
	byInstance map[string]*model.SyncInstance
	executions map[string][]*model.SyncExecution // instance id -> newest first
}

func NewSyncStore() *SyncStore {
	return &SyncStore{
		byInstance: make(map[string]*model.SyncInstance),
		executions: make(map[string][]*model.SyncExecution),
	}
}

// Pipelines returns the fixed catalog, materializing it on first access.
func (s *SyncStore) Pipelines() []*model.SyncPipeline {
	s.once.Do(func() {
		s.pipelines = pipelineCatalog
	})
	return s.pipelines
}

// GetPipeline returns the pipeline with the given id, or ErrNotFound.
func (s *SyncStore) GetPipeline(id string) (*model.SyncPipeline, error) {
	for _, p := range s.Pipelines() {
		if p.PipelineID == id {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

// Clients returns the distinct clients with at least one instance, in
// instance insertion order.
func (s *SyncStore) Clients() []Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool)
	clients := make([]Client, 0)
	for _, inst := range s.instances {
		if seen[inst.ClientID] {
			continue
		}
		seen[inst.ClientID] = true
		clients = append(clients, Client{ClientID: inst.ClientID, ClientName: inst.ClientName})
	}
	return clients
}

// Instances returns all instances in insertion order. The returned instances
// are copies taken under the read lock; RecordExecution keeps mutating the
// stored ones.
func (s *SyncStore) Instances() []*model.SyncInstance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.SyncInstance, len(s.instances))
	for i, inst := range s.instances {
		out[i] = inst.Clone()
	}
	return out
}

// GetInstance returns a copy of the instance with the given id, or
// ErrNotFound.
func (s *SyncStore) GetInstance(id string) (*model.SyncInstance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inst, ok := s.byInstance[id]
	if !ok {
		return nil, ErrNotFound
	}
	return inst.Clone(), nil
}

// SetInstanceEnabled toggles an instance on or off. Disabling forces the
// disabled status; re-enabling re-derives the status from the stored
// execution history.
func (s *SyncStore) SetInstanceEnabled(id string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, ok := s.byInstance[id]
	if !ok {
		return ErrNotFound
	}
	inst.Enabled = enabled
	if !enabled {
		inst.Status = model.InstanceDisabled
		return nil
	}
	pipeline, err := s.GetPipeline(inst.PipelineID)
	if err != nil {
		return err
	}
	inst.Status = model.DeriveInstanceStatus(inst.RecentExecutions, pipeline, inst.NextScheduledSync, true, time.Now())
	return nil
}

// Executions returns up to limit stored executions for an instance, newest
// first. A non-positive limit returns the full history.
func (s *SyncStore) Executions(instanceID string, limit int) ([]*model.SyncExecution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.byInstance[instanceID]; !ok {
		return nil, ErrNotFound
	}
	history := s.executions[instanceID]
	if limit <= 0 || limit > len(history) {
		limit = len(history)
	}
	out := make([]*model.SyncExecution, limit)
	copy(out, history[:limit])
	return out, nil
}

// AllExecutions returns every stored execution across all instances.
func (s *SyncStore) AllExecutions() []*model.SyncExecution {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.SyncExecution, 0)
	for _, inst := range s.instances {
		out = append(out, s.executions[inst.InstanceID]...)
	}
	return out
}

// ExecutionsByPipeline returns every stored execution for instances of one
// pipeline.
func (s *SyncStore) ExecutionsByPipeline(pipelineID string) []*model.SyncExecution {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.SyncExecution, 0)
	for _, inst := range s.instances {
		if inst.PipelineID != pipelineID {
			continue
		}
		out = append(out, s.executions[inst.InstanceID]...)
	}
	return out
}

// RecordExecution appends one completed execution to its owning instance:
// the execution is prepended to the history and the capped recent list,
// last-sync and next-scheduled-sync move forward, the window stats are
// recomputed, and the instance status is derived from this single execution
// (failed execution means failing, anything else means healthy).
func (s *SyncStore) RecordExecution(exec *model.SyncExecution, pipeline *model.SyncPipeline, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, ok := s.byInstance[exec.InstanceID]
	if !ok {
		return ErrNotFound
	}

	s.executions[exec.InstanceID] = append([]*model.SyncExecution{exec}, s.executions[exec.InstanceID]...)

	inst.RecentExecutions = append([]*model.SyncExecution{exec}, inst.RecentExecutions...)
	if len(inst.RecentExecutions) > model.RecentExecutionsCap {
		inst.RecentExecutions = inst.RecentExecutions[:model.RecentExecutionsCap]
	}

	completed := exec.StartedAt
	if exec.CompletedAt != nil {
		completed = *exec.CompletedAt
	}
	inst.LastSync = &completed
	inst.NextScheduledSync = now.Add(pipeline.Interval())

	if exec.Status == model.ExecutionFailed {
		inst.Status = model.InstanceFailing
	} else {
		inst.Status = model.InstanceHealthy
	}

	history := s.executions[exec.InstanceID]
	inst.Stats.Last24h = model.ComputeWindowStats(history, now.Add(-24*time.Hour))
	inst.Stats.Last7d = model.ComputeWindowStats(history, now.Add(-7*24*time.Hour))
	return nil
}

// Replace swaps the full dataset. Destructive: prior instances and execution
// history are discarded. Used by the mock generator.
func (s *SyncStore) Replace(instances []*model.SyncInstance, executions map[string][]*model.SyncExecution) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instances = instances
	s.byInstance = make(map[string]*model.SyncInstance, len(instances))
	for _, inst := range instances {
		s.byInstance[inst.InstanceID] = inst
	}
	if executions == nil {
		executions = make(map[string][]*model.SyncExecution)
	}
	s.executions = executions
}
