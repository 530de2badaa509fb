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

// Package store holds the process-memory data layer: the bounded integration
// event store with its query engine, and the sync pipeline/instance/execution
// store. All state lives in memory; a restart clears everything.
package store

import (
	"errors"
	"time"

	"github.com/pulseboard/pulseboard/model"
)

// Sentinel failures returned by store operations. Neither mutates the store.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
)

// IEventStore defines the event-store operations consumed by the service layer.
type IEventStore interface {
	Create(input CreateEventInput) (*model.IntegrationEvent, error)
	Get(id string) (*model.IntegrationEvent, error)
	Query(q EventQuery) QueryResult
	AttachClassification(id string, c *model.Classification) (*model.Classification, bool, error)
	Acknowledge(id, actor string) (*model.IntegrationEvent, error)
	Resolve(id, actor, notes string) (*model.IntegrationEvent, error)
	Reopen(id string) (*model.IntegrationEvent, error)
	Size() int
	Capacity() int
	Clear()
}

// ISyncStore defines the sync-model operations consumed by the service layer.
type ISyncStore interface {
	Pipelines() []*model.SyncPipeline
	GetPipeline(id string) (*model.SyncPipeline, error)
	Clients() []Client
	Instances() []*model.SyncInstance
	GetInstance(id string) (*model.SyncInstance, error)
	SetInstanceEnabled(id string, enabled bool) error
	Executions(instanceID string, limit int) ([]*model.SyncExecution, error)
	AllExecutions() []*model.SyncExecution
	ExecutionsByPipeline(pipelineID string) []*model.SyncExecution
	RecordExecution(exec *model.SyncExecution, pipeline *model.SyncPipeline, now time.Time) error
	Replace(instances []*model.SyncInstance, executions map[string][]*model.SyncExecution)
}
