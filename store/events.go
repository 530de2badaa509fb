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
	"fmt"
	"sync"
	"time"

	"github.com/pulseboard/pulseboard/model"
)

// DefaultEventCapacity bounds the event store when no capacity is configured.
const DefaultEventCapacity = 1000

// EventStore is a bounded, newest-first, process-memory collection of
// integration events. It behaves as a ring buffer: insertion beyond the
// capacity evicts the oldest event. All mutation goes through store methods,
// which serialize writers with the store mutex. Methods return detached
// copies, never the stored objects, so callers can read and marshal results
// while writers keep mutating the store.
type EventStore struct {
	mu       sync.RWMutex
	capacity int
	events   []*model.IntegrationEvent // newest first
}

// NewEventStore returns an empty store bounded to capacity events.
// Non-positive capacities fall back to DefaultEventCapacity.
func NewEventStore(capacity int) *EventStore {
	if capacity <= 0 {
		capacity = DefaultEventCapacity
	}
	return &EventStore{capacity: capacity}
}

// CreateEventInput is the payload for inserting a new event.
type CreateEventInput struct {
	Integration model.Integration      `json:"integration"`
	EventType   string                 `json:"event_type"`
	Status      model.EventStatus      `json:"status"`
	Payload     map[string]interface{} `json:"payload,omitempty"`
	Error       *model.EventError      `json:"error,omitempty"`
}

// Create inserts a new event at the head of the store, evicting the oldest
// event when the capacity is exceeded. Failure events start with an explicit
// open resolution record.
func (s *EventStore) Create(input CreateEventInput) (*model.IntegrationEvent, error) {
	if !model.IsValidIntegration(string(input.Integration)) {
		return nil, fmt.Errorf("unknown integration %q", input.Integration)
	}
	switch input.Status {
	case model.EventSuccess, model.EventFailure, model.EventPending:
	default:
		return nil, fmt.Errorf("unknown event status %q", input.Status)
	}

	event := &model.IntegrationEvent{
		EventID:     model.GenerateUUIDWithSuffix("evt"),
		Integration: input.Integration,
		EventType:   input.EventType,
		Status:      input.Status,
		Payload:     input.Payload,
		Error:       input.Error,
		CreatedAt:   time.Now(),
	}
	if event.Status == model.EventFailure {
		event.Resolution = &model.Resolution{Status: model.ResolutionOpen}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append([]*model.IntegrationEvent{event}, s.events...)
	if len(s.events) > s.capacity {
		s.events = s.events[:s.capacity]
	}
	return event.Clone(), nil
}

// Get returns a copy of the event with the given id, or ErrNotFound.
func (s *EventStore) Get(id string) (*model.IntegrationEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	event, err := s.find(id)
	if err != nil {
		return nil, err
	}
	return event.Clone(), nil
}

// find must be called with the store lock held.
func (s *EventStore) find(id string) (*model.IntegrationEvent, error) {
	for _, e := range s.events {
		if e.EventID == id {
			return e, nil
		}
	}
	return nil, ErrNotFound
}

// AttachClassification attaches a classification to a failure event. The
// first successful classification wins: when the event is already classified
// the existing classification is returned and the second return value is
// false. Non-failure events are rejected with ErrInvalidState.
func (s *EventStore) AttachClassification(id string, c *model.Classification) (*model.Classification, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, err := s.find(id)
	if err != nil {
		return nil, false, err
	}
	if event.Status != model.EventFailure {
		return nil, false, ErrInvalidState
	}
	if event.Classification != nil {
		existing := *event.Classification
		return &existing, false, nil
	}
	attached := *c
	event.Classification = &attached
	return c, true, nil
}

// Acknowledge moves a failure event to the acknowledged state, recording the
// actor and timestamp. The transition is applied from any current state and
// overwrites prior resolution fields.
func (s *EventStore) Acknowledge(id, actor string) (*model.IntegrationEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if event.Status != model.EventFailure {
		return nil, ErrInvalidState
	}
	now := time.Now()
	event.Resolution = &model.Resolution{
		Status:         model.ResolutionAcknowledged,
		AcknowledgedAt: &now,
		AcknowledgedBy: actor,
	}
	return event.Clone(), nil
}

// Resolve moves a failure event to the resolved state. Prior acknowledgement
// fields are preserved: resolve merges over them rather than replacing the
// record.
func (s *EventStore) Resolve(id, actor, notes string) (*model.IntegrationEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if event.Status != model.EventFailure {
		return nil, ErrInvalidState
	}
	now := time.Now()
	resolution := &model.Resolution{Status: model.ResolutionResolved, ResolvedAt: &now, ResolvedBy: actor, Notes: notes}
	if event.Resolution != nil {
		resolution.AcknowledgedAt = event.Resolution.AcknowledgedAt
		resolution.AcknowledgedBy = event.Resolution.AcknowledgedBy
	}
	event.Resolution = resolution
	return event.Clone(), nil
}

// Reopen resets a failure event to the minimal open record, discarding actor,
// timestamp and notes fields. Valid from any state, including open.
func (s *EventStore) Reopen(id string) (*model.IntegrationEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if event.Status != model.EventFailure {
		return nil, ErrInvalidState
	}
	event.Resolution = &model.Resolution{Status: model.ResolutionOpen}
	return event.Clone(), nil
}

// Size returns the number of retained events.
func (s *EventStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// Capacity returns the configured retention bound.
func (s *EventStore) Capacity() int {
	return s.capacity
}

// Clear drops every retained event.
func (s *EventStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}
