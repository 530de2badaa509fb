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
	"testing"
	"time"

	"github.com/pulseboard/pulseboard/model"
	"github.com/stretchr/testify/assert"
)

func seedQueryStore(t *testing.T) *EventStore {
	t.Helper()
	s := NewEventStore(100)

	inputs := []CreateEventInput{
		{Integration: model.IntegrationProcore, EventType: "project.sync", Status: model.EventSuccess},
		{Integration: model.IntegrationGusto, EventType: "payroll.sync", Status: model.EventFailure,
			Error: &model.EventError{Message: "Access token has expired", Code: "auth_expired"}},
		{Integration: model.IntegrationGusto, EventType: "employee.sync", Status: model.EventSuccess},
		{Integration: model.IntegrationPlaid, EventType: "transaction.sync", Status: model.EventFailure,
			Error: &model.EventError{Message: "Rate limit exceeded", Code: "rate_limited"}},
		{Integration: model.IntegrationRamp, EventType: "expense.sync", Status: model.EventPending},
	}
	for _, in := range inputs {
		_, err := s.Create(in)
		assert.NoError(t, err)
	}
	return s
}

func TestQueryDefaultsToNewestFirst(t *testing.T) {
	s := seedQueryStore(t)

	result := s.Query(EventQuery{})
	assert.Equal(t, 5, result.Total)
	assert.Len(t, result.Events, 5)
	assert.Equal(t, DefaultQueryLimit, result.Limit)
	assert.False(t, result.HasMore)

	for i := 1; i < len(result.Events); i++ {
		assert.False(t, result.Events[i-1].CreatedAt.Before(result.Events[i].CreatedAt))
	}
}

func TestQueryFilterByIntegrationAndStatus(t *testing.T) {
	s := seedQueryStore(t)

	result := s.Query(EventQuery{Integration: model.IntegrationGusto})
	assert.Equal(t, 2, result.Total)

	result = s.Query(EventQuery{Status: model.EventFailure})
	assert.Equal(t, 2, result.Total)

	result = s.Query(EventQuery{Integration: model.IntegrationGusto, Status: model.EventFailure})
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, "payroll.sync", result.Events[0].EventType)
}

func TestQueryResolutionFilterOnlyMatchesFailures(t *testing.T) {
	s := seedQueryStore(t)

	open := s.Query(EventQuery{Resolution: model.ResolutionOpen})
	assert.Equal(t, 2, open.Total)
	for _, e := range open.Events {
		assert.Equal(t, model.EventFailure, e.Status)
	}

	failure := open.Events[0]
	_, err := s.Acknowledge(failure.EventID, "ops@example.com")
	assert.NoError(t, err)

	acked := s.Query(EventQuery{Resolution: model.ResolutionAcknowledged})
	assert.Equal(t, 1, acked.Total)
	assert.Equal(t, failure.EventID, acked.Events[0].EventID)

	open = s.Query(EventQuery{Resolution: model.ResolutionOpen})
	assert.Equal(t, 1, open.Total)
}

func TestQuerySinceFilter(t *testing.T) {
	s := seedQueryStore(t)

	past := time.Now().Add(-time.Hour)
	result := s.Query(EventQuery{Since: &past})
	assert.Equal(t, 5, result.Total)

	future := time.Now().Add(time.Hour)
	result = s.Query(EventQuery{Since: &future})
	assert.Equal(t, 0, result.Total)
	assert.Empty(t, result.Events)
}

func TestQuerySearchIsCaseInsensitive(t *testing.T) {
	s := seedQueryStore(t)

	byType := s.Query(EventQuery{Search: "PAYROLL"})
	assert.Equal(t, 1, byType.Total)

	byErrorMessage := s.Query(EventQuery{Search: "rate limit"})
	assert.Equal(t, 1, byErrorMessage.Total)

	byErrorCode := s.Query(EventQuery{Search: "auth_expired"})
	assert.Equal(t, 1, byErrorCode.Total)

	byIntegration := s.Query(EventQuery{Search: "gusto"})
	assert.Equal(t, 2, byIntegration.Total)

	none := s.Query(EventQuery{Search: "salesforce"})
	assert.Equal(t, 0, none.Total)
}

func TestQuerySortByIntegrationAscending(t *testing.T) {
	s := seedQueryStore(t)

	result := s.Query(EventQuery{SortBy: SortByIntegration, SortOrder: SortAsc})
	assert.Equal(t, 5, result.Total)
	for i := 1; i < len(result.Events); i++ {
		assert.LessOrEqual(t, string(result.Events[i-1].Integration), string(result.Events[i].Integration))
	}
}

func TestQueryPagination(t *testing.T) {
	s := NewEventStore(100)
	for i := 0; i < 7; i++ {
		_, err := s.Create(CreateEventInput{
			Integration: model.IntegrationProcore,
			EventType:   fmt.Sprintf("project.sync.%d", i),
			Status:      model.EventSuccess,
		})
		assert.NoError(t, err)
	}

	page1 := s.Query(EventQuery{Limit: 3})
	assert.Equal(t, 7, page1.Total)
	assert.Len(t, page1.Events, 3)
	assert.True(t, page1.HasMore)

	page2 := s.Query(EventQuery{Offset: 3, Limit: 3})
	assert.Equal(t, 7, page2.Total)
	assert.Len(t, page2.Events, 3)
	assert.True(t, page2.HasMore)

	page3 := s.Query(EventQuery{Offset: 6, Limit: 3})
	assert.Len(t, page3.Events, 1)
	assert.False(t, page3.HasMore)

	// No overlap across pages.
	seen := make(map[string]bool)
	for _, page := range []QueryResult{page1, page2, page3} {
		for _, e := range page.Events {
			assert.False(t, seen[e.EventID])
			seen[e.EventID] = true
		}
	}
	assert.Len(t, seen, 7)
}

func TestQueryOffsetBeyondTotal(t *testing.T) {
	s := seedQueryStore(t)

	result := s.Query(EventQuery{Offset: 50, Limit: 10})
	assert.Equal(t, 5, result.Total)
	assert.Empty(t, result.Events)
	assert.False(t, result.HasMore)
}

func TestQueryNegativeOffsetNormalized(t *testing.T) {
	s := seedQueryStore(t)

	result := s.Query(EventQuery{Offset: -3, Limit: 2})
	assert.Equal(t, 0, result.Offset)
	assert.Len(t, result.Events, 2)
	assert.True(t, result.HasMore)
}
