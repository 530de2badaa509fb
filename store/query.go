package store

import (
	"sort"
	"strings"
	"time"

	"github.com/pulseboard/pulseboard/model"
)

// Default page sizes for the query surface.
const (
	DefaultQueryLimit = 50
	DefaultPageLimit  = 25
)

type SortField string

const (
	SortByTimestamp   SortField = "timestamp"
	SortByIntegration SortField = "integration"
	SortByEventType   SortField = "event_type"
	SortByStatus      SortField = "status"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// EventQuery describes one query against the event store. Zero values mean
// "no filter". Filtering, sorting and pagination compose left to right.
type EventQuery struct {
	Integration model.Integration      `json:"integration,omitempty"`
	Status      model.EventStatus      `json:"status,omitempty"`
	Resolution  model.ResolutionStatus `json:"resolution,omitempty"`
	Since       *time.Time             `json:"since,omitempty"`
	Search      string                 `json:"search,omitempty"`
	SortBy      SortField              `json:"sort_by,omitempty"`
	SortOrder   SortOrder              `json:"sort_order,omitempty"`
	Offset      int                    `json:"offset"`
	Limit       int                    `json:"limit"`
}

// QueryResult is one page of events. Total counts the events matching the
// filters before pagination, so callers can compute page counts.
type QueryResult struct {
	Events  []*model.IntegrationEvent `json:"events"`
	Total   int                       `json:"total"`
	Offset  int                       `json:"offset"`
	Limit   int                       `json:"limit"`
	HasMore bool                      `json:"has_more"`
}

// Query filters, sorts and paginates the store contents. It is pure with
// respect to store state at call time: no side effects, and missing sort or
// limit fields fall back to timestamp-descending and DefaultQueryLimit.
// Returned events are copies taken under the read lock, detached from
// whatever the store does afterwards.
func (s *EventStore) Query(q EventQuery) QueryResult {
	s.mu.RLock()
	matched := make([]*model.IntegrationEvent, 0, len(s.events))
	for _, e := range s.events {
		if matchEvent(e, q) {
			matched = append(matched, e.Clone())
		}
	}
	s.mu.RUnlock()

	sortEvents(matched, q.SortBy, q.SortOrder)

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultQueryLimit
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	total := len(matched)
	start := offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return QueryResult{
		Events:  matched[start:end],
		Total:   total,
		Offset:  offset,
		Limit:   limit,
		HasMore: offset+limit < total,
	}
}

func matchEvent(e *model.IntegrationEvent, q EventQuery) bool {
	if q.Integration != "" && e.Integration != q.Integration {
		return false
	}
	if q.Status != "" && e.Status != q.Status {
		return false
	}
	if q.Resolution != "" {
		// Resolution is only meaningful for failure events; an absent record
		// counts as open.
		if e.Status != model.EventFailure || e.ResolutionState() != q.Resolution {
			return false
		}
	}
	if q.Since != nil && e.CreatedAt.Before(*q.Since) {
		return false
	}
	if q.Search != "" && !matchSearch(e, q.Search) {
		return false
	}
	return true
}

// matchSearch matches the term case-insensitively against the OR of the
// event type, integration id, error message and error code.
func matchSearch(e *model.IntegrationEvent, term string) bool {
	term = strings.ToLower(term)
	if strings.Contains(strings.ToLower(e.EventType), term) {
		return true
	}
	if strings.Contains(strings.ToLower(string(e.Integration)), term) {
		return true
	}
	if e.Error != nil {
		if strings.Contains(strings.ToLower(e.Error.Message), term) {
			return true
		}
		if strings.Contains(strings.ToLower(e.Error.Code), term) {
			return true
		}
	}
	return false
}

func sortEvents(events []*model.IntegrationEvent, field SortField, order SortOrder) {
	if field == "" {
		field = SortByTimestamp
	}
	if order != SortAsc && order != SortDesc {
		order = SortDesc
	}

	less := func(a, b *model.IntegrationEvent) bool {
		switch field {
		case SortByIntegration:
			return a.Integration < b.Integration
		case SortByEventType:
			return a.EventType < b.EventType
		case SortByStatus:
			return a.Status < b.Status
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		if order == SortAsc {
			return less(events[i], events[j])
		}
		return less(events[j], events[i])
	})
}
