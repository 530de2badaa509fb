package model

import "time"

// Integration identifies an external system that produces events.
type Integration string

const (
	IntegrationProcore    Integration = "procore"
	IntegrationGusto      Integration = "gusto"
	IntegrationQuickBooks Integration = "quickbooks"
	IntegrationPlaid      Integration = "plaid"
	IntegrationRamp       Integration = "ramp"
	IntegrationNetSuite   Integration = "netsuite"
)

// Integrations is the fixed catalog of known integrations.
var Integrations = []Integration{
	IntegrationProcore,
	IntegrationGusto,
	IntegrationQuickBooks,
	IntegrationPlaid,
	IntegrationRamp,
	IntegrationNetSuite,
}

// IsValidIntegration reports whether s names a known integration.
func IsValidIntegration(s string) bool {
	for _, i := range Integrations {
		if string(i) == s {
			return true
		}
	}
	return false
}

type EventStatus string

const (
	EventSuccess EventStatus = "success"
	EventFailure EventStatus = "failure"
	EventPending EventStatus = "pending"
)

type ResolutionStatus string

const (
	ResolutionOpen         ResolutionStatus = "open"
	ResolutionAcknowledged ResolutionStatus = "acknowledged"
	ResolutionResolved     ResolutionStatus = "resolved"
)

// EventError carries the failure detail attached to a failure event.
type EventError struct {
	Message string                 `json:"message"`
	Code    string                 `json:"code,omitempty"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Resolution tracks the triage lifecycle of a failure event. Every failure
// event carries a resolution record from creation; the initial state is open.
type Resolution struct {
	Status         ResolutionStatus `json:"status"`
	AcknowledgedAt *time.Time       `json:"acknowledged_at,omitempty"`
	AcknowledgedBy string           `json:"acknowledged_by,omitempty"`
	ResolvedAt     *time.Time       `json:"resolved_at,omitempty"`
	ResolvedBy     string           `json:"resolved_by,omitempty"`
	Notes          string           `json:"notes,omitempty"`
}

// IntegrationEvent is one observed interaction with an external integration.
// EventID, Integration, EventType, Status and CreatedAt are immutable after
// insertion. Classification and Resolution are only ever set on failure events.
type IntegrationEvent struct {
	EventID        string                 `json:"event_id"`
	Integration    Integration            `json:"integration"`
	EventType      string                 `json:"event_type"`
	Status         EventStatus            `json:"status"`
	Payload        map[string]interface{} `json:"payload,omitempty"`
	Error          *EventError            `json:"error,omitempty"`
	Classification *Classification        `json:"classification,omitempty"`
	Resolution     *Resolution            `json:"resolution,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
}

// Clone returns a copy of the event that is safe to read, mutate or marshal
// outside the store lock. The payload map is shared: the store never writes
// it after insertion.
func (e *IntegrationEvent) Clone() *IntegrationEvent {
	c := *e
	if e.Error != nil {
		errCopy := *e.Error
		c.Error = &errCopy
	}
	if e.Classification != nil {
		clCopy := *e.Classification
		c.Classification = &clCopy
	}
	if e.Resolution != nil {
		resCopy := *e.Resolution
		c.Resolution = &resCopy
	}
	return &c
}

// ResolutionState returns the effective triage state of the event. Failure
// events without a resolution record are treated as open.
func (e *IntegrationEvent) ResolutionState() ResolutionStatus {
	if e.Resolution == nil {
		return ResolutionOpen
	}
	return e.Resolution.Status
}
