package pulseboard

import (
	"github.com/pulseboard/pulseboard/model"
	"github.com/pulseboard/pulseboard/store"
	"github.com/sirupsen/logrus"
)

// CreateEvent inserts a new integration event at the head of the store.
func (p *Pulseboard) CreateEvent(input store.CreateEventInput) (*model.IntegrationEvent, error) {
	event, err := p.events.Create(input)
	if err != nil {
		return nil, err
	}
	if event.Status == model.EventFailure {
		logrus.WithFields(logrus.Fields{
			"event_id":    event.EventID,
			"integration": event.Integration,
			"event_type":  event.EventType,
		}).Warn("failure event recorded")
	}
	return event, nil
}

// GetEvent returns the event with the given id, or store.ErrNotFound.
func (p *Pulseboard) GetEvent(id string) (*model.IntegrationEvent, error) {
	return p.events.Get(id)
}

// QueryEvents filters, sorts and paginates the store contents.
func (p *Pulseboard) QueryEvents(q store.EventQuery) store.QueryResult {
	return p.events.Query(q)
}

// AcknowledgeEvent moves a failure event's resolution to acknowledged.
func (p *Pulseboard) AcknowledgeEvent(id, actor string) (*model.IntegrationEvent, error) {
	return p.events.Acknowledge(id, actor)
}

// ResolveEvent moves a failure event's resolution to resolved, preserving
// acknowledgement fields.
func (p *Pulseboard) ResolveEvent(id, actor, notes string) (*model.IntegrationEvent, error) {
	return p.events.Resolve(id, actor, notes)
}

// ReopenEvent resets a failure event's resolution to open.
func (p *Pulseboard) ReopenEvent(id string) (*model.IntegrationEvent, error) {
	return p.events.Reopen(id)
}

// ClearEvents drops all retained events.
func (p *Pulseboard) ClearEvents() {
	p.events.Clear()
}
