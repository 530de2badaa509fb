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
package model

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pulseboard/pulseboard/model"
	"github.com/pulseboard/pulseboard/store"
)

type EventErrorRequest struct {
	Message string                 `json:"message"`
	Code    string                 `json:"code,omitempty"`
	Context map[string]interface{} `json:"context,omitempty"`
}

type CreateEventRequest struct {
	Integration string                 `json:"integration"`
	EventType   string                 `json:"event_type"`
	Status      string                 `json:"status"`
	Payload     map[string]interface{} `json:"payload,omitempty"`
	Error       *EventErrorRequest     `json:"error,omitempty"`
}

func integrationRule(value interface{}) error {
	s, _ := value.(string)
	if !model.IsValidIntegration(s) {
		return errors.New("integration must be one of the known integrations")
	}
	return nil
}

func (r *CreateEventRequest) errorPresenceRule(interface{}) error {
	if r.Status == string(model.EventFailure) && (r.Error == nil || r.Error.Message == "") {
		return errors.New("failure events require an error with a message")
	}
	return nil
}

func (r *CreateEventRequest) ValidateCreateEvent() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Integration, validation.Required, validation.By(integrationRule)),
		validation.Field(&r.EventType, validation.Required),
		validation.Field(&r.Status, validation.Required, validation.In(
			string(model.EventSuccess), string(model.EventFailure), string(model.EventPending),
		)),
		validation.Field(&r.Error, validation.By(r.errorPresenceRule)),
	)
}

func (r *CreateEventRequest) ToInput() store.CreateEventInput {
	input := store.CreateEventInput{
		Integration: model.Integration(r.Integration),
		EventType:   r.EventType,
		Status:      model.EventStatus(r.Status),
		Payload:     r.Payload,
	}
	if r.Error != nil {
		input.Error = &model.EventError{
			Message: r.Error.Message,
			Code:    r.Error.Code,
			Context: r.Error.Context,
		}
	}
	return input
}

type AcknowledgeEventRequest struct {
	Actor string `json:"actor"`
}

func (r *AcknowledgeEventRequest) ValidateAcknowledgeEvent() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Actor, validation.Required),
	)
}

type ResolveEventRequest struct {
	Actor string `json:"actor"`
	Notes string `json:"notes,omitempty"`
}

func (r *ResolveEventRequest) ValidateResolveEvent() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Actor, validation.Required),
	)
}

// WebhookEventRequest is the generic ingest envelope. Vendor-specific payload
// parsing stays outside this system; the envelope only names the event type,
// outcome and error fields.
type WebhookEventRequest struct {
	EventType string                 `json:"event_type"`
	Status    string                 `json:"status"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	Error     *EventErrorRequest     `json:"error,omitempty"`
}

func (r *WebhookEventRequest) ToCreateEventRequest(integration string) *CreateEventRequest {
	status := r.Status
	if status == "" {
		status = string(model.EventSuccess)
	}
	return &CreateEventRequest{
		Integration: integration,
		EventType:   r.EventType,
		Status:      status,
		Payload:     r.Payload,
		Error:       r.Error,
	}
}
