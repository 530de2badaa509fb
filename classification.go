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
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pulseboard/pulseboard/model"
	"github.com/pulseboard/pulseboard/store"
	"github.com/sirupsen/logrus"
)

// ErrNoErrorDetail signals that classify was called for an event that carries
// no error object. This is a programming error at the call site, not a
// fallback case.
var ErrNoErrorDetail = errors.New("event has no error to classify")

const classificationCacheTTL = 24 * time.Hour

// ClassificationResult is the outcome of a classify call. Cached is true when
// the event already carried a classification.
type ClassificationResult struct {
	Classification *model.Classification `json:"classification"`
	Cached         bool                  `json:"cached"`
}

// ClassifyEvent classifies a failure event. Classification is idempotent and
// memoized per event: the first successful classification wins and the
// external capability is invoked at most once per event lifetime. Capability
// failures are absorbed by the deterministic rule fallback, so a classify
// call on a valid failure event always succeeds.
//
// Two concurrent calls for the same unclassified event may both reach the
// capability; the attach step resolves the race by keeping the first result.
func (p *Pulseboard) ClassifyEvent(ctx context.Context, id string) (*ClassificationResult, error) {
	event, err := p.events.Get(id)
	if err != nil {
		return nil, err
	}
	if event.Status != model.EventFailure {
		return nil, fmt.Errorf("only failure events can be classified: %w", store.ErrInvalidState)
	}
	if event.Error == nil {
		return nil, ErrNoErrorDetail
	}
	if event.Classification != nil {
		return &ClassificationResult{Classification: event.Classification, Cached: true}, nil
	}

	classification := p.resolveClassification(ctx, event)

	attached, fresh, err := p.events.AttachClassification(id, classification)
	if err != nil {
		// The event can be evicted while the capability call is in flight.
		return nil, err
	}
	return &ClassificationResult{Classification: attached, Cached: !fresh}, nil
}

// resolveClassification produces a classification for the event: signature
// cache first, then the external capability, then the rule fallback. It never
// fails.
func (p *Pulseboard) resolveClassification(ctx context.Context, event *model.IntegrationEvent) *model.Classification {
	key := classificationCacheKey(event)

	if p.cache != nil {
		var cached model.Classification
		hit, err := p.cache.Get(ctx, key, &cached)
		if err != nil {
			logrus.WithError(err).Warn("classification cache read failed")
		} else if hit {
			return &cached
		}
	}

	if p.classifier != nil {
		classification, err := p.classifier.Classify(ctx, ClassifyRequest{
			Integration:  event.Integration,
			EventType:    event.EventType,
			ErrorMessage: event.Error.Message,
			ErrorCode:    event.Error.Code,
			Context:      event.Error.Context,
			Payload:      event.Payload,
		})
		if err == nil {
			p.storeInCache(ctx, key, classification)
			return classification
		}
		logrus.WithError(err).WithField("event_id", event.EventID).
			Warn("classifier capability unavailable, using rule-based fallback")
	}

	classification := RuleClassify(event.Integration, event.Error.Message, event.Error.Code)
	p.storeInCache(ctx, key, classification)
	return classification
}

func (p *Pulseboard) storeInCache(ctx context.Context, key string, c *model.Classification) {
	if p.cache == nil {
		return
	}
	if err := p.cache.Set(ctx, key, c, classificationCacheTTL); err != nil {
		logrus.WithError(err).Warn("classification cache write failed")
	}
}

// classificationCacheKey keys cached classifications by error signature, so
// repeated identical failures skip the capability call across events.
func classificationCacheKey(event *model.IntegrationEvent) string {
	return fmt.Sprintf("classify:%s:%s:%s",
		event.Integration, strings.ToLower(event.Error.Code), strings.ToLower(event.Error.Message))
}
