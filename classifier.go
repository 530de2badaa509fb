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
	"fmt"
	"net/http"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/pulseboard/pulseboard/config"
	"github.com/pulseboard/pulseboard/internal/request"
	"github.com/pulseboard/pulseboard/model"
)

// ClassifyRequest is the payload sent to the external classification
// capability.
type ClassifyRequest struct {
	Integration  model.Integration      `json:"integration"`
	EventType    string                 `json:"event_type"`
	ErrorMessage string                 `json:"error_message"`
	ErrorCode    string                 `json:"error_code,omitempty"`
	Context      map[string]interface{} `json:"context,omitempty"`
	Payload      map[string]interface{} `json:"payload,omitempty"`
}

// Classifier is the external classification capability: given a failure
// event's detail, return a classification or fail. Calls are bounded by a
// timeout and may error; callers are expected to degrade to the rule-based
// fallback.
type Classifier interface {
	Classify(ctx context.Context, req ClassifyRequest) (*model.Classification, error)
}

// HTTPClassifier calls the classification backend over HTTP, retrying
// transient failures a bounded number of times inside the overall timeout.
type HTTPClassifier struct {
	conf   config.ClassifierConfig
	client *http.Client
}

func NewHTTPClassifier(conf config.ClassifierConfig) *HTTPClassifier {
	return &HTTPClassifier{
		conf:   conf,
		client: &http.Client{Timeout: conf.Timeout()},
	}
}

func (h *HTTPClassifier) Classify(ctx context.Context, req ClassifyRequest) (*model.Classification, error) {
	ctx, cancel := context.WithTimeout(ctx, h.conf.Timeout())
	defer cancel()

	var result model.Classification
	operation := func() error {
		payload, err := request.ToJsonReq(req)
		if err != nil {
			return backoff.Permanent(err)
		}
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.conf.URL, payload)
		if err != nil {
			return backoff.Permanent(err)
		}
		if h.conf.AuthToken != "" {
			httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", h.conf.AuthToken))
		}
		result = model.Classification{}
		_, err = request.Call(h.client, httpReq, &result)
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(h.conf.MaxRetries)), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, errors.Wrap(err, "classifier capability call failed")
	}

	if err := validateClassification(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// validateClassification rejects malformed capability responses so the
// fallback path can take over.
func validateClassification(c *model.Classification) error {
	switch c.Category {
	case model.CategoryAuth, model.CategoryRateLimit, model.CategoryDataValidation,
		model.CategoryDataStateMismatch, model.CategoryNetwork,
		model.CategorySpendingControl, model.CategoryCompliance, model.CategoryUnknown:
	default:
		return errors.Errorf("malformed classifier response: unknown category %q", c.Category)
	}
	switch c.Severity {
	case model.SeverityLow, model.SeverityMedium, model.SeverityHigh, model.SeverityCritical:
	default:
		return errors.Errorf("malformed classifier response: unknown severity %q", c.Severity)
	}
	if c.Cause == "" {
		return errors.New("malformed classifier response: empty cause")
	}
	return nil
}
