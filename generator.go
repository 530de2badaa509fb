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
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/pulseboard/pulseboard/model"
	"github.com/pulseboard/pulseboard/store"
)

// Outcome probabilities of the mock generator.
const (
	backfillFailedProb  = 0.03
	backfillPartialProb = 0.02
	forcedFailingProb   = 0.05
	forcedStaleProb     = 0.07
	triggerSuccessProb  = 0.90
	warningProb         = 0.15

	maxBackfillExecutions = 20
)

// syntheticError is one entry of the fixed failure taxonomy used by the
// generator.
type syntheticError struct {
	Code       string
	Message    string
	StatusCode int
}

var syntheticErrors = []syntheticError{
	{Code: "auth_expired", Message: "Access token has expired", StatusCode: 401},
	{Code: "rate_limited", Message: "Rate limit exceeded, retry after 60 seconds", StatusCode: 429},
	{Code: "timeout", Message: "Upstream request timed out", StatusCode: 504},
	{Code: "invalid_response", Message: "Upstream returned an unparsable response", StatusCode: 502},
	{Code: "connection_error", Message: "Connection refused by upstream host", StatusCode: 503},
}

var vendorBaseURLs = map[model.Integration]string{
	model.IntegrationProcore:    "https://api.procore.com/rest/v1.0",
	model.IntegrationGusto:      "https://api.gusto.com/v1",
	model.IntegrationQuickBooks: "https://quickbooks.api.intuit.com/v3",
	model.IntegrationPlaid:      "https://production.plaid.com",
	model.IntegrationRamp:       "https://api.ramp.com/developer/v1",
	model.IntegrationNetSuite:   "https://rest.netsuite.com/services/rest/record/v1",
}

var syntheticWarnings = []string{
	"some records were missing optional fields",
	"upstream returned a deprecated schema version",
	"pagination cursor reset mid-run",
	"duplicate records were deduplicated",
}

// Generator synthesizes execution history for demonstration and test
// fixtures. It is explicitly a simulation, not a live scheduler. The random
// source is injected so tests can seed it for deterministic output.
type Generator struct {
	mu    sync.Mutex
	store *store.SyncStore
	rng   *rand.Rand
	faker *gofakeit.Faker
}

// NewGenerator builds a generator over the sync store. A zero seed seeds the
// random source from the clock.
func NewGenerator(s *store.SyncStore, seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{
		store: s,
		rng:   rand.New(rand.NewSource(seed)),
		faker: gofakeit.New(seed),
	}
}

// GenerateMockData clears all instances and executions, then creates one
// instance per synthetic client and pipeline with up to 20 backfilled
// executions spanning the pipeline's interval over the trailing 24 hours.
// When introduceFailures is set, roughly 5% of instances are forced into a
// failing state and a further 7% into a stale state.
func (g *Generator) GenerateMockData(clientCount int, introduceFailures bool) error {
	if clientCount <= 0 {
		return fmt.Errorf("client count must be positive, got %d", clientCount)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	pipelines := g.store.Pipelines()

	instances := make([]*model.SyncInstance, 0, clientCount*len(pipelines))
	executions := make(map[string][]*model.SyncExecution)

	for c := 0; c < clientCount; c++ {
		clientID := fmt.Sprintf("client_%03d", c+1)
		clientName := g.faker.Company()

		for _, pipeline := range pipelines {
			inst := &model.SyncInstance{
				InstanceID: model.GenerateUUIDWithSuffix("inst"),
				ClientID:   clientID,
				ClientName: clientName,
				PipelineID: pipeline.PipelineID,
				Enabled:    true,
			}

			history := g.backfillExecutions(inst, pipeline, now)

			forceFailing := introduceFailures && g.rng.Float64() < forcedFailingProb
			forceStale := false
			if !forceFailing && introduceFailures {
				forceStale = g.rng.Float64() < forcedStaleProb
			}

			if forceFailing && len(history) > 0 {
				g.failExecution(history[0])
			}

			inst.NextScheduledSync = now.Add(pipeline.Interval())
			if forceStale {
				// Push the schedule into the past beyond the staleness
				// threshold without touching execution outcomes.
				inst.NextScheduledSync = now.Add(-pipeline.Staleness() - pipeline.Interval())
			}

			if len(history) > 0 {
				completed := history[0].StartedAt
				if history[0].CompletedAt != nil {
					completed = *history[0].CompletedAt
				}
				inst.LastSync = &completed
			}

			recent := history
			if len(recent) > model.RecentExecutionsCap {
				recent = recent[:model.RecentExecutionsCap]
			}
			inst.RecentExecutions = recent

			last24h := model.ComputeWindowStats(history, now.Add(-24*time.Hour))
			inst.Stats = model.SyncInstanceStats{
				Last24h: last24h,
				// The 7-day window is extrapolated from the 24h backfill; the
				// generator only fabricates one day of history.
				Last7d: multiplyWindow(last24h, 7),
			}

			inst.Status = model.DeriveInstanceStatus(history, pipeline, inst.NextScheduledSync, inst.Enabled, now)

			instances = append(instances, inst)
			executions[inst.InstanceID] = history
		}
	}

	g.store.Replace(instances, executions)
	return nil
}

// TriggerSync synthesizes exactly one immediate manual execution for the
// instance, records it (prepend, cap, last-sync and schedule update) and
// derives the instance status from that single execution. Unknown instance
// ids fail with store.ErrNotFound; disabled instances with
// store.ErrInvalidState.
func (g *Generator) TriggerSync(instanceID string) (*model.SyncExecution, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	inst, err := g.store.GetInstance(instanceID)
	if err != nil {
		return nil, err
	}
	if !inst.Enabled {
		return nil, store.ErrInvalidState
	}
	pipeline, err := g.store.GetPipeline(inst.PipelineID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	status := model.ExecutionSuccess
	if g.rng.Float64() >= triggerSuccessProb {
		status = model.ExecutionFailed
	}

	exec := g.synthesizeExecution(inst, pipeline, now, status, model.TriggerManual)
	if err := g.store.RecordExecution(exec, pipeline, now); err != nil {
		return nil, err
	}
	return exec, nil
}

// backfillExecutions fabricates up to 20 executions spanning the pipeline's
// interval over the trailing 24 hours, newest first.
func (g *Generator) backfillExecutions(inst *model.SyncInstance, pipeline *model.SyncPipeline, now time.Time) []*model.SyncExecution {
	count := int(24 * time.Hour / pipeline.Interval())
	if count > maxBackfillExecutions {
		count = maxBackfillExecutions
	}
	if count < 1 {
		count = 1
	}

	history := make([]*model.SyncExecution, 0, count)
	for i := 0; i < count; i++ {
		start := now.Add(-time.Duration(i+1) * pipeline.Interval())
		status := model.ExecutionSuccess
		switch r := g.rng.Float64(); {
		case r < backfillFailedProb:
			status = model.ExecutionFailed
		case r < backfillFailedProb+backfillPartialProb:
			status = model.ExecutionPartial
		}
		exec := g.synthesizeExecution(inst, pipeline, start, status, model.TriggerSchedule)
		history = append(history, exec)
	}
	return history
}

// synthesizeExecution fabricates one completed execution: duration, record
// counts, canned errors, probabilistic warnings, sample changes, and a
// sanitized request/response pair.
func (g *Generator) synthesizeExecution(inst *model.SyncInstance, pipeline *model.SyncPipeline, start time.Time, status model.ExecutionStatus, trigger model.SyncTrigger) *model.SyncExecution {
	durationMs := int64(500 + g.rng.Intn(2501)) // 0.5s to 3s
	completed := start.Add(time.Duration(durationMs) * time.Millisecond)

	fetched := 1 + g.rng.Intn(200)
	created := g.rng.Intn(fetched + 1)
	updated := g.rng.Intn(fetched - created + 1)
	skipped := fetched - created - updated

	results := model.SyncResults{
		RecordsFetched: fetched,
		RecordsCreated: created,
		RecordsUpdated: updated,
		RecordsSkipped: skipped,
	}

	responseStatus := 200
	if status == model.ExecutionFailed {
		synth := syntheticErrors[g.rng.Intn(len(syntheticErrors))]
		responseStatus = synth.StatusCode
		results.RecordsFailed = 1 + g.rng.Intn(fetched)
		results.Errors = []model.SyncError{{Code: synth.Code, Message: synth.Message}}
	}

	if g.rng.Float64() < warningProb {
		results.Warnings = []string{syntheticWarnings[g.rng.Intn(len(syntheticWarnings))]}
	}

	for i := 0; i < g.rng.Intn(3); i++ {
		action := "updated"
		if g.rng.Float64() < 0.5 {
			action = "created"
		}
		results.Changes = append(results.Changes, model.FieldChange{
			RecordID: g.faker.UUID(),
			Field:    g.faker.Word(),
			Action:   action,
			NewValue: g.faker.Word(),
		})
	}

	method := "GET"
	if pipeline.Direction == model.DirectionPush {
		method = "POST"
	}

	return &model.SyncExecution{
		ExecutionID: model.GenerateUUIDWithSuffix("exec"),
		InstanceID:  inst.InstanceID,
		PipelineID:  pipeline.PipelineID,
		ClientID:    inst.ClientID,
		Status:      status,
		Trigger:     trigger,
		StartedAt:   start,
		CompletedAt: &completed,
		Request: model.SyncRequest{
			Method:  method,
			URL:     fmt.Sprintf("%s/%s", vendorBaseURLs[pipeline.Integration], pipeline.DataType),
			Headers: map[string]string{"Authorization": "Bearer [REDACTED]"},
		},
		Response: &model.SyncResponse{
			StatusCode: responseStatus,
			DurationMs: durationMs,
		},
		Results: results,
	}
}

// failExecution rewrites an already-synthesized execution as a failure,
// used when an instance is forced into the failing state.
func (g *Generator) failExecution(exec *model.SyncExecution) {
	synth := syntheticErrors[g.rng.Intn(len(syntheticErrors))]
	exec.Status = model.ExecutionFailed
	exec.Results.RecordsFailed = 1 + g.rng.Intn(exec.Results.RecordsFetched)
	exec.Results.Errors = []model.SyncError{{Code: synth.Code, Message: synth.Message}}
	if exec.Response != nil {
		exec.Response.StatusCode = synth.StatusCode
	}
}

func multiplyWindow(w model.SyncWindowStats, factor int) model.SyncWindowStats {
	return model.SyncWindowStats{
		TotalExecutions: w.TotalExecutions * factor,
		Successful:      w.Successful * factor,
		Failed:          w.Failed * factor,
		SuccessRate:     w.SuccessRate,
		AvgDurationMs:   w.AvgDurationMs,
		RecordsFetched:  w.RecordsFetched * factor,
	}
}
