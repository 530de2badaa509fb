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
	"testing"

	"github.com/pulseboard/pulseboard/model"
	"github.com/pulseboard/pulseboard/store"
	"github.com/stretchr/testify/assert"
)

func seedEvents(t *testing.T, p *Pulseboard, integration model.Integration, successes, failures int) {
	t.Helper()
	for i := 0; i < successes; i++ {
		_, err := p.CreateEvent(store.CreateEventInput{
			Integration: integration,
			EventType:   fmt.Sprintf("sync.%d", i),
			Status:      model.EventSuccess,
		})
		assert.NoError(t, err)
	}
	for i := 0; i < failures; i++ {
		_, err := p.CreateEvent(store.CreateEventInput{
			Integration: integration,
			EventType:   fmt.Sprintf("sync.fail.%d", i),
			Status:      model.EventFailure,
			Error:       &model.EventError{Message: "Upstream request timed out", Code: "timeout"},
		})
		assert.NoError(t, err)
	}
}

func TestGetEventStats(t *testing.T) {
	p := newTestPulseboard(t)
	seedEvents(t, p, model.IntegrationProcore, 98, 2)

	stats, err := p.GetEventStats(model.IntegrationProcore)
	assert.NoError(t, err)
	assert.Equal(t, 100, stats.TotalEvents)
	assert.Equal(t, 2, stats.ErrorsLast24h)
	assert.InDelta(t, 98, stats.SuccessRate, 0.001)
	assert.Equal(t, model.HealthHealthy, stats.Status)
	assert.NotNil(t, stats.LastSync)
}

func TestGetEventStatsLastSyncTracksNewestEvent(t *testing.T) {
	p := newTestPulseboard(t)
	seedEvents(t, p, model.IntegrationRamp, 2, 1)

	newest, err := p.CreateEvent(store.CreateEventInput{
		Integration: model.IntegrationRamp,
		EventType:   "expense.sync.latest",
		Status:      model.EventSuccess,
	})
	assert.NoError(t, err)

	// Counts and last-sync come from the same snapshot, so the newest event
	// shows up in both.
	stats, err := p.GetEventStats(model.IntegrationRamp)
	assert.NoError(t, err)
	assert.Equal(t, 4, stats.TotalEvents)
	assert.Equal(t, 1, stats.ErrorsLast24h)
	assert.NotNil(t, stats.LastSync)
	assert.Equal(t, newest.CreatedAt, *stats.LastSync)
}

func TestGetEventStatsDegraded(t *testing.T) {
	p := newTestPulseboard(t)
	seedEvents(t, p, model.IntegrationGusto, 90, 10)

	stats, err := p.GetEventStats(model.IntegrationGusto)
	assert.NoError(t, err)
	assert.InDelta(t, 90, stats.SuccessRate, 0.001)
	assert.Equal(t, model.HealthDegraded, stats.Status)
}

func TestGetEventStatsDown(t *testing.T) {
	p := newTestPulseboard(t)
	seedEvents(t, p, model.IntegrationPlaid, 60, 40)

	stats, err := p.GetEventStats(model.IntegrationPlaid)
	assert.NoError(t, err)
	assert.InDelta(t, 60, stats.SuccessRate, 0.001)
	assert.Equal(t, model.HealthDown, stats.Status)
}

func TestGetEventStatsNoEventsIsHealthy(t *testing.T) {
	p := newTestPulseboard(t)

	stats, err := p.GetEventStats(model.IntegrationNetSuite)
	assert.NoError(t, err)
	assert.Equal(t, 0, stats.TotalEvents)
	assert.Equal(t, float64(100), stats.SuccessRate)
	assert.Equal(t, model.HealthHealthy, stats.Status)
	assert.Nil(t, stats.LastSync)
}

func TestGetEventStatsUnknownIntegration(t *testing.T) {
	p := newTestPulseboard(t)

	_, err := p.GetEventStats("sharepoint")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetHealthOverview(t *testing.T) {
	p := newTestPulseboard(t)
	seedEvents(t, p, model.IntegrationProcore, 50, 0)
	seedEvents(t, p, model.IntegrationGusto, 45, 5)

	overview, err := p.GetHealthOverview()
	assert.NoError(t, err)
	assert.Len(t, overview.Integrations, len(model.Integrations))
	assert.Equal(t, len(model.Integrations), overview.Healthy+overview.Degraded+overview.Down)

	// Procore is healthy; Gusto's five failures push it to degraded even
	// though its success rate is 90; integrations without events count as
	// healthy.
	assert.Equal(t, len(model.Integrations)-1, overview.Healthy)
	assert.Equal(t, 1, overview.Degraded)
	assert.Equal(t, 0, overview.Down)
}

func TestGetSystemOverviewEmpty(t *testing.T) {
	p := newTestPulseboard(t)

	overview := p.GetSystemOverview()
	assert.Equal(t, float64(100), overview.OverallHealth)
	assert.Equal(t, 0, overview.ActiveClients)
	assert.Equal(t, 0, overview.TotalInstances)
	assert.Empty(t, overview.RecentFailures)
	assert.Len(t, overview.PipelineStats, 8)
}

func TestGetSystemOverviewWithGeneratedData(t *testing.T) {
	p := newTestPulseboard(t)
	p.generator = NewGenerator(p.SyncStore(), 42)

	assert.NoError(t, p.GenerateMockData(4, true))

	overview := p.GetSystemOverview()
	assert.Equal(t, 4, overview.ActiveClients)
	assert.Equal(t, 4*8, overview.TotalInstances)
	assert.Len(t, overview.PipelineStats, 8)
	assert.GreaterOrEqual(t, overview.OverallHealth, float64(0))
	assert.LessOrEqual(t, overview.OverallHealth, float64(100))

	failing := 0
	stale := 0
	for _, inst := range p.SyncStore().Instances() {
		switch inst.Status {
		case model.InstanceFailing:
			failing++
		case model.InstanceStale:
			stale++
		}
	}
	assert.Equal(t, failing, overview.FailingInstances)
	assert.Equal(t, stale, overview.StaleInstances)
	assert.LessOrEqual(t, len(overview.RecentFailures), recentFailuresCap)
	assert.Len(t, overview.RecentFailures, min(failing, recentFailuresCap))

	for _, summary := range overview.RecentFailures {
		assert.NotEmpty(t, summary.InstanceID)
		assert.NotEmpty(t, summary.PipelineName)
		assert.GreaterOrEqual(t, summary.ConsecutiveFailures, 1)
		assert.NotEmpty(t, summary.LastError)
	}

	instances := 0
	for _, ps := range overview.PipelineStats {
		instances += ps.Instances
	}
	assert.Equal(t, overview.TotalInstances, instances)
}
