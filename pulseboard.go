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
	"github.com/pulseboard/pulseboard/cache"
	"github.com/pulseboard/pulseboard/config"
	"github.com/pulseboard/pulseboard/store"
)

// Pulseboard is the composition root of the event/sync store and health
// engine. It owns the process-memory stores and is injected into the API
// layer; there is no ambient global state.
type Pulseboard struct {
	events     *store.EventStore
	sync       *store.SyncStore
	classifier Classifier
	cache      cache.Cache
	generator  *Generator
}

// NewPulseboard initializes a new instance of Pulseboard from the loaded
// configuration: the bounded event store, the sync store, the classification
// cache and, when configured, the external classifier capability.
func NewPulseboard() (*Pulseboard, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}

	classificationCache, err := cache.NewCache()
	if err != nil {
		return nil, err
	}

	var classifier Classifier
	if configuration.Classifier.URL != "" {
		classifier = NewHTTPClassifier(configuration.Classifier)
	}

	syncStore := store.NewSyncStore()
	p := &Pulseboard{
		events:     store.NewEventStore(configuration.EventStore.Capacity),
		sync:       syncStore,
		classifier: classifier,
		cache:      classificationCache,
		generator:  NewGenerator(syncStore, configuration.Generator.Seed),
	}
	return p, nil
}

// EventStore exposes the underlying event store, mainly for tests.
func (p *Pulseboard) EventStore() *store.EventStore {
	return p.events
}

// SyncStore exposes the underlying sync store, mainly for tests.
func (p *Pulseboard) SyncStore() *store.SyncStore {
	return p.sync
}
