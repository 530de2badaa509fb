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

package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_PORT = "5400"

	defaultEventCapacity     = 1000
	defaultClassifierTimeout = 10
	defaultClassifierRetries = 2
)

var ConfigStore atomic.Value

type ServerConfig struct {
	SSL       bool   `json:"ssl" envconfig:"PULSE_SERVER_SSL"`
	Secure    bool   `json:"secure" envconfig:"PULSE_SERVER_SECURE"`
	SecretKey string `json:"secret_key" envconfig:"PULSE_SERVER_SECRET_KEY"`
	Domain    string `json:"domain" envconfig:"PULSE_SERVER_SSL_DOMAIN"`
	Email     string `json:"ssl_email" envconfig:"PULSE_SERVER_SSL_EMAIL"`
	Port      string `json:"port" envconfig:"PULSE_SERVER_PORT"`
}

type EventStoreConfig struct {
	Capacity int `json:"capacity" envconfig:"PULSE_EVENT_STORE_CAPACITY"`
}

// ClassifierConfig points at the external classification capability. When the
// URL is empty the capability is treated as unavailable and classification
// degrades to the rule-based fallback.
type ClassifierConfig struct {
	URL            string `json:"url" envconfig:"PULSE_CLASSIFIER_URL"`
	AuthToken      string `json:"auth_token" envconfig:"PULSE_CLASSIFIER_AUTH_TOKEN"`
	TimeoutSeconds int    `json:"timeout_seconds" envconfig:"PULSE_CLASSIFIER_TIMEOUT_SECONDS"`
	MaxRetries     int    `json:"max_retries" envconfig:"PULSE_CLASSIFIER_MAX_RETRIES"`
}

// Timeout bounds how long one classify call may wait on the capability.
func (c ClassifierConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RedisConfig enables the optional remote tier of the classification cache.
// Empty DNS means the cache runs on its local tier only.
type RedisConfig struct {
	Dns string `json:"dns" envconfig:"PULSE_REDIS_DNS"`
}

type RateLimitConfig struct {
	RequestsPerSecond  *float64 `json:"requests_per_second" envconfig:"PULSE_RATE_LIMIT_RPS"`
	Burst              *int     `json:"burst" envconfig:"PULSE_RATE_LIMIT_BURST"`
	CleanupIntervalSec *int     `json:"cleanup_interval_sec" envconfig:"PULSE_RATE_LIMIT_CLEANUP_INTERVAL_SEC"`
}

// GeneratorConfig seeds the mock execution generator. Zero means seed from
// the clock.
type GeneratorConfig struct {
	Seed int64 `json:"seed" envconfig:"PULSE_GENERATOR_SEED"`
}

type Configuration struct {
	ProjectName string           `json:"project_name" envconfig:"PULSE_PROJECT_NAME"`
	Server      ServerConfig     `json:"server"`
	EventStore  EventStoreConfig `json:"event_store"`
	Classifier  ClassifierConfig `json:"classifier"`
	Redis       RedisConfig      `json:"redis"`
	RateLimit   RateLimitConfig  `json:"rate_limit"`
	Generator   GeneratorConfig  `json:"generator"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}
	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("pulse", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called pulseboard.json with your config")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "Pulseboard Server"
	}

	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.Server.Port = strings.TrimSpace(cnf.Server.Port)
	cnf.Classifier.URL = strings.TrimSpace(cnf.Classifier.URL)
	cnf.Redis.Dns = strings.TrimSpace(cnf.Redis.Dns)

	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		log.Printf("Warning: Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}

	if cnf.EventStore.Capacity <= 0 {
		cnf.EventStore.Capacity = defaultEventCapacity
	}

	if cnf.Classifier.TimeoutSeconds <= 0 {
		cnf.Classifier.TimeoutSeconds = defaultClassifierTimeout
	}
	if cnf.Classifier.MaxRetries < 0 {
		cnf.Classifier.MaxRetries = 0
	}
	if cnf.Classifier.MaxRetries == 0 {
		cnf.Classifier.MaxRetries = defaultClassifierRetries
	}

	// Rate limiting is disabled by default (when both RPS and Burst are nil)
	if cnf.RateLimit.RequestsPerSecond != nil && cnf.RateLimit.Burst == nil {
		defaultBurst := 2 * int(*cnf.RateLimit.RequestsPerSecond)
		cnf.RateLimit.Burst = &defaultBurst
		log.Printf("Warning: Rate limit burst not specified. Setting default value: %d", defaultBurst)
	}
	if cnf.RateLimit.RequestsPerSecond == nil && cnf.RateLimit.Burst != nil {
		defaultRPS := float64(*cnf.RateLimit.Burst) / 2
		cnf.RateLimit.RequestsPerSecond = &defaultRPS
		log.Printf("Warning: Rate limit RPS not specified. Setting default value: %.2f", defaultRPS)
	}
	if cnf.RateLimit.CleanupIntervalSec == nil {
		defaultCleanup := 10800 // 3 hours in seconds
		cnf.RateLimit.CleanupIntervalSec = &defaultCleanup
	}

	return nil
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	mockConfig.validateAndAddDefaults() // nolint:errcheck
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
