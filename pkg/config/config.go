// Copyright 2026 fanjia1024
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full gateway configuration.
type Config struct {
	API        APIConfig        `mapstructure:"api"`
	Worker     WorkerConfig     `mapstructure:"worker"`
	Queue      QueueConfig      `mapstructure:"queue"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Artifacts  ArtifactsConfig  `mapstructure:"artifacts"`
	Personas   []PersonaConfig  `mapstructure:"personas"`
	Notify     NotifyConfig     `mapstructure:"notify"`
	Secrets    SecretsConfig    `mapstructure:"secrets"`
	Log        LogConfig        `mapstructure:"log"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
}

// APIConfig ingress service configuration.
type APIConfig struct {
	Host       string           `mapstructure:"host"`
	Port       int              `mapstructure:"port"`
	Timeout    string           `mapstructure:"timeout"`
	CORS       CORSConfig       `mapstructure:"cors"`
	Middleware MiddlewareConfig `mapstructure:"middleware"`
}

// CORSConfig CORS settings for the ingress API.
type CORSConfig struct {
	Enable       bool     `mapstructure:"enable"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// MiddlewareConfig ingress middleware settings.
type MiddlewareConfig struct {
	Auth          bool   `mapstructure:"auth"`
	JWTKey        string `mapstructure:"jwt_key"` // supports secret:// indirection
	JWTTimeout    string `mapstructure:"jwt_timeout"`
	JWTMaxRefresh string `mapstructure:"jwt_max_refresh"`
}

// WorkerConfig worker process configuration.
type WorkerConfig struct {
	Concurrency  int    `mapstructure:"concurrency"`    // consumer goroutines, <=0 defaults to 1
	ErrorPause   string `mapstructure:"error_pause"`    // pause after an abandoned item, e.g. "500ms"
	DrainTimeout string `mapstructure:"drain_timeout"`  // graceful shutdown wait, e.g. "30s"
}

// QueueConfig background work queue configuration.
type QueueConfig struct {
	Type     string      `mapstructure:"type"` // memory | redis
	Capacity int         `mapstructure:"capacity"`
	Redis    RedisConfig `mapstructure:"redis"`
}

// RedisConfig distributed queue backend (Redis Streams).
type RedisConfig struct {
	Addr          string `mapstructure:"addr"`
	DB            int    `mapstructure:"db"`
	Password      string `mapstructure:"password"` // supports secret:// indirection
	Stream        string `mapstructure:"stream"`
	ConsumerGroup string `mapstructure:"consumer_group"`
	BlockInterval string `mapstructure:"block_interval"` // XReadGroup block, e.g. "5s"
	MaxAttempts   int    `mapstructure:"max_attempts"`   // deliveries before dead-letter
	MinIdle       string `mapstructure:"min_idle"`       // XAutoClaim reclaim threshold
}

// StorageConfig persistence configuration.
type StorageConfig struct {
	Metadata MetadataConfig `mapstructure:"metadata"`
}

// MetadataConfig artifact metadata store configuration.
type MetadataConfig struct {
	Type     string `mapstructure:"type"` // memory | postgres
	DSN      string `mapstructure:"dsn"`  // supports secret:// indirection
	PoolSize int    `mapstructure:"pool_size"`
}

// ArtifactsConfig artifact fetch settings.
type ArtifactsConfig struct {
	HTTPTimeout  string `mapstructure:"http_timeout"`   // per-fetch timeout, e.g. "30s"
	MaxSizeBytes int64  `mapstructure:"max_size_bytes"` // <=0 = 32MB default
	FileRoot     string `mapstructure:"file_root"`      // root for file: references; empty disables the provider
}

// PersonaConfig a configured persona. The activation trigger and strategy
// selection live here so behavior changes without code changes.
type PersonaConfig struct {
	ID             string                 `mapstructure:"id"`
	Enabled        bool                   `mapstructure:"enabled"`
	Trigger        string                 `mapstructure:"trigger"`
	Tenants        []string               `mapstructure:"tenants"` // empty = all tenants
	StrategyKey    string                 `mapstructure:"strategy_key"`
	StrategyParams map[string]interface{} `mapstructure:"strategy_params"`
}

// NotifyConfig outbound notifier configuration, keyed by platform type.
type NotifyConfig struct {
	Platforms map[string]NotifierConfig `mapstructure:"platforms"`
}

// NotifierConfig a single platform notifier.
type NotifierConfig struct {
	Type     string  `mapstructure:"type"` // console | webhook
	Endpoint string  `mapstructure:"endpoint"`
	Token    string  `mapstructure:"token"` // supports secret:// indirection
	RPS      float64 `mapstructure:"rps"`   // webhook rate limit, <=0 = unlimited
	Timeout  string  `mapstructure:"timeout"`
}

// SecretsConfig secret store configuration.
type SecretsConfig struct {
	Provider string            `mapstructure:"provider"` // memory | env | vault | k8s
	Config   map[string]string `mapstructure:"config"`
}

// LogConfig log configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// MonitoringConfig metrics and tracing.
type MonitoringConfig struct {
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
}

// PrometheusConfig Prometheus exposition settings.
type PrometheusConfig struct {
	Enable bool `mapstructure:"enable"`
}

// TracingConfig OpenTelemetry settings.
type TracingConfig struct {
	Enable         bool   `mapstructure:"enable"`
	ServiceName    string `mapstructure:"service_name"`
	ExportEndpoint string `mapstructure:"export_endpoint"`
	Insecure       bool   `mapstructure:"insecure"`
}

// LoadConfig loads and validates a configuration file. Environment variables
// prefixed NUCLEUS_ override file values (NUCLEUS_QUEUE_TYPE=redis etc).
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetEnvPrefix("NUCLEUS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	applyDefaults(&config)
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// LoadAPIConfig loads the ingress service configuration.
func LoadAPIConfig() (*Config, error) {
	return LoadConfig("configs/api.yaml")
}

// LoadWorkerConfig loads the worker process configuration.
func LoadWorkerConfig() (*Config, error) {
	return LoadConfig("configs/worker.yaml")
}

func applyDefaults(c *Config) {
	if c.API.Port == 0 {
		c.API.Port = 8080
	}
	if c.API.Host == "" {
		c.API.Host = "0.0.0.0"
	}
	if c.Queue.Type == "" {
		c.Queue.Type = "memory"
	}
	if c.Queue.Capacity <= 0 {
		c.Queue.Capacity = 256
	}
	if c.Queue.Redis.Stream == "" {
		c.Queue.Redis.Stream = "nucleus:interactions"
	}
	if c.Queue.Redis.ConsumerGroup == "" {
		c.Queue.Redis.ConsumerGroup = "nucleus-workers"
	}
	if c.Queue.Redis.MaxAttempts <= 0 {
		c.Queue.Redis.MaxAttempts = 3
	}
	if c.Storage.Metadata.Type == "" {
		c.Storage.Metadata.Type = "memory"
	}
	if c.Worker.Concurrency <= 0 {
		c.Worker.Concurrency = 1
	}
	if c.Artifacts.MaxSizeBytes <= 0 {
		c.Artifacts.MaxSizeBytes = 32 * 1024 * 1024
	}
}

// Validate rejects configurations the processes cannot start with.
func (c *Config) Validate() error {
	switch c.Queue.Type {
	case "memory":
	case "redis":
		if c.Queue.Redis.Addr == "" {
			return fmt.Errorf("queue.redis.addr is required when queue.type is redis")
		}
	default:
		return fmt.Errorf("unsupported queue.type: %s", c.Queue.Type)
	}
	switch c.Storage.Metadata.Type {
	case "memory":
	case "postgres":
		if c.Storage.Metadata.DSN == "" {
			return fmt.Errorf("storage.metadata.dsn is required when storage.metadata.type is postgres")
		}
	default:
		return fmt.Errorf("unsupported storage.metadata.type: %s", c.Storage.Metadata.Type)
	}
	seen := make(map[string]bool, len(c.Personas))
	for i, p := range c.Personas {
		if p.ID == "" {
			return fmt.Errorf("personas[%d].id is required", i)
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate persona id: %s", p.ID)
		}
		seen[p.ID] = true
		if p.Enabled && p.StrategyKey == "" {
			return fmt.Errorf("persona %s is enabled but has no strategy_key", p.ID)
		}
	}
	for platform, n := range c.Notify.Platforms {
		switch n.Type {
		case "", "console":
		case "webhook":
			if n.Endpoint == "" {
				return fmt.Errorf("notify.platforms.%s.endpoint is required for webhook notifier", platform)
			}
		default:
			return fmt.Errorf("unsupported notifier type %q for platform %s", n.Type, platform)
		}
	}
	return nil
}

// ParseDuration parses s, returning fallback on empty or invalid input.
func ParseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
