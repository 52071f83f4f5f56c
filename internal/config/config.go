// Package config loads, validates and hot-reloads the service configuration
// from a YAML file with environment overrides.
package config

import (
	"fmt"
	"strings"
)

// FileConfig is the on-disk configuration shape. All knobs have working
// defaults so the server can start with an empty file plus an API key.
type FileConfig struct {
	// Server settings
	Port        int      `yaml:"port" json:"port"`
	Debug       bool     `yaml:"debug" json:"debug"`
	LogFile     string   `yaml:"log_file" json:"log_file"`
	CORSOrigins []string `yaml:"cors_origins" json:"cors_origins"`

	// Upstream model settings
	GeminiEndpoint string   `yaml:"gemini_endpoint" json:"gemini_endpoint"`
	GeminiAPIKey   string   `yaml:"gemini_api_key" json:"gemini_api_key"`
	Models         []string `yaml:"models" json:"models"`
	DefaultModel   string   `yaml:"default_model" json:"default_model"`
	ProxyURL       string   `yaml:"proxy_url" json:"proxy_url"`

	// Translation settings
	TargetLangs       []string `yaml:"target_langs" json:"target_langs"`
	DefaultTargetLang string   `yaml:"default_target_lang" json:"default_target_lang"`
	DefaultTone       string   `yaml:"default_tone" json:"default_tone"`
	// ChunkBudget is the maximum characters per chunk submitted to the model.
	// It is a tunable, not derived from any model's token limit.
	ChunkBudget int `yaml:"chunk_budget" json:"chunk_budget"`

	// Upload and session settings
	MaxUploadMB   int `yaml:"max_upload_mb" json:"max_upload_mb"`
	SessionTTLMin int `yaml:"session_ttl_min" json:"session_ttl_min"`
	HistoryLimit  int `yaml:"history_limit" json:"history_limit"`

	// Upstream retry behaviour
	RetryMax            int  `yaml:"retry_max" json:"retry_max"`
	RetryIntervalSec    int  `yaml:"retry_interval_sec" json:"retry_interval_sec"`
	RetryMaxIntervalSec int  `yaml:"retry_max_interval_sec" json:"retry_max_interval_sec"`
	RetryOn5xx          bool `yaml:"retry_on_5xx" json:"retry_on_5xx"`
	RetryOnNetworkError bool `yaml:"retry_on_network_error" json:"retry_on_network_error"`

	// Transport settings
	DialTimeoutSec           int `yaml:"dial_timeout_sec" json:"dial_timeout_sec"`
	TLSHandshakeTimeoutSec   int `yaml:"tls_handshake_timeout_sec" json:"tls_handshake_timeout_sec"`
	ResponseHeaderTimeoutSec int `yaml:"response_header_timeout_sec" json:"response_header_timeout_sec"`
	RequestTimeoutSec        int `yaml:"request_timeout_sec" json:"request_timeout_sec"`

	// Rate limiting (inbound per-client, outbound to the model API)
	RateLimitEnabled bool `yaml:"rate_limit_enabled" json:"rate_limit_enabled"`
	RateLimitRPS     int  `yaml:"rate_limit_rps" json:"rate_limit_rps"`
	RateLimitBurst   int  `yaml:"rate_limit_burst" json:"rate_limit_burst"`
	UpstreamRPS      int  `yaml:"upstream_rps" json:"upstream_rps"`
	UpstreamBurst    int  `yaml:"upstream_burst" json:"upstream_burst"`

	// Management endpoint auth; prefer the bcrypt hash in shared configs.
	ManagementKey     string `yaml:"management_key" json:"management_key"`
	ManagementKeyHash string `yaml:"management_key_hash" json:"management_key_hash"`
}

func defaultConfig() *FileConfig {
	return &FileConfig{
		Port:                     8080,
		GeminiEndpoint:           "https://generativelanguage.googleapis.com",
		Models:                   []string{"gemini-1.5-flash", "gemini-1.5-pro", "gemini-2.0-flash"},
		DefaultModel:             "gemini-1.5-flash",
		TargetLangs:              []string{"Korean", "Vietnamese", "Japanese", "English", "Chinese"},
		DefaultTargetLang:        "Korean",
		DefaultTone:              "default",
		ChunkBudget:              8000,
		MaxUploadMB:              20,
		SessionTTLMin:            120,
		HistoryLimit:             10,
		RetryMax:                 3,
		RetryIntervalSec:         1,
		RetryMaxIntervalSec:      30,
		RetryOn5xx:               true,
		RetryOnNetworkError:      true,
		DialTimeoutSec:           10,
		TLSHandshakeTimeoutSec:   10,
		ResponseHeaderTimeoutSec: 120,
		RequestTimeoutSec:        300,
		RateLimitEnabled:         true,
		RateLimitRPS:             10,
		RateLimitBurst:           20,
		UpstreamRPS:              2,
		UpstreamBurst:            4,
	}
}

// Validate fixes up obviously broken values and rejects unusable ones.
func (c *FileConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.ChunkBudget <= 0 {
		return fmt.Errorf("chunk_budget must be positive, got %d", c.ChunkBudget)
	}
	if strings.TrimSpace(c.GeminiEndpoint) == "" {
		return fmt.Errorf("gemini_endpoint must not be empty")
	}
	c.GeminiEndpoint = strings.TrimRight(strings.TrimSpace(c.GeminiEndpoint), "/")
	if c.DefaultModel == "" && len(c.Models) > 0 {
		c.DefaultModel = c.Models[0]
	}
	if c.MaxUploadMB <= 0 {
		c.MaxUploadMB = 20
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = 10
	}
	if c.SessionTTLMin <= 0 {
		c.SessionTTLMin = 120
	}
	return nil
}

// ModelAllowed reports whether name is in the configured model list. An
// empty list permits any model.
func (c *FileConfig) ModelAllowed(name string) bool {
	if len(c.Models) == 0 {
		return true
	}
	for _, m := range c.Models {
		if m == name {
			return true
		}
	}
	return false
}

// Redacted returns a copy safe to expose over the management API.
func (c *FileConfig) Redacted() *FileConfig {
	out := *c
	if out.GeminiAPIKey != "" {
		out.GeminiAPIKey = "***"
	}
	out.ManagementKey = ""
	out.ManagementKeyHash = ""
	return &out
}
