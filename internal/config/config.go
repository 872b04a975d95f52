// Package config provides application configuration with multi-source
// priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (./config.yaml)
//  3. Default values
//
// The commerce backend credentials are the one fatal startup condition:
// Load fails before the service accepts any traffic when they are absent.
// Sensitive fields are masked in MarshalJSON/String.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Sentinel errors for Go-idiomatic checking with errors.Is().
var (
	// ErrMissingStoreHash indicates the commerce store hash is not set.
	ErrMissingStoreHash = errors.New("missing commerce store hash")

	// ErrMissingAccessToken indicates the commerce access token is not set.
	ErrMissingAccessToken = errors.New("missing commerce access token")

	// ErrInvalidAddr indicates the listen address is empty.
	ErrInvalidAddr = errors.New("invalid listen address")

	// ErrInvalidTimeout indicates the agent timeout is out of range.
	ErrInvalidTimeout = errors.New("invalid agent timeout")
)

// Agent timeout bounds. The default matches the orchestrator's policy of
// giving the hosted agent 90 seconds before giving up.
const (
	DefaultAgentTimeout = 90 * time.Second
	MinAgentTimeout     = time.Second
	MaxAgentTimeout     = 10 * time.Minute
)

// Config stores application configuration.
// SECURITY: sensitive fields are explicitly masked in MarshalJSON().
type Config struct {
	// HTTP server
	Addr        string   `mapstructure:"addr" json:"addr"`
	CORSOrigins []string `mapstructure:"cors_origins" json:"cors_origins"`
	TrustProxy  bool     `mapstructure:"trust_proxy" json:"trust_proxy"`
	RateBurst   int      `mapstructure:"rate_burst" json:"rate_burst"`

	// Agent
	ModelName    string        `mapstructure:"model_name" json:"model_name"`
	AgentTimeout time.Duration `mapstructure:"agent_timeout" json:"agent_timeout"`

	// Commerce backend credentials (required)
	StoreHash   string `mapstructure:"store_hash" json:"store_hash"`     // SENSITIVE: masked in MarshalJSON
	AccessToken string `mapstructure:"access_token" json:"access_token"` // SENSITIVE: masked in MarshalJSON

	// Logging
	LogLevel string `mapstructure:"log_level" json:"log_level"`
	LogJSON  bool   `mapstructure:"log_json" json:"log_json"`
}

// Load loads configuration.
// Priority: environment variables > config file > defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	setDefaults(v)
	bindEnvVariables(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults plus env cover everything.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}
	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", "127.0.0.1:8000")
	v.SetDefault("cors_origins", []string{"http://localhost:4200"})
	v.SetDefault("trust_proxy", false)
	v.SetDefault("rate_burst", 60)

	v.SetDefault("model_name", "gemini-2.5-flash")
	v.SetDefault("agent_timeout", DefaultAgentTimeout)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", false)
}

// bindEnvVariables binds environment variables explicitly.
//
// NOTE: GEMINI_API_KEY is read directly by the genai client, not via
// Viper; the agent constructor fails without it.
func bindEnvVariables(v *viper.Viper) {
	// Hardcoded keys cannot fail to bind; a panic here is a bug.
	mustBind := func(key, envVar string) {
		if err := v.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	// Commerce backend credentials (required)
	mustBind("store_hash", "BIGCOMMERCE_STORE_HASH")
	mustBind("access_token", "BIGCOMMERCE_ACCESS_TOKEN")

	// Server overrides
	mustBind("addr", "ASSISTANT_ADDR")
	mustBind("cors_origins", "ASSISTANT_CORS_ORIGINS")
	mustBind("trust_proxy", "ASSISTANT_TRUST_PROXY")
	mustBind("rate_burst", "ASSISTANT_RATE_BURST")

	// Agent overrides
	mustBind("model_name", "ASSISTANT_MODEL_NAME")
	mustBind("agent_timeout", "ASSISTANT_AGENT_TIMEOUT")

	// Logging
	mustBind("log_level", "ASSISTANT_LOG_LEVEL")
	mustBind("log_json", "ASSISTANT_LOG_JSON")
}

// Validate checks the configuration, failing fast on startup.
func (c *Config) Validate() error {
	if c.StoreHash == "" {
		return fmt.Errorf("%w: set BIGCOMMERCE_STORE_HASH", ErrMissingStoreHash)
	}
	if c.AccessToken == "" {
		return fmt.Errorf("%w: set BIGCOMMERCE_ACCESS_TOKEN", ErrMissingAccessToken)
	}
	if c.Addr == "" {
		return ErrInvalidAddr
	}
	if c.AgentTimeout < MinAgentTimeout || c.AgentTimeout > MaxAgentTimeout {
		return fmt.Errorf("%w: %s not in [%s, %s]", ErrInvalidTimeout,
			c.AgentTimeout, MinAgentTimeout, MaxAgentTimeout)
	}
	return nil
}

// maskedValue is the placeholder for masked sensitive data.
const maskedValue = "████████"

// maskSecret masks a secret for safe logging. Short secrets are fully
// masked; longer ones keep the first and last two characters for debug
// utility. This defends against accidental logging, nothing more.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return maskedValue
	}
	return s[:2] + "<" + maskedValue + ">" + s[len(s)-2:]
}

// MarshalJSON implements json.Marshaler with sensitive field masking.
func (c Config) MarshalJSON() ([]byte, error) {
	type alias Config
	a := alias(c)
	a.StoreHash = maskSecret(a.StoreHash)
	a.AccessToken = maskSecret(a.AccessToken)
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// String implements Stringer to prevent accidental printing of secrets.
func (c Config) String() string {
	data, err := c.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("Config{error: %v}", err)
	}
	return string(data)
}
