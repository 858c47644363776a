package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Supported LLM providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	defaultGeminiModel = "gemini-3-flash-preview"
	defaultOpenAIModel = "gpt-4o-mini"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	LLM     LLMConfig     `yaml:"llm"`
	History HistoryConfig `yaml:"history"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// LLMConfig selects and tunes the mood analysis backend.
type LLMConfig struct {
	Provider    string         `yaml:"provider"`
	APIKey      string         `yaml:"apiKey"`
	BaseURL     string         `yaml:"baseUrl"`
	Model       string         `yaml:"model"`
	Temperature float32        `yaml:"temperature"`
	Timeout     time.Duration  `yaml:"timeout"`
	Retry       LLMRetryConfig `yaml:"retry"`
	CacheTTL    time.Duration  `yaml:"cacheTtl"`
	CacheSize   int            `yaml:"cacheSize"`
}

// LLMRetryConfig bounds retries of temporary transport failures.
type LLMRetryConfig struct {
	Attempts uint          `yaml:"attempts"`
	Delay    time.Duration `yaml:"delay"`
	MaxDelay time.Duration `yaml:"maxDelay"`
}

// HistoryConfig controls where completed analyses are kept.
type HistoryConfig struct {
	Limit    int            `yaml:"limit"`
	Valkey   ValkeyConfig   `yaml:"valkey"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// ValkeyConfig contains connection information for the valkey history list.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Key     string `yaml:"key"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)
	applyProviderDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(v))
	}
	if v := firstEnv("LLM_API_KEY", "API_KEY", "GEMINI_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	if v := os.Getenv("LLM_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.LLM.Timeout = parsed
		}
	}
	if v := os.Getenv("LLM_RETRY_ATTEMPTS"); v != "" {
		if parsed, err := strconv.ParseUint(v, 10, 32); err == nil {
			cfg.LLM.Retry.Attempts = uint(parsed)
		}
	}
	if v := os.Getenv("LLM_CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.LLM.CacheTTL = parsed
		}
	}
	if v := os.Getenv("HISTORY_LIMIT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.History.Limit = parsed
		}
	}
	if v := os.Getenv("HISTORY_VALKEY_ENABLED"); v != "" {
		cfg.History.Valkey.Enabled = parseBool(v)
	}
	if v := os.Getenv("HISTORY_VALKEY_ADDR"); v != "" {
		cfg.History.Valkey.Addr = v
	}
	if v := os.Getenv("HISTORY_POSTGRES_DSN"); v != "" {
		cfg.History.Postgres.DSN = v
	}
	if v := os.Getenv("HISTORY_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.History.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("HISTORY_POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.History.Postgres.MinConns = int32(parsed)
		}
	}
}

func applyProviderDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.LLM.Model) != "" {
		return
	}
	switch cfg.LLM.Provider {
	case ProviderOpenAI:
		cfg.LLM.Model = defaultOpenAIModel
	default:
		cfg.LLM.Model = defaultGeminiModel
	}
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 90 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
		},
		LLM: LLMConfig{
			Provider:    ProviderGemini,
			Temperature: 0.7,
			Timeout:     60 * time.Second,
			Retry: LLMRetryConfig{
				Attempts: 3,
				Delay:    500 * time.Millisecond,
				MaxDelay: 5 * time.Second,
			},
			CacheSize: 256,
		},
		History: HistoryConfig{
			Limit: 20,
			Valkey: ValkeyConfig{
				Key: "mood:history",
			},
			Postgres: PostgresConfig{
				MaxConns: 4,
			},
		},
	}
}

// Validate ensures the configuration is safe to use. A missing API key is
// not an error; analysis calls fail with an auth error instead.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	switch c.LLM.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("llm.provider %q is not supported", c.LLM.Provider)
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm.model cannot be empty")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return errors.New("llm.temperature must be within [0, 2]")
	}
	if c.LLM.Timeout < 0 {
		return errors.New("llm.timeout cannot be negative")
	}
	if c.LLM.Retry.Attempts == 0 {
		return errors.New("llm.retry.attempts must be positive")
	}
	if c.LLM.CacheTTL < 0 {
		return errors.New("llm.cacheTtl cannot be negative")
	}
	if c.LLM.CacheTTL > 0 && c.LLM.CacheSize <= 0 {
		return errors.New("llm.cacheSize must be positive when the cache is enabled")
	}
	if c.History.Limit <= 0 {
		return errors.New("history.limit must be positive")
	}
	if c.History.Valkey.Enabled {
		if strings.TrimSpace(c.History.Valkey.Addr) == "" {
			return errors.New("history.valkey.addr cannot be empty when valkey history is enabled")
		}
		if strings.TrimSpace(c.History.Valkey.Key) == "" {
			return errors.New("history.valkey.key cannot be empty")
		}
	}
	return nil
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return ""
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
