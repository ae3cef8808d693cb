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

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	LLM       LLMConfig       `yaml:"llm"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Streaming StreamingConfig `yaml:"streaming"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Identity  IdentityConfig  `yaml:"identity"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
	Retry        RetryConfig     `yaml:"retry"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for idempotent requests.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// LLMConfig contains ChatGPT/OpenAI compatible settings.
type LLMConfig struct {
	APIKey      string  `yaml:"apiKey"`
	BaseURL     string  `yaml:"baseUrl"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
}

// CatalogConfig holds TMDB connection settings.
type CatalogConfig struct {
	APIKey     string `yaml:"apiKey"`
	APIBaseURL string `yaml:"apiBaseUrl"`
}

// StreamingConfig holds the streaming availability provider settings.
type StreamingConfig struct {
	APIKey  string `yaml:"apiKey"`
	APIHost string `yaml:"apiHost"`
	Country string `yaml:"country"`
}

// DiscoveryConfig controls the recommendation pipeline.
type DiscoveryConfig struct {
	Prompt          string         `yaml:"prompt"`
	MaxCandidates   int            `yaml:"maxCandidates"`
	HistoryLimit    int            `yaml:"historyLimit"`
	PosterBaseURL   string         `yaml:"posterBaseUrl"`
	BackdropBaseURL string         `yaml:"backdropBaseUrl"`
	Postgres        PostgresConfig `yaml:"postgres"`
}

// PostgresConfig contains DSN and pooling settings for the session store.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	Database string `yaml:"database"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// IdentityConfig drives the optional bearer identity middleware.
type IdentityConfig struct {
	Secret string `yaml:"secret"`
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
	if v := os.Getenv("LLM_API_KEY"); v != "" {
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
	if v := os.Getenv("TMDB_API_KEY"); v != "" {
		cfg.Catalog.APIKey = v
	}
	if v := os.Getenv("TMDB_API_BASE_URL"); v != "" {
		cfg.Catalog.APIBaseURL = v
	}
	if v := os.Getenv("STREAMING_API_KEY"); v != "" {
		cfg.Streaming.APIKey = v
	}
	if v := os.Getenv("STREAMING_API_HOST"); v != "" {
		cfg.Streaming.APIHost = v
	}
	if v := os.Getenv("STREAMING_COUNTRY"); v != "" {
		cfg.Streaming.Country = v
	}
	if v := os.Getenv("DISCOVERY_PROMPT"); v != "" {
		cfg.Discovery.Prompt = v
	}
	if v := os.Getenv("DISCOVERY_MAX_CANDIDATES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Discovery.MaxCandidates = parsed
		}
	}
	if v := os.Getenv("DISCOVERY_HISTORY_LIMIT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Discovery.HistoryLimit = parsed
		}
	}
	if v := os.Getenv("DISCOVERY_POSTGRES_DSN"); v != "" {
		cfg.Discovery.Postgres.DSN = v
	}
	if v := os.Getenv("DISCOVERY_DB_NAME"); v != "" {
		cfg.Discovery.Postgres.Database = v
	}
	if v := os.Getenv("DISCOVERY_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Discovery.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("DISCOVERY_POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Discovery.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("IDENTITY_SECRET"); v != "" {
		cfg.Identity.Secret = v
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = v == "1" || strings.EqualFold(v, "true")
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
	if v := os.Getenv("HTTP_RETRY_ENABLED"); v != "" {
		cfg.HTTP.Retry.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("HTTP_RETRY_MAX_ATTEMPTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.Retry.MaxAttempts = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_BASE_BACKOFF"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.Retry.BaseBackoff = parsed
		}
	}
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8001",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
			Retry: RetryConfig{
				Enabled:     false,
				MaxAttempts: 3,
				BaseBackoff: 150 * time.Millisecond,
				Exclude: []string{
					"/api/recommendations",
				},
			},
		},
		LLM: LLMConfig{
			Model:       "gpt-4o-mini",
			Temperature: 0.7,
		},
		Catalog: CatalogConfig{
			APIBaseURL: "https://api.themoviedb.org/3",
		},
		Streaming: StreamingConfig{
			APIHost: "streaming-availability.p.rapidapi.com",
			Country: "us",
		},
		Discovery: DiscoveryConfig{
			Prompt:          defaultCuratorPrompt,
			MaxCandidates:   5,
			HistoryLimit:    10,
			PosterBaseURL:   "https://image.tmdb.org/t/p/w500",
			BackdropBaseURL: "https://image.tmdb.org/t/p/w1280",
			Postgres: PostgresConfig{
				Database: "poppy_database",
				MaxConns: 4,
			},
		},
	}
}

const defaultCuratorPrompt = "You are Poppy, an expert entertainment curator who understands user moods and vibes to provide personalized movie and TV show recommendations. When users describe their mood, vibe, or situation (like 'cozy rainy evening', 'action-packed weekend', 'need something to cry to', 'fun family night'), interpret their emotional state and context, then provide 5 specific movie/TV recommendations that match their vibe, each with a 1-2 sentence reason. Be creative, empathetic, and focus on the emotional connection between the user's mood and the content. Consider pacing, tone, themes, and the overall feeling of the content."

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm.model cannot be empty")
	}
	if c.Catalog.APIBaseURL == "" {
		return errors.New("catalog.apiBaseUrl cannot be empty")
	}
	if c.Streaming.APIHost == "" {
		return errors.New("streaming.apiHost cannot be empty")
	}
	if c.Streaming.Country == "" {
		return errors.New("streaming.country cannot be empty")
	}
	if strings.TrimSpace(c.Discovery.Prompt) == "" {
		return errors.New("discovery.prompt cannot be empty")
	}
	if c.Discovery.MaxCandidates <= 0 {
		return errors.New("discovery.maxCandidates must be positive")
	}
	if c.Discovery.HistoryLimit <= 0 {
		return errors.New("discovery.historyLimit must be positive")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	return nil
}
