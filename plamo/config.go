package plamo

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Defaults target a stock LM Studio local server with the GGUF build loaded
// and an empty prompt template.
const (
	DefaultBaseURL = "http://localhost:1234/v1"
	DefaultModel   = "mmnga/plamo-2-translate-gguf"
	DefaultTimeout = 30 * time.Second
)

const envPrefix = "PLAMO_"

// Config identifies the completions endpoint and the model served there.
// Zero fields fall back to the Default* constants.
type Config struct {
	BaseURL string        `env:"BASE_URL"`
	Model   string        `env:"MODEL"`
	Timeout time.Duration `env:"TIMEOUT"`
}

// NewConfig returns a Config, substituting the defaults for zero values.
func NewConfig(baseURL, model string, timeout time.Duration) *Config {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &Config{
		BaseURL: baseURL,
		Model:   model,
		Timeout: timeout,
	}
}

// LoadConfig reads PLAMO_BASE_URL, PLAMO_MODEL and PLAMO_TIMEOUT from the
// environment. Unset variables take the defaults.
func LoadConfig(ctx context.Context) (*Config, error) {
	return loadConfig(ctx, envconfig.OsLookuper())
}

func loadConfig(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	cfg := &Config{}
	err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   cfg,
		Lookuper: envconfig.PrefixLookuper(envPrefix, lookuper),
	})
	if err != nil {
		return nil, &ConfigurationError{Field: "env", Err: err}
	}

	return NewConfig(cfg.BaseURL, cfg.Model, cfg.Timeout), nil
}

// validate normalizes the base URL and rejects structurally invalid values.
func (c Config) validate() (Config, error) {
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")

	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return c, &ConfigurationError{Field: "base_url", Value: c.BaseURL, Err: err}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return c, &ConfigurationError{Field: "base_url", Value: c.BaseURL, Reason: "scheme must be http or https"}
	}
	if u.Host == "" {
		return c, &ConfigurationError{Field: "base_url", Value: c.BaseURL, Reason: "missing host"}
	}

	if strings.TrimSpace(c.Model) == "" {
		return c, &ConfigurationError{Field: "model", Reason: "must not be empty"}
	}

	if c.Timeout <= 0 {
		return c, &ConfigurationError{Field: "timeout", Value: c.Timeout.String(), Reason: "must be positive"}
	}

	return c, nil
}
