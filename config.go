package restclient

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/kbukum/restclient/internal/version"
)

// Config is the file-friendly construction surface for a Client. It covers
// the common cases; the Builder remains the full-fidelity one.
type Config struct {
	// BaseURL is the base URL request paths are resolved against.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout is the request timeout applied to the default transport.
	// Defaults to 30s. Ignored when a custom RequestFactory is installed
	// through the Builder.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Headers are default headers applied to all requests.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// UserAgent overrides the default User-Agent header derived from build
	// information.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = version.UserAgent()
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("restclient: timeout must be positive")
	}
	if c.BaseURL != "" {
		if _, err := url.Parse(c.BaseURL); err != nil {
			return fmt.Errorf("restclient: invalid base url: %w", err)
		}
	}
	return nil
}

// New creates a client from the given configuration.
func New(cfg Config) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b := NewBuilder().
		BaseURL(cfg.BaseURL).
		RequestFactory(NewHTTPRequestFactory(&http.Client{Timeout: cfg.Timeout}))
	for name, value := range cfg.Headers {
		b.DefaultHeader(name, value)
	}
	b.DefaultHeaders(func(h http.Header) {
		h.Set("User-Agent", cfg.UserAgent)
	})
	return b.Build(), nil
}
