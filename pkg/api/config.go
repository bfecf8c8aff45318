package api

import (
	"time"

	"github.com/janwilmake/cloudflare-fs/internal/bytesize"
)

// APIConfig configures the REST API HTTP server: the filesystem routes,
// the health endpoints and, when metrics are on, the Prometheus scrape
// endpoint. With Enabled false no server is started at all.
type APIConfig struct {
	// Enabled controls whether the API server is started. A pointer so
	// an absent key (default true) is distinguishable from an explicit
	// false.
	Enabled *bool `mapstructure:"enabled" yaml:"enabled"`

	// Port is the HTTP listen port. Default: 8080.
	Port int `mapstructure:"port" validate:"omitempty,min=1,max=65535" yaml:"port"`

	// ReadTimeout caps reading one request including its body.
	// Zero or negative disables the limit. Default: 10s.
	ReadTimeout time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`

	// WriteTimeout caps writing one response. Default: 10s.
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`

	// IdleTimeout is how long a keep-alive connection may sit idle
	// between requests. Default: 60s.
	IdleTimeout time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`

	// RequestTimeout bounds the handling of a single request, including
	// the database work behind it. Default: 30s.
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`

	// MaxBodySize caps the accepted request body. Accepts human-readable
	// values like "16MB" or "1Gi". Default: 16MB.
	MaxBodySize bytesize.ByteSize `mapstructure:"max_body_size" yaml:"max_body_size"`
}

// IsEnabled reports whether the API server should run; an unset Enabled
// counts as true.
func (c *APIConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// applyDefaults fills in zero values with the documented defaults.
func (c *APIConfig) applyDefaults() {
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 10 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 10 * time.Second
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60 * time.Second
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 30 * time.Second
	}
	if c.MaxBodySize == 0 {
		c.MaxBodySize = 16 * bytesize.MB
	}
}
