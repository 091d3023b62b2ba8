package obsidian

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Protocols accepted by the Local REST API plugin.
const (
	ProtocolHTTP  = "http"
	ProtocolHTTPS = "https"
)

// Config holds the connection settings for the vault REST API.
// It is built once at startup and never mutated afterwards.
type Config struct {
	Protocol       string        `yaml:"protocol"`
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	APIKey         string        `yaml:"api_key"`
	VerifyTLS      bool          `yaml:"verify_tls"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
}

// DefaultConfig returns the settings used by the plugin out of the box.
func DefaultConfig() Config {
	return Config{
		Protocol:       ProtocolHTTPS,
		Host:           "127.0.0.1",
		Port:           27124,
		VerifyTLS:      false,
		ConnectTimeout: 3 * time.Second,
		ReadTimeout:    6 * time.Second,
	}
}

// BaseURL returns the REST API root, e.g. https://127.0.0.1:27124.
func (c Config) BaseURL() string {
	return fmt.Sprintf("%s://%s:%d", c.Protocol, c.Host, c.Port)
}

// Validate validates the connection settings.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.APIKey, validation.Required.Error("OBSIDIAN_API_KEY is required")),
		validation.Field(&c.Protocol, validation.Required, validation.In(ProtocolHTTP, ProtocolHTTPS)),
		validation.Field(&c.Host, validation.Required),
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.ConnectTimeout, validation.Min(time.Duration(0))),
		validation.Field(&c.ReadTimeout, validation.Min(time.Duration(0))),
	)
}
