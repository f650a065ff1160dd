// Package config loads client configuration from YAML.
package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/inkwell-app/inkwell-go/pkg/connection"
	"github.com/inkwell-app/inkwell-go/pkg/transport"
)

// Config is the channel client configuration.
//
// YAML example:
//
//	endpoint: wss://channel.inkwell.app/ws
//	heartbeat_interval: 25s
//	reconnect_delay: 3s
//	handshake: true
//	event_log: ~/.inkwell/channel.cborlog
//	verbose: false
type Config struct {
	// Endpoint is the channel WebSocket URL. Required.
	Endpoint string `yaml:"endpoint"`

	// HeartbeatInterval is the time between keep-alive pings.
	HeartbeatInterval Duration `yaml:"heartbeat_interval"`

	// ReconnectDelay is the flat wait before redialing after a close.
	ReconnectDelay Duration `yaml:"reconnect_delay"`

	// Handshake controls whether workspace_info is sent on open.
	// Defaults to true; nil means unset.
	Handshake *bool `yaml:"handshake"`

	// EventLog is the path of the CBOR event log. Empty disables it.
	EventLog string `yaml:"event_log"`

	// Verbose mirrors channel events to the console.
	Verbose bool `yaml:"verbose"`
}

// Duration is a time.Duration that unmarshals from YAML strings like
// "25s" or "1m30s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Default returns a config with all defaults applied and no endpoint.
func Default() *Config {
	handshake := true
	return &Config{
		HeartbeatInterval: Duration(transport.DefaultHeartbeatInterval),
		ReconnectDelay:    Duration(connection.DefaultReconnectDelay),
		Handshake:         &handshake,
	}
}

// Load reads and validates a YAML config file. Missing fields take
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML config bytes, applies defaults and validates.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults fills unset fields.
func (c *Config) applyDefaults() {
	if c.HeartbeatInterval <= 0 {
		c.HeartbeatInterval = Duration(transport.DefaultHeartbeatInterval)
	}
	if c.ReconnectDelay <= 0 {
		c.ReconnectDelay = Duration(connection.DefaultReconnectDelay)
	}
	if c.Handshake == nil {
		handshake := true
		c.Handshake = &handshake
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint is required")
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("endpoint scheme must be ws or wss, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("endpoint has no host")
	}
	return nil
}

// HandshakeEnabled reports whether the post-open handshake is enabled.
func (c *Config) HandshakeEnabled() bool {
	return c.Handshake == nil || *c.Handshake
}
