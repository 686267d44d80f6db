// If you are AI: This file defines the configuration structure for webmcastd.
// It uses strict YAML decoding and explicit defaults.

package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the complete server configuration.
// All fields must have explicit defaults or be required.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Broadcast BroadcastConfig `yaml:"broadcast"`
}

// ServerConfig defines HTTP server settings.
type ServerConfig struct {
	HealthPort int `yaml:"health_port"` // Validated but not bound; /healthz is served on HTTPPort
	HTTPPort   int `yaml:"http_port"`   // Port for the publish/subscribe HTTP service
}

// BroadcastConfig defines the tunables of the broadcast engine: how long a
// stream name stays reserved after its publisher disconnects, how many
// frames a slow subscriber may fall behind before being dropped back to
// WaitKeyframe, and the largest EBML element the parser will buffer.
type BroadcastConfig struct {
	MaxDowntimeSeconds  int   `yaml:"max_downtime_seconds"`
	MaxEnqueuedFrames   int   `yaml:"max_enqueued_frames"`
	MaxElementSizeBytes int64 `yaml:"max_element_size_bytes"`
}

// Load reads configuration from a YAML file.
// Returns an error if the file cannot be read or decoded.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields

	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	// Apply defaults
	cfg.setDefaults()

	return &cfg, nil
}

// setDefaults applies explicit default values to unset fields.
func (c *Config) setDefaults() {
	if c.Server.HealthPort == 0 {
		c.Server.HealthPort = 8080
	}
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8081
	}
	if c.Broadcast.MaxDowntimeSeconds == 0 {
		c.Broadcast.MaxDowntimeSeconds = 10
	}
	if c.Broadcast.MaxEnqueuedFrames == 0 {
		c.Broadcast.MaxEnqueuedFrames = 20
	}
	if c.Broadcast.MaxElementSizeBytes == 0 {
		c.Broadcast.MaxElementSizeBytes = 64 << 20
	}
}
