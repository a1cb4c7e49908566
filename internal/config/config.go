// Package config loads the voxfolio configuration: service endpoints, the
// session storage backend, walkthrough timing, and logging. Configuration is
// a YAML file with environment overrides for secrets; a missing file yields
// the defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where Load looks when no path is given.
const DefaultPath = "voxfolio.yaml"

// Config holds all voxfolio configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Remote services
	Services ServicesConfig `yaml:"services"`

	// Session storage
	Storage StorageConfig `yaml:"storage"`

	// Walkthrough timing
	Loop LoopConfig `yaml:"loop"`

	// Voice session
	Voice VoiceConfig `yaml:"voice"`

	// Content pack
	Content ContentConfig `yaml:"content"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`

	// Metrics endpoint for the serve command
	Metrics MetricsConfig `yaml:"metrics"`
}

// ServicesConfig configures the remote compiler and narration services. An
// empty URL disables the service; the dispatcher then runs local rules only.
type ServicesConfig struct {
	Compiler  ServiceConfig `yaml:"compiler"`
	Narration ServiceConfig `yaml:"narration"`
}

// ServiceConfig is one HTTP service endpoint.
type ServiceConfig struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
}

// StorageConfig configures the session blob store.
type StorageConfig struct {
	// Backend: sqlite, file, or memory.
	Backend string `yaml:"backend"`

	// StateDir holds the database or blob files.
	StateDir string `yaml:"state_dir"`
}

// LoopConfig configures the timeline walkthrough.
type LoopConfig struct {
	// Dwell is the pause between walkthrough steps.
	Dwell string `yaml:"dwell"`
}

// VoiceConfig configures the realtime voice session.
type VoiceConfig struct {
	Enabled bool `yaml:"enabled"`

	// CredentialURL mints short-lived session credentials.
	CredentialURL string `yaml:"credential_url"`

	// SDPURL is the offer/answer exchange endpoint.
	SDPURL string `yaml:"sdp_url"`

	// APIKey authenticates the credential mint.
	APIKey string `yaml:"api_key"`
}

// ContentConfig configures the content pack.
type ContentConfig struct {
	// PackPath points at a YAML pack. Empty means the embedded default.
	PackPath string `yaml:"pack_path"`

	// Watch hot-reloads the pack on change.
	Watch bool `yaml:"watch"`
}

// LoggingConfig configures the category file logs.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	Debug bool   `yaml:"debug"`
}

// MetricsConfig configures the metrics listener.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "voxfolio",
		Version: "1.0.0",

		Storage: StorageConfig{
			Backend:  "sqlite",
			StateDir: ".voxfolio",
		},

		Loop: LoopConfig{
			Dwell: "6s",
		},

		Voice: VoiceConfig{
			Enabled: false,
		},

		Content: ContentConfig{
			Watch: true,
		},

		Logging: LoggingConfig{
			Level: "info",
		},

		Metrics: MetricsConfig{
			Addr: "localhost:9187",
		},
	}
}

// Load loads configuration from a YAML file. A missing file returns the
// defaults; environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides. Secrets stay out
// of the config file this way.
func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("VOXFOLIO_COMPILER_URL"); url != "" {
		c.Services.Compiler.URL = url
	}
	if key := os.Getenv("VOXFOLIO_COMPILER_KEY"); key != "" {
		c.Services.Compiler.APIKey = key
	}
	if url := os.Getenv("VOXFOLIO_NARRATION_URL"); url != "" {
		c.Services.Narration.URL = url
	}
	if key := os.Getenv("VOXFOLIO_NARRATION_KEY"); key != "" {
		c.Services.Narration.APIKey = key
	}
	if key := os.Getenv("VOXFOLIO_VOICE_KEY"); key != "" {
		c.Voice.APIKey = key
	}
	if dir := os.Getenv("VOXFOLIO_STATE_DIR"); dir != "" {
		c.Storage.StateDir = dir
	}
	if pack := os.Getenv("VOXFOLIO_PACK"); pack != "" {
		c.Content.PackPath = pack
	}
}

// GetLoopDwell returns the walkthrough dwell as a duration.
func (c *Config) GetLoopDwell() time.Duration {
	d, err := time.ParseDuration(c.Loop.Dwell)
	if err != nil || d <= 0 {
		return 6 * time.Second
	}
	return d
}

// ValidBackends lists the supported session storage backends.
var ValidBackends = []string{"sqlite", "file", "memory"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validBackend := false
	for _, b := range ValidBackends {
		if c.Storage.Backend == b {
			validBackend = true
			break
		}
	}
	if !validBackend {
		return fmt.Errorf("invalid storage backend: %s (valid: %v)", c.Storage.Backend, ValidBackends)
	}

	if c.Voice.Enabled {
		if c.Voice.CredentialURL == "" || c.Voice.SDPURL == "" {
			return fmt.Errorf("voice enabled but credential_url or sdp_url not configured")
		}
	}

	return nil
}

// CompilerEnabled returns whether the remote compiler is configured.
func (c *Config) CompilerEnabled() bool {
	return c.Services.Compiler.URL != ""
}

// NarrationEnabled returns whether the narration service is configured.
func (c *Config) NarrationEnabled() bool {
	return c.Services.Narration.URL != ""
}

// DatabasePath returns the sqlite database location under the state dir.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Storage.StateDir, "voxfolio.db")
}
