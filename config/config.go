// Package config assembles the effective runtime configuration from flags,
// environment variables, the config file, and built-in defaults, in that
// precedence order.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OutputFormat selects how command results are rendered.
type OutputFormat string

const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
	OutputYAML OutputFormat = "yaml"
)

// IsValid reports whether the format is one of the supported values.
func (f OutputFormat) IsValid() bool {
	switch f {
	case OutputText, OutputJSON, OutputYAML:
		return true
	}
	return false
}

func (f OutputFormat) String() string {
	return string(f)
}

// Built-in defaults.
const (
	DefaultAPIBaseURL = "https://api.granola.ai/v1"
	DefaultFetchLimit = 500
)

// Environment variables recognized by Load.
const (
	EnvSyncFolder   = "GRANOLA_SYNC_FOLDER"
	EnvAPIURL       = "GRANOLA_API_URL"
	EnvAuthFile     = "GRANOLA_AUTH_FILE"
	EnvOutputFormat = "GRANOLA_OUTPUT_FORMAT"

	// EnvConfigDir relocates the config directory, mainly for tests.
	EnvConfigDir = "GRANOLA_CONFIG_DIR"
)

// Config is the effective runtime configuration.
type Config struct {
	// StorageRoot is where meeting directories live.
	StorageRoot string
	// APIBaseURL is the Granola API endpoint prefix.
	APIBaseURL string
	// AuthFilePath is the desktop app's auth file.
	AuthFilePath string
	// OutputFormat is the default rendering for command results.
	OutputFormat OutputFormat
	// FetchLimit caps how many documents a sync requests.
	FetchLimit int

	Quiet bool
	Debug bool
}

// fileConfig is the on-disk config file schema. Unknown keys are ignored.
type fileConfig struct {
	Storage string `json:"storage"`
}

// ConfigDir returns the directory holding the config file, honoring the
// EnvConfigDir override.
func ConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "granola")
	}
	return filepath.Join(home, ".config", "granola")
}

// ConfigPath returns the config file path.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.json")
}

// DefaultAuthFilePath returns where the desktop app keeps its auth file.
func DefaultAuthFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, "Library", "Application Support", "Granola", "supabase.json")
}

// defaultStorageRoot is the storage location used when nothing else names
// one.
func defaultStorageRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, "Documents", "granola-meetings")
}

// Load builds the effective configuration. storageOverride is the value of
// the --storage flag; an empty string means the flag was not set. Storage
// precedence is flag, then environment, then the config file, then the
// default under the home directory. A corrupt config file is treated as
// absent.
func Load(storageOverride string) *Config {
	cfg := &Config{
		APIBaseURL:   DefaultAPIBaseURL,
		AuthFilePath: DefaultAuthFilePath(),
		OutputFormat: OutputText,
		FetchLimit:   DefaultFetchLimit,
	}

	switch {
	case storageOverride != "":
		cfg.StorageRoot = ExpandPath(storageOverride)
	case os.Getenv(EnvSyncFolder) != "":
		cfg.StorageRoot = ExpandPath(os.Getenv(EnvSyncFolder))
	default:
		cfg.StorageRoot = defaultStorageRoot()
		if data, err := os.ReadFile(ConfigPath()); err == nil {
			var fc fileConfig
			if err := json.Unmarshal(data, &fc); err == nil && fc.Storage != "" {
				cfg.StorageRoot = ExpandPath(fc.Storage)
			}
		}
	}

	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv(EnvAuthFile); v != "" {
		cfg.AuthFilePath = ExpandPath(v)
	}
	if v := os.Getenv(EnvOutputFormat); v != "" {
		if f := OutputFormat(v); f.IsValid() {
			cfg.OutputFormat = f
		}
	}

	return cfg
}

// Validate checks the assembled configuration for values no command could
// work with.
func (c *Config) Validate() error {
	if c.StorageRoot == "" {
		return fmt.Errorf("storage root is empty")
	}
	if c.APIBaseURL == "" {
		return fmt.Errorf("API base URL is empty")
	}
	if !c.OutputFormat.IsValid() {
		return fmt.Errorf("invalid output format %q (want text, json, or yaml)", c.OutputFormat)
	}
	if c.FetchLimit <= 0 {
		return fmt.Errorf("fetch limit must be positive, got %d", c.FetchLimit)
	}
	return nil
}

// SaveStorage writes the storage root to the config file, creating the
// config directory if needed. Other keys in an existing file are preserved.
func SaveStorage(path string) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	// Round-trip the existing file as a generic map so unknown keys
	// survive.
	contents := map[string]json.RawMessage{}
	if data, err := os.ReadFile(ConfigPath()); err == nil {
		_ = json.Unmarshal(data, &contents)
	}
	encoded, err := json.Marshal(ExpandPath(path))
	if err != nil {
		return fmt.Errorf("encoding storage path: %w", err)
	}
	contents["storage"] = encoded

	data, err := json.MarshalIndent(contents, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(ConfigPath(), append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
