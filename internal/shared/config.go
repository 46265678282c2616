package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API      APIConfig      `toml:"api"`
	OAuth    OAuthConfig    `toml:"oauth"`
	Database DatabaseConfig `toml:"database"`
	Player   PlayerConfig   `toml:"player"`
}

// APIConfig contains settings for the moodtune backend.
type APIConfig struct {
	BaseURL        string  `toml:"base_url"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	RequestsPerSec float64 `toml:"requests_per_sec"`
}

// OAuthConfig contains settings for the local OAuth callback server.
type OAuthConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// PlayerConfig contains settings for track preview playback.
type PlayerConfig struct {
	Command string `toml:"command"`
}

// LoadConfig reads and parses a TOML configuration file from the specified
// path, then applies MOODTUNE_* environment overrides.
//
// A .env file in the working directory is loaded first when present.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnvOverrides(&config)
	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	applyEnvOverrides(&config)
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, ErrInvalidArgument)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyEnvOverrides layers environment variables over file-based settings.
func applyEnvOverrides(config *Config) {
	// Missing .env files are expected; overrides still apply from the
	// process environment.
	_ = godotenv.Load()

	if v := os.Getenv("MOODTUNE_API_URL"); v != "" {
		config.API.BaseURL = v
	}
	if v := os.Getenv("MOODTUNE_API_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			config.API.TimeoutSeconds = secs
		}
	}
	if v := os.Getenv("MOODTUNE_DB_PATH"); v != "" {
		config.Database.Path = v
	}
	if v := os.Getenv("MOODTUNE_PLAYER"); v != "" {
		config.Player.Command = v
	}
}
