package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Authorization flows understood by the credential provider.
const (
	FlowConsole = "console"
	FlowBrowser = "browser"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Auth        AuthConfig        `toml:"auth"`
	Transfer    TransferConfig    `toml:"transfer"`
	Log         LogConfig         `toml:"log"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
	YouTube YouTubeConfig `toml:"youtube"`
}

// SpotifyConfig contains Spotify API credentials and the playlist owner.
type SpotifyConfig struct {
	UserID       string `toml:"user_id"`
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
}

// YouTubeConfig points at the Google OAuth client descriptor.
type YouTubeConfig struct {
	ClientSecretFile string `toml:"client_secret_file"`
}

// AuthConfig selects the interactive flow and where provider tokens are cached.
type AuthConfig struct {
	Flow          string `toml:"flow"`
	TokenCacheDir string `toml:"token_cache_dir"`
}

// TransferConfig tunes the transfer itself.
type TransferConfig struct {
	Public          bool    `toml:"public"`
	SearchRateLimit float64 `toml:"search_rate_limit"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// LoadConfig reads a TOML configuration file from path and overlays it on [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate reports missing credentials and out-of-range settings.
func (c *Config) Validate() error {
	var missing []string
	if c.Credentials.Spotify.ClientID == "" {
		missing = append(missing, "credentials.spotify.client_id")
	}
	if c.Credentials.Spotify.ClientSecret == "" {
		missing = append(missing, "credentials.spotify.client_secret")
	}
	if c.Credentials.Spotify.RedirectURI == "" {
		missing = append(missing, "credentials.spotify.redirect_uri")
	}
	if c.Credentials.YouTube.ClientSecretFile == "" {
		missing = append(missing, "credentials.youtube.client_secret_file")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}

	switch c.Auth.Flow {
	case FlowConsole, FlowBrowser:
	default:
		return fmt.Errorf("%w: auth.flow must be %q or %q, got %q", ErrInvalidConfig, FlowConsole, FlowBrowser, c.Auth.Flow)
	}

	if c.Transfer.SearchRateLimit < 0 {
		return fmt.Errorf("%w: transfer.search_rate_limit must not be negative", ErrInvalidConfig)
	}

	return nil
}

// ExpandHome replaces a leading "~" in path with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
