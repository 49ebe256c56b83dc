package shared

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Auth.Flow != FlowConsole {
			t.Errorf("expected auth flow %q, got %q", FlowConsole, config.Auth.Flow)
		}
		if !config.Transfer.Public {
			t.Error("expected playlists to be public by default")
		}
		if config.Transfer.SearchRateLimit != 0 {
			t.Errorf("expected search rate limit 0, got %v", config.Transfer.SearchRateLimit)
		}
		if config.Credentials.YouTube.ClientSecretFile != "client_secret.json" {
			t.Errorf("expected client_secret.json, got %s", config.Credentials.YouTube.ClientSecretFile)
		}
		if config.Credentials.Spotify.RedirectURI != "http://127.0.0.1:8888/callback" {
			t.Errorf("unexpected redirect URI %s", config.Credentials.Spotify.RedirectURI)
		}
		if config.Log.Level != "info" {
			t.Errorf("expected log level info, got %s", config.Log.Level)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}
		if config.Auth.TokenCacheDir != DefaultConfig().Auth.TokenCacheDir {
			t.Errorf("created config token cache dir doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		testConfig := `[credentials.spotify]
user_id = "owner"
client_id = "test_client_id"
client_secret = "test_secret"

[auth]
flow = "browser"

[transfer]
search_rate_limit = 2.5
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Credentials.Spotify.UserID != "owner" {
			t.Errorf("expected user_id owner, got %s", config.Credentials.Spotify.UserID)
		}
		if config.Auth.Flow != FlowBrowser {
			t.Errorf("expected flow browser, got %s", config.Auth.Flow)
		}
		if config.Transfer.SearchRateLimit != 2.5 {
			t.Errorf("expected rate limit 2.5, got %v", config.Transfer.SearchRateLimit)
		}
		if config.Credentials.Spotify.RedirectURI != "http://127.0.0.1:8888/callback" {
			t.Errorf("expected default redirect URI to survive overlay, got %s", config.Credentials.Spotify.RedirectURI)
		}
		if !config.Transfer.Public {
			t.Error("expected default public flag to survive overlay")
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
		if !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("LoadConfig malformed", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[auth\nflow = "), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		if _, err := LoadConfig(configPath); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		c := DefaultConfig()
		c.Credentials.Spotify.ClientID = "id"
		c.Credentials.Spotify.ClientSecret = "secret"
		return c
	}

	tt := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
		field   string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{
			name:    "missing client id",
			mutate:  func(c *Config) { c.Credentials.Spotify.ClientID = "" },
			wantErr: ErrMissingCredentials,
			field:   "client_id",
		},
		{
			name:    "missing client secret",
			mutate:  func(c *Config) { c.Credentials.Spotify.ClientSecret = "" },
			wantErr: ErrMissingCredentials,
			field:   "client_secret",
		},
		{
			name:    "missing descriptor",
			mutate:  func(c *Config) { c.Credentials.YouTube.ClientSecretFile = "" },
			wantErr: ErrMissingCredentials,
			field:   "client_secret_file",
		},
		{
			name:    "unknown flow",
			mutate:  func(c *Config) { c.Auth.Flow = "device" },
			wantErr: ErrInvalidConfig,
			field:   "auth.flow",
		},
		{
			name:    "negative rate",
			mutate:  func(c *Config) { c.Transfer.SearchRateLimit = -1 },
			wantErr: ErrInvalidConfig,
			field:   "search_rate_limit",
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			c := valid()
			tc.mutate(c)

			err := c.Validate()
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if !strings.Contains(err.Error(), tc.field) {
				t.Errorf("expected error to mention %s, got %v", tc.field, err)
			}
		})
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	if got := ExpandHome("~/.yt2spot"); got != filepath.Join(home, ".yt2spot") {
		t.Errorf("expected %s, got %s", filepath.Join(home, ".yt2spot"), got)
	}
	if got := ExpandHome("/abs/path"); got != "/abs/path" {
		t.Errorf("expected absolute path unchanged, got %s", got)
	}
	if got := ExpandHome("~user/x"); got != "~user/x" {
		t.Errorf("expected ~user form unchanged, got %s", got)
	}
}
