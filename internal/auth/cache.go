package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
)

// TokenCache stores one JSON token file per cache key in a directory.
type TokenCache struct {
	dir string
}

func NewTokenCache(dir string) *TokenCache {
	return &TokenCache{dir: dir}
}

// Path returns the file backing key.
func (c *TokenCache) Path(key string) string {
	return filepath.Join(c.dir, key+"_token.json")
}

// Load returns the cached token for key, or nil when none is stored.
func (c *TokenCache) Load(key string) (*oauth2.Token, error) {
	data, err := os.ReadFile(c.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read token cache: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token cache %s: %w", c.Path(key), err)
	}
	return &token, nil
}

// Save writes token with owner-only permissions.
func (c *TokenCache) Save(key string, token *oauth2.Token) error {
	if err := os.MkdirAll(c.dir, 0o700); err != nil {
		return fmt.Errorf("failed to create token cache dir: %w", err)
	}

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if err := os.WriteFile(c.Path(key), data, 0o600); err != nil {
		return fmt.Errorf("failed to write token cache: %w", err)
	}
	return nil
}

// Delete removes the cached token for key.
func (c *TokenCache) Delete(key string) error {
	if err := os.Remove(c.Path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete token cache: %w", err)
	}
	return nil
}

// cachingSource writes every new token from base back to the cache.
type cachingSource struct {
	base   oauth2.TokenSource
	cache  *TokenCache
	key    string
	logger *log.Logger

	mu   sync.Mutex
	last string
}

func (s *cachingSource) Token() (*oauth2.Token, error) {
	token, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if token.AccessToken != s.last {
		s.last = token.AccessToken
		if err := s.cache.Save(s.key, token); err != nil {
			s.logger.Warn("failed to cache token", "key", s.key, "error", err)
		}
	}
	return token, nil
}
