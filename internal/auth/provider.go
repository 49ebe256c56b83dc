package auth

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/yt2spot/internal/shared"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/youtube/v3"
)

// Cache keys for the two services.
const (
	KeyYouTube = "youtube"
	KeySpotify = "spotify"
)

// DefaultSpotifyScopes lets the token create playlists and add tracks to them.
var DefaultSpotifyScopes = []string{
	spotifyauth.ScopePlaylistModifyPublic,
	spotifyauth.ScopePlaylistModifyPrivate,
	spotifyauth.ScopeUserReadEmail,
	spotifyauth.ScopeUserLibraryModify,
	spotifyauth.ScopePlaylistReadPrivate,
}

// Provider acquires token sources for both services from explicit configuration.
type Provider struct {
	config *shared.Config
	flow   Flow
	cache  *TokenCache
	logger *log.Logger
}

// ProviderOption configures a [Provider].
type ProviderOption func(*Provider)

// WithFlow replaces the flow chosen by auth.flow.
func WithFlow(flow Flow) ProviderOption {
	return func(p *Provider) { p.flow = flow }
}

// WithTokenCache replaces the cache in auth.token_cache_dir. A nil cache disables caching.
func WithTokenCache(cache *TokenCache) ProviderOption {
	return func(p *Provider) { p.cache = cache }
}

// NewProvider creates a provider for config. Interactive flows prompt on stdin and print to stderr.
func NewProvider(config *shared.Config, logger *log.Logger, opts ...ProviderOption) *Provider {
	p := &Provider{config: config, logger: logger}

	switch config.Auth.Flow {
	case shared.FlowBrowser:
		p.flow = &CallbackFlow{Out: os.Stderr, Logger: logger}
	default:
		p.flow = &ConsoleFlow{In: os.Stdin, Out: os.Stderr}
	}

	if dir := config.Auth.TokenCacheDir; dir != "" {
		p.cache = NewTokenCache(shared.ExpandHome(dir))
	}

	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SourceConfig reads the Google client secret descriptor with the read-only YouTube scope.
func (p *Provider) SourceConfig() (*oauth2.Config, error) {
	path := shared.ExpandHome(p.config.Credentials.YouTube.ClientSecretFile)
	if path == "" {
		return nil, fmt.Errorf("%w: credentials.youtube.client_secret_file is not set", shared.ErrAuthFailed)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read client secret: %v", shared.ErrAuthFailed, err)
	}

	conf, err := google.ConfigFromJSON(data, youtube.YoutubeReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid client secret %s: %v", shared.ErrAuthFailed, path, err)
	}
	return conf, nil
}

// DestinationConfig builds the Spotify authorization code config. Empty scopes use [DefaultSpotifyScopes].
func (p *Provider) DestinationConfig(scopes []string) (*oauth2.Config, error) {
	creds := p.config.Credentials.Spotify

	var missing []string
	if creds.ClientID == "" {
		missing = append(missing, "client_id")
	}
	if creds.ClientSecret == "" {
		missing = append(missing, "client_secret")
	}
	if creds.RedirectURI == "" {
		missing = append(missing, "redirect_uri")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: credentials.spotify %s not set", shared.ErrAuthFailed, strings.Join(missing, ", "))
	}

	if len(scopes) == 0 {
		scopes = DefaultSpotifyScopes
	}

	return &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  creds.RedirectURI,
		Scopes:       scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyauth.AuthURL,
			TokenURL: spotifyauth.TokenURL,
		},
	}, nil
}

// AcquireSourceCredentials returns a token source for the YouTube Data API.
func (p *Provider) AcquireSourceCredentials(ctx context.Context) (oauth2.TokenSource, error) {
	conf, err := p.SourceConfig()
	if err != nil {
		return nil, err
	}
	return p.acquire(ctx, KeyYouTube, conf)
}

// AcquireDestinationToken returns a token source for the Spotify Web API. Tokens are cached per userID.
func (p *Provider) AcquireDestinationToken(ctx context.Context, userID string, scopes []string) (oauth2.TokenSource, error) {
	conf, err := p.DestinationConfig(scopes)
	if err != nil {
		return nil, err
	}

	key := KeySpotify
	if userID != "" {
		key += "-" + userID
	}
	return p.acquire(ctx, key, conf)
}

func (p *Provider) acquire(ctx context.Context, key string, conf *oauth2.Config) (oauth2.TokenSource, error) {
	logger := p.logger.With("service", key)

	if ts, ok := p.fromCache(ctx, key, conf, logger); ok {
		return ts, nil
	}

	logger.Info("authorization required")
	token, err := p.flow.AcquireToken(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrAuthFailed, key, err)
	}

	ts := p.wrap(key, conf.TokenSource(ctx, token))
	if _, err := ts.Token(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrAuthFailed, key, err)
	}
	return ts, nil
}

// fromCache reuses a cached token when it is still valid or its refresh succeeds.
func (p *Provider) fromCache(ctx context.Context, key string, conf *oauth2.Config, logger *log.Logger) (oauth2.TokenSource, bool) {
	if p.cache == nil {
		return nil, false
	}

	cached, err := p.cache.Load(key)
	if err != nil {
		logger.Warn("ignoring unreadable token cache", "error", err)
		return nil, false
	}
	if cached == nil || (!cached.Valid() && cached.RefreshToken == "") {
		return nil, false
	}

	ts := p.wrap(key, conf.TokenSource(ctx, cached))
	if _, err := ts.Token(); err != nil {
		logger.Warn("cached token could not be refreshed", "error", err)
		return nil, false
	}

	logger.Debug("using cached token", "path", p.cache.Path(key))
	return ts, true
}

func (p *Provider) wrap(key string, ts oauth2.TokenSource) oauth2.TokenSource {
	if p.cache == nil {
		return ts
	}
	return &cachingSource{base: ts, cache: p.cache, key: key, logger: p.logger}
}
