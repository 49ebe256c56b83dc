// Spotify Web API implementation of [DestinationService]
package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/desertthunder/yt2spot/internal/models"
	"github.com/desertthunder/yt2spot/internal/shared"
	"github.com/zmb3/spotify/v2"
	"golang.org/x/time/rate"
)

// MaxTracksPerRequest is the Spotify limit on ids per add-items call.
const MaxTracksPerRequest = 100

// SpotifyService implements [DestinationService] on top of [spotify.Client].
type SpotifyService struct {
	client  *spotify.Client
	public  bool
	limiter *rate.Limiter
}

// SpotifyOption configures a [SpotifyService].
type SpotifyOption func(*spotifyOptions)

type spotifyOptions struct {
	public     bool
	searchRate float64
	clientOpts []spotify.ClientOption
}

// WithPublicPlaylists sets the visibility of created playlists. Playlists are public by default.
func WithPublicPlaylists(public bool) SpotifyOption {
	return func(o *spotifyOptions) { o.public = public }
}

// WithSearchRate caps searches per second. Zero or less means unlimited.
func WithSearchRate(perSecond float64) SpotifyOption {
	return func(o *spotifyOptions) { o.searchRate = perSecond }
}

// WithSpotifyBaseURL points the client at another API root, such as a test server.
func WithSpotifyBaseURL(baseURL string) SpotifyOption {
	return func(o *spotifyOptions) {
		o.clientOpts = append(o.clientOpts, spotify.WithBaseURL(baseURL))
	}
}

// NewSpotifyService creates a service that issues requests through httpClient,
// which must already carry the user's token (see [oauth2.Config.Client]).
func NewSpotifyService(httpClient *http.Client, opts ...SpotifyOption) *SpotifyService {
	o := spotifyOptions{public: true}
	for _, opt := range opts {
		opt(&o)
	}

	limit := rate.Inf
	if o.searchRate > 0 {
		limit = rate.Limit(o.searchRate)
	}

	return &SpotifyService{
		client:  spotify.New(httpClient, o.clientOpts...),
		public:  o.public,
		limiter: rate.NewLimiter(limit, 1),
	}
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// SearchQuery builds the field-filtered query used for track lookups.
func SearchQuery(title, artist string) string {
	return fmt.Sprintf("track:%s artist:%s", title, artist)
}

// SearchTrack looks up a single result and accepts it only when its primary artist equals artist exactly.
func (s *SpotifyService) SearchTrack(ctx context.Context, title, artist string) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}

	result, err := s.client.Search(ctx, SearchQuery(title, artist), spotify.SearchTypeTrack, spotify.Limit(1))
	if err != nil {
		return "", fmt.Errorf("%w: search failed: %v", shared.ErrAPIRequest, err)
	}

	if result.Tracks == nil || len(result.Tracks.Tracks) == 0 {
		return "", fmt.Errorf("%w: no results for %q by %q", shared.ErrNoMatchFound, title, artist)
	}

	first := result.Tracks.Tracks[0]
	if len(first.Artists) == 0 || first.Artists[0].Name != artist {
		return "", fmt.Errorf("%w: first result for %q is not by %q", shared.ErrNoMatchFound, title, artist)
	}

	return string(first.ID), nil
}

// CreatePlaylist creates a new playlist for ownerID. Existing playlists with the same name are left alone.
func (s *SpotifyService) CreatePlaylist(ctx context.Context, ownerID, name, description string) (*models.DestinationPlaylist, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: playlist owner", shared.ErrMissingArgument)
	}

	pl, err := s.client.CreatePlaylistForUser(ctx, ownerID, name, description, s.public, false)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create playlist: %v", shared.ErrAPIRequest, err)
	}

	return &models.DestinationPlaylist{
		ID:          string(pl.ID),
		Name:        pl.Name,
		Description: pl.Description,
		Public:      pl.IsPublic,
		URI:         string(pl.URI),
	}, nil
}

// AddTracks inserts ids in order, at most [MaxTracksPerRequest] per call.
//
// An empty ids makes no calls. On failure the returned count says how many chunks were already inserted;
// they are not rolled back.
func (s *SpotifyService) AddTracks(ctx context.Context, playlistID string, ids []string) (int, error) {
	calls := 0
	for _, chunk := range shared.Chunk(ids, MaxTracksPerRequest) {
		trackIDs := make([]spotify.ID, len(chunk))
		for i, id := range chunk {
			trackIDs[i] = spotify.ID(id)
		}

		if _, err := s.client.AddTracksToPlaylist(ctx, spotify.ID(playlistID), trackIDs...); err != nil {
			return calls, fmt.Errorf("%w: failed to add tracks %d-%d: %v",
				shared.ErrAPIRequest, calls*MaxTracksPerRequest+1, calls*MaxTracksPerRequest+len(chunk), err)
		}
		calls++
	}
	return calls, nil
}

// CurrentUserID returns the authorized user's id.
func (s *SpotifyService) CurrentUserID(ctx context.Context) (string, error) {
	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: failed to fetch current user: %v", shared.ErrAPIRequest, err)
	}
	return user.ID, nil
}
