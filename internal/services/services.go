package services

import (
	"context"

	"github.com/desertthunder/yt2spot/internal/models"
)

// SourceService lists playlists and their entries on the video service.
type SourceService interface {
	// FindPlaylistID returns the id of the first owned playlist titled exactly name.
	FindPlaylistID(ctx context.Context, name string) (string, error)

	// ListAllEntries returns every item of the playlist in provider order.
	ListAllEntries(ctx context.Context, playlistID string) ([]models.SourceEntry, error)

	Name() string
}

// MetadataResolver extracts a song title and artist for a source entry.
//
// Any per-entry failure (unavailable video, network error, unsupported URL, no music metadata)
// must wrap [shared.ErrMetadataUnavailable] so the entry is skipped. Other errors abort the transfer.
type MetadataResolver interface {
	ResolveMetadata(ctx context.Context, entry models.SourceEntry) (title, artist string, err error)
}

// DestinationService searches tracks and builds playlists on the music service.
type DestinationService interface {
	// SearchTrack returns the id of the best match or an error wrapping [shared.ErrNoMatchFound].
	SearchTrack(ctx context.Context, title, artist string) (string, error)

	// CreatePlaylist always creates a new playlist owned by ownerID.
	CreatePlaylist(ctx context.Context, ownerID, name, description string) (*models.DestinationPlaylist, error)

	// AddTracks appends ids in order and returns the number of insert calls that succeeded.
	AddTracks(ctx context.Context, playlistID string, ids []string) (int, error)

	// CurrentUserID returns the id of the authorized user.
	CurrentUserID(ctx context.Context) (string, error)

	Name() string
}
