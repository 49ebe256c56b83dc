package tasks

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/yt2spot/internal/models"
	"github.com/desertthunder/yt2spot/internal/services"
	"github.com/desertthunder/yt2spot/internal/shared"
)

// GatherResult is the source side of a transfer.
type GatherResult struct {
	PlaylistID string
	Entries    int               // Entries listed in the source playlist
	Index      *models.SongIndex // Resolved songs keyed by video title
	Skipped    []models.Skip     // Entries dropped before reaching the index
	Collisions int               // Entries that replaced an earlier one with the same title
}

// TransferRunResult contains all data from a full transfer.
type TransferRunResult struct {
	Gather   *GatherResult
	Playlist *models.DestinationPlaylist
	Added    int // Track ids inserted
	AddCalls int // Successful insert requests
}

// Matched returns the number of songs with a destination track.
func (r *TransferRunResult) Matched() int {
	if r.Gather == nil {
		return 0
	}
	return len(r.Gather.Index.TrackIDs())
}

// Skips lists every entry that produced no track, ordered by source position.
func (r *TransferRunResult) Skips() []models.Skip {
	if r.Gather == nil {
		return nil
	}

	skips := append([]models.Skip(nil), r.Gather.Skipped...)
	r.Gather.Index.Each(func(key string, song models.ResolvedSong) {
		if song.Outcome.IsMatched() {
			return
		}
		skips = append(skips, models.Skip{
			Entry:  models.SourceEntry{Title: key, URL: song.SourceURL, Position: song.Position},
			Reason: song.Outcome.Reason(),
		})
	})
	slices.SortStableFunc(skips, func(a, b models.Skip) int { return cmp.Compare(a.Entry.Position, b.Entry.Position) })
	return skips
}

// PlaylistEngine transfers a source playlist into a new destination playlist.
type PlaylistEngine struct {
	source   services.SourceService
	resolver services.MetadataResolver
	dest     services.DestinationService
	logger   *log.Logger
}

// NewPlaylistEngine creates an engine. A nil logger discards output.
func NewPlaylistEngine(source services.SourceService, resolver services.MetadataResolver, dest services.DestinationService, logger *log.Logger) *PlaylistEngine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &PlaylistEngine{source: source, resolver: resolver, dest: dest, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *PlaylistEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func (e *PlaylistEngine) ready() error {
	if e.source == nil || e.resolver == nil {
		return fmt.Errorf("%w: source service not initialized", shared.ErrServiceUnavailable)
	}
	if e.dest == nil {
		return fmt.Errorf("%w: destination service not initialized", shared.ErrServiceUnavailable)
	}
	return nil
}

// GatherSongs lists the playlist titled name and resolves every entry to a destination track.
//
// Metadata failures become [models.Skip] records and failed searches become Skipped outcomes.
// Any other error is returned as is.
func (e *PlaylistEngine) GatherSongs(ctx context.Context, name string, progress chan<- ProgressUpdate) (*GatherResult, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}

	e.sendProgress(progress, findPlaylistUpdate(name))
	playlistID, err := e.source.FindPlaylistID(ctx, name)
	if err != nil {
		return nil, err
	}

	entries, err := e.source.ListAllEntries(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	e.logger.Info("listed source playlist", "playlist", name, "id", playlistID, "entries", len(entries))
	e.sendProgress(progress, listEntriesUpdate(playlistID, len(entries)))

	result := &GatherResult{
		PlaylistID: playlistID,
		Entries:    len(entries),
		Index:      models.NewSongIndex(),
	}

	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		outcome, err := e.resolveEntry(ctx, entry, result)
		if err != nil {
			return nil, err
		}
		e.sendProgress(progress, resolveSongUpdate(i+1, len(entries), entry, outcome))
	}

	return result, nil
}

// resolveEntry handles one entry and returns a short description of what happened to it.
func (e *PlaylistEngine) resolveEntry(ctx context.Context, entry models.SourceEntry, result *GatherResult) (string, error) {
	logger := e.logger.With("video", entry.Title)

	title, artist, err := e.resolver.ResolveMetadata(ctx, entry)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		if !errors.Is(err, shared.ErrMetadataUnavailable) {
			return "", err
		}
		logger.Debug("skipping entry", "reason", models.MetadataUnavailable, "error", err)
		result.Skipped = append(result.Skipped, models.Skip{Entry: entry, Reason: models.MetadataUnavailable, Err: err})
		return models.MetadataUnavailable.String(), nil
	}

	song := models.ResolvedSong{SourceURL: entry.URL, Position: entry.Position, Title: title, Artist: artist}

	trackID, err := e.dest.SearchTrack(ctx, title, artist)
	switch {
	case err == nil:
		song.Outcome = models.Matched(trackID)
	case errors.Is(err, shared.ErrNoMatchFound):
		logger.Debug("no match", "title", title, "artist", artist)
		song.Outcome = models.Skipped(models.NoMatchFound)
	default:
		return "", err
	}

	if result.Index.Set(entry.Title, song) {
		result.Collisions++
		logger.Warn("duplicate video title, replacing earlier entry")
	}
	return song.Outcome.String(), nil
}

// Run gathers the source playlist, creates the destination playlist and fills it.
//
// An empty ownerID is resolved through [services.DestinationService.CurrentUserID]. When adding tracks fails
// the partial result is returned along with the error; tracks already added stay in the playlist.
func (e *PlaylistEngine) Run(ctx context.Context, name, description, ownerID string, progress chan<- ProgressUpdate) (*TransferRunResult, error) {
	gathered, err := e.GatherSongs(ctx, name, progress)
	if err != nil {
		return nil, err
	}

	result := &TransferRunResult{Gather: gathered}

	if ownerID == "" {
		if ownerID, err = e.dest.CurrentUserID(ctx); err != nil {
			return nil, err
		}
		e.logger.Debug("resolved playlist owner", "user", ownerID)
	}

	playlist, err := e.dest.CreatePlaylist(ctx, ownerID, name, description)
	if err != nil {
		return nil, err
	}
	result.Playlist = playlist
	e.logger.Info("created playlist", "name", playlist.Name, "id", playlist.ID)
	e.sendProgress(progress, createPlaylistUpdate(playlist))

	ids := gathered.Index.TrackIDs()
	calls, err := e.dest.AddTracks(ctx, playlist.ID, ids)
	result.AddCalls = calls
	result.Added = min(calls*services.MaxTracksPerRequest, len(ids))
	if err != nil {
		return result, err
	}

	e.logger.Info("added tracks", "tracks", len(ids), "requests", calls, "skipped", len(result.Skips()))
	e.sendProgress(progress, addTracksUpdate(len(ids), calls))
	return result, nil
}
