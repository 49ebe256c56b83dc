package tasks

import (
	"fmt"

	"github.com/desertthunder/yt2spot/internal/models"
)

// ProgressUpdate represents a progress event during a transfer.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Phase of a transfer run.
type Phase int

const (
	FindPlaylist Phase = iota
	ListEntries
	ResolveSongs
	CreatePlaylist
	AddTracks
)

func (p Phase) String() string {
	switch p {
	case FindPlaylist:
		return "find_playlist"
	case ListEntries:
		return "list_entries"
	case ResolveSongs:
		return "resolve_songs"
	case CreatePlaylist:
		return "create_playlist"
	case AddTracks:
		return "add_tracks"
	default:
		return ""
	}
}

func findPlaylistUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FindPlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Looking up playlist %q...", name),
	}
}

func listEntriesUpdate(id string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ListEntries,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found playlist %s (%d videos)", id, count),
	}
}

func resolveSongUpdate(step, total int, entry models.SourceEntry, outcome string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveSongs,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s: %s", step, total, entry.Title, outcome),
		Data:    entry,
	}
}

func createPlaylistUpdate(pl *models.DestinationPlaylist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Playlist created: %s (ID: %s)", pl.Name, pl.ID),
		Data:    pl,
	}
}

func addTracksUpdate(count, calls int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddTracks,
		Step:    calls,
		Total:   calls,
		Message: fmt.Sprintf("Added %d tracks in %d requests", count, calls),
	}
}
