package models

import "fmt"

// SourceEntry is one item of the source playlist.
type SourceEntry struct {
	Title    string // Video title as listed in the playlist
	URL      string // Watch URL handed to the metadata extractor
	VideoID  string
	Position int // Zero-based position in provider order
}

// WatchURL builds the canonical watch URL for a video id.
func WatchURL(videoID string) string {
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID)
}

// SkipReason says why an entry did not produce a destination track.
type SkipReason int

const (
	MetadataUnavailable SkipReason = iota + 1
	NoMatchFound
)

func (r SkipReason) String() string {
	switch r {
	case MetadataUnavailable:
		return "metadata_unavailable"
	case NoMatchFound:
		return "no_match_found"
	default:
		return ""
	}
}

// Outcome is a tagged result: Matched with a track id, or Skipped with a reason.
type Outcome struct {
	trackID string
	reason  SkipReason
}

// Matched returns an outcome carrying a destination track id.
func Matched(trackID string) Outcome { return Outcome{trackID: trackID} }

// Skipped returns an outcome with no track id.
func Skipped(reason SkipReason) Outcome { return Outcome{reason: reason} }

func (o Outcome) IsMatched() bool    { return o.trackID != "" }
func (o Outcome) TrackID() string    { return o.trackID }
func (o Outcome) Reason() SkipReason { return o.reason }

func (o Outcome) String() string {
	if o.IsMatched() {
		return "matched(" + o.trackID + ")"
	}
	return "skipped(" + o.reason.String() + ")"
}

// ResolvedSong is a source entry with parsed metadata and its match outcome.
type ResolvedSong struct {
	SourceURL string
	Position  int    // Position of the first source entry stored under the same key
	Title     string // Track title parsed from the video, not the video title
	Artist    string
	Outcome   Outcome
}

// TrackID returns the destination track id, or "" when the song was not matched.
func (s ResolvedSong) TrackID() string {
	return s.Outcome.TrackID()
}

// Skip records an entry that never became a [ResolvedSong].
type Skip struct {
	Entry  SourceEntry
	Reason SkipReason
	Err    error
}

// DestinationPlaylist is the playlist created on the destination service.
type DestinationPlaylist struct {
	ID          string
	Name        string
	Description string
	Public      bool
	URI         string
}
