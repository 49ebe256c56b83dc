// Package services adapts the source and destination provider APIs to the small interfaces the transfer needs.
//
// # Source
//
// [YouTubeService] wraps the YouTube Data API v3 client. It finds a playlist owned by the authorized user
// by exact title and pages through its items 50 at a time, following nextPageToken until the provider stops returning one.
//
// [MetadataExtractor] fetches each video with kkdai/youtube and parses the track title and primary artist
// from the "Provided to YouTube by" block that auto-generated music uploads carry,
// falling back to an "Artist - Title" video title.
//
// # Destination
//
// [SpotifyService] wraps zmb3/spotify. It searches with a single "track:<title> artist:<artist>" query,
// accepting the first result only when its primary artist equals the requested artist exactly.
// Playlists are always created fresh; tracks are inserted in chunks of [MaxTracksPerRequest].
//
// # Error Handling
//
// Services wrap provider failures with sentinel errors from the shared package:
//   - [shared.ErrAPIRequest] : upstream call failed
//   - [shared.ErrPlaylistNotFound] : no owned playlist has the requested title
//   - [shared.ErrMetadataUnavailable] : the extractor could not produce title and artist
//   - [shared.ErrNoMatchFound] : search produced no acceptable track
package services
