// YouTube Data API v3 implementation of [SourceService]
package services

import (
	"context"
	"fmt"

	"github.com/desertthunder/yt2spot/internal/models"
	"github.com/desertthunder/yt2spot/internal/shared"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// PlaylistPageSize is the maxResults sent on every listing call.
const PlaylistPageSize = 50

// YouTubeService implements [SourceService] on top of [youtube.Service].
type YouTubeService struct {
	svc *youtube.Service
}

// NewYouTubeService creates the API client. Callers pass [option.WithTokenSource] or [option.WithHTTPClient].
func NewYouTubeService(ctx context.Context, opts ...option.ClientOption) (*YouTubeService, error) {
	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create youtube client: %v", shared.ErrServiceUnavailable, err)
	}
	return &YouTubeService{svc: svc}, nil
}

func (y *YouTubeService) Name() string {
	return "YouTube"
}

// FindPlaylistID returns the id of the first playlist owned by the authorized user whose title equals name.
//
// Listing stops at the first match; later pages are only requested while nothing has matched.
func (y *YouTubeService) FindPlaylistID(ctx context.Context, name string) (string, error) {
	pageToken := ""
	for {
		call := y.svc.Playlists.List([]string{"snippet"}).
			Mine(true).
			MaxResults(PlaylistPageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return "", fmt.Errorf("%w: failed to list playlists: %v", shared.ErrAPIRequest, err)
		}

		for _, item := range resp.Items {
			if item.Snippet != nil && item.Snippet.Title == name {
				return item.Id, nil
			}
		}

		if resp.NextPageToken == "" {
			return "", fmt.Errorf("%w: no playlist titled %q", shared.ErrPlaylistNotFound, name)
		}
		pageToken = resp.NextPageToken
	}
}

// ListAllEntries pages through the playlist's items and concatenates them in provider order.
func (y *YouTubeService) ListAllEntries(ctx context.Context, playlistID string) ([]models.SourceEntry, error) {
	var entries []models.SourceEntry
	pageToken := ""

	for {
		call := y.svc.PlaylistItems.List([]string{"snippet"}).
			PlaylistId(playlistID).
			MaxResults(PlaylistPageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("%w: failed to list playlist items: %v", shared.ErrAPIRequest, err)
		}

		for _, item := range resp.Items {
			entries = append(entries, toSourceEntry(item, len(entries)))
		}

		if resp.NextPageToken == "" {
			return entries, nil
		}
		pageToken = resp.NextPageToken
	}
}

func toSourceEntry(item *youtube.PlaylistItem, position int) models.SourceEntry {
	entry := models.SourceEntry{Position: position}
	if item.Snippet == nil {
		return entry
	}

	entry.Title = item.Snippet.Title
	if item.Snippet.ResourceId != nil {
		entry.VideoID = item.Snippet.ResourceId.VideoId
		entry.URL = models.WatchURL(entry.VideoID)
	}
	return entry
}
