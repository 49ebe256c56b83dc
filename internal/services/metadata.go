package services

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/desertthunder/yt2spot/internal/models"
	"github.com/desertthunder/yt2spot/internal/shared"
	ytdl "github.com/kkdai/youtube/v2"
)

// videoFetcher is the part of [ytdl.Client] the extractor uses.
type videoFetcher interface {
	GetVideoContext(ctx context.Context, url string) (*ytdl.Video, error)
}

// MetadataExtractor resolves a song title and artist from a video's watch page.
type MetadataExtractor struct {
	client videoFetcher
}

// NewMetadataExtractor creates an extractor backed by [ytdl.Client]. A nil client uses [http.DefaultClient].
func NewMetadataExtractor(httpClient *http.Client) *MetadataExtractor {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &MetadataExtractor{client: &ytdl.Client{HTTPClient: httpClient}}
}

// ResolveMetadata fetches the entry's video and parses title and primary artist.
//
// Every failure wraps [shared.ErrMetadataUnavailable].
func (m *MetadataExtractor) ResolveMetadata(ctx context.Context, entry models.SourceEntry) (string, string, error) {
	if entry.URL == "" {
		return "", "", fmt.Errorf("%w: entry %q has no video url", shared.ErrMetadataUnavailable, entry.Title)
	}

	video, err := m.client.GetVideoContext(ctx, entry.URL)
	if err != nil {
		return "", "", fmt.Errorf("%w: %s: %v", shared.ErrMetadataUnavailable, entry.URL, err)
	}

	title, artist, ok := ParseSongMetadata(video.Title, video.Description)
	if !ok {
		return "", "", fmt.Errorf("%w: %s: no track or artist in video metadata", shared.ErrMetadataUnavailable, entry.URL)
	}
	return title, artist, nil
}

const providedToYouTube = "Provided to YouTube by"

var (
	titleSeparator = regexp.MustCompile(`\s+[-–—]\s+`)
	titleDecor     = regexp.MustCompile(`(?i)\s*[(\[][^)\]]*(official|video|audio|lyric|visualizer|hd|hq|4k|remaster)[^)\]]*[)\]]`)
	featured       = regexp.MustCompile(`(?i)\s*(?:[(\[]\s*(?:feat|ft|featuring)\b\.?[^)\]]*[)\]]|\s(?:feat|ft|featuring)\b\.?\s.*$)`)
)

// ParseSongMetadata extracts a track title and its primary artist.
//
// Auto-generated uploads describe the song as "Title · Artist · Artist" on the first line after
// "Provided to YouTube by ..."; that block wins. Otherwise an "Artist - Title" video title is split,
// dropping decorations such as "(Official Video)" and featured artists ("feat. X", "ft. X").
func ParseSongMetadata(videoTitle, description string) (title, artist string, ok bool) {
	if title, artist, ok = parseMusicDescription(description); ok {
		return title, artist, true
	}
	return parseVideoTitle(videoTitle)
}

func parseMusicDescription(description string) (string, string, bool) {
	lines := strings.Split(strings.ReplaceAll(description, "\r\n", "\n"), "\n")

	for i, line := range lines {
		if !strings.HasPrefix(strings.TrimSpace(line), providedToYouTube) {
			continue
		}
		for _, next := range lines[i+1:] {
			next = strings.TrimSpace(next)
			if next == "" {
				continue
			}
			parts := strings.Split(next, "·")
			if len(parts) < 2 {
				return "", "", false
			}
			title := strings.TrimSpace(parts[0])
			artist := strings.TrimSpace(parts[1])
			if title == "" || artist == "" {
				return "", "", false
			}
			return title, artist, true
		}
	}
	return "", "", false
}

func parseVideoTitle(videoTitle string) (string, string, bool) {
	parts := titleSeparator.Split(strings.TrimSpace(videoTitle), 2)
	if len(parts) != 2 {
		return "", "", false
	}

	artist := strings.TrimSpace(featured.ReplaceAllString(parts[0], ""))
	title := titleDecor.ReplaceAllString(parts[1], "")
	title = strings.TrimSpace(featured.ReplaceAllString(title, ""))
	if title == "" || artist == "" {
		return "", "", false
	}
	return title, artist, true
}
