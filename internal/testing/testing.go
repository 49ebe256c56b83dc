// package testing contains shared test doubles and file helpers
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/desertthunder/yt2spot/internal/models"
	"github.com/desertthunder/yt2spot/internal/shared"
)

// FakePlaylist is a playlist known to [FakeSource].
type FakePlaylist struct {
	ID    string
	Title string
}

// FakeSource is a test double for [services.SourceService].
type FakeSource struct {
	Playlists []FakePlaylist
	Entries   map[string][]models.SourceEntry // keyed by playlist id
	FindErr   error
	ListErr   error
	ListCalls int
}

func (f *FakeSource) Name() string { return "fake-source" }

func (f *FakeSource) FindPlaylistID(ctx context.Context, name string) (string, error) {
	if f.FindErr != nil {
		return "", f.FindErr
	}
	for _, p := range f.Playlists {
		if p.Title == name {
			return p.ID, nil
		}
	}
	return "", fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, name)
}

func (f *FakeSource) ListAllEntries(ctx context.Context, playlistID string) ([]models.SourceEntry, error) {
	f.ListCalls++
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return f.Entries[playlistID], nil
}

// Song is a parsed title and artist.
type Song struct {
	Title  string
	Artist string
}

// FakeResolver is a test double for [services.MetadataResolver]. URLs missing from Songs are unavailable.
type FakeResolver struct {
	Songs map[string]Song
	Err   error // returned unwrapped for every entry when set
	Calls []string
}

func (f *FakeResolver) ResolveMetadata(ctx context.Context, entry models.SourceEntry) (string, string, error) {
	f.Calls = append(f.Calls, entry.URL)
	if f.Err != nil {
		return "", "", f.Err
	}
	s, ok := f.Songs[entry.URL]
	if !ok {
		return "", "", fmt.Errorf("%w: %s", shared.ErrMetadataUnavailable, entry.URL)
	}
	return s.Title, s.Artist, nil
}

// FakeDestination is a test double for [services.DestinationService].
//
// Searches hit Tracks; insert calls are recorded in AddCalls and split like the real service.
type FakeDestination struct {
	Tracks    map[Song]string
	SearchErr error
	CreateErr error
	FailAddAt int // 1-based insert call that fails, 0 for never
	UserID    string

	Searches []Song
	Created  []*models.DestinationPlaylist
	Owners   []string
	AddCalls [][]string
}

func (f *FakeDestination) Name() string { return "fake-destination" }

func (f *FakeDestination) SearchTrack(ctx context.Context, title, artist string) (string, error) {
	song := Song{Title: title, Artist: artist}
	f.Searches = append(f.Searches, song)
	if f.SearchErr != nil {
		return "", f.SearchErr
	}
	if id, ok := f.Tracks[song]; ok {
		return id, nil
	}
	return "", fmt.Errorf("%w: %s by %s", shared.ErrNoMatchFound, title, artist)
}

func (f *FakeDestination) CreatePlaylist(ctx context.Context, ownerID, name, description string) (*models.DestinationPlaylist, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: playlist owner", shared.ErrMissingArgument)
	}
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}

	id := fmt.Sprintf("pl-%d", len(f.Created)+1)
	pl := &models.DestinationPlaylist{
		ID:          id,
		Name:        name,
		Description: description,
		Public:      true,
		URI:         "spotify:playlist:" + id,
	}
	f.Created = append(f.Created, pl)
	f.Owners = append(f.Owners, ownerID)
	return pl, nil
}

func (f *FakeDestination) AddTracks(ctx context.Context, playlistID string, ids []string) (int, error) {
	calls := 0
	for _, chunk := range shared.Chunk(ids, 100) {
		if f.FailAddAt == len(f.AddCalls)+1 {
			f.AddCalls = append(f.AddCalls, nil)
			return calls, fmt.Errorf("%w: add failed", shared.ErrAPIRequest)
		}
		f.AddCalls = append(f.AddCalls, append([]string(nil), chunk...))
		calls++
	}
	return calls, nil
}

func (f *FakeDestination) CurrentUserID(ctx context.Context) (string, error) {
	if f.UserID == "" {
		return "", fmt.Errorf("%w: no current user", shared.ErrNotAuthenticated)
	}
	return f.UserID, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites int, target io.Writer) *LimitedWriter {
	return &LimitedWriter{maxWrites: maxWrites, target: target}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
