package tasks

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/desertthunder/yt2spot/internal/models"
	"github.com/desertthunder/yt2spot/internal/shared"
	tu "github.com/desertthunder/yt2spot/internal/testing"
)

// fixture builds a playlist of n videos. Entries in noMeta have no metadata,
// entries in noMatch resolve to a song the destination does not know.
func fixture(n int, noMeta, noMatch []int) (*tu.FakeSource, *tu.FakeResolver, *tu.FakeDestination, []string) {
	source := &tu.FakeSource{
		Playlists: []tu.FakePlaylist{{ID: "gym", Title: "Gym"}, {ID: "yt-road", Title: "Road Trip"}},
		Entries:   map[string][]models.SourceEntry{},
	}
	resolver := &tu.FakeResolver{Songs: map[string]tu.Song{}}
	dest := &tu.FakeDestination{Tracks: map[tu.Song]string{}, UserID: "me"}

	var want []string
	entries := make([]models.SourceEntry, 0, n)
	for i := range n {
		entry := models.SourceEntry{
			Title:    fmt.Sprintf("Video %d", i),
			VideoID:  fmt.Sprintf("vid%d", i),
			URL:      models.WatchURL(fmt.Sprintf("vid%d", i)),
			Position: i,
		}
		entries = append(entries, entry)

		if slices.Contains(noMeta, i) {
			continue
		}
		song := tu.Song{Title: fmt.Sprintf("Song %d", i), Artist: fmt.Sprintf("Artist %d", i)}
		resolver.Songs[entry.URL] = song

		if slices.Contains(noMatch, i) {
			continue
		}
		id := fmt.Sprintf("track%03d", i)
		dest.Tracks[song] = id
		want = append(want, id)
	}
	source.Entries["yt-road"] = entries

	return source, resolver, dest, want
}

func flatten(calls [][]string) []string {
	var ids []string
	for _, c := range calls {
		ids = append(ids, c...)
	}
	return ids
}

func TestPlaylistEngine(t *testing.T) {
	ctx := context.Background()

	t.Run("Run", func(t *testing.T) {
		t.Run("road trip", func(t *testing.T) {
			source, resolver, dest, want := fixture(120, []int{10, 50, 90}, []int{5, 20, 60, 100, 110})
			engine := NewPlaylistEngine(source, resolver, dest, nil)

			result, err := engine.Run(ctx, "Road Trip", "From YouTube", "user1", nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if len(dest.Created) != 1 || dest.Created[0].Name != "Road Trip" || dest.Created[0].Description != "From YouTube" {
				t.Fatalf("unexpected playlists %+v", dest.Created)
			}
			if dest.Owners[0] != "user1" {
				t.Errorf("expected owner user1, got %s", dest.Owners[0])
			}

			if len(dest.AddCalls) != 2 || len(dest.AddCalls[0]) != 100 || len(dest.AddCalls[1]) != 12 {
				t.Fatalf("expected calls of 100 and 12, got %d calls", len(dest.AddCalls))
			}
			if !slices.Equal(flatten(dest.AddCalls), want) {
				t.Error("ids were not added in discovery order")
			}
			if len(want) != 112 {
				t.Fatalf("fixture should match 112 songs, got %d", len(want))
			}

			if result.Matched() != 112 || result.Added != 112 || result.AddCalls != 2 {
				t.Errorf("unexpected counts: matched=%d added=%d calls=%d", result.Matched(), result.Added, result.AddCalls)
			}
			if result.Gather.Entries != 120 {
				t.Errorf("expected 120 entries, got %d", result.Gather.Entries)
			}

			skips := result.Skips()
			if len(skips) != 8 {
				t.Fatalf("expected 8 skips, got %d", len(skips))
			}
			reasons := map[models.SkipReason]int{}
			for _, s := range skips {
				reasons[s.Reason]++
			}
			if reasons[models.MetadataUnavailable] != 3 || reasons[models.NoMatchFound] != 5 {
				t.Errorf("unexpected skip reasons %v", reasons)
			}

			var positions []int
			for _, s := range skips {
				positions = append(positions, s.Entry.Position)
			}
			if !slices.Equal(positions, []int{5, 10, 20, 50, 60, 90, 100, 110}) {
				t.Errorf("expected skips in source order, got %v", positions)
			}

			if len(dest.Searches) != 117 {
				t.Errorf("expected a search per resolved entry, got %d", len(dest.Searches))
			}
		})

		t.Run("empty playlist", func(t *testing.T) {
			source, resolver, dest, _ := fixture(0, nil, nil)
			engine := NewPlaylistEngine(source, resolver, dest, nil)

			result, err := engine.Run(ctx, "Road Trip", "", "user1", nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(dest.Created) != 1 {
				t.Errorf("expected playlist to be created, got %d", len(dest.Created))
			}
			if len(dest.AddCalls) != 0 || result.AddCalls != 0 {
				t.Errorf("expected no insert calls, got %d", len(dest.AddCalls))
			}
		})

		t.Run("playlist not found", func(t *testing.T) {
			source, resolver, dest, _ := fixture(3, nil, nil)
			engine := NewPlaylistEngine(source, resolver, dest, nil)

			_, err := engine.Run(ctx, "Road trip", "", "user1", nil)
			if !errors.Is(err, shared.ErrPlaylistNotFound) {
				t.Fatalf("expected ErrPlaylistNotFound, got %v", err)
			}
			if source.ListCalls != 0 || len(dest.Created) != 0 {
				t.Error("expected nothing to happen after a failed lookup")
			}
		})

		t.Run("provider error aborts before creating", func(t *testing.T) {
			source, resolver, dest, _ := fixture(3, nil, nil)
			dest.SearchErr = fmt.Errorf("%w: search failed: 503", shared.ErrAPIRequest)
			engine := NewPlaylistEngine(source, resolver, dest, nil)

			_, err := engine.Run(ctx, "Road Trip", "", "user1", nil)
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Fatalf("expected ErrAPIRequest, got %v", err)
			}
			if len(dest.Created) != 0 {
				t.Error("expected no playlist after a fatal search error")
			}
		})

		t.Run("listing error", func(t *testing.T) {
			source, resolver, dest, _ := fixture(3, nil, nil)
			source.ListErr = fmt.Errorf("%w: quota", shared.ErrAPIRequest)
			engine := NewPlaylistEngine(source, resolver, dest, nil)

			if _, err := engine.Run(ctx, "Road Trip", "", "user1", nil); !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})

		t.Run("owner from current user", func(t *testing.T) {
			source, resolver, dest, _ := fixture(2, nil, nil)
			engine := NewPlaylistEngine(source, resolver, dest, nil)

			if _, err := engine.Run(ctx, "Road Trip", "", "", nil); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if dest.Owners[0] != "me" {
				t.Errorf("expected owner me, got %s", dest.Owners[0])
			}

			dest.UserID = ""
			if _, err := engine.Run(ctx, "Road Trip", "", "", nil); !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
		})

		t.Run("partial insert", func(t *testing.T) {
			source, resolver, dest, _ := fixture(250, nil, nil)
			dest.FailAddAt = 2
			engine := NewPlaylistEngine(source, resolver, dest, nil)

			result, err := engine.Run(ctx, "Road Trip", "", "user1", nil)
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Fatalf("expected ErrAPIRequest, got %v", err)
			}
			if result == nil || result.Playlist == nil {
				t.Fatal("expected partial result with playlist")
			}
			if result.AddCalls != 1 || result.Added != 100 {
				t.Errorf("expected 1 call with 100 tracks, got %d calls %d tracks", result.AddCalls, result.Added)
			}
		})

		t.Run("progress", func(t *testing.T) {
			source, resolver, dest, _ := fixture(5, []int{1}, nil)
			engine := NewPlaylistEngine(source, resolver, dest, nil)

			progress := make(chan ProgressUpdate, 100)
			if _, err := engine.Run(ctx, "Road Trip", "", "user1", progress); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			close(progress)

			var phases []Phase
			resolved := 0
			for u := range progress {
				if len(phases) == 0 || phases[len(phases)-1] != u.Phase {
					phases = append(phases, u.Phase)
				}
				if u.Phase == ResolveSongs {
					resolved++
				}
			}

			want := []Phase{FindPlaylist, ListEntries, ResolveSongs, CreatePlaylist, AddTracks}
			if !slices.Equal(phases, want) {
				t.Errorf("expected phases %v, got %v", want, phases)
			}
			if resolved != 5 {
				t.Errorf("expected 5 resolve updates, got %d", resolved)
			}
		})

		t.Run("unread progress channel does not block", func(t *testing.T) {
			source, resolver, dest, _ := fixture(20, nil, nil)
			engine := NewPlaylistEngine(source, resolver, dest, nil)

			if _, err := engine.Run(ctx, "Road Trip", "", "user1", make(chan ProgressUpdate)); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	})

	t.Run("GatherSongs", func(t *testing.T) {
		t.Run("duplicate titles keep first position", func(t *testing.T) {
			source, resolver, dest, _ := fixture(3, nil, nil)
			entries := source.Entries["yt-road"]
			entries[2].Title = entries[0].Title
			engine := NewPlaylistEngine(source, resolver, dest, nil)

			result, err := engine.GatherSongs(ctx, "Road Trip", nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if result.Index.Len() != 2 || result.Collisions != 1 {
				t.Fatalf("expected 2 songs and 1 collision, got %d and %d", result.Index.Len(), result.Collisions)
			}
			if ids := result.Index.TrackIDs(); !slices.Equal(ids, []string{"track002", "track001"}) {
				t.Errorf("expected later entry in first position, got %v", ids)
			}
		})

		t.Run("unavailable metadata is recorded", func(t *testing.T) {
			source, resolver, dest, _ := fixture(3, []int{1}, nil)
			engine := NewPlaylistEngine(source, resolver, dest, nil)

			result, err := engine.GatherSongs(ctx, "Road Trip", nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(result.Skipped) != 1 || result.Skipped[0].Entry.Title != "Video 1" {
				t.Fatalf("unexpected skips %+v", result.Skipped)
			}
			if !errors.Is(result.Skipped[0].Err, shared.ErrMetadataUnavailable) {
				t.Errorf("expected ErrMetadataUnavailable, got %v", result.Skipped[0].Err)
			}
			if _, ok := result.Index.Get("Video 1"); ok {
				t.Error("skipped entry must not be indexed")
			}
		})

		t.Run("resolver error without the metadata sentinel aborts", func(t *testing.T) {
			source, resolver, dest, _ := fixture(3, nil, nil)
			resolver.Err = errors.New("extractor crashed")
			engine := NewPlaylistEngine(source, resolver, dest, nil)

			result, err := engine.GatherSongs(ctx, "Road Trip", nil)
			if err == nil || err.Error() != "extractor crashed" || result != nil {
				t.Fatalf("expected the resolver error, got %v", err)
			}
			if len(resolver.Calls) != 1 || len(dest.Searches) != 0 {
				t.Errorf("expected to stop at the first entry, got %d resolves and %d searches", len(resolver.Calls), len(dest.Searches))
			}
		})

		t.Run("unmatched songs stay in the index", func(t *testing.T) {
			source, resolver, dest, _ := fixture(3, nil, []int{0})
			engine := NewPlaylistEngine(source, resolver, dest, nil)

			result, err := engine.GatherSongs(ctx, "Road Trip", nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			song, ok := result.Index.Get("Video 0")
			if !ok || song.Outcome.IsMatched() || song.Outcome.Reason() != models.NoMatchFound {
				t.Errorf("unexpected song %+v", song)
			}
			if song.Title != "Song 0" || song.Artist != "Artist 0" {
				t.Errorf("expected parsed metadata, got %q by %q", song.Title, song.Artist)
			}
		})

		t.Run("cancelled", func(t *testing.T) {
			source, resolver, dest, _ := fixture(3, nil, nil)
			engine := NewPlaylistEngine(source, resolver, dest, nil)

			cctx, cancel := context.WithCancel(ctx)
			cancel()
			if _, err := engine.GatherSongs(cctx, "Road Trip", nil); !errors.Is(err, context.Canceled) {
				t.Errorf("expected context.Canceled, got %v", err)
			}
		})

		t.Run("missing services", func(t *testing.T) {
			engine := NewPlaylistEngine(nil, nil, nil, nil)
			if _, err := engine.GatherSongs(ctx, "x", nil); !errors.Is(err, shared.ErrServiceUnavailable) {
				t.Errorf("expected ErrServiceUnavailable, got %v", err)
			}
		})
	})
}

func TestPhaseString(t *testing.T) {
	tc := map[Phase]string{
		FindPlaylist:   "find_playlist",
		ListEntries:    "list_entries",
		ResolveSongs:   "resolve_songs",
		CreatePlaylist: "create_playlist",
		AddTracks:      "add_tracks",
		Phase(99):      "",
	}
	for p, want := range tc {
		if p.String() != want {
			t.Errorf("expected %q, got %q", want, p.String())
		}
	}
}
