package models

// SongIndex maps video titles to resolved songs, preserving first-insertion order.
//
// Setting an existing key replaces its song in place; the key keeps its original position
// in the index and the replacing song takes over the earlier song's Position.
type SongIndex struct {
	keys  []string
	songs map[string]ResolvedSong
}

// NewSongIndex returns an empty index.
func NewSongIndex() *SongIndex {
	return &SongIndex{songs: make(map[string]ResolvedSong)}
}

// Set stores song under key and reports whether an earlier song was overwritten.
func (x *SongIndex) Set(key string, song ResolvedSong) bool {
	old, exists := x.songs[key]
	if exists {
		song.Position = old.Position
	} else {
		x.keys = append(x.keys, key)
	}
	x.songs[key] = song
	return exists
}

// Get returns the song stored under key.
func (x *SongIndex) Get(key string) (ResolvedSong, bool) {
	s, ok := x.songs[key]
	return s, ok
}

func (x *SongIndex) Len() int { return len(x.keys) }

// Keys returns the keys in insertion order.
func (x *SongIndex) Keys() []string {
	return append([]string(nil), x.keys...)
}

// Each calls fn for every song in insertion order.
func (x *SongIndex) Each(fn func(key string, song ResolvedSong)) {
	for _, k := range x.keys {
		fn(k, x.songs[k])
	}
}

// TrackIDs returns the ids of matched songs in insertion order.
func (x *SongIndex) TrackIDs() []string {
	ids := make([]string, 0, len(x.keys))
	for _, k := range x.keys {
		if id := x.songs[k].TrackID(); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// Unmatched returns the keys of songs that were skipped, in insertion order.
func (x *SongIndex) Unmatched() []string {
	var keys []string
	for _, k := range x.keys {
		if !x.songs[k].Outcome.IsMatched() {
			keys = append(keys, k)
		}
	}
	return keys
}
