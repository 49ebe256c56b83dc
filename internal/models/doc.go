// Package models defines the entities passed between the transfer stages.
//
// [SourceEntry] values come from the source playlist listing and are never mutated.
// Each entry whose metadata resolves becomes a [ResolvedSong] carrying an [Outcome]:
// either a matched destination track id or the reason it was skipped.
// Songs are kept in a [SongIndex], an insertion-ordered map keyed by the video title,
// so the destination playlist receives tracks in discovery order.
//
// Entries dropped before a song exists (metadata failures) are recorded as [Skip] values
// so that a run can report everything it left behind.
package models
