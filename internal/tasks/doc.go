// Package tasks runs a playlist transfer from the video service to the music service.
//
// [PlaylistEngine.Run] is strictly sequential:
//
//  1. [PlaylistEngine.GatherSongs] finds the source playlist by title, lists every entry, resolves each
//     entry's song metadata and searches the destination for it. Results are kept in a [models.SongIndex]
//     keyed by video title, in discovery order.
//  2. A new destination playlist is created with the given name and description.
//  3. Matched track ids are added in discovery order, in chunks of at most 100.
//
// Entries without usable metadata and songs without an exact match are skipped and reported in the result.
// Any other error aborts the run.
//
// # Progress Reporting
//
// Progress updates are sent without blocking (select with default); a slow or absent reader never stalls
// the run.
package tasks
