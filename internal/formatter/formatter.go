// package formatter renders transfer results as CSV, Markdown or plain text reports
package formatter

import (
	"bytes"
	"cmp"
	"encoding/csv"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/desertthunder/yt2spot/internal/models"
	"github.com/desertthunder/yt2spot/internal/shared"
	"github.com/desertthunder/yt2spot/internal/tasks"
)

// Format is a report output format.
type Format string

const (
	CSV      Format = "csv"
	Markdown Format = "markdown"
	Text     Format = "text"
)

// ParseFormat accepts csv, markdown (or md) and text (or txt).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "csv":
		return CSV, nil
	case "markdown", "md":
		return Markdown, nil
	case "text", "txt", "":
		return Text, nil
	default:
		return "", fmt.Errorf("%w: unknown report format %q", shared.ErrInvalidArgument, s)
	}
}

// Row is one source entry in a report.
type Row struct {
	Position int    `json:"position"`
	Video    string `json:"video"`
	URL      string `json:"url"`
	Title    string `json:"title,omitempty"`
	Artist   string `json:"artist,omitempty"`
	Status   string `json:"status"` // "matched" or a skip reason
	TrackID  string `json:"track_id,omitempty"`
}

// Rows lists indexed songs and entries without metadata, ordered by source position.
func Rows(result *tasks.TransferRunResult) []Row {
	if result == nil || result.Gather == nil {
		return nil
	}

	var rows []Row
	result.Gather.Index.Each(func(key string, song models.ResolvedSong) {
		status := "matched"
		if !song.Outcome.IsMatched() {
			status = song.Outcome.Reason().String()
		}
		rows = append(rows, Row{
			Position: song.Position,
			Video:    key,
			URL:      song.SourceURL,
			Title:    song.Title,
			Artist:   song.Artist,
			Status:   status,
			TrackID:  song.TrackID(),
		})
	})

	for _, skip := range result.Gather.Skipped {
		rows = append(rows, Row{Position: skip.Entry.Position, Video: skip.Entry.Title, URL: skip.Entry.URL, Status: skip.Reason.String()})
	}
	slices.SortStableFunc(rows, func(a, b Row) int { return cmp.Compare(a.Position, b.Position) })
	return rows
}

// ExportToCSV writes one record per row with columns Video, URL, Title, Artist, Status, TrackID.
func ExportToCSV(result *tasks.TransferRunResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Video", "URL", "Title", "Artist", "Status", "TrackID"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, r := range Rows(result) {
		if err := writer.Write([]string{r.Video, r.URL, r.Title, r.Artist, r.Status, r.TrackID}); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportToMarkdown renders a summary header, the matched tracks and the skipped entries.
func ExportToMarkdown(result *tasks.TransferRunResult) ([]byte, error) {
	var buf bytes.Buffer
	rows := Rows(result)

	if pl := result.Playlist; pl != nil {
		fmt.Fprintf(&buf, "# %s\n\n", pl.Name)
		if pl.Description != "" {
			fmt.Fprintf(&buf, "**Description**: %s\n\n", pl.Description)
		}
		fmt.Fprintf(&buf, "**Playlist**: %s\n", pl.URI)
	} else {
		buf.WriteString("# Transfer report\n\n")
	}
	fmt.Fprintf(&buf, "**Matched**: %d of %d\n", result.Matched(), entries(result))
	fmt.Fprintf(&buf, "**Added**: %d in %d requests\n\n", result.Added, result.AddCalls)

	buf.WriteString("## Tracks\n\n")
	n := 0
	for _, r := range rows {
		if r.TrackID == "" {
			continue
		}
		n++
		fmt.Fprintf(&buf, "%d. %s - %s\n", n, r.Artist, r.Title)
	}

	var skipped []Row
	for _, r := range rows {
		if r.TrackID == "" {
			skipped = append(skipped, r)
		}
	}
	if len(skipped) > 0 {
		buf.WriteString("\n## Skipped\n\n")
		for _, r := range skipped {
			fmt.Fprintf(&buf, "- [%s](%s) `%s`\n", r.Video, r.URL, r.Status)
		}
	}

	return buf.Bytes(), nil
}

// ExportToText renders a plain listing of every row.
func ExportToText(result *tasks.TransferRunResult) ([]byte, error) {
	var buf bytes.Buffer

	if pl := result.Playlist; pl != nil {
		fmt.Fprintf(&buf, "Playlist: %s\n", pl.Name)
		if pl.Description != "" {
			fmt.Fprintf(&buf, "Description: %s\n", pl.Description)
		}
	}
	fmt.Fprintf(&buf, "Matched: %d of %d\n\n", result.Matched(), entries(result))

	for i, r := range Rows(result) {
		if r.TrackID != "" {
			fmt.Fprintf(&buf, "%d. %s - %s\n", i+1, r.Artist, r.Title)
		} else {
			fmt.Fprintf(&buf, "%d. [%s] %s\n", i+1, r.Status, r.Video)
		}
	}

	return buf.Bytes(), nil
}

func entries(result *tasks.TransferRunResult) int {
	if result.Gather == nil {
		return 0
	}
	return result.Gather.Entries
}

// Render renders result in format.
func Render(result *tasks.TransferRunResult, format Format) ([]byte, error) {
	switch format {
	case CSV:
		return ExportToCSV(result)
	case Markdown:
		return ExportToMarkdown(result)
	case Text:
		return ExportToText(result)
	default:
		return nil, fmt.Errorf("%w: unknown report format %q", shared.ErrInvalidArgument, format)
	}
}

// WriteReport renders result and writes it to path.
func WriteReport(result *tasks.TransferRunResult, format Format, path string) error {
	data, err := Render(result, format)
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
