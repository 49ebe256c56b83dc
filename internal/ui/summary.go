package ui

import (
	"fmt"
	"strings"

	"github.com/desertthunder/yt2spot/internal/tasks"
)

// Summary renders the playlist link, counts and one line per skipped entry.
func (p *Palette) Summary(result *tasks.TransferRunResult) string {
	var b strings.Builder

	if pl := result.Playlist; pl != nil {
		fmt.Fprintf(&b, "%s %s\n", p.Title("Playlist"), pl.Name)
		fmt.Fprintf(&b, "%s\n\n", p.Help(pl.URI))
	}

	entries := 0
	if result.Gather != nil {
		entries = result.Gather.Entries
	}
	skips := result.Skips()

	fmt.Fprintf(&b, "%s %d of %d videos matched, %d tracks added in %d requests\n",
		p.OK("✓"), result.Matched(), entries, result.Added, result.AddCalls)

	if len(skips) == 0 {
		return b.String()
	}

	fmt.Fprintf(&b, "%s %d skipped\n", p.Warn("!"), len(skips))
	for _, s := range skips {
		fmt.Fprintf(&b, "  %s %s\n", p.Help(s.Reason.String()), s.Entry.Title)
	}
	return b.String()
}
