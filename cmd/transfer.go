package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/yt2spot/internal/formatter"
	"github.com/desertthunder/yt2spot/internal/shared"
	"github.com/desertthunder/yt2spot/internal/tasks"
	"github.com/desertthunder/yt2spot/internal/ui"
	"github.com/urfave/cli/v3"
)

// transferJSON is the --json view of a run.
type transferJSON struct {
	Playlist    string          `json:"playlist"`
	PlaylistID  string          `json:"playlist_id"`
	PlaylistURI string          `json:"playlist_uri"`
	Entries     int             `json:"entries"`
	Matched     int             `json:"matched"`
	Added       int             `json:"added"`
	Requests    int             `json:"requests"`
	Rows        []formatter.Row `json:"rows"`
}

func newTransferJSON(result *tasks.TransferRunResult) transferJSON {
	out := transferJSON{
		Matched:  result.Matched(),
		Added:    result.Added,
		Requests: result.AddCalls,
		Rows:     formatter.Rows(result),
	}
	if result.Gather != nil {
		out.Entries = result.Gather.Entries
	}
	if pl := result.Playlist; pl != nil {
		out.Playlist, out.PlaylistID, out.PlaylistURI = pl.Name, pl.ID, pl.URI
	}
	return out
}

// Transfer copies the YouTube playlist named by the first argument into a new Spotify playlist.
func (r *Runner) Transfer(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	description := cmd.StringArg("description")
	if name == "" {
		return fmt.Errorf("%w: playlist name", shared.ErrMissingArgument)
	}

	reportPath := cmd.String("report")
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	asJSON := cmd.Bool("json")

	if r.source == nil || r.dest == nil {
		if err := r.config.Validate(); err != nil {
			return err
		}
	}
	if err := r.connect(ctx); err != nil {
		return err
	}

	r.logger.Info("starting transfer", "playlist", name)

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			if asJSON {
				r.logger.Debug(update.Message, "phase", update.Phase)
				continue
			}
			switch update.Phase {
			case tasks.ResolveSongs:
				r.writePlain("   %s\n", update.Message)
			default:
				r.writePlain("→ %s\n", update.Message)
			}
		}
	}()

	result, runErr := r.engine().Run(ctx, name, description, r.config.Credentials.Spotify.UserID, progress)
	close(progress)
	<-done

	if result == nil {
		return runErr
	}

	if reportPath != "" {
		if err := formatter.WriteReport(result, format, reportPath); err != nil {
			if runErr == nil {
				return err
			}
			r.logger.Error("failed to write report", "error", err)
		} else {
			r.logger.Info("report written", "path", reportPath, "format", format)
		}
	}

	var writeErr error
	if asJSON {
		writeErr = r.writeJSON(newTransferJSON(result), true)
	} else {
		writeErr = r.writePlain("\n%s", ui.Styles.Summary(result))
	}
	if writeErr != nil {
		if runErr == nil {
			return writeErr
		}
		r.logger.Error("failed to print result", "error", writeErr)
	}
	return runErr
}
