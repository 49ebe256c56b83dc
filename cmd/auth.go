package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/yt2spot/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthYouTube runs the YouTube authorization and caches the token.
func (r *Runner) AuthYouTube(ctx context.Context, cmd *cli.Command) error {
	ts, err := r.credentials().AcquireSourceCredentials(ctx)
	if err != nil {
		return err
	}
	if _, err := ts.Token(); err != nil {
		return fmt.Errorf("%w: youtube: %v", shared.ErrAuthFailed, err)
	}

	r.logger.Info("youtube authorized")
	return r.writePlain("✓ YouTube authorized\n")
}

// AuthSpotify runs the Spotify authorization and confirms the token by fetching the current user.
func (r *Runner) AuthSpotify(ctx context.Context, cmd *cli.Command) error {
	userID := r.config.Credentials.Spotify.UserID

	ts, err := r.credentials().AcquireDestinationToken(ctx, userID, nil)
	if err != nil {
		return err
	}

	dest := r.dest
	if dest == nil {
		dest = r.spotify(ctx, ts)
	}

	current, err := dest.CurrentUserID(ctx)
	if err != nil {
		return fmt.Errorf("%w: spotify: %v", shared.ErrAuthFailed, err)
	}
	if userID != "" && current != userID {
		r.logger.Warn("authorized account differs from credentials.spotify.user_id", "configured", userID, "authorized", current)
	}

	r.logger.Info("spotify authorized", "user", current)
	return r.writePlain("✓ Spotify authorized as %s\n", current)
}
