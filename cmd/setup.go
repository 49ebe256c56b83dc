package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/yt2spot/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the example configuration to --config.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")

	if cmd.Bool("force") {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove existing config: %w", err)
		}
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	r.logger.Info("config file created", "path", path)
	if err := r.writePlain("✓ Wrote %s\n\n", path); err != nil {
		return err
	}
	return r.writePlain("Next steps:\n" +
		"  1. Fill in [credentials.spotify] from https://developer.spotify.com/dashboard\n" +
		"  2. Download client_secret.json for a Desktop OAuth client with the YouTube Data API enabled\n" +
		"  3. Run: yt2spot auth youtube && yt2spot auth spotify\n")
}
