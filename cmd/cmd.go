// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// globalFlags are inherited by every subcommand.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "config.toml",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable debug logging",
		},
	}
}

// transferCommand copies a YouTube playlist into a new Spotify playlist.
func transferCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "transfer",
		Usage:     "Copy the YouTube playlist <name> into a new Spotify playlist with the same name",
		ArgsUsage: "<name> <description>",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "name"},
			&cli.StringArg{Name: "description"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "report",
				Aliases: []string{"o"},
				Usage:   "Write a report of matched and skipped videos to this file",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Report format: csv, markdown or text",
				Value:   "text",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the result as JSON instead of a summary",
			},
		},
		Action: r.Transfer,
	}
}

// authCommand acquires and caches provider tokens ahead of a transfer.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authorize access to YouTube and Spotify",
		Commands: []*cli.Command{
			{
				Name:    "youtube",
				Aliases: []string{"yt"},
				Usage:   "Authorize read-only access to your YouTube playlists",
				Action:  r.AuthYouTube,
			},
			{
				Name:    "spotify",
				Aliases: []string{"spot"},
				Usage:   "Authorize playlist changes on your Spotify account",
				Action:  r.AuthSpotify,
			},
		},
	}
}

// setupCommand handles first-run configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write an example config.toml",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing file",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}
