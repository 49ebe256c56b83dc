package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/yt2spot/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:     "yt2spot",
		Usage:    "Copy a YouTube playlist into a new Spotify playlist",
		Version:  "0.1.0",
		Flags:    globalFlags(),
		Before:   runner.loadConfig,
		Commands: runner.register(),
	}

	if err := app.Run(ctx, os.Args); err != nil {
		stop()
		logger.Fatal("yt2spot failed", "error", err)
	}
}
