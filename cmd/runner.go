package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/yt2spot/internal/auth"
	"github.com/desertthunder/yt2spot/internal/services"
	"github.com/desertthunder/yt2spot/internal/shared"
	"github.com/desertthunder/yt2spot/internal/tasks"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
)

// Credentials acquires token sources for both services. [auth.Provider] implements it.
type Credentials interface {
	AcquireSourceCredentials(ctx context.Context) (oauth2.TokenSource, error)
	AcquireDestinationToken(ctx context.Context, userID string, scopes []string) (oauth2.TokenSource, error)
}

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Services left nil are built on first use from the configuration and the credentials.
type Runner struct {
	config     *shared.Config
	creds      Credentials
	source     services.SourceService
	resolver   services.MetadataResolver
	dest       services.DestinationService
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config      *shared.Config
	Credentials Credentials
	Source      services.SourceService
	Resolver    services.MetadataResolver
	Destination services.DestinationService
	HTTPClient  *http.Client
	Logger      *log.Logger
	Output      io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		creds:      opts.Credentials,
		source:     opts.Source,
		resolver:   opts.Resolver,
		dest:       opts.Destination,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		transferCommand, authCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}
	return commands
}

// loadConfig reads --config and applies the log level. A missing file leaves the defaults in place.
func (r *Runner) loadConfig(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("config")

	config, err := shared.LoadConfig(path)
	switch {
	case err == nil:
		r.config = config
	case errors.Is(err, shared.ErrMissingConfig):
		r.logger.Debug("config file not found, using defaults", "path", path)
	default:
		return ctx, err
	}

	level := r.config.Log.Level
	if cmd.Bool("verbose") {
		level = "debug"
	}
	if err := shared.SetLogLevel(r.logger, level); err != nil {
		return ctx, err
	}
	return ctx, nil
}

func (r *Runner) credentials() Credentials {
	if r.creds == nil {
		r.creds = auth.NewProvider(r.config, shared.WithLogger(r.logger, "component", "auth"))
	}
	return r.creds
}

// connect authorizes and builds whichever services were not injected.
func (r *Runner) connect(ctx context.Context) error {
	if r.source == nil {
		ts, err := r.credentials().AcquireSourceCredentials(ctx)
		if err != nil {
			return err
		}
		yt, err := services.NewYouTubeService(ctx, option.WithTokenSource(ts))
		if err != nil {
			return err
		}
		r.source = yt
	}

	if r.resolver == nil {
		r.resolver = services.NewMetadataExtractor(r.httpClient)
	}

	if r.dest == nil {
		ts, err := r.credentials().AcquireDestinationToken(ctx, r.config.Credentials.Spotify.UserID, nil)
		if err != nil {
			return err
		}
		r.dest = r.spotify(ctx, ts)
	}
	return nil
}

func (r *Runner) spotify(ctx context.Context, ts oauth2.TokenSource) *services.SpotifyService {
	return services.NewSpotifyService(oauth2.NewClient(ctx, ts),
		services.WithPublicPlaylists(r.config.Transfer.Public),
		services.WithSearchRate(r.config.Transfer.SearchRateLimit),
	)
}

func (r *Runner) engine() *tasks.PlaylistEngine {
	return tasks.NewPlaylistEngine(r.source, r.resolver, r.dest, shared.WithLogger(r.logger, "component", "engine"))
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(append(output, '\n')); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	if _, err := fmt.Fprintf(r.output, format, args...); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
