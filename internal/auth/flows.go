package auth

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/yt2spot/internal/server"
	"github.com/desertthunder/yt2spot/internal/shared"
	"golang.org/x/oauth2"
)

// Flow obtains a token from the user for conf. Scopes are taken from conf.Scopes.
type Flow interface {
	AcquireToken(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error)
}

// ConsoleFlow is the out-of-band flow: the user opens the URL and pastes back the code.
//
// One ConsoleFlow owns In for its lifetime; successive calls read successive lines.
type ConsoleFlow struct {
	In  io.Reader
	Out io.Writer

	once  sync.Once
	lines chan string
}

func (f *ConsoleFlow) AcquireToken(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error) {
	state := shared.GenerateID()
	authURL := conf.AuthCodeURL(state, oauth2.AccessTypeOffline)

	fmt.Fprintf(f.Out, "Open this URL in your browser and authorize access:\n\n%s\n\n", authURL)
	fmt.Fprint(f.Out, "Paste the code or the full redirected URL: ")

	line, err := f.readLine(ctx)
	if err != nil {
		return nil, err
	}

	code, err := parseAuthCode(line, state)
	if err != nil {
		return nil, err
	}

	token, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}
	return token, nil
}

// readLine waits for the next line from In. A single goroutine reads In, so a line
// arriving after a cancelled call is kept for the next one.
func (f *ConsoleFlow) readLine(ctx context.Context) (string, error) {
	f.once.Do(func() {
		f.lines = make(chan string)
		go f.scan()
	})

	select {
	case line, ok := <-f.lines:
		if !ok {
			return "", fmt.Errorf("failed to read authorization code: %w", io.ErrUnexpectedEOF)
		}
		return line, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (f *ConsoleFlow) scan() {
	defer close(f.lines)

	br := bufio.NewReader(f.In)
	for {
		line, err := br.ReadString('\n')
		if line = strings.TrimRight(line, "\r\n"); line != "" || err == nil {
			f.lines <- line
		}
		if err != nil {
			return
		}
	}
}

// parseAuthCode accepts either a bare code or the redirect URL carrying code and state.
func parseAuthCode(input, state string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", errors.New("no authorization code entered")
	}

	if !strings.Contains(input, "://") {
		return input, nil
	}

	u, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("invalid redirect url: %w", err)
	}

	q := u.Query()
	if e := q.Get("error"); e != "" {
		return "", fmt.Errorf("authorization denied: %s", e)
	}
	if s := q.Get("state"); s != "" && s != state {
		return "", server.ErrInvalidState
	}

	code := q.Get("code")
	if code == "" {
		return "", errors.New("redirect url has no code parameter")
	}
	return code, nil
}

// DefaultCallbackTimeout bounds how long [CallbackFlow] waits for the browser.
const DefaultCallbackTimeout = 2 * time.Minute

// CallbackFlow receives the code on a loopback server bound to conf.RedirectURL.
type CallbackFlow struct {
	Out     io.Writer
	Logger  *log.Logger
	Open    func(url string) error // defaults to [shared.OpenBrowser]
	Timeout time.Duration
}

func (f *CallbackFlow) AcquireToken(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error) {
	redirect, err := url.Parse(conf.RedirectURL)
	if err != nil || redirect.Host == "" {
		return nil, fmt.Errorf("invalid redirect uri %q", conf.RedirectURL)
	}

	// A redirect without a path lands on the root; "/{$}" matches only that.
	path := redirect.Path
	if path == "" || path == "/" {
		path = "/{$}"
	}

	state := shared.GenerateID()
	handler := server.NewOAuthHandler(conf, state, path)

	router := server.NewBasicRouter()
	if f.Logger != nil {
		router.Use(server.LoggingMiddleware(f.Logger))
	}
	router.Handler(handler)

	srv, err := server.Start(redirect.Host, router)
	if err != nil {
		return nil, err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	authURL := conf.AuthCodeURL(state, oauth2.AccessTypeOffline)
	open := f.Open
	if open == nil {
		open = shared.OpenBrowser
	}
	if err := open(authURL); err != nil {
		if f.Logger != nil {
			f.Logger.Warn("could not open browser", "error", err)
		}
		fmt.Fprintf(f.Out, "Open this URL in your browser:\n\n%s\n\n", authURL)
	}

	timeout := f.Timeout
	if timeout <= 0 {
		timeout = DefaultCallbackTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case result := <-handler.Result():
		if result.Error() != nil {
			return nil, result.Error()
		}
		return result.Token, nil
	case err := <-srv.Errors():
		return nil, fmt.Errorf("callback server: %w", err)
	case <-timer.C:
		return nil, fmt.Errorf("authorization timed out after %s", timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// StaticFlow hands out a token obtained elsewhere.
type StaticFlow struct {
	Token *oauth2.Token
}

func (f StaticFlow) AcquireToken(context.Context, *oauth2.Config) (*oauth2.Token, error) {
	if f.Token == nil {
		return nil, errors.New("no static token configured")
	}
	return f.Token, nil
}
