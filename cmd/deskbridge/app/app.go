// Package app provides the application context and dependency management
// for the deskbridge CLI. It centralizes configuration, logging and the
// construction of the remote clients a sync needs.
package app

import (
	"context"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/agentstation/deskbridge/internal/cmd/application"
	"github.com/agentstation/deskbridge/internal/config"
	"github.com/agentstation/deskbridge/internal/freshdesk"
	"github.com/agentstation/deskbridge/internal/github"
	"github.com/agentstation/deskbridge/internal/snapshot"
	"github.com/agentstation/deskbridge/internal/transport"
	"github.com/agentstation/deskbridge/pkg/errors"
	"github.com/agentstation/deskbridge/pkg/logging"
	"github.com/agentstation/deskbridge/pkg/sync"
)

// App represents the deskbridge application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// transport is shared by the GitHub and Freshdesk clients
	transport transport.Transport
	out       io.Writer
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	cfg, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = cfg

	logger := NewLogger(cfg)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.transport == nil {
		app.transport = transport.New(
			transport.WithHTTPClient(&http.Client{Timeout: app.config.HTTPTimeout}),
			transport.WithUserAgent("deskbridge/"+version),
		)
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Syncer builds a Syncer wired to GitHub and Freshdesk. GITHUB_TOKEN is
// checked before FRESHDESK_TOKEN.
func (a *App) Syncer(subdomain string, opts ...sync.Option) (*sync.Syncer, error) {
	githubToken, err := config.Require("GITHUB_TOKEN")
	if err != nil {
		return nil, err
	}
	freshdeskToken, err := config.Require("FRESHDESK_TOKEN")
	if err != nil {
		return nil, err
	}

	if subdomain == "" {
		subdomain = a.config.FreshdeskSubdomain
	}
	desk, err := freshdesk.NewClient(freshdesk.Options{
		Transport: a.transport,
		Subdomain: subdomain,
		Host:      a.config.FreshdeskHost,
		BaseURL:   a.config.FreshdeskBaseURL,
		APIToken:  freshdeskToken,
	})
	if err != nil {
		return nil, err
	}

	gh := github.NewClient(a.transport, githubToken, github.WithBaseURL(a.config.GitHubAPIURL))

	a.logger.Debug().
		Str("freshdesk", desk.BaseURL()).
		Str("github", a.config.GitHubAPIURL).
		Msg("Clients configured")

	return sync.New(gh, desk, opts...), nil
}

// OpenSnapshots opens the snapshot store for dsn, falling back to SNAPSHOT_DSN.
func (a *App) OpenSnapshots(ctx context.Context, dsn string) (snapshot.Store, error) {
	if dsn == "" {
		dsn = a.config.SnapshotDSN
	}
	store, err := snapshot.Open(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if store != nil {
		logging.Ctx(ctx).Debug().Msg("Snapshot store opened")
	}
	return store, nil
}

// Shutdown releases resources held by the application.
func (a *App) Shutdown(_ context.Context) error {
	if t, ok := a.transport.(*transport.HTTP); ok {
		t.CloseIdleConnections()
	}
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(cfg *Config) Option {
	return func(a *App) error {
		a.config = cfg
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithTransport replaces the HTTP transport (useful for testing).
func WithTransport(t transport.Transport) Option {
	return func(a *App) error {
		a.transport = t
		return nil
	}
}

// WithOutput redirects command output.
func WithOutput(w io.Writer) Option {
	return func(a *App) error {
		a.out = w
		return nil
	}
}

var _ application.Application = (*App)(nil)
