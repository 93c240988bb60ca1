// Package application defines what commands need from the CLI application.
// The App in cmd/deskbridge/app implements it; tests use Mock.
package application

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/deskbridge/internal/snapshot"
	"github.com/agentstation/deskbridge/pkg/sync"
)

// Application is the dependency surface handed to every command.
type Application interface {
	// Syncer wires the GitHub and Freshdesk clients for subdomain. An empty
	// subdomain falls back to the configured one. Missing credentials are
	// reported here, before any request is made.
	Syncer(subdomain string, opts ...sync.Option) (*sync.Syncer, error)

	// OpenSnapshots opens the snapshot store named by dsn, or the configured
	// one when dsn is empty. It returns nil when snapshots are disabled.
	// Callers own the store and must Close it.
	OpenSnapshots(ctx context.Context, dsn string) (snapshot.Store, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (text, table, json, yaml).
	OutputFormat() string

	Version() string
	Commit() string
	Date() string
	BuiltBy() string
}
