// Package sync reconciles one GitHub user into one Freshdesk contact.
package sync

import (
	"github.com/agentstation/deskbridge/internal/snapshot"
)

// Options controls a Syncer.
type Options struct {
	DryRun    bool           // Decide create or update without writing
	Snapshots snapshot.Store // Mirror of fetched profiles; nil disables it
}

// Option is a function that configures sync Options.
type Option func(*Options)

// Defaults returns the default sync options.
func Defaults() *Options {
	return &Options{
		DryRun:    false,
		Snapshots: nil,
	}
}

// Apply applies the given options to the sync options.
func (o *Options) Apply(opts ...Option) *Options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithDryRun configures dry run mode.
func WithDryRun(dryRun bool) Option {
	return func(opts *Options) {
		opts.DryRun = dryRun
	}
}

// WithSnapshots records every fetched profile in store.
func WithSnapshots(store snapshot.Store) Option {
	return func(opts *Options) {
		opts.Snapshots = store
	}
}
