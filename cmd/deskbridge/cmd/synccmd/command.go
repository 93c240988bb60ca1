// Package synccmd implements the sync command.
package synccmd

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/agentstation/deskbridge/internal/cmd/application"
	"github.com/agentstation/deskbridge/internal/cmd/output"
	"github.com/agentstation/deskbridge/pkg/logging"
	"github.com/agentstation/deskbridge/pkg/sync"
)

// Flags holds the sync command flags.
type Flags struct {
	User        string
	Subdomain   string
	DryRun      bool
	SnapshotDSN string
}

// NewCommand creates the sync command using app context.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "sync",
		GroupID: "core",
		Short:   "Create or update the Freshdesk contact for a GitHub user",
		Args:    cobra.NoArgs,
		Long: `Sync fetches a GitHub user and writes it to Freshdesk as a contact whose
unique_external_id is "github:<login>".

An existing contact with that id is updated; otherwise a new one is created.
GITHUB_TOKEN and FRESHDESK_TOKEN must be set in the environment, a .env file
or the config file.`,
		Example: `  deskbridge sync --user octocat --subdomain acme
  deskbridge sync --user octocat --subdomain acme --dry-run
  deskbridge sync --user octocat --subdomain acme --snapshot-dsn ./deskbridge.db
  deskbridge sync --user octocat --subdomain acme --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Execute(cmd, app, flags)
		},
	}

	cmd.Flags().StringVar(&flags.User, "user", "", "GitHub login to sync")
	cmd.Flags().StringVar(&flags.Subdomain, "subdomain", "", "Freshdesk subdomain (overrides FRESHDESK_SUBDOMAIN)")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "look up the contact but do not create or update it")
	cmd.Flags().StringVar(&flags.SnapshotDSN, "snapshot-dsn", "", "snapshot store DSN (overrides SNAPSHOT_DSN)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

// Execute runs one sync and prints its result.
func Execute(cmd *cobra.Command, app application.Application, flags *Flags) error {
	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return err
	}

	ctx := logging.WithLogger(cmd.Context(), app.Logger())
	ctx = logging.WithRunID(ctx, uuid.NewString())
	logger := logging.FromContext(ctx)

	opts := []sync.Option{sync.WithDryRun(flags.DryRun)}

	store, err := app.OpenSnapshots(ctx, flags.SnapshotDSN)
	if err != nil {
		return err
	}
	if store != nil {
		defer func() {
			if cerr := store.Close(); cerr != nil {
				logger.Warn().Err(cerr).Msg("Failed to close snapshot store")
			}
		}()
		opts = append(opts, sync.WithSnapshots(store))
	}

	syncer, err := app.Syncer(flags.Subdomain, opts...)
	if err != nil {
		return err
	}

	result, err := syncer.Run(ctx, flags.User)
	if err != nil {
		return err
	}

	return output.NewFormatter(format).Format(cmd.OutOrStdout(), result)
}
