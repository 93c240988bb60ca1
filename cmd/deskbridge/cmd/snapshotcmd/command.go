// Package snapshotcmd implements the snapshot command tree.
package snapshotcmd

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/deskbridge/internal/cmd/application"
	"github.com/agentstation/deskbridge/internal/cmd/output"
	"github.com/agentstation/deskbridge/pkg/errors"
	"github.com/agentstation/deskbridge/pkg/logging"
)

// NewCommand creates the snapshot command using app context.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "snapshot",
		GroupID: "management",
		Short:   "Inspect the local mirror of synced GitHub profiles",
	}
	cmd.AddCommand(newGetCommand(app))
	return cmd
}

func newGetCommand(app application.Application) *cobra.Command {
	var dsn string

	cmd := &cobra.Command{
		Use:   "get <login>",
		Short: "Show the stored snapshot for a login",
		Args:  cobra.ExactArgs(1),
		Example: `  deskbridge snapshot get octocat --snapshot-dsn ./deskbridge.db
  SNAPSHOT_DSN=postgres://localhost/deskbridge deskbridge snapshot get octocat -o yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := output.ParseFormat(app.OutputFormat())
			if err != nil {
				return err
			}
			ctx := logging.WithLogger(cmd.Context(), app.Logger())

			store, err := app.OpenSnapshots(ctx, dsn)
			if err != nil {
				return err
			}
			if store == nil {
				return errors.NewConfigError("snapshot", "no snapshot store configured (set SNAPSHOT_DSN or --snapshot-dsn)", errors.ErrMissingConfig)
			}
			defer func() {
				if cerr := store.Close(); cerr != nil {
					logging.Ctx(ctx).Warn().Err(cerr).Msg("Failed to close snapshot store")
				}
			}()

			snap, err := store.Find(ctx, args[0])
			if err != nil {
				return err
			}
			if snap == nil {
				return errors.NewNotFoundError("snapshot", args[0])
			}

			// text has no summary for a snapshot, so it renders as a table
			return output.NewFormatter(format).Format(cmd.OutOrStdout(), snap)
		},
	}

	cmd.Flags().StringVar(&dsn, "snapshot-dsn", "", "snapshot store DSN (overrides SNAPSHOT_DSN)")
	return cmd
}
