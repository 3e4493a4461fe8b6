package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/missiongraph/pkg/pipeline"
)

// missionsCommand creates the stored mission management command.
func (c *CLI) missionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "missions",
		Short: "List and import stored missions",
	}

	cmd.AddCommand(c.missionsListCommand())
	cmd.AddCommand(c.missionsImportCommand())

	return cmd
}

// missionsListCommand creates the "missions list" subcommand.
func (c *CLI) missionsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored mission IDs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close(context.WithoutCancel(cmd.Context()))

			ids, err := st.Missions(cmd.Context())
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				printInfo("No missions stored")
				return nil
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}

// missionsImportCommand creates the "missions import" subcommand.
func (c *CLI) missionsImportCommand() *cobra.Command {
	var mission string

	cmd := &cobra.Command{
		Use:   "import [snapshot.yaml|snapshot.json]",
		Short: "Store a snapshot file, replacing the mission's tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			snap, err := pipeline.Parse(pipeline.Source{Path: args[0], MissionID: mission})
			if err != nil {
				return err
			}

			st, err := c.openStore(ctx)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close(context.WithoutCancel(ctx))

			if err := st.Put(ctx, snap); err != nil {
				return err
			}
			printSuccess("Imported mission %s", snap.MissionID)
			printDetail("%d tasks", len(snap.Tasks))
			printNewline()
			printNextStep("Edit", appName+" edit "+snap.MissionID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&mission, "mission", "m", "", "mission ID (default: the snapshot's mission_id)")

	return cmd
}
