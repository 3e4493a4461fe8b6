package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/missiongraph/pkg/graph"
	"github.com/matzehuels/missiongraph/pkg/pipeline"
)

// layoutCommand creates the layout command for computing mission layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		mission string
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "layout [snapshot.yaml|snapshot.json]",
		Short: "Compute the level layout of a mission snapshot",
		Long: `Compute the level layout of a mission snapshot.

The layout command reads a snapshot file (or a stored mission with --mission),
builds the dependency graph, assigns every todo its level, and positions the
nodes. The output is a layout.json file (same format as 'render -f json')
that can be rendered to DOT/SVG/PNG/PDF using the 'visualize' command.

Results are cached for faster subsequent runs.`,
		Args: cobra.RangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := inputArg(args, mission)
			if err != nil {
				return err
			}
			opts := c.pipelineOptions()
			opts.Refresh = refresh
			return c.runLayout(cmd.Context(), input, mission, opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().StringVarP(&mission, "mission", "m", "", "read the snapshot from the configured store")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when cached")

	return cmd
}

// inputArg returns the snapshot path argument. Exactly one of a path or a
// stored mission must be given.
func inputArg(args []string, mission string) (string, error) {
	switch {
	case len(args) == 1 && mission != "":
		return "", fmt.Errorf("give a snapshot file or --mission, not both")
	case len(args) == 1:
		return args[0], nil
	case mission != "":
		return mission, nil
	default:
		return "", fmt.Errorf("a snapshot file or --mission is required")
	}
}

// runLayout loads the snapshot, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input, mission string, opts pipeline.Options, output string, noCache bool) error {
	snap, err := c.loadSnapshot(ctx, input, mission)
	if err != nil {
		return fmt.Errorf("load snapshot %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	l, cacheHit, err := runner.LayoutWithCacheInfo(ctx, snap, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = strings.TrimSuffix(input, filepath.Ext(input)) + ".layout.json"
	}

	if err := graph.WriteLayoutFile(l, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(l.Nodes), len(l.Edges), cacheHit)
	printDropped(l.Dropped)
	printNewline()
	printNextStep("Render", appName+" visualize "+outputPath)

	return nil
}
