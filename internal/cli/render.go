package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/missiongraph/pkg/pipeline"
	"github.com/matzehuels/missiongraph/pkg/render"
)

// renderCommand creates the render command: snapshot to artifacts in one step.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		mission    string
		noCache    bool
		refresh    bool
		detailed   bool
		scale      float64
	)

	cmd := &cobra.Command{
		Use:   "render [snapshot.yaml|snapshot.json]",
		Short: "Render a mission snapshot (layout + visualize)",
		Long: `Render a mission snapshot to one or more output formats.

This is a shortcut for 'layout' followed by 'visualize'. Formats:
  json  positioned layout (same as 'layout')
  dot   Graphviz source
  svg   Graphviz-rendered SVG (default)
  png   rasterized SVG (requires rsvg-convert)
  pdf   vector PDF (requires rsvg-convert)`,
		Args: cobra.RangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := inputArg(args, mission)
			if err != nil {
				return err
			}
			opts := c.pipelineOptions()
			opts.Formats = parseFormats(formatsStr)
			opts.Detailed = detailed
			opts.Refresh = refresh
			if scale > 0 {
				opts.Scale = scale
			}
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), input, mission, opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&mission, "mission", "m", "", "read the snapshot from the configured store")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, json, png, pdf (comma-separated)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "add level and status to node labels")
	cmd.Flags().Float64Var(&scale, "scale", 0, "PNG scale factor (default 2)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when cached")

	return cmd
}

// runRender runs the full pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, input, mission string, opts pipeline.Options, output string, noCache bool) error {
	snap, err := c.loadSnapshot(ctx, input, mission)
	if err != nil {
		return fmt.Errorf("load snapshot %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", strings.Join(opts.Formats, ", ")))
	spinner.Start()

	result, err := runner.Execute(ctx, snap, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	if err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
		nodeCount: result.Stats.NodeCount,
		edgeCount: result.Stats.EdgeCount,
		cacheHit:  result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit,
	}); err != nil {
		return err
	}
	printDropped(result.Layout.Dropped)
	return nil
}

// =============================================================================
// Artifact Output
// =============================================================================

// artifactWriteParams groups the inputs of writeArtifacts.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
	nodeCount int
	edgeCount int
	cacheHit  bool
}

// writeArtifacts writes each requested format. A single format goes to
// output verbatim; several formats share the base path of output.
func writeArtifacts(p artifactWriteParams) error {
	paths := make([]string, 0, len(p.formats))
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			return fmt.Errorf("renderer produced no %s output", format)
		}
		path := artifactPath(p.output, p.input, format, len(p.formats))
		if err := writeFile(path, data); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	printSuccess("Rendered %d file(s)", len(paths))
	for _, path := range paths {
		printFile(path)
	}
	printStats(p.nodeCount, p.edgeCount, p.cacheHit)
	return nil
}

// artifactPath returns the output path for one format.
func artifactPath(output, input, format string, count int) string {
	if count == 1 && output != "" {
		return output
	}
	return basePath(output, input) + "." + format
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if slices.Contains(render.Formats, strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// trimLayoutSuffix maps "launch.layout.json" to "launch" so visualize
// writes next to the snapshot the layout came from.
func trimLayoutSuffix(path string) string {
	return strings.TrimSuffix(path, ".layout.json")
}
