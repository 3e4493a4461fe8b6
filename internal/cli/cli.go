package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/missiongraph/internal/config"
	"github.com/matzehuels/missiongraph/pkg/buildinfo"
	"github.com/matzehuels/missiongraph/pkg/cache"
	"github.com/matzehuels/missiongraph/pkg/pipeline"
	"github.com/matzehuels/missiongraph/pkg/store"
	"github.com/matzehuels/missiongraph/pkg/tasks"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display and next-step hints.
const appName = "missiongraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded from ConfigPath before any subcommand runs.
	Config     config.Config
	ConfigPath string
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Missiongraph lays out mission todo lists as dependency graphs",
		Long: `Missiongraph turns a mission's todo list into a left-to-right dependency
graph: every todo sits one column to the right of the deepest todo it waits
for. Dependencies can be added and removed from the command line, an
interactive editor, or the HTTP API.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default: $XDG_CONFIG_HOME/missiongraph/config.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.missionsCommand())
	root.AddCommand(c.depsCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads ConfigPath, or the default path when unset.
func (c *CLI) loadConfig() error {
	path := c.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("loaded config", "path", path, "store", cfg.Store.Backend, "cache", cfg.Cache.Backend)
	return nil
}

// =============================================================================
// Runner & Store Factories
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	if noCache {
		return pipeline.NewRunner(cache.NewNullCache(), nil, c.Logger), nil
	}
	ch, keyer, err := c.Config.Cache.Open(ctx)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, keyer, c.Logger)
	r.TTL = c.Config.Cache.TTL
	return r, nil
}

// openStore opens the configured mission store.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	return c.Config.Store.Open(ctx)
}

// loadSnapshot reads a snapshot from a file or, when mission is set, from
// the configured store.
func (c *CLI) loadSnapshot(ctx context.Context, path, mission string) (tasks.Snapshot, error) {
	logger := loggerFromContext(ctx)
	if mission == "" {
		logger.Debug("reading snapshot", "path", path)
		return pipeline.Parse(pipeline.Source{Path: path})
	}
	logger.Debug("loading mission", "mission", mission, "store", c.Config.Store.Backend)
	st, err := c.openStore(ctx)
	if err != nil {
		return tasks.Snapshot{}, err
	}
	defer st.Close(context.WithoutCancel(ctx))
	return st.Snapshot(ctx, mission)
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions returns options seeded from the loaded configuration.
func (c *CLI) pipelineOptions() pipeline.Options {
	opts := pipeline.Options{Layout: c.Config.Layout, Logger: c.Logger}
	opts.SetRenderDefaults()
	return opts
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.DefaultFormat}
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}
