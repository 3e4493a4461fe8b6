package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/missiongraph/pkg/editor"
	"github.com/matzehuels/missiongraph/pkg/store"
)

// depsCommand creates the dependency management command.
func (c *CLI) depsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deps",
		Short: "List, add, and remove mission dependencies",
	}

	cmd.AddCommand(c.depsListCommand())
	cmd.AddCommand(c.depsAddCommand())
	cmd.AddCommand(c.depsRemoveCommand())

	return cmd
}

// depsListCommand creates the "deps list" subcommand.
func (c *CLI) depsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list [mission]",
		Short: "List tasks with their levels and prerequisites",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close(context.WithoutCancel(cmd.Context()))

			snap, err := st.Snapshot(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			engine := editor.New(editor.MutatorFuncs{}, editor.WithLayout(c.Config.Layout), editor.WithLogger(c.Logger))
			engine.Load(snap)
			fmt.Fprintln(cmd.OutOrStdout(), dependencyTable(NewEditModel(cmd.Context(), args[0], engine, nil, nil)))
			return nil
		},
	}
}

// dependencyTable renders every task of m without cursor or paging.
func dependencyTable(m EditModel) string {
	l := m.Engine.Layout()
	rows := [][]string{}
	for _, n := range m.nodes() {
		waits := strings.Join(prerequisites(l, n.ID), ", ")
		rows = append(rows, []string{fmt.Sprint(n.Level), n.ID, n.Title, n.Status.String(), waits})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Lvl", "Task", "Title", "Status", "Waits for").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// depsAddCommand creates the "deps add" subcommand.
func (c *CLI) depsAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add [mission] [prerequisite] [task]",
		Short: "Make a task wait for a prerequisite",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDeps(cmd.Context(), depsRequest{
				mission: args[0],
				source:  args[1],
				target:  args[2],
			})
		},
	}
}

// depsRemoveCommand creates the "deps remove" subcommand.
func (c *CLI) depsRemoveCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove [mission] [prerequisite] [task]",
		Short: "Stop a task from waiting for a prerequisite",
		Long: `Stop a task from waiting for a prerequisite.

Removal asks for confirmation on stdin unless --yes is given.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDeps(cmd.Context(), depsRequest{
				mission: args[0],
				source:  args[1],
				target:  args[2],
				remove:  true,
				confirm: promptConfirmer(cmd.InOrStdin(), cmd.OutOrStdout(), yes),
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "remove without asking")

	return cmd
}

// depsRequest is one add or remove gesture from the command line.
type depsRequest struct {
	mission string
	source  string
	target  string
	remove  bool
	confirm editor.Confirmer
}

// runDeps applies one gesture through an editor engine bound to the store.
// The store call runs inline so the command reports its result.
func (c *CLI) runDeps(ctx context.Context, req depsRequest) error {
	st, err := c.openStore(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close(context.WithoutCancel(ctx))

	snap, err := st.Snapshot(ctx, req.mission)
	if err != nil {
		return err
	}

	var storeErr error
	bound := store.Bind(st, req.mission)
	mut := editor.MutatorFuncs{
		Add: func(ctx context.Context, source, target string) error {
			storeErr = bound.AddDependency(ctx, source, target)
			return storeErr
		},
		Remove: func(ctx context.Context, source, target string) error {
			storeErr = bound.RemoveDependency(ctx, source, target)
			return storeErr
		},
	}

	opts := []editor.Option{
		editor.WithLayout(c.Config.Layout),
		editor.WithLogger(c.Logger),
		editor.WithDispatch(func(job func()) { job() }),
	}
	if req.confirm != nil {
		opts = append(opts, editor.WithConfirmer(req.confirm))
	}
	engine := editor.New(mut, opts...)
	engine.Load(snap)

	var res editor.Result
	if req.remove {
		res = engine.Disconnect(ctx, req.source, req.target)
	} else {
		res = engine.Connect(ctx, req.source, req.target)
	}

	switch {
	case res.Outcome == editor.OutcomeCancelled:
		printInfo("Removal cancelled")
		return nil
	case !res.Dispatched():
		return res.Err(req.source, req.target)
	case storeErr != nil:
		return storeErr
	}

	if req.remove {
		printSuccess("%s no longer waits for %s", req.target, req.source)
	} else {
		printSuccess("%s now waits for %s", req.target, req.source)
	}
	printDetail("Intent: %s", res.IntentID)
	return nil
}

// promptConfirmer asks on out and reads a y/n answer from in. With yes set
// it confirms without asking.
func promptConfirmer(in io.Reader, out io.Writer, yes bool) editor.Confirmer {
	return editor.ConfirmFunc(func(message string) bool {
		if yes {
			return true
		}
		fmt.Fprintf(out, "%s %s ", StyleWarning.Render(message), StyleDim.Render("[y/N]"))
		answer, _ := bufio.NewReader(in).ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true
		}
		return false
	})
}
