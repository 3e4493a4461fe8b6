package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/missiongraph/pkg/editor"
	"github.com/matzehuels/missiongraph/pkg/store"
	"github.com/matzehuels/missiongraph/pkg/tasks"
)

const defaultDrainTimeout = 10 * time.Second

// editCommand creates the interactive dependency editor.
func (c *CLI) editCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit [mission]",
		Short: "Edit a mission's dependencies interactively",
		Long: `Edit a mission's dependencies interactively.

Tasks are listed by level. Mark a prerequisite with 'a', move to the task
that should wait for it, and press enter. Press 'd' on a task to propose
removing one of its prerequisites and answer with 'y' or 'n'. Changes are
written to the configured store in the background; the view reloads after
each write.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd.Context(), args[0])
		},
	}
}

// runEdit loads the mission and runs the editor until the user quits.
func (c *CLI) runEdit(ctx context.Context, mission string) error {
	st, err := c.openStore(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close(context.WithoutCancel(ctx))

	snap, err := st.Snapshot(ctx, mission)
	if err != nil {
		return err
	}

	// Log output would corrupt the alt screen; failures reach the status
	// line through results instead.
	quiet := newLogger(io.Discard, c.Logger.GetLevel())
	results := make(chan mutationMsg, 16)
	var jobs editor.Jobs
	engine := editor.New(
		notifyingMutator(store.Bind(st, mission), results),
		editor.WithLayout(c.Config.Layout),
		editor.WithLogger(quiet),
		editor.WithDispatch(jobs.Dispatch),
	)
	engine.Load(snap)

	reload := func(ctx context.Context) (tasks.Snapshot, error) {
		return st.Snapshot(ctx, mission)
	}
	model := NewEditModel(ctx, mission, engine, reload, results)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, runErr := program.Run()

	// Writes confirmed just before quitting must land before the store closes.
	if err := drainEdits(ctx, &jobs, c.Config.Server.ShutdownTimeout); err != nil {
		return err
	}
	if runErr != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return runErr
	}
	return nil
}

// drainEdits waits up to timeout for dispatched store writes. Cancelling
// ctx does not cut the wait short.
func drainEdits(ctx context.Context, jobs *editor.Jobs, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = defaultDrainTimeout
	}
	waitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	if err := jobs.Wait(waitCtx); err != nil {
		return fmt.Errorf("pending edits not written within %s: %w", timeout, err)
	}
	return nil
}
