package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/missiongraph/pkg/editor"
	"github.com/matzehuels/missiongraph/pkg/layout"
	"github.com/matzehuels/missiongraph/pkg/tasks"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listSourceStyle   = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Messages
// =============================================================================

// mutationMsg reports a finished store call made by the engine.
type mutationMsg struct {
	kind   string
	source string
	target string
	err    error
}

// snapshotMsg carries a freshly loaded snapshot.
type snapshotMsg struct {
	snap tasks.Snapshot
	err  error
}

// notifyingMutator wraps m and reports each finished call on results.
// Reports are dropped when results is full.
func notifyingMutator(m editor.Mutator, results chan<- mutationMsg) editor.Mutator {
	report := func(kind, source, target string, err error) {
		select {
		case results <- mutationMsg{kind: kind, source: source, target: target, err: err}:
		default:
		}
	}
	return editor.MutatorFuncs{
		Add: func(ctx context.Context, source, target string) error {
			err := m.AddDependency(ctx, source, target)
			report(editor.KindAdd, source, target, err)
			return err
		},
		Remove: func(ctx context.Context, source, target string) error {
			err := m.RemoveDependency(ctx, source, target)
			report(editor.KindRemove, source, target, err)
			return err
		},
	}
}

// =============================================================================
// EditModel - Interactive dependency editor
// =============================================================================

// EditModel is the bubbletea model for editing a mission's dependencies.
//
// Rows list the tasks by level. Mark a prerequisite with "a", then press
// enter on the task that should wait for it. "d" proposes removing one of
// the selected task's prerequisites, cycling on repeated presses; "y" or
// "n" answers the confirmation.
type EditModel struct {
	Mission string
	Engine  *editor.Engine
	Reload  func(context.Context) (tasks.Snapshot, error)

	Cursor int
	Source string // Marked prerequisite, "" when none
	Status string
	Height int
	Offset int

	ctx       context.Context
	results   <-chan mutationMsg
	removeIdx int
}

// NewEditModel creates an editor over engine. results may be nil.
func NewEditModel(ctx context.Context, mission string, engine *editor.Engine, reload func(context.Context) (tasks.Snapshot, error), results <-chan mutationMsg) EditModel {
	return EditModel{
		Mission: mission,
		Engine:  engine,
		Reload:  reload,
		Height:  15,
		ctx:     ctx,
		results: results,
	}
}

func (m EditModel) Init() tea.Cmd {
	return m.waitForMutation()
}

func (m EditModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case mutationMsg:
		if msg.err != nil {
			m.Status = StyleWarning.Render(fmt.Sprintf("%s %s→%s failed: %v", msg.kind, msg.source, msg.target, msg.err))
		} else {
			m.Status = StyleSuccess.Render(fmt.Sprintf("%s %s→%s saved", msg.kind, msg.source, msg.target))
		}
		return m, tea.Batch(m.waitForMutation(), m.reload())
	case snapshotMsg:
		if msg.err != nil {
			m.Status = StyleWarning.Render("reload failed: " + msg.err.Error())
			return m, nil
		}
		m.Engine.Load(msg.snap)
		m.clampCursor()
		return m, nil
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m EditModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	nodes := m.nodes()
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		if m.Engine.State() == editor.StateAwaitingConfirmation {
			m.resolve(false)
			return m, nil
		}
		if m.Source != "" {
			m.Source = ""
			return m, nil
		}
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
			m.removeIdx = 0
		}
	case "down", "j":
		if m.Cursor < len(nodes)-1 {
			m.Cursor++
			m.removeIdx = 0
		}
	case "a", " ":
		if id, ok := m.selected(); ok {
			if m.Source == id {
				m.Source = ""
			} else {
				m.Source = id
			}
		}
	case "enter":
		id, ok := m.selected()
		if !ok {
			return m, nil
		}
		if m.Source == "" {
			m.Status = listDimStyle.Render("mark a prerequisite with 'a' first")
			return m, nil
		}
		res := m.Engine.Connect(m.ctx, m.Source, id)
		m.Status = describe(res, m.Source, id, fmt.Sprintf("%s now waits for %s", id, m.Source))
		m.Source = ""
	case "d":
		id, ok := m.selected()
		if !ok {
			return m, nil
		}
		prereqs := prerequisites(m.Engine.Layout(), id)
		if len(prereqs) == 0 {
			m.Status = listDimStyle.Render(id + " has no prerequisites")
			return m, nil
		}
		source := prereqs[m.removeIdx%len(prereqs)]
		m.removeIdx++
		res := m.Engine.RequestRemoval(m.ctx, source, id)
		m.Status = describe(res, source, id, "")
	case "y":
		m.resolve(true)
	case "n":
		m.resolve(false)
	case "r":
		return m, m.reload()
	}
	m.scroll()
	return m, nil
}

func (m *EditModel) resolve(confirmed bool) {
	source, target, _ := m.Engine.Pending()
	res := m.Engine.ResolveRemoval(m.ctx, confirmed)
	m.Status = describe(res, source, target, fmt.Sprintf("%s no longer waits for %s", target, source))
}

// describe renders a gesture result for the status line.
func describe(res editor.Result, source, target, success string) string {
	switch res.Outcome {
	case editor.OutcomeDispatched:
		return StyleSuccess.Render(success)
	case editor.OutcomeAwaitingConfirmation:
		return StyleWarning.Render(fmt.Sprintf("Remove %s→%s? [y/n]", source, target))
	case editor.OutcomeCancelled:
		return listDimStyle.Render("removal cancelled")
	case editor.OutcomeNotPending:
		return listDimStyle.Render("nothing to confirm")
	}
	return StyleWarning.Render(res.Err(source, target).Error())
}

func (m EditModel) waitForMutation() tea.Cmd {
	if m.results == nil {
		return nil
	}
	results := m.results
	return func() tea.Msg {
		return <-results
	}
}

func (m EditModel) reload() tea.Cmd {
	if m.Reload == nil {
		return nil
	}
	ctx, reload := m.ctx, m.Reload
	return func() tea.Msg {
		snap, err := reload(ctx)
		return snapshotMsg{snap: snap, err: err}
	}
}

// nodes returns the laid-out tasks ordered by level, then snapshot order.
func (m EditModel) nodes() []layout.NodeBox {
	nodes := slices.Clone(m.Engine.Layout().Nodes)
	slices.SortStableFunc(nodes, func(a, b layout.NodeBox) int {
		if a.Level != b.Level {
			return a.Level - b.Level
		}
		return a.Index - b.Index
	})
	return nodes
}

func (m EditModel) selected() (string, bool) {
	nodes := m.nodes()
	if m.Cursor < 0 || m.Cursor >= len(nodes) {
		return "", false
	}
	return nodes[m.Cursor].ID, true
}

func (m *EditModel) clampCursor() {
	n := len(m.nodes())
	if m.Cursor >= n {
		m.Cursor = max(n-1, 0)
	}
	m.scroll()
}

func (m *EditModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

// prerequisites returns the drawn prerequisites of id in edge order.
func prerequisites(l layout.Layout, id string) []string {
	var ids []string
	for _, e := range l.Edges {
		if e.Target == id {
			ids = append(ids, e.Source)
		}
	}
	return ids
}

func (m EditModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Mission " + m.Mission))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  a mark prerequisite  ⏎ add  d remove  y/n confirm  r reload  q quit"))
	b.WriteString("\n\n")

	l := m.Engine.Layout()
	nodes := m.nodes()
	end := min(m.Offset+m.Height, len(nodes))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n := nodes[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mark := ""
		if n.ID == m.Source {
			mark = "●"
		}
		waits := strings.Join(prerequisites(l, n.ID), ", ")
		if waits == "" {
			waits = "-"
		}
		rows = append(rows, []string{cursor, fmt.Sprint(n.Level), n.ID, n.Title, n.Status.String(), waits, mark})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Lvl", "Task", "Title", "Status", "Waits for", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(nodes) {
				return lipgloss.NewStyle()
			}
			switch {
			case nodes[idx].ID == m.Source:
				return listSourceStyle
			case idx == m.Cursor:
				return listSelectedStyle
			case nodes[idx].Status == tasks.StatusDone:
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d] %d levels", min(m.Cursor+1, len(nodes)), len(nodes), l.Levels)))
	if dropped := len(m.Engine.Dropped()); dropped > 0 {
		b.WriteString(StyleWarning.Render(fmt.Sprintf("  %d ignored reference(s)", dropped)))
	}
	if m.Status != "" {
		b.WriteString("\n")
		b.WriteString(m.Status)
	}

	return b.String()
}
