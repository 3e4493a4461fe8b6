package layout

import (
	"github.com/matzehuels/missiongraph/pkg/dag"
	"github.com/matzehuels/missiongraph/pkg/dag/transform"
	"github.com/matzehuels/missiongraph/pkg/taskgraph"
	"github.com/matzehuels/missiongraph/pkg/tasks"
)

// Point is a position in layout space. Y grows downward.
type Point struct {
	X float64
	Y float64
}

// NodeBox is a positioned task. Position is the box's top-left corner.
type NodeBox struct {
	ID           string
	Title        string
	Level        int
	Index        int
	Position     Point
	Status       tasks.Status
	Blocked      bool
	ReadyToStart bool
}

// Center returns the midpoint of the box.
func (n NodeBox) Center(cfg Config) Point {
	cfg = cfg.WithDefaults()
	return Point{X: n.Position.X + cfg.NodeWidth/2, Y: n.Position.Y + cfg.NodeHeight/2}
}

// EdgeBox is a styled dependency edge from Source to Target.
type EdgeBox struct {
	Source string
	Target string
	Style  EdgeStyle

	// Cycle marks edges on a dependency cycle. Such edges may point from a
	// higher level to a lower or equal one.
	Cycle bool

	// Optimistic marks edges added locally and not yet present in a snapshot.
	Optimistic bool
}

// Layout is the render output for one snapshot.
type Layout struct {
	Nodes  []NodeBox
	Edges  []EdgeBox
	Levels int
	Width  float64
	Height float64
	Config Config
	levels map[string]int
}

// Level returns the level of a node, or false if the node is not laid out.
func (l Layout) Level(id string) (int, bool) {
	if l.levels == nil {
		for _, n := range l.Nodes {
			if n.ID == id {
				return n.Level, true
			}
		}
		return 0, false
	}
	lvl, ok := l.levels[id]
	return lvl, ok
}

// Node returns the box for id.
func (l Layout) Node(id string) (NodeBox, bool) {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return NodeBox{}, false
}

// Compute assigns levels to g and positions every node.
//
// Nodes are returned in graph insertion order and edges in edge insertion
// order. The zero cfg means [DefaultConfig] (see [Config.WithDefaults]);
// cfg is otherwise assumed valid (see [Config.Validate]). Compute sets the Row of every node in g.
func Compute(g *dag.DAG, cfg Config) Layout {
	cfg = cfg.WithDefaults()
	levels := transform.AssignLevels(g)

	colWidth := cfg.NodeWidth + cfg.HorizontalGap
	rowHeight := cfg.NodeHeight + cfg.VerticalGap

	out := Layout{
		Nodes:  make([]NodeBox, 0, g.NodeCount()),
		Edges:  make([]EdgeBox, 0, g.EdgeCount()),
		Config: cfg,
		levels: levels,
	}

	slot := make(map[string]int, g.NodeCount())
	tallest := 0
	for _, row := range g.RowIDs() {
		inRow := g.NodesInRow(row)
		for i, n := range inRow {
			slot[n.ID] = i
		}
		tallest = max(tallest, len(inRow))
	}

	for _, n := range g.Nodes() {
		idx := slot[n.ID]

		blocked, ready := taskgraph.Flags(n)
		out.Nodes = append(out.Nodes, NodeBox{
			ID:    n.ID,
			Title: taskgraph.Title(n),
			Level: n.Row,
			Index: idx,
			Position: Point{
				X: float64(n.Row)*colWidth + cfg.Margin,
				Y: float64(idx)*rowHeight + cfg.Margin,
			},
			Status:       taskgraph.Status(n),
			Blocked:      blocked,
			ReadyToStart: ready,
		})
	}

	onCycle := make(map[[2]string]bool)
	for _, e := range transform.CycleEdges(g) {
		onCycle[[2]string{e.From, e.To}] = true
	}
	for _, e := range g.Edges() {
		src, _ := g.Node(e.From)
		out.Edges = append(out.Edges, EdgeBox{
			Source: e.From,
			Target: e.To,
			Style:  StyleFor(taskgraph.Status(src)),
			Cycle:  onCycle[[2]string{e.From, e.To}],
		})
	}

	if g.NodeCount() > 0 {
		out.Levels = g.MaxRow() + 1
		out.Width = float64(out.Levels)*colWidth - cfg.HorizontalGap + 2*cfg.Margin
		out.Height = float64(tallest)*rowHeight - cfg.VerticalGap + 2*cfg.Margin
	}
	return out
}

// ForSnapshot builds the graph for s and lays it out.
func ForSnapshot(s tasks.Snapshot, cfg Config) Layout {
	return Compute(taskgraph.Build(s), cfg)
}
