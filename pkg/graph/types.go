package graph

import (
	"github.com/matzehuels/missiongraph/pkg/layout"
	"github.com/matzehuels/missiongraph/pkg/taskgraph"
)

// =============================================================================
// Layout - Positioned Mission Graph
// =============================================================================

// Layout is the canonical serialization format for a laid-out mission graph.
// Used for API responses, storage, caching, and rendering.
type Layout struct {
	MissionID string  `json:"mission_id,omitempty" bson:"mission_id,omitempty"`
	Width     float64 `json:"width" bson:"width"`
	Height    float64 `json:"height" bson:"height"`
	Levels    int     `json:"levels" bson:"levels"`

	// Node box size shared by all nodes.
	NodeWidth  float64 `json:"node_width" bson:"node_width"`
	NodeHeight float64 `json:"node_height" bson:"node_height"`

	Nodes   []Node           `json:"nodes" bson:"nodes"`
	Edges   []Edge           `json:"edges" bson:"edges"`
	Rows    map[int][]string `json:"rows,omitempty" bson:"rows,omitempty"` // level → node IDs
	Dropped []DroppedRef     `json:"dropped,omitempty" bson:"dropped,omitempty"`
}

// Node returns the node with the given ID.
func (l *Layout) Node(id string) (Node, bool) {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// =============================================================================
// Node - Positioned Task
// =============================================================================

// Node is a positioned task.
type Node struct {
	ID           string   `json:"id" bson:"id"`
	Title        string   `json:"title,omitempty" bson:"title,omitempty"`
	Level        int      `json:"level" bson:"level"`
	Status       string   `json:"status" bson:"status"`
	Blocked      bool     `json:"blocked,omitempty" bson:"blocked,omitempty"`
	ReadyToStart bool     `json:"ready_to_start,omitempty" bson:"ready_to_start,omitempty"`
	Position     Position `json:"position" bson:"position"`
}

// DisplayLabel returns the title if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Title != "" {
		return n.Title
	}
	return n.ID
}

// Position is the top-left corner of a node box.
type Position struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// =============================================================================
// Edge - Styled Dependency
// =============================================================================

// Edge is a dependency: Target depends on Source.
type Edge struct {
	Source     string    `json:"source" bson:"source"`
	Target     string    `json:"target" bson:"target"`
	Style      EdgeStyle `json:"style" bson:"style"`
	Cycle      bool      `json:"cycle,omitempty" bson:"cycle,omitempty"`
	Optimistic bool      `json:"optimistic,omitempty" bson:"optimistic,omitempty"`
}

// EdgeStyle is how an edge is drawn.
type EdgeStyle struct {
	Line     string `json:"line" bson:"line"` // "solid" or "dashed"
	Tone     string `json:"tone" bson:"tone"` // "success", "progress", or "neutral"
	Color    string `json:"color" bson:"color"`
	Animated bool   `json:"animated,omitempty" bson:"animated,omitempty"`
}

// IsDashed reports whether the edge is drawn dashed.
func (s EdgeStyle) IsDashed() bool { return s.Line == string(layout.LineDashed) }

// DroppedRef is a dependency reference that produced no edge.
type DroppedRef struct {
	TaskID       string `json:"task_id,omitempty" bson:"task_id,omitempty"`
	DependencyID string `json:"dependency_id,omitempty" bson:"dependency_id,omitempty"`
	Reason       string `json:"reason" bson:"reason"`
}

// =============================================================================
// Internal → Serialized Conversion
// =============================================================================

// FromLayout converts a computed layout to its serialization format. Node
// and edge order are preserved.
func FromLayout(missionID string, l layout.Layout, dropped []taskgraph.DroppedRef) Layout {
	out := Layout{
		MissionID:  missionID,
		Width:      l.Width,
		Height:     l.Height,
		Levels:     l.Levels,
		NodeWidth:  l.Config.NodeWidth,
		NodeHeight: l.Config.NodeHeight,
		Nodes:      make([]Node, len(l.Nodes)),
		Edges:      make([]Edge, len(l.Edges)),
	}

	if len(l.Nodes) > 0 {
		out.Rows = make(map[int][]string)
	}
	for i, n := range l.Nodes {
		out.Nodes[i] = Node{
			ID:           n.ID,
			Title:        n.Title,
			Level:        n.Level,
			Status:       n.Status.String(),
			Blocked:      n.Blocked,
			ReadyToStart: n.ReadyToStart,
			Position:     Position{X: n.Position.X, Y: n.Position.Y},
		}
		out.Rows[n.Level] = append(out.Rows[n.Level], n.ID)
	}

	for i, e := range l.Edges {
		out.Edges[i] = Edge{
			Source: e.Source,
			Target: e.Target,
			Style: EdgeStyle{
				Line:     string(e.Style.Line),
				Tone:     string(e.Style.Tone),
				Color:    e.Style.Color,
				Animated: e.Style.Animated,
			},
			Cycle:      e.Cycle,
			Optimistic: e.Optimistic,
		}
	}

	for _, d := range dropped {
		out.Dropped = append(out.Dropped, DroppedRef{
			TaskID:       d.TaskID,
			DependencyID: d.DependencyID,
			Reason:       string(d.Reason),
		})
	}
	return out
}
