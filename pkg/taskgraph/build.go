package taskgraph

import (
	"github.com/matzehuels/missiongraph/pkg/dag"
	"github.com/matzehuels/missiongraph/pkg/tasks"
)

// Node metadata keys set by Build.
const (
	MetaTitle        = "title"
	MetaStatus       = "status"
	MetaBlocked      = "blocked"
	MetaReadyToStart = "ready_to_start"
)

// metaDropped is the graph metadata key holding []DroppedRef.
const metaDropped = "dropped"

// Reason explains why a dependency reference produced no edge.
type Reason string

const (
	// ReasonDangling is a dependency id with no task in the snapshot.
	ReasonDangling Reason = "dangling"
	// ReasonSelf is a task listing itself as a dependency.
	ReasonSelf Reason = "self"
	// ReasonDuplicateRef is a dependency listed more than once by a task.
	ReasonDuplicateRef Reason = "duplicate_ref"
	// ReasonDuplicateTask is a task whose id already appeared earlier in the
	// snapshot. Its dependencies are not drawn.
	ReasonDuplicateTask Reason = "duplicate_task"
	// ReasonEmptyID is a task or reference with an empty id.
	ReasonEmptyID Reason = "empty_id"
)

// DroppedRef records a dependency reference that Build did not draw.
type DroppedRef struct {
	TaskID       string
	DependencyID string
	Reason       Reason
}

// Build creates the dependency graph for a snapshot.
//
// Nodes follow snapshot order; the first task with a given id wins. For every
// task, each dependency id that names another task in the snapshot becomes an
// edge dependency→task, in the task's dependency order. Dangling ids,
// self-references, and repeated ids are skipped.
//
// Every node carries the task's title, status, blocked and ready-to-start
// flags as metadata (see the Meta* constants). Node rows are left at zero;
// run transform.AssignLevels to compute them.
func Build(s tasks.Snapshot) *dag.DAG {
	g := dag.New(dag.Metadata{})
	var dropped []DroppedRef

	owners := make([]bool, len(s.Tasks))
	for i, t := range s.Tasks {
		err := g.AddNode(dag.Node{
			ID: t.ID,
			Meta: dag.Metadata{
				MetaTitle:        t.Title,
				MetaStatus:       t.Status,
				MetaBlocked:      t.Blocked,
				MetaReadyToStart: t.ReadyToStart,
			},
		})
		switch err {
		case nil:
			owners[i] = true
		case dag.ErrInvalidNodeID:
			dropped = append(dropped, DroppedRef{TaskID: t.ID, Reason: ReasonEmptyID})
		default:
			dropped = append(dropped, DroppedRef{TaskID: t.ID, Reason: ReasonDuplicateTask})
		}
	}

	for i, t := range s.Tasks {
		if !owners[i] {
			continue
		}
		for _, ref := range t.Dependencies {
			dep := ref.ID()
			if reason, ok := edgeReason(g.AddEdge(dag.Edge{From: dep, To: t.ID})); !ok {
				if dep == "" {
					reason = ReasonEmptyID
				}
				dropped = append(dropped, DroppedRef{TaskID: t.ID, DependencyID: dep, Reason: reason})
			}
		}
	}

	if len(dropped) > 0 {
		g.Meta()[metaDropped] = dropped
	}
	return g
}

func edgeReason(err error) (Reason, bool) {
	switch err {
	case nil:
		return "", true
	case dag.ErrSelfLoop:
		return ReasonSelf, false
	case dag.ErrDuplicateEdge:
		return ReasonDuplicateRef, false
	default:
		return ReasonDangling, false
	}
}

// Dropped returns the references Build skipped, in the order encountered.
// Returns nil for graphs not produced by Build or with nothing dropped.
func Dropped(g *dag.DAG) []DroppedRef {
	refs, _ := g.Meta()[metaDropped].([]DroppedRef)
	return refs
}

// Status returns the status recorded on a node by Build, or
// tasks.StatusUnknown if the node has none.
func Status(n *dag.Node) tasks.Status {
	s, _ := n.Meta[MetaStatus].(tasks.Status)
	return s
}

// Title returns the title recorded on a node, falling back to its ID.
func Title(n *dag.Node) string {
	if title, ok := n.Meta[MetaTitle].(string); ok && title != "" {
		return title
	}
	return n.ID
}

// Flags returns the blocked and ready-to-start flags recorded on a node.
func Flags(n *dag.Node) (blocked, ready bool) {
	blocked, _ = n.Meta[MetaBlocked].(bool)
	ready, _ = n.Meta[MetaReadyToStart].(bool)
	return blocked, ready
}
