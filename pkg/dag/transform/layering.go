package transform

import "github.com/matzehuels/missiongraph/pkg/dag"

// AssignLevels computes every node's level and stores it in [dag.Node.Row].
//
// A node's level is the length of the longest dependency chain ending at it:
// 0 when it has no prerequisites, otherwise one more than the highest level
// among its prerequisites. The returned map holds a value for every node.
//
// # Cycles
//
// Malformed snapshots may contain dependency cycles. Edges between two nodes
// of the same cycle (see [Components]) do not contribute to levels, so every
// member of a cycle is levelled only by the prerequisites it has outside the
// cycle. For A↔B with C depending on A this gives A=0, B=0, C=1. Members are
// not levelled together: for A↔B where B also depends on X this gives X=0,
// A=0, B=1. Edges that do not lie on a cycle always satisfy
// level(To) > level(From). Levels do not depend on node insertion order.
//
// # Algorithm
//
// Levels are computed by depth-first recursion over prerequisites, caching
// each node's level once, giving O(V + E) overall. The recursion only
// follows edges between different components, and the graph of components
// is acyclic, so no path revisits a node and no re-entry guard is needed.
//
// AssignLevels panics if g is nil. An empty graph returns an empty map.
func AssignLevels(g *dag.DAG) map[string]int {
	comp := Components(g)
	levels := make(map[string]int, g.NodeCount())

	var level func(id string) int
	level = func(id string) int {
		if l, ok := levels[id]; ok {
			return l
		}
		l := 0
		for _, parent := range g.Parents(id) {
			if comp[parent] == comp[id] {
				continue
			}
			l = max(l, level(parent)+1)
		}
		levels[id] = l
		return l
	}

	for _, n := range g.Nodes() {
		level(n.ID)
	}

	g.SetRows(levels)
	return levels
}
