package transform

import "github.com/matzehuels/missiongraph/pkg/dag"

// Components partitions the graph into strongly connected components and
// returns a node ID → component number map. Two nodes share a component
// exactly when each is reachable from the other, that is, when they lie on a
// common dependency cycle. Nodes outside any cycle get a component of their
// own.
//
// Component numbers depend only on graph structure and node insertion order,
// so identical graphs yield identical numbering. The traversal is Tarjan's
// algorithm and runs in O(V + E).
func Components(g *dag.DAG) map[string]int {
	t := &tarjan{
		g:       g,
		index:   make(map[string]int, g.NodeCount()),
		low:     make(map[string]int, g.NodeCount()),
		onStack: make(map[string]bool),
		comp:    make(map[string]int, g.NodeCount()),
	}
	for _, n := range g.Nodes() {
		if _, seen := t.index[n.ID]; !seen {
			t.visit(n.ID)
		}
	}
	return t.comp
}

type tarjan struct {
	g       *dag.DAG
	index   map[string]int
	low     map[string]int
	onStack map[string]bool
	stack   []string
	comp    map[string]int
	next    int
	count   int
}

func (t *tarjan) visit(id string) {
	t.index[id] = t.next
	t.low[id] = t.next
	t.next++
	t.stack = append(t.stack, id)
	t.onStack[id] = true

	for _, child := range t.g.Children(id) {
		if _, seen := t.index[child]; !seen {
			t.visit(child)
			t.low[id] = min(t.low[id], t.low[child])
		} else if t.onStack[child] {
			t.low[id] = min(t.low[id], t.index[child])
		}
	}

	if t.low[id] != t.index[id] {
		return
	}
	for {
		top := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		t.onStack[top] = false
		t.comp[top] = t.count
		if top == id {
			break
		}
	}
	t.count++
}

// CycleEdges returns the edges that lie on a dependency cycle, in edge
// insertion order. The graph is not modified: cycles are reported, never
// broken.
func CycleEdges(g *dag.DAG) []dag.Edge {
	if !g.HasCycle() {
		return nil
	}
	comp := Components(g)
	var result []dag.Edge
	for _, e := range g.Edges() {
		if comp[e.From] == comp[e.To] {
			result = append(result, e)
		}
	}
	return result
}
