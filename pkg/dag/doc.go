// Package dag provides the directed dependency graph behind mission graph
// views.
//
// # Overview
//
// Missions render as left-to-right layered diagrams: a todo sits one column to
// the right of the deepest todo it depends on. This package provides the
// structure those layers are computed on. Nodes carry a [Node.Row] (the
// layer, or level) and are kept in insertion order so that every traversal is
// deterministic for a given input order.
//
// # Edge Direction
//
// An [Edge] points from prerequisite to dependent. For todo B depending on
// todo A the edge is A→B:
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "a"})
//	g.AddNode(dag.Node{ID: "b"})
//	g.AddEdge(dag.Edge{From: "a", To: "b"})
//
//	g.Parents("b")  // [a]  prerequisites of b
//	g.Children("a") // [b]  todos unblocked by a
//
// # Cycles
//
// The name is historical. Task data is edited concurrently in other places,
// so a snapshot can legally contain dependency cycles. The graph stores them
// as-is; [DAG.HasCycle] reports them and the [transform] subpackage computes
// levels that stay total and terminating in their presence. Self-loops and
// parallel edges are rejected by [DAG.AddEdge].
//
// # Metadata
//
// Nodes and the graph carry [Metadata] maps for display data (title, status,
// flags) and build diagnostics. Metadata maps are never nil after creation.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use. Graphs are rebuilt wholesale
// from every snapshot, so in practice each graph is owned by one goroutine.
//
// [transform]: github.com/matzehuels/missiongraph/pkg/dag/transform
package dag
