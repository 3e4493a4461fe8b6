// Package transform computes derived structure on mission dependency graphs.
//
// # Level Assignment
//
// [AssignLevels] places every todo in a layer equal to the longest chain of
// prerequisites ending at it. Layers become columns in the left-to-right
// mission diagram, so a todo always appears to the right of everything it
// waits on.
//
// # Cycles
//
// Dependency data is edited concurrently elsewhere and may contain cycles.
// Nothing here removes edges or fails on them: [Components] groups nodes that
// share a cycle and [CycleEdges] lists the edges inside those groups so a view
// can highlight them. Level assignment ignores intra-cycle edges, which keeps
// it total and terminating on any input.
//
// # Usage
//
//	g := taskgraph.Build(snapshot)
//	levels := transform.AssignLevels(g) // also sets each node's Row
//	loops := transform.CycleEdges(g)
package transform
