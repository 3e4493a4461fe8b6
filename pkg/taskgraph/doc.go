// Package taskgraph turns a mission's task snapshot into a dependency graph.
//
// [Build] is the display-layer normalization step: it creates one node per
// task and one edge per resolvable dependency, silently skipping anything it
// cannot draw. It never fails and never modifies the snapshot. The skipped
// references are recorded as [Dropped] so callers can warn about them, but the
// underlying task data is never repaired here.
package taskgraph
