// Package pkg provides the core libraries for missiongraph mission
// dependency graphs.
//
// # Overview
//
// Missiongraph turns a mission's todo list into a left-to-right layered
// graph: every todo sits one column to the right of the deepest todo it
// waits for. Dependencies are edited through gestures (connect two tasks,
// remove an edge after confirmation) that are drawn immediately and written
// to the task store in the background.
//
// # Architecture
//
// The typical data flow:
//
//	Snapshot (YAML/JSON file, file store, MongoDB)
//	         ↓
//	    [taskgraph] package (snapshot → graph, dropped references)
//	         ↓
//	    [dag/transform] package (cycle-tolerant level assignment)
//	         ↓
//	    [layout] package (positions and edge styles)
//	         ↓
//	    [graph] / [render] packages (layout JSON, DOT, SVG, PNG, PDF)
//
// Dependency edits flow the other way:
//
//	gesture → [editor] (optimistic edge, confirmation) → [store] mutation
//
// # Quick Start
//
//	snap, _ := tasks.ReadSnapshotFile("launch.yaml")
//	l := layout.ForSnapshot(snap, layout.DefaultConfig())
//	for _, n := range l.Nodes {
//	    fmt.Println(n.ID, n.Level)
//	}
//
// # Main Packages
//
// ## Domain
//
// [tasks] - Task and snapshot types, status parsing, YAML/JSON documents.
//
// [dag] - Insertion-ordered directed graph that tolerates cycles.
//
// [dag/transform] - Strongly connected components, cycle edges, levels.
//
// [taskgraph] - Builds the graph for a snapshot and records references
// that produced no edge.
//
// [layout] - Level columns, node positions, and status-driven edge styles.
//
// [editor] - Gesture engine: optimistic edits, removal confirmation,
// fire-and-forget dispatch to a [editor.Mutator].
//
// ## Output
//
// [graph] - Serialized layout (JSON) shared by the CLI, server, and cache.
//
// [render] - Output formats and SVG to PNG/PDF conversion.
//
// [render/nodelink] - Graphviz DOT generation and SVG rendering.
//
// ## Infrastructure
//
// [pipeline] - Snapshot → layout → render with caching, used by the CLI and
// the server.
//
// [cache] - Layout and artifact cache (null, file, Redis).
//
// [store] - Mission task storage (file, MongoDB).
//
// [server] - HTTP API over a store.
//
// [errors] - Coded errors with HTTP status mapping.
//
// [observability] - Hooks for metrics and tracing.
//
// # Testing
//
// Run tests:
//
//	go test ./...                    # All tests
//	go test -run Example ./pkg/...   # Examples only
//	go test -tags integration ./...  # Include Redis and MongoDB tests
//
// [tasks]: https://pkg.go.dev/github.com/matzehuels/missiongraph/pkg/tasks
// [dag]: https://pkg.go.dev/github.com/matzehuels/missiongraph/pkg/dag
// [dag/transform]: https://pkg.go.dev/github.com/matzehuels/missiongraph/pkg/dag/transform
// [taskgraph]: https://pkg.go.dev/github.com/matzehuels/missiongraph/pkg/taskgraph
// [layout]: https://pkg.go.dev/github.com/matzehuels/missiongraph/pkg/layout
// [editor]: https://pkg.go.dev/github.com/matzehuels/missiongraph/pkg/editor
// [editor.Mutator]: https://pkg.go.dev/github.com/matzehuels/missiongraph/pkg/editor#Mutator
// [graph]: https://pkg.go.dev/github.com/matzehuels/missiongraph/pkg/graph
// [render]: https://pkg.go.dev/github.com/matzehuels/missiongraph/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/missiongraph/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/missiongraph/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/missiongraph/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/missiongraph/pkg/store
// [server]: https://pkg.go.dev/github.com/matzehuels/missiongraph/pkg/server
// [errors]: https://pkg.go.dev/github.com/matzehuels/missiongraph/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/missiongraph/pkg/observability
package pkg
