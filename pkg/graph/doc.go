// Package graph provides the serialization format for mission graph
// layouts.
//
// This package defines the canonical wire format for positioned dependency
// graphs, used for JSON files, API responses, caching, and as the input of
// the renderers.
//
// # Architecture
//
// The package sits at the serialization boundary between internal
// representations and external formats:
//
//   - [Layout], [Node], [Edge]: serialization types (this package)
//   - pkg/dag.DAG: internal graph representation
//   - pkg/layout.Layout: internal layout (positions, styles)
//
// Use [FromLayout] to convert a computed layout and the Read/Write functions
// to move it across process boundaries.
//
// # Layout Serialization
//
// Layouts use a node-link JSON format with a position per node and a style
// per edge:
//
//	{
//	  "mission_id": "launch",
//	  "width": 612, "height": 152, "levels": 2,
//	  "nodes": [
//	    {"id": "a", "title": "Design", "level": 0, "status": "done",
//	     "position": {"x": 40, "y": 40}}
//	  ],
//	  "edges": [
//	    {"source": "a", "target": "b",
//	     "style": {"line": "solid", "tone": "success", "color": "#16a34a"}}
//	  ]
//	}
//
// Common operations:
//
//	l := graph.FromLayout("launch", computed, dropped) // internal → wire
//	data, _ := graph.MarshalLayout(l)                 // wire → []byte
//	parsed, _ := graph.UnmarshalLayout(data)          // []byte → wire
//	graph.WriteLayoutFile(l, "launch.json")           // wire → file
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
