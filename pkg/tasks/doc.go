// Package tasks defines the read-only task snapshot consumed by the mission
// dependency graph.
//
// # Overview
//
// A mission is a list of todos ([Task]). Each task lists the tasks it depends
// on as an ordered sequence of [TaskRef]. Dependency references arrive in two
// shapes from upstream systems, either a bare id or an object carrying an id:
//
//	{"id": "b", "dependencies": ["a"]}
//	{"id": "c", "dependencies": [{"id": "b"}]}
//
// Both shapes normalize to a bare id. [Snapshot] is the full task list at one
// point in time and is treated as immutable by every consumer.
//
// # Status
//
// [Status] is a closed enumeration. [ParseStatus] is total: any string maps to
// one of the known values, with [StatusUnknown] as the fallback, so downstream
// policies can switch exhaustively.
//
// # Decoding
//
// [ReadSnapshot] and [ReadSnapshotFile] decode JSON or YAML documents. The
// format is chosen from the file extension, or sniffed from the first
// non-space byte for readers.
package tasks
