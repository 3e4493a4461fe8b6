// Package store persists mission task lists.
//
// A [Store] is the system of record for tasks and their dependency lists.
// The graph view reads snapshots from it and sends dependency edits to it;
// it never stores layouts or graph state.
//
// # Backends
//
//   - [FileStore]: one YAML or JSON snapshot file per mission in a directory
//   - [MongoStore]: one document per task in a MongoDB collection
//
// # Editing
//
// [Bind] adapts a Store to editor.Mutator for one mission:
//
//	engine := editor.New(store.Bind(s, "launch"))
//
// Edits touch only the target task's dependency list. Dangling references
// already present in stored data are left alone.
package store
