package store

import (
	"context"

	"github.com/matzehuels/missiongraph/pkg/tasks"
)

// Store reads and edits mission task lists.
//
// AddDependency and RemoveDependency mean "target depends on source".
// Adding an existing dependency and removing a missing one succeed without
// change. Errors carry pkg/errors codes: MISSION_NOT_FOUND,
// TASK_NOT_FOUND, SELF_DEPENDENCY, INVALID_ID, and STORE_UNAVAILABLE.
type Store interface {
	// Snapshot returns the mission's tasks in stored order.
	Snapshot(ctx context.Context, missionID string) (tasks.Snapshot, error)

	// Put replaces a mission's tasks with s.Tasks.
	Put(ctx context.Context, s tasks.Snapshot) error

	// Missions lists stored mission IDs in ascending order.
	Missions(ctx context.Context) ([]string, error)

	AddDependency(ctx context.Context, missionID, source, target string) error
	RemoveDependency(ctx context.Context, missionID, source, target string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// MissionMutator binds a Store to one mission. It satisfies editor.Mutator.
type MissionMutator struct {
	Store     Store
	MissionID string
}

// Bind returns a mutator editing missionID in s.
func Bind(s Store, missionID string) MissionMutator {
	return MissionMutator{Store: s, MissionID: missionID}
}

// AddDependency records that target depends on source.
func (m MissionMutator) AddDependency(ctx context.Context, source, target string) error {
	return m.Store.AddDependency(ctx, m.MissionID, source, target)
}

// RemoveDependency removes source from target's dependencies.
func (m MissionMutator) RemoveDependency(ctx context.Context, source, target string) error {
	return m.Store.RemoveDependency(ctx, m.MissionID, source, target)
}
