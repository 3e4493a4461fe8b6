package taskgraph

import (
	"reflect"
	"testing"

	"github.com/matzehuels/missiongraph/pkg/dag"
	"github.com/matzehuels/missiongraph/pkg/tasks"
)

func task(id string, status tasks.Status, deps ...string) tasks.Task {
	refs := make([]tasks.TaskRef, len(deps))
	for i, d := range deps {
		refs[i] = tasks.TaskRef(d)
	}
	return tasks.Task{ID: id, Title: "Task " + id, Status: status, Dependencies: refs}
}

func nodeIDs(nodes []*dag.Node) []string {
	ids := make([]string, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, n.ID)
	}
	return ids
}

func edgePairs(g *dag.DAG) [][2]string {
	var pairs [][2]string
	for _, e := range g.Edges() {
		pairs = append(pairs, [2]string{e.From, e.To})
	}
	return pairs
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name        string
		snapshot    tasks.Snapshot
		wantNodes   []string
		wantEdges   [][2]string
		wantDropped []DroppedRef
	}{
		{
			name:     "Empty",
			snapshot: tasks.Snapshot{},
		},
		{
			name: "LinearChain",
			snapshot: tasks.Snapshot{Tasks: []tasks.Task{
				task("a", tasks.StatusDone),
				task("b", tasks.StatusInProgress, "a"),
				task("c", tasks.StatusPending, "b"),
			}},
			wantNodes: []string{"a", "b", "c"},
			wantEdges: [][2]string{{"a", "b"}, {"b", "c"}},
		},
		{
			name: "DanglingReference",
			snapshot: tasks.Snapshot{Tasks: []tasks.Task{
				task("a", tasks.StatusPending),
				task("b", tasks.StatusPending, "ghost", "a"),
			}},
			wantNodes:   []string{"a", "b"},
			wantEdges:   [][2]string{{"a", "b"}},
			wantDropped: []DroppedRef{{TaskID: "b", DependencyID: "ghost", Reason: ReasonDangling}},
		},
		{
			name: "SelfReference",
			snapshot: tasks.Snapshot{Tasks: []tasks.Task{
				task("a", tasks.StatusPending, "a"),
			}},
			wantNodes:   []string{"a"},
			wantDropped: []DroppedRef{{TaskID: "a", DependencyID: "a", Reason: ReasonSelf}},
		},
		{
			name: "DuplicateReferencesCollapse",
			snapshot: tasks.Snapshot{Tasks: []tasks.Task{
				task("a", tasks.StatusPending),
				task("b", tasks.StatusPending, "a", "a"),
			}},
			wantNodes:   []string{"a", "b"},
			wantEdges:   [][2]string{{"a", "b"}},
			wantDropped: []DroppedRef{{TaskID: "b", DependencyID: "a", Reason: ReasonDuplicateRef}},
		},
		{
			name: "DuplicateTaskFirstWins",
			snapshot: tasks.Snapshot{Tasks: []tasks.Task{
				task("a", tasks.StatusPending),
				task("b", tasks.StatusPending, "a"),
				task("b", tasks.StatusDone),
				task("c", tasks.StatusPending, "b"),
			}},
			wantNodes:   []string{"a", "b", "c"},
			wantEdges:   [][2]string{{"a", "b"}, {"b", "c"}},
			wantDropped: []DroppedRef{{TaskID: "b", Reason: ReasonDuplicateTask}},
		},
		{
			name: "EmptyIDs",
			snapshot: tasks.Snapshot{Tasks: []tasks.Task{
				task("", tasks.StatusPending),
				task("a", tasks.StatusPending, ""),
			}},
			wantNodes: []string{"a"},
			wantDropped: []DroppedRef{
				{Reason: ReasonEmptyID},
				{TaskID: "a", Reason: ReasonEmptyID},
			},
		},
		{
			name: "MutualDependency",
			snapshot: tasks.Snapshot{Tasks: []tasks.Task{
				task("a", tasks.StatusPending, "b"),
				task("b", tasks.StatusPending, "a"),
			}},
			wantNodes: []string{"a", "b"},
			wantEdges: [][2]string{{"b", "a"}, {"a", "b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Build(tt.snapshot)

			if got := nodeIDs(g.Nodes()); !reflect.DeepEqual(got, append([]string{}, tt.wantNodes...)) {
				t.Errorf("nodes = %v, want %v", got, tt.wantNodes)
			}
			if got := edgePairs(g); !reflect.DeepEqual(got, tt.wantEdges) {
				t.Errorf("edges = %v, want %v", got, tt.wantEdges)
			}
			if got := Dropped(g); !reflect.DeepEqual(got, tt.wantDropped) {
				t.Errorf("Dropped() = %v, want %v", got, tt.wantDropped)
			}
		})
	}
}

func TestBuildDoesNotMutateSnapshot(t *testing.T) {
	snap := tasks.Snapshot{Tasks: []tasks.Task{
		task("a", tasks.StatusPending, "a", "ghost"),
		task("b", tasks.StatusPending, "a", "a"),
	}}
	before := tasks.Snapshot{Tasks: []tasks.Task{
		task("a", tasks.StatusPending, "a", "ghost"),
		task("b", tasks.StatusPending, "a", "a"),
	}}

	Build(snap)

	if !reflect.DeepEqual(snap, before) {
		t.Errorf("Build modified snapshot: %+v", snap)
	}
}

func TestBuildDeterministic(t *testing.T) {
	snap := tasks.Snapshot{Tasks: []tasks.Task{
		task("d", tasks.StatusPending, "b", "c"),
		task("b", tasks.StatusPending, "a"),
		task("c", tasks.StatusPending, "a"),
		task("a", tasks.StatusDone),
	}}

	first, second := Build(snap), Build(snap)

	if !reflect.DeepEqual(nodeIDs(first.Nodes()), nodeIDs(second.Nodes())) {
		t.Error("node order differs between builds")
	}
	if !reflect.DeepEqual(edgePairs(first), edgePairs(second)) {
		t.Error("edge order differs between builds")
	}
}

func TestNodeMetadata(t *testing.T) {
	snap := tasks.Snapshot{Tasks: []tasks.Task{
		{ID: "a", Title: "Write docs", Status: tasks.StatusInProgress, Blocked: true},
		{ID: "b", Status: tasks.StatusPending, ReadyToStart: true},
	}}
	g := Build(snap)

	a, _ := g.Node("a")
	if got := Title(a); got != "Write docs" {
		t.Errorf("Title(a) = %q, want %q", got, "Write docs")
	}
	if got := Status(a); got != tasks.StatusInProgress {
		t.Errorf("Status(a) = %v, want in_progress", got)
	}
	if blocked, ready := Flags(a); !blocked || ready {
		t.Errorf("Flags(a) = %v, %v; want true, false", blocked, ready)
	}

	b, _ := g.Node("b")
	if got := Title(b); got != "b" {
		t.Errorf("Title(b) = %q, want fallback to ID", got)
	}
	if blocked, ready := Flags(b); blocked || !ready {
		t.Errorf("Flags(b) = %v, %v; want false, true", blocked, ready)
	}
}
