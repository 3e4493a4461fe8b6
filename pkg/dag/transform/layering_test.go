package transform

import (
	"fmt"
	"testing"

	"github.com/matzehuels/missiongraph/pkg/dag"
)

func TestAssignLevels(t *testing.T) {
	tests := []struct {
		name  string
		nodes []string
		edges [][2]string
		want  map[string]int
	}{
		{
			name: "Empty",
			want: map[string]int{},
		},
		{
			name:  "Isolated",
			nodes: []string{"a", "b"},
			want:  map[string]int{"a": 0, "b": 0},
		},
		{
			name:  "LinearChain",
			nodes: []string{"a", "b", "c"},
			edges: [][2]string{{"a", "b"}, {"b", "c"}},
			want:  map[string]int{"a": 0, "b": 1, "c": 2},
		},
		{
			name:  "ChainInReverseOrder",
			nodes: []string{"c", "b", "a"},
			edges: [][2]string{{"a", "b"}, {"b", "c"}},
			want:  map[string]int{"a": 0, "b": 1, "c": 2},
		},
		{
			name:  "Diamond",
			nodes: []string{"a", "b", "c", "d"},
			edges: [][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}},
			want:  map[string]int{"a": 0, "b": 1, "c": 1, "d": 2},
		},
		{
			name:  "LongestPathWins",
			nodes: []string{"a", "b", "c", "d"},
			edges: [][2]string{{"a", "b"}, {"b", "c"}, {"a", "d"}, {"c", "d"}},
			want:  map[string]int{"a": 0, "b": 1, "c": 2, "d": 3},
		},
		{
			name:  "TwoCyclePlusTail",
			nodes: []string{"a", "b", "c"},
			edges: [][2]string{{"b", "a"}, {"a", "b"}, {"a", "c"}},
			want:  map[string]int{"a": 0, "b": 0, "c": 1},
		},
		{
			name:  "CycleWithExternalPrerequisite",
			nodes: []string{"x", "a", "b", "c"},
			edges: [][2]string{{"x", "a"}, {"a", "b"}, {"b", "a"}, {"b", "c"}},
			want:  map[string]int{"x": 0, "a": 1, "b": 0, "c": 1},
		},
		{
			name:  "CycleMemberWithOutsidePrerequisite",
			nodes: []string{"a", "b", "x"},
			edges: [][2]string{{"b", "a"}, {"a", "b"}, {"x", "b"}},
			want:  map[string]int{"x": 0, "a": 0, "b": 1},
		},
		{
			name:  "CycleMemberWithOutsidePrerequisiteReordered",
			nodes: []string{"x", "b", "a"},
			edges: [][2]string{{"x", "b"}, {"a", "b"}, {"b", "a"}},
			want:  map[string]int{"x": 0, "a": 0, "b": 1},
		},
		{
			name:  "TriangleFeedsChain",
			nodes: []string{"a", "b", "c", "d", "e"},
			edges: [][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}, {"c", "d"}, {"d", "e"}},
			want:  map[string]int{"a": 0, "b": 0, "c": 0, "d": 1, "e": 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGraph(t, tt.nodes, tt.edges...)

			got := AssignLevels(g)

			if len(got) != len(tt.want) {
				t.Errorf("len(levels) = %d, want %d", len(got), len(tt.want))
			}
			for id, want := range tt.want {
				if got[id] != want {
					t.Errorf("level(%s) = %d, want %d", id, got[id], want)
				}
				if n, _ := g.Node(id); n.Row != want {
					t.Errorf("Node(%s).Row = %d, want %d", id, n.Row, want)
				}
			}
		})
	}
}

func TestAssignLevels_NonCycleEdgesIncrease(t *testing.T) {
	g := newGraph(t, []string{"a", "b", "c", "d", "e", "f"},
		[2]string{"a", "b"}, [2]string{"b", "c"}, [2]string{"c", "b"},
		[2]string{"c", "d"}, [2]string{"a", "e"}, [2]string{"e", "f"}, [2]string{"d", "f"})

	levels := AssignLevels(g)
	comp := Components(g)

	for _, e := range g.Edges() {
		if comp[e.From] == comp[e.To] {
			continue
		}
		if levels[e.To] <= levels[e.From] {
			t.Errorf("edge %s→%s: level %d <= %d", e.From, e.To, levels[e.To], levels[e.From])
		}
	}
}

func TestAssignLevels_Deterministic(t *testing.T) {
	build := func() *dag.DAG {
		return newGraph(t, []string{"a", "b", "c", "d"},
			[2]string{"a", "b"}, [2]string{"b", "a"}, [2]string{"b", "c"}, [2]string{"c", "d"}, [2]string{"d", "c"})
	}
	first, second := AssignLevels(build()), AssignLevels(build())
	for id, l := range first {
		if second[id] != l {
			t.Errorf("level(%s) = %d then %d", id, l, second[id])
		}
	}
}

func TestAssignLevels_LongChain(t *testing.T) {
	const n = 5000
	g := dag.New(nil)
	for i := 0; i < n; i++ {
		_ = g.AddNode(dag.Node{ID: fmt.Sprint(i)})
		if i > 0 {
			_ = g.AddEdge(dag.Edge{From: fmt.Sprint(i - 1), To: fmt.Sprint(i)})
		}
	}
	// Close the loop so the whole chain is one cycle.
	_ = g.AddEdge(dag.Edge{From: fmt.Sprint(n - 1), To: "0"})

	levels := AssignLevels(g)

	if len(levels) != n {
		t.Fatalf("len(levels) = %d, want %d", len(levels), n)
	}
	for id, l := range levels {
		if l != 0 {
			t.Fatalf("level(%s) = %d, want 0 for a node on the cycle", id, l)
		}
	}
}
