package dag

import (
	"errors"
	"reflect"
	"testing"
)

func build(t *testing.T, ids []string, edges [][2]string) *DAG {
	t.Helper()
	g := New(nil)
	for _, id := range ids {
		if err := g.AddNode(Node{ID: id}); err != nil {
			t.Fatalf("AddNode(%s): %v", id, err)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(Edge{From: e[0], To: e[1]}); err != nil {
			t.Fatalf("AddEdge(%s→%s): %v", e[0], e[1], err)
		}
	}
	return g
}

func TestAddNodeErrors(t *testing.T) {
	g := New(nil)
	if err := g.AddNode(Node{}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("AddNode(empty) = %v, want ErrInvalidNodeID", err)
	}
	_ = g.AddNode(Node{ID: "a"})
	if err := g.AddNode(Node{ID: "a"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("AddNode(dup) = %v, want ErrDuplicateNodeID", err)
	}
	if g.NodeCount() != 1 {
		t.Errorf("NodeCount() = %d, want 1", g.NodeCount())
	}
}

func TestAddNodeAssignsIndex(t *testing.T) {
	g := build(t, []string{"x", "y", "z"}, nil)
	for i, n := range g.Nodes() {
		if n.Index != i {
			t.Errorf("%s.Index = %d, want %d", n.ID, n.Index, i)
		}
		if n.Meta == nil {
			t.Errorf("%s.Meta is nil", n.ID)
		}
	}
}

func TestAddEdgeErrors(t *testing.T) {
	tests := []struct {
		name string
		edge Edge
		want error
	}{
		{"unknown source", Edge{From: "zz", To: "a"}, ErrUnknownSourceNode},
		{"unknown target", Edge{From: "a", To: "zz"}, ErrUnknownTargetNode},
		{"self loop", Edge{From: "a", To: "a"}, ErrSelfLoop},
		{"duplicate", Edge{From: "a", To: "b"}, ErrDuplicateEdge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := build(t, []string{"a", "b"}, [][2]string{{"a", "b"}})
			if err := g.AddEdge(tt.edge); !errors.Is(err, tt.want) {
				t.Errorf("AddEdge() = %v, want %v", err, tt.want)
			}
			if g.EdgeCount() != 1 {
				t.Errorf("EdgeCount() = %d after rejected edge, want 1", g.EdgeCount())
			}
		})
	}
}

func TestHasCycle(t *testing.T) {
	tests := []struct {
		name  string
		edges [][2]string
		want  bool
	}{
		{"empty", nil, false},
		{"chain", [][2]string{{"a", "b"}, {"b", "c"}}, false},
		{"diamond", [][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}}, false},
		{"two-cycle", [][2]string{{"a", "b"}, {"b", "a"}}, true},
		{"long cycle", [][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}, {"d", "b"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := build(t, []string{"a", "b", "c", "d"}, tt.edges)
			if got := g.HasCycle(); got != tt.want {
				t.Errorf("HasCycle() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRows(t *testing.T) {
	g := build(t, []string{"a", "b", "c", "d"}, [][2]string{{"a", "c"}, {"b", "c"}, {"c", "d"}})
	g.SetRows(map[string]int{"c": 1, "d": 2, "ghost": 9})

	ids := func(nodes []*Node) []string {
		var out []string
		for _, n := range nodes {
			out = append(out, n.ID)
		}
		return out
	}
	if got := g.RowIDs(); !reflect.DeepEqual(got, []int{0, 1, 2}) {
		t.Errorf("RowIDs() = %v, want [0 1 2]", got)
	}
	if got := ids(g.NodesInRow(0)); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("NodesInRow(0) = %v, want [a b]", got)
	}
	if got := g.NodesInRow(5); got != nil {
		t.Errorf("NodesInRow(5) = %v, want nil", got)
	}
	if got := g.MaxRow(); got != 2 {
		t.Errorf("MaxRow() = %d, want 2", got)
	}
	if got := g.Parents("c"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Parents(c) = %v, want [a b]", got)
	}
}
