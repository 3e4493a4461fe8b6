package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	apierrors "github.com/matzehuels/missiongraph/pkg/errors"
	"github.com/matzehuels/missiongraph/pkg/graph"
	"github.com/matzehuels/missiongraph/pkg/httputil"
	"github.com/matzehuels/missiongraph/pkg/store"
	"github.com/matzehuels/missiongraph/pkg/tasks"
)

// countingStore wraps a FileStore and records every call.
type countingStore struct {
	*store.FileStore
	mu    sync.Mutex
	calls []string
}

func (s *countingStore) record(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, name)
}

func (s *countingStore) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *countingStore) Snapshot(ctx context.Context, missionID string) (tasks.Snapshot, error) {
	s.record("snapshot")
	return s.FileStore.Snapshot(ctx, missionID)
}

func (s *countingStore) AddDependency(ctx context.Context, missionID, source, target string) error {
	s.record("add")
	return s.FileStore.AddDependency(ctx, missionID, source, target)
}

func (s *countingStore) RemoveDependency(ctx context.Context, missionID, source, target string) error {
	s.record("remove")
	return s.FileStore.RemoveDependency(ctx, missionID, source, target)
}

func newTestServer(t *testing.T) (*countingStore, http.Handler) {
	t.Helper()
	cs := seededStore(t)
	srv := New(cs, nil, log.New(&bytes.Buffer{}), WithDispatch(func(f func()) { f() }))
	return cs, srv.Handler()
}

func seededStore(t *testing.T) *countingStore {
	t.Helper()
	fs, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	err = fs.Put(context.Background(), tasks.Snapshot{
		MissionID: "launch",
		Tasks: []tasks.Task{
			{ID: "a", Title: "Design", Status: tasks.StatusDone},
			{ID: "b", Title: "Build", Status: tasks.StatusInProgress, Dependencies: []tasks.TaskRef{"a"}},
			{ID: "c", Title: "Ship", Dependencies: []tasks.TaskRef{"b"}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return &countingStore{FileStore: fs}
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) apierrors.Code {
	t.Helper()
	var body httputil.ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body.Code
}

func TestHealth(t *testing.T) {
	_, h := newTestServer(t)
	rec := do(h, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("GET /healthz = %d %s", rec.Code, rec.Body.String())
	}
}

func TestGetGraph(t *testing.T) {
	_, h := newTestServer(t)
	rec := do(h, http.MethodGet, "/missions/launch/graph", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	l, err := graph.UnmarshalLayout(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("UnmarshalLayout: %v", err)
	}
	want := map[string]int{"a": 0, "b": 1, "c": 2}
	for _, n := range l.Nodes {
		if n.Level != want[n.ID] {
			t.Errorf("level(%s) = %d, want %d", n.ID, n.Level, want[n.ID])
		}
	}
	if len(l.Edges) != 2 || l.Edges[0].Style.Tone != "success" || !l.Edges[1].Style.Animated {
		t.Errorf("Edges = %+v", l.Edges)
	}
}

func TestGetGraphMissing(t *testing.T) {
	_, h := newTestServer(t)
	rec := do(h, http.MethodGet, "/missions/nope/graph", "")
	if rec.Code != http.StatusNotFound || errorCode(t, rec) != apierrors.ErrCodeMissionNotFound {
		t.Errorf("GET missing mission = %d %s", rec.Code, rec.Body.String())
	}
}

func TestRenderDOT(t *testing.T) {
	_, h := newTestServer(t)
	rec := do(h, http.MethodGet, "/missions/launch/graph.dot", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"a" -> "b"`) {
		t.Errorf("dot body missing edge:\n%s", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/vnd.graphviz") {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestRenderUnsupported(t *testing.T) {
	cs, h := newTestServer(t)
	rec := do(h, http.MethodGet, "/missions/launch/graph.gif", "")
	if errorCode(t, rec) != apierrors.ErrCodeUnsupported {
		t.Errorf("GET graph.gif = %d %s", rec.Code, rec.Body.String())
	}
	if len(cs.Calls()) != 0 {
		t.Errorf("store calls = %v, want none", cs.Calls())
	}
}

func TestAddDependency(t *testing.T) {
	cs, h := newTestServer(t)
	rec := do(h, http.MethodPost, "/missions/launch/dependencies", `{"source": "a", "target": "c"}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp MutationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.IntentID == "" {
		t.Errorf("response = %s (%v)", rec.Body.String(), err)
	}

	snap, _ := cs.FileStore.Snapshot(context.Background(), "launch")
	if got := snap.Tasks[2].DependencyIDs(); len(got) != 2 || got[1] != "a" {
		t.Errorf("c deps = %v, want [b a]", got)
	}
}

func TestAddDependencyRejected(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   apierrors.Code
		wantCalls  int
	}{
		{"self loop", `{"source": "a", "target": "a"}`, 400, apierrors.ErrCodeSelfDependency, 0},
		{"missing field", `{"source": "a"}`, 400, apierrors.ErrCodeInvalidID, 0},
		{"malformed", `{"source":`, 400, apierrors.ErrCodeInvalidInput, 0},
		{"unknown task", `{"source": "a", "target": "zz"}`, 404, apierrors.ErrCodeTaskNotFound, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs, h := newTestServer(t)
			rec := do(h, http.MethodPost, "/missions/launch/dependencies", tt.body)
			if rec.Code != tt.wantStatus || errorCode(t, rec) != tt.wantCode {
				t.Errorf("POST = %d %s, want %d %s", rec.Code, rec.Body.String(), tt.wantStatus, tt.wantCode)
			}
			// Only the snapshot read may reach the store.
			if calls := cs.Calls(); len(calls) != tt.wantCalls {
				t.Errorf("store calls = %v, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRemoveDependencyRequiresConfirmation(t *testing.T) {
	cs, h := newTestServer(t)
	rec := do(h, http.MethodDelete, "/missions/launch/dependencies?source=a&target=b", "")
	if rec.Code != http.StatusConflict || errorCode(t, rec) != apierrors.ErrCodeConfirmationRequired {
		t.Errorf("DELETE without confirm = %d %s", rec.Code, rec.Body.String())
	}
	if calls := cs.Calls(); len(calls) != 0 {
		t.Errorf("store calls = %v, want none", calls)
	}
}

func TestRemoveDependency(t *testing.T) {
	cs, h := newTestServer(t)
	rec := do(h, http.MethodDelete, "/missions/launch/dependencies?source=a&target=b&confirm=true", "")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if calls := cs.Calls(); len(calls) != 2 || calls[1] != "remove" {
		t.Errorf("store calls = %v, want [snapshot remove]", calls)
	}
	snap, _ := cs.FileStore.Snapshot(context.Background(), "launch")
	if got := snap.Tasks[1].DependencyIDs(); len(got) != 0 {
		t.Errorf("b deps = %v, want none", got)
	}

	rec = do(h, http.MethodDelete, "/missions/launch/dependencies?source=a&target=c&confirm=true", "")
	if rec.Code != http.StatusNotFound || errorCode(t, rec) != apierrors.ErrCodeNotFound {
		t.Errorf("DELETE missing edge = %d %s", rec.Code, rec.Body.String())
	}
}

func TestPutMissionAndList(t *testing.T) {
	_, h := newTestServer(t)
	rec := do(h, http.MethodPut, "/missions/ops", "tasks:\n  - id: x\n  - id: y\n    dependencies: [x]\n")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("PUT status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(h, http.MethodGet, "/missions", "")
	var body struct{ Missions []string }
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Missions) != 2 || body.Missions[0] != "launch" || body.Missions[1] != "ops" {
		t.Errorf("missions = %v, want [launch ops]", body.Missions)
	}

	rec = do(h, http.MethodPut, "/missions/bad", `{"tasks": [`)
	if rec.Code != http.StatusBadRequest || errorCode(t, rec) != apierrors.ErrCodeInvalidFormat {
		t.Errorf("PUT malformed = %d %s", rec.Code, rec.Body.String())
	}
}

func TestShutdownWaitsForMutations(t *testing.T) {
	cs := seededStore(t)
	srv := New(cs, nil, log.New(&bytes.Buffer{}))

	rec := do(srv.Handler(), http.MethodPost, "/missions/launch/dependencies", `{"source": "a", "target": "c"}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var finished atomic.Bool
	release := make(chan struct{})
	srv.dispatch(func() {
		<-release
		time.Sleep(20 * time.Millisecond)
		finished.Store(true)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	close(release)
	if err := srv.ListenAndServe(ctx, "127.0.0.1:0", 5*time.Second); err != nil {
		t.Fatalf("ListenAndServe() = %v", err)
	}
	if !finished.Load() {
		t.Error("ListenAndServe returned before dispatched mutations finished")
	}

	snap, err := cs.FileStore.Snapshot(context.Background(), "launch")
	if err != nil {
		t.Fatal(err)
	}
	if got := snap.Tasks[2].DependencyIDs(); !slices.Equal(got, []string{"b", "a"}) {
		t.Errorf("c deps = %v, want [b a]", got)
	}
}

func TestShutdownMutationTimeout(t *testing.T) {
	srv := New(seededStore(t), nil, log.New(&bytes.Buffer{}))
	release := make(chan struct{})
	defer close(release)
	srv.dispatch(func() { <-release })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := srv.ListenAndServe(ctx, "127.0.0.1:0", 20*time.Millisecond)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("ListenAndServe() = %v, want context.DeadlineExceeded", err)
	}
}
