package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/missiongraph/pkg/cache"
	apierrors "github.com/matzehuels/missiongraph/pkg/errors"
	"github.com/matzehuels/missiongraph/pkg/graph"
	"github.com/matzehuels/missiongraph/pkg/layout"
	"github.com/matzehuels/missiongraph/pkg/tasks"
)

// memCache is an in-memory cache that counts reads and writes.
type memCache struct {
	mu         sync.Mutex
	data       map[string][]byte
	gets, sets int
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.data[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func quietRunner(c cache.Cache) *Runner {
	return NewRunner(c, nil, log.New(&bytes.Buffer{}))
}

func mission() tasks.Snapshot {
	return tasks.Snapshot{
		MissionID: "launch",
		Tasks: []tasks.Task{
			{ID: "a", Title: "Design", Status: tasks.StatusDone},
			{ID: "b", Title: "Build", Status: tasks.StatusInProgress, Dependencies: []tasks.TaskRef{"a", "c"}},
			{ID: "c", Title: "Review", Dependencies: []tasks.TaskRef{"b"}},
			{ID: "d", Title: "Ship", Dependencies: []tasks.TaskRef{"c", "ghost"}},
		},
	}
}

func TestValidateFormats(t *testing.T) {
	tests := []struct {
		formats []string
		wantErr bool
	}{
		{[]string{"svg", "png"}, false},
		{[]string{"json", "dot", "pdf"}, false},
		{nil, false},
		{[]string{"svg", "invalid"}, true},
		{[]string{"SVG"}, true}, // case-sensitive
	}

	for _, tt := range tests {
		err := ValidateFormats(tt.formats)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormats(%v) error = %v, wantErr %v", tt.formats, err, tt.wantErr)
		}
		if err != nil && !apierrors.Is(err, apierrors.ErrCodeUnsupported) {
			t.Errorf("ValidateFormats(%v) code = %q, want UNSUPPORTED", tt.formats, apierrors.GetCode(err))
		}
	}
}

func TestOptionsValidateForLayout(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateForLayout(); err != nil {
		t.Errorf("zero options should take defaults: %v", err)
	}
	if got := opts.LayoutConfig(); got != layout.DefaultConfig() {
		t.Errorf("LayoutConfig() = %+v, want defaults", got)
	}

	opts = Options{Layout: layout.Config{VerticalGap: -1}}
	err := opts.ValidateForLayout()
	if !apierrors.Is(err, apierrors.ErrCodeInvalidConfig) {
		t.Errorf("negative gap error = %v, want INVALID_CONFIG", err)
	}
}

func TestSetRenderDefaults(t *testing.T) {
	opts := Options{}
	opts.SetRenderDefaults()

	if len(opts.Formats) != 1 || opts.Formats[0] != DefaultFormat {
		t.Errorf("Formats should be [svg], got %v", opts.Formats)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale should be %v, got %v", DefaultScale, opts.Scale)
	}
	if opts.Logger == nil {
		t.Error("Logger should be set")
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Scale: 3, Detailed: true}
	if got := opts.ArtifactKeyOpts("svg"); got.Scale != 0 || !got.Detailed {
		t.Errorf("svg key opts = %+v, want no scale", got)
	}
	if got := opts.ArtifactKeyOpts("png"); got.Scale != 3 {
		t.Errorf("png key opts = %+v, want scale 3", got)
	}
}

func TestParse(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "launch.yaml")
	if err := os.WriteFile(path, []byte("mission_id: launch\ntasks:\n  - id: a\n  - id: b\n    dependencies: [a]\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		src       Source
		wantCode  apierrors.Code
		wantTasks int
		wantID    string
	}{
		{"file", Source{Path: path}, "", 2, "launch"},
		{"inline json", Source{Data: []byte(`{"tasks": [{"id": "x"}]}`), MissionID: "ops"}, "", 1, "ops"},
		{"override", Source{Path: path, MissionID: "other"}, "", 2, "other"},
		{"missing file", Source{Path: filepath.Join(dir, "nope.yaml")}, apierrors.ErrCodeFileNotFound, 0, ""},
		{"malformed", Source{Data: []byte(`{"tasks": [`)}, apierrors.ErrCodeInvalidFormat, 0, ""},
		{"empty", Source{}, apierrors.ErrCodeInvalidInput, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := Parse(tt.src)
			if tt.wantCode != "" {
				if got := apierrors.GetCode(err); got != tt.wantCode {
					t.Fatalf("Parse() code = %q, want %q (err %v)", got, tt.wantCode, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if len(snap.Tasks) != tt.wantTasks || snap.MissionID != tt.wantID {
				t.Errorf("Parse() = %q with %d tasks, want %q with %d", snap.MissionID, len(snap.Tasks), tt.wantID, tt.wantTasks)
			}
		})
	}
}

func TestGenerateLayout(t *testing.T) {
	l := GenerateLayout(context.Background(), mission(), layout.Config{})

	// b and c form a cycle; c has no prerequisite outside it.
	want := map[string]int{"a": 0, "b": 1, "c": 0, "d": 1}
	for _, n := range l.Nodes {
		if n.Level != want[n.ID] {
			t.Errorf("level(%s) = %d, want %d", n.ID, n.Level, want[n.ID])
		}
	}
	if l.MissionID != "launch" || l.Levels != 2 {
		t.Errorf("mission %q levels %d, want launch 2", l.MissionID, l.Levels)
	}
	if len(l.Dropped) != 1 || l.Dropped[0].DependencyID != "ghost" {
		t.Errorf("Dropped = %+v, want the ghost reference", l.Dropped)
	}

	cycle := 0
	for _, e := range l.Edges {
		if e.Cycle {
			cycle++
		}
	}
	if cycle != 2 {
		t.Errorf("cycle edges = %d, want 2", cycle)
	}
	if err := graph.Validate(l); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestRunnerLayoutCaches(t *testing.T) {
	c := newMemCache()
	r := quietRunner(c)
	ctx := context.Background()

	first, hit, err := r.LayoutWithCacheInfo(ctx, mission(), Options{})
	if err != nil || hit {
		t.Fatalf("first layout: hit=%v err=%v", hit, err)
	}
	second, hit, err := r.LayoutWithCacheInfo(ctx, mission(), Options{})
	if err != nil || !hit {
		t.Fatalf("second layout: hit=%v err=%v", hit, err)
	}
	if len(first.Nodes) != len(second.Nodes) || first.Width != second.Width {
		t.Errorf("cached layout differs: %+v vs %+v", first, second)
	}

	if _, hit, _ := r.LayoutWithCacheInfo(ctx, mission(), Options{Refresh: true}); hit {
		t.Error("Refresh should bypass the cache")
	}

	spacing := layout.DefaultConfig()
	spacing.HorizontalGap = 300
	wide := Options{Layout: spacing}
	l, hit, _ := r.LayoutWithCacheInfo(ctx, mission(), wide)
	if hit {
		t.Error("different spacing should not share a cache entry")
	}
	if l.Width <= first.Width {
		t.Errorf("wider gap width = %v, want > %v", l.Width, first.Width)
	}

	changed := mission()
	changed.Tasks[3].Dependencies = nil
	if _, hit, _ := r.LayoutWithCacheInfo(ctx, changed, Options{}); hit {
		t.Error("edited snapshot should not hit the cache")
	}
}

func TestRunnerLayoutIgnoresCorruptEntry(t *testing.T) {
	c := newMemCache()
	r := quietRunner(c)
	ctx := context.Background()

	if _, err := r.Layout(ctx, mission(), Options{}); err != nil {
		t.Fatal(err)
	}
	for k := range c.data {
		c.data[k] = []byte("garbage")
	}
	l, hit, err := r.LayoutWithCacheInfo(ctx, mission(), Options{})
	if err != nil || hit || len(l.Nodes) != 4 {
		t.Errorf("corrupt entry: hit=%v err=%v nodes=%d", hit, err, len(l.Nodes))
	}
}

func TestRunnerRenderCaches(t *testing.T) {
	c := newMemCache()
	r := quietRunner(c)
	ctx := context.Background()
	l := GenerateLayout(ctx, mission(), layout.Config{})
	opts := Options{Formats: []string{"json", "dot"}}

	artifacts, hit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil || hit {
		t.Fatalf("first render: hit=%v err=%v", hit, err)
	}
	if !strings.Contains(string(artifacts["dot"]), "rankdir=LR") {
		t.Errorf("dot output missing rankdir:\n%s", artifacts["dot"])
	}
	parsed, err := graph.UnmarshalLayout(artifacts["json"])
	if err != nil || len(parsed.Nodes) != 4 {
		t.Errorf("json output: nodes=%d err=%v", len(parsed.Nodes), err)
	}

	again, hit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil || !hit {
		t.Fatalf("second render: hit=%v err=%v", hit, err)
	}
	if !bytes.Equal(again["dot"], artifacts["dot"]) {
		t.Error("cached dot differs")
	}

	detailed := opts
	detailed.Detailed = true
	if _, hit, _ := r.RenderWithCacheInfo(ctx, l, detailed); hit {
		t.Error("detailed labels should not share a cache entry")
	}
}

func TestRenderUnsupportedFormat(t *testing.T) {
	r := quietRunner(nil)
	l := GenerateLayout(context.Background(), mission(), layout.Config{})
	_, err := r.Render(context.Background(), l, Options{Formats: []string{"gif"}})
	if !apierrors.Is(err, apierrors.ErrCodeUnsupported) {
		t.Errorf("Render(gif) error = %v, want UNSUPPORTED", err)
	}
}

func TestRenderSVG(t *testing.T) {
	l := GenerateLayout(context.Background(), mission(), layout.Config{})
	artifacts, err := Render(context.Background(), l, Options{})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	svg := string(artifacts["svg"])
	if !strings.Contains(svg, "<svg") || !strings.Contains(svg, "Design") {
		t.Errorf("svg output missing content:\n%.200s", svg)
	}
}

func TestRunnerExecute(t *testing.T) {
	var logs bytes.Buffer
	r := NewRunner(newMemCache(), nil, log.New(&logs))

	result, err := r.Execute(context.Background(), mission(), Options{Formats: []string{"json"}})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Stats.NodeCount != 4 || result.Stats.EdgeCount != 4 || result.Stats.Dropped != 1 {
		t.Errorf("Stats = %+v", result.Stats)
	}
	if result.LayoutHash == "" || len(result.Artifacts["json"]) == 0 {
		t.Error("missing layout hash or json artifact")
	}
	if !strings.Contains(logs.String(), "dropped dependency references") {
		t.Errorf("expected dropped-reference warning, got:\n%s", logs.String())
	}

	again, err := r.Execute(context.Background(), mission(), Options{Formats: []string{"json"}})
	if err != nil {
		t.Fatal(err)
	}
	if !again.CacheInfo.LayoutHit || !again.CacheInfo.RenderHit {
		t.Errorf("CacheInfo = %+v, want both hits", again.CacheInfo)
	}
}

func TestRunnerExecuteInvalidOptions(t *testing.T) {
	r := quietRunner(nil)
	_, err := r.Execute(context.Background(), mission(), Options{Layout: layout.Config{NodeWidth: -5}})
	if !apierrors.Is(err, apierrors.ErrCodeInvalidConfig) {
		t.Errorf("Execute() error = %v, want INVALID_CONFIG", err)
	}
}
