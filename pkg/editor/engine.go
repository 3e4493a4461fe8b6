package editor

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/missiongraph/pkg/dag"
	"github.com/matzehuels/missiongraph/pkg/layout"
	"github.com/matzehuels/missiongraph/pkg/observability"
	"github.com/matzehuels/missiongraph/pkg/taskgraph"
	"github.com/matzehuels/missiongraph/pkg/tasks"
)

// Mutator persists dependency changes. Both methods mean "target depends on
// source". Implementations may be slow or fail; the engine calls them
// asynchronously and ignores their results.
type Mutator interface {
	AddDependency(ctx context.Context, source, target string) error
	RemoveDependency(ctx context.Context, source, target string) error
}

// MutatorFuncs adapts a pair of functions to [Mutator]. Nil functions do
// nothing.
type MutatorFuncs struct {
	Add    func(ctx context.Context, source, target string) error
	Remove func(ctx context.Context, source, target string) error
}

func (f MutatorFuncs) AddDependency(ctx context.Context, source, target string) error {
	if f.Add == nil {
		return nil
	}
	return f.Add(ctx, source, target)
}

func (f MutatorFuncs) RemoveDependency(ctx context.Context, source, target string) error {
	if f.Remove == nil {
		return nil
	}
	return f.Remove(ctx, source, target)
}

// Confirmer asks the user to acknowledge a removal. Confirm blocks until
// the user answers.
type Confirmer interface {
	Confirm(message string) bool
}

// ConfirmFunc adapts a function to [Confirmer].
type ConfirmFunc func(message string) bool

func (f ConfirmFunc) Confirm(message string) bool { return f(message) }

// Mutation kinds reported to hooks and logs.
const (
	KindAdd    = "add"
	KindRemove = "remove"
)

type edgeKey struct{ source, target string }

// Engine holds one mission's graph view and its edit state. Methods are
// safe for concurrent use.
type Engine struct {
	mutator   Mutator
	confirmer Confirmer
	cfg       layout.Config
	logger    *log.Logger
	dispatch  func(func())

	mu       sync.Mutex
	snapshot tasks.Snapshot
	graph    *dag.DAG
	base     layout.Layout
	added    []edgeKey
	removed  map[edgeKey]bool
	state    State
	pending  edgeKey
}

// Option configures an Engine.
type Option func(*Engine)

// WithConfirmer sets the confirmation provider used by [Engine.Disconnect].
// Without one, Disconnect always cancels.
func WithConfirmer(c Confirmer) Option {
	return func(e *Engine) { e.confirmer = c }
}

// WithLayout sets the layout spacing.
func WithLayout(cfg layout.Config) Option {
	return func(e *Engine) { e.cfg = cfg }
}

// WithLogger sets the logger. The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithDispatch replaces how mutator calls are scheduled. The default runs
// each call on its own goroutine. Tests pass a function that runs the call
// inline.
func WithDispatch(d func(func())) Option {
	return func(e *Engine) {
		if d != nil {
			e.dispatch = d
		}
	}
}

// New creates an engine with an empty snapshot. m must not be nil.
func New(m Mutator, opts ...Option) *Engine {
	e := &Engine{
		mutator:  m,
		cfg:      layout.DefaultConfig(),
		logger:   log.Default(),
		dispatch: func(f func()) { go f() },
	}
	for _, opt := range opts {
		opt(e)
	}
	e.reset(tasks.Snapshot{})
	return e
}

// Load replaces the snapshot and rebuilds the graph and layout. Optimistic
// edits are discarded and a pending removal is abandoned without calling
// the mutator.
func (e *Engine) Load(s tasks.Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateAwaitingConfirmation {
		e.logger.Debug("snapshot replaced pending removal", "source", e.pending.source, "target", e.pending.target)
	}
	e.reset(s)
	e.logger.Debug("loaded snapshot", "mission", s.MissionID, "nodes", e.graph.NodeCount(), "edges", e.graph.EdgeCount())
}

func (e *Engine) reset(s tasks.Snapshot) {
	e.snapshot = s
	e.graph = taskgraph.Build(s)
	e.base = layout.Compute(e.graph, e.cfg)
	e.added = nil
	e.removed = make(map[edgeKey]bool)
	e.state = StateIdle
	e.pending = edgeKey{}
}

// Snapshot returns the snapshot last passed to Load.
func (e *Engine) Snapshot() tasks.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot
}

// Dropped returns the dependency references of the current snapshot that
// produced no edge.
func (e *Engine) Dropped() []taskgraph.DroppedRef {
	e.mu.Lock()
	defer e.mu.Unlock()
	return taskgraph.Dropped(e.graph)
}

// State returns the current edit state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Pending returns the edge awaiting confirmation, if any.
func (e *Engine) Pending() (source, target string, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateAwaitingConfirmation {
		return "", "", false
	}
	return e.pending.source, e.pending.target, true
}

// Layout returns the current render output: the snapshot layout with
// optimistic edits applied. Optimistically added edges come last, use the
// neutral style, and have Optimistic set. Optimistic edits never change
// levels or positions; those follow the snapshot alone. The returned
// slices are copies owned by the caller.
func (e *Engine) Layout() layout.Layout {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.layoutLocked()
}

func (e *Engine) layoutLocked() layout.Layout {
	out := e.base
	out.Nodes = slices.Clone(e.base.Nodes)
	if len(e.added) == 0 && len(e.removed) == 0 {
		out.Edges = slices.Clone(e.base.Edges)
		return out
	}
	out.Edges = make([]layout.EdgeBox, 0, len(e.base.Edges)+len(e.added))
	for _, edge := range e.base.Edges {
		if !e.removed[edgeKey{edge.Source, edge.Target}] {
			out.Edges = append(out.Edges, edge)
		}
	}
	for _, k := range e.added {
		out.Edges = append(out.Edges, layout.EdgeBox{
			Source:     k.source,
			Target:     k.target,
			Style:      layout.NeutralStyle(),
			Optimistic: true,
		})
	}
	return out
}

// HasEdge reports whether source→target is currently drawn, counting
// optimistic edits.
func (e *Engine) HasEdge(source, target string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hasEdgeLocked(edgeKey{source, target})
}

func (e *Engine) hasEdgeLocked(k edgeKey) bool {
	if slices.Contains(e.added, k) {
		return true
	}
	return e.graph.HasEdge(k.source, k.target) && !e.removed[k]
}

// Connect handles a gesture proposing that target depends on source.
//
// Self-loops, unknown tasks, and gestures made while a removal awaits
// confirmation are rejected without calling the mutator. Otherwise
// Mutator.AddDependency is dispatched once and the edge is drawn
// immediately. Proposing an edge that is already drawn still dispatches the
// call; the edge is not drawn twice.
func (e *Engine) Connect(ctx context.Context, source, target string) Result {
	r, job := e.connect(ctx, source, target)
	if job != nil {
		e.dispatch(job)
	}
	return r
}

func (e *Engine) connect(ctx context.Context, source, target string) (Result, func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if source == target {
		return e.reject(ctx, KindAdd, source, target, OutcomeSelfLoop), nil
	}
	if e.state != StateIdle {
		return e.reject(ctx, KindAdd, source, target, OutcomeBusy), nil
	}
	if !e.known(source) || !e.known(target) {
		return e.reject(ctx, KindAdd, source, target, OutcomeUnknownTask), nil
	}

	k := edgeKey{source, target}
	if !e.hasEdgeLocked(k) {
		if e.removed[k] {
			delete(e.removed, k)
		} else {
			e.added = append(e.added, k)
		}
	}
	id, job := e.prepare(ctx, KindAdd, source, target, e.mutator.AddDependency)
	return Result{Outcome: OutcomeDispatched, IntentID: id}, job
}

// RequestRemoval handles a gesture targeting the drawn edge source→target
// and enters [StateAwaitingConfirmation]. Nothing is dispatched until
// [Engine.ResolveRemoval] confirms.
func (e *Engine) RequestRemoval(ctx context.Context, source, target string) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateIdle {
		return e.reject(ctx, KindRemove, source, target, OutcomeBusy)
	}
	if !e.hasEdgeLocked(edgeKey{source, target}) {
		return e.reject(ctx, KindRemove, source, target, OutcomeNoSuchEdge)
	}
	e.state = StateAwaitingConfirmation
	e.pending = edgeKey{source, target}
	return Result{Outcome: OutcomeAwaitingConfirmation}
}

// ConfirmMessage returns the prompt for the pending removal, or "" when
// idle.
func (e *Engine) ConfirmMessage() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateAwaitingConfirmation {
		return ""
	}
	return e.messageLocked(e.pending)
}

func (e *Engine) messageLocked(k edgeKey) string {
	return fmt.Sprintf("Remove dependency? %q will no longer wait for %q.", e.title(k.target), e.title(k.source))
}

// ResolveRemoval answers the pending confirmation and returns to
// [StateIdle]. When confirmed, Mutator.RemoveDependency is dispatched once
// and the edge is hidden immediately. When cancelled, nothing changes.
func (e *Engine) ResolveRemoval(ctx context.Context, confirmed bool) Result {
	r, job := e.resolveRemoval(ctx, confirmed)
	if job != nil {
		e.dispatch(job)
	}
	return r
}

func (e *Engine) resolveRemoval(ctx context.Context, confirmed bool) (Result, func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateAwaitingConfirmation {
		return Result{Outcome: OutcomeNotPending}, nil
	}
	k := e.pending
	e.state = StateIdle
	e.pending = edgeKey{}

	if !confirmed {
		return e.reject(ctx, KindRemove, k.source, k.target, OutcomeCancelled), nil
	}

	if i := slices.Index(e.added, k); i >= 0 {
		e.added = slices.Delete(e.added, i, i+1)
	} else {
		e.removed[k] = true
	}
	id, job := e.prepare(ctx, KindRemove, k.source, k.target, e.mutator.RemoveDependency)
	return Result{Outcome: OutcomeDispatched, IntentID: id}, job
}

// Disconnect requests removal of source→target, asks the engine's
// Confirmer, and resolves with its answer. Without a Confirmer the removal
// is cancelled.
func (e *Engine) Disconnect(ctx context.Context, source, target string) Result {
	if r := e.RequestRemoval(ctx, source, target); r.Outcome != OutcomeAwaitingConfirmation {
		return r
	}
	confirmed := false
	if e.confirmer != nil {
		confirmed = e.confirmer.Confirm(e.ConfirmMessage())
	}
	return e.ResolveRemoval(ctx, confirmed)
}

func (e *Engine) known(id string) bool {
	_, ok := e.graph.Node(id)
	return ok
}

func (e *Engine) title(id string) string {
	if n, ok := e.graph.Node(id); ok {
		return taskgraph.Title(n)
	}
	return id
}

func (e *Engine) reject(ctx context.Context, kind, source, target string, o Outcome) Result {
	e.logger.Debug("dependency gesture rejected", "kind", kind, "source", source, "target", target, "reason", o)
	observability.Mutation().OnMutationRejected(ctx, kind, source, target, o.String())
	return Result{Outcome: o}
}

// prepare assigns an intent ID and wraps one mutator call for the
// dispatcher. The call runs with ctx's values but not its cancellation, so
// it outlives the gesture that made it. Callers dispatch the job after
// releasing e.mu.
func (e *Engine) prepare(ctx context.Context, kind, source, target string, call func(context.Context, string, string) error) (string, func()) {
	id := uuid.NewString()
	mission := e.snapshot.MissionID
	logger := e.logger.With("id", id, "kind", kind, "mission", mission, "source", source, "target", target)
	ctx = context.WithoutCancel(ctx)
	hooks := observability.Mutation()

	logger.Debug("dispatching dependency mutation")
	hooks.OnMutationDispatch(ctx, id, kind, source, target)

	return id, func() {
		start := time.Now()
		err := call(ctx, source, target)
		hooks.OnMutationComplete(ctx, id, kind, time.Since(start), err)
		if err != nil {
			logger.Warn("dependency mutation failed; waiting for next snapshot", "err", err)
			return
		}
		logger.Debug("dependency mutation delivered", "duration", time.Since(start))
	}
}
