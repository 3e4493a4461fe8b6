package server

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/missiongraph/pkg/buildinfo"
	"github.com/matzehuels/missiongraph/pkg/editor"
	apierrors "github.com/matzehuels/missiongraph/pkg/errors"
	"github.com/matzehuels/missiongraph/pkg/httputil"
	"github.com/matzehuels/missiongraph/pkg/pipeline"
	"github.com/matzehuels/missiongraph/pkg/render"
	"github.com/matzehuels/missiongraph/pkg/store"
	"github.com/matzehuels/missiongraph/pkg/tasks"
)

// DependencyRequest is the body of POST /missions/{mission}/dependencies.
// Target depends on Source.
type DependencyRequest struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// MutationResponse acknowledges a dispatched mutation.
type MutationResponse struct {
	Status   string `json:"status"`
	IntentID string `json:"intent_id"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleMissions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.Missions(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string][]string{"missions": ids})
}

func (s *Server) handlePutMission(w http.ResponseWriter, r *http.Request) {
	missionID := chi.URLParam(r, "mission")
	if err := apierrors.ValidateID("mission", missionID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, httputil.MaxBodyBytes))
	if err != nil {
		httputil.WriteError(w, apierrors.Wrap(apierrors.ErrCodeInvalidInput, err, "read body"))
		return
	}
	snap, err := pipeline.Parse(pipeline.Source{Data: data, MissionID: missionID})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := s.store.Put(r.Context(), snap); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}
	l, err := s.runner.Layout(r.Context(), snap, pipeline.Options{Layout: s.layout})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, l)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormats([]string{format}); err != nil {
		httputil.WriteError(w, err)
		return
	}
	snap, ok := s.snapshot(w, r)
	if !ok {
		return
	}

	opts := pipeline.Options{
		Layout:   s.layout,
		Formats:  []string{format},
		Detailed: r.URL.Query().Get("detailed") == "true",
	}
	result, err := s.runner.Execute(r.Context(), snap, opts)
	if err != nil {
		if apierrors.GetCode(err) == "" {
			err = apierrors.Wrap(apierrors.ErrCodeInternal, err, "render %s", format)
		}
		httputil.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", render.ContentType(format))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

func (s *Server) handleAddDependency(w http.ResponseWriter, r *http.Request) {
	var req DependencyRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := apierrors.ValidateDependency(req.Source, req.Target); err != nil {
		httputil.WriteError(w, err)
		return
	}
	e, ok := s.engine(w, r, nil)
	if !ok {
		return
	}
	s.writeResult(w, e.Connect(r.Context(), req.Source, req.Target), req.Source, req.Target)
}

func (s *Server) handleRemoveDependency(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	source, target := q.Get("source"), q.Get("target")
	if err := apierrors.ValidateDependency(source, target); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if q.Get("confirm") != "true" {
		httputil.WriteError(w, apierrors.New(apierrors.ErrCodeConfirmationRequired,
			"removing %q from %q requires confirm=true", source, target))
		return
	}
	e, ok := s.engine(w, r, editor.ConfirmFunc(func(string) bool { return true }))
	if !ok {
		return
	}
	s.writeResult(w, e.Disconnect(r.Context(), source, target), source, target)
}

// snapshot loads the mission named in the URL, writing the error response
// on failure.
func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) (tasks.Snapshot, bool) {
	snap, err := s.store.Snapshot(r.Context(), chi.URLParam(r, "mission"))
	if err != nil {
		httputil.WriteError(w, err)
		return tasks.Snapshot{}, false
	}
	return snap, true
}

// engine loads the mission into an editor bound to the store.
func (s *Server) engine(w http.ResponseWriter, r *http.Request, confirmer editor.Confirmer) (*editor.Engine, bool) {
	snap, ok := s.snapshot(w, r)
	if !ok {
		return nil, false
	}
	opts := []editor.Option{
		editor.WithLogger(s.logger),
		editor.WithLayout(s.layout),
		editor.WithDispatch(s.dispatch),
	}
	if confirmer != nil {
		opts = append(opts, editor.WithConfirmer(confirmer))
	}
	e := editor.New(s.timed(store.Bind(s.store, snap.MissionID)), opts...)
	e.Load(snap)
	return e, true
}

// timed bounds each store call by the mutation timeout.
func (s *Server) timed(m editor.Mutator) editor.Mutator {
	bound := func(call func(context.Context, string, string) error) func(context.Context, string, string) error {
		return func(ctx context.Context, source, target string) error {
			ctx, cancel := context.WithTimeout(ctx, s.mutationTimeout)
			defer cancel()
			return call(ctx, source, target)
		}
	}
	return editor.MutatorFuncs{
		Add:    bound(m.AddDependency),
		Remove: bound(m.RemoveDependency),
	}
}

func (s *Server) writeResult(w http.ResponseWriter, res editor.Result, source, target string) {
	if res.Dispatched() {
		httputil.WriteJSON(w, http.StatusAccepted, MutationResponse{Status: "accepted", IntentID: res.IntentID})
		return
	}
	httputil.WriteError(w, res.Err(source, target))
}
