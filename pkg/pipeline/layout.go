package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/missiongraph/pkg/graph"
	"github.com/matzehuels/missiongraph/pkg/layout"
	"github.com/matzehuels/missiongraph/pkg/observability"
	"github.com/matzehuels/missiongraph/pkg/taskgraph"
	"github.com/matzehuels/missiongraph/pkg/tasks"
)

// GenerateLayout builds the dependency graph for s, assigns levels, and
// converts the positioned result to its serialization format.
//
// Dependencies that could not become edges are listed in the result's
// Dropped field rather than failing the layout.
func GenerateLayout(ctx context.Context, s tasks.Snapshot, cfg layout.Config) graph.Layout {
	hooks := observability.Pipeline()

	start := time.Now()
	hooks.OnBuildStart(ctx, s.MissionID, len(s.Tasks))
	g := taskgraph.Build(s)
	dropped := taskgraph.Dropped(g)
	hooks.OnBuildComplete(ctx, s.MissionID, g.NodeCount(), len(dropped), time.Since(start))

	start = time.Now()
	hooks.OnLayoutStart(ctx, s.MissionID, g.NodeCount())
	l := layout.Compute(g, cfg)
	hooks.OnLayoutComplete(ctx, s.MissionID, l.Levels, time.Since(start))

	return graph.FromLayout(s.MissionID, l, dropped)
}
