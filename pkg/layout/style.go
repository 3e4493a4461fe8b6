package layout

import "github.com/matzehuels/missiongraph/pkg/tasks"

// Line is the stroke pattern of an edge.
type Line string

const (
	LineSolid  Line = "solid"
	LineDashed Line = "dashed"
)

// Tone is the semantic color class of an edge.
type Tone string

const (
	ToneSuccess  Tone = "success"
	ToneProgress Tone = "progress"
	ToneNeutral  Tone = "neutral"
)

// Colors used for each tone.
const (
	ColorSuccess  = "#16a34a"
	ColorProgress = "#2563eb"
	ColorNeutral  = "#94a3b8"
)

// EdgeStyle is how a dependency edge is drawn.
type EdgeStyle struct {
	Line     Line
	Tone     Tone
	Animated bool
	Color    string
}

var (
	styleDone       = EdgeStyle{Line: LineSolid, Tone: ToneSuccess, Color: ColorSuccess}
	styleInProgress = EdgeStyle{Line: LineDashed, Tone: ToneProgress, Animated: true, Color: ColorProgress}
	styleNeutral    = EdgeStyle{Line: LineSolid, Tone: ToneNeutral, Color: ColorNeutral}
)

// StyleFor returns the style of an edge whose source task has the given
// status.
func StyleFor(source tasks.Status) EdgeStyle {
	switch source {
	case tasks.StatusDone:
		return styleDone
	case tasks.StatusInProgress:
		return styleInProgress
	case tasks.StatusPending, tasks.StatusBlocked, tasks.StatusCancelled, tasks.StatusUnknown:
		return styleNeutral
	default:
		return styleNeutral
	}
}

// NeutralStyle is the style of edges not yet confirmed by a snapshot.
func NeutralStyle() EdgeStyle { return styleNeutral }
