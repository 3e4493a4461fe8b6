package editor

// State is the edit state of an Engine.
type State int

const (
	// StateIdle accepts new gestures.
	StateIdle State = iota
	// StateAwaitingConfirmation holds a removal until the user answers.
	StateAwaitingConfirmation
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingConfirmation:
		return "awaiting_confirmation"
	default:
		return "unknown"
	}
}

// Outcome is what the engine did with a gesture.
type Outcome int

const (
	// OutcomeDispatched means the mutator call was dispatched.
	OutcomeDispatched Outcome = iota
	// OutcomeAwaitingConfirmation means a removal waits for an answer.
	OutcomeAwaitingConfirmation
	// OutcomeCancelled means the user declined a removal.
	OutcomeCancelled
	// OutcomeSelfLoop rejects an edge from a task to itself.
	OutcomeSelfLoop
	// OutcomeUnknownTask rejects an edge naming a task not in the snapshot.
	OutcomeUnknownTask
	// OutcomeNoSuchEdge rejects removal of an edge that is not drawn.
	OutcomeNoSuchEdge
	// OutcomeBusy rejects a gesture made while a removal awaits
	// confirmation.
	OutcomeBusy
	// OutcomeNotPending answers a confirmation that was never requested.
	OutcomeNotPending
)

var outcomeNames = [...]string{
	OutcomeDispatched:           "dispatched",
	OutcomeAwaitingConfirmation: "awaiting_confirmation",
	OutcomeCancelled:            "cancelled",
	OutcomeSelfLoop:             "self_loop",
	OutcomeUnknownTask:          "unknown_task",
	OutcomeNoSuchEdge:           "no_such_edge",
	OutcomeBusy:                 "busy",
	OutcomeNotPending:           "not_pending",
}

func (o Outcome) String() string {
	if o >= 0 && int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return "unknown"
}

// Result reports the outcome of a gesture. IntentID identifies the
// dispatched mutation in logs and hooks and is empty otherwise.
type Result struct {
	Outcome  Outcome
	IntentID string
}

// Dispatched reports whether a mutator call was made.
func (r Result) Dispatched() bool { return r.Outcome == OutcomeDispatched }
