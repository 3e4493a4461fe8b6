package tasks

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidRef is returned when a dependency reference is neither a string
// nor an object with an "id" field.
var ErrInvalidRef = errors.New("dependency reference must be a string or an object with an id")

// Status is the lifecycle state of a task as reported by the external task
// model. The graph only reads it for styling.
type Status int

const (
	// StatusUnknown is any status string that matches no known variant.
	StatusUnknown Status = iota
	// StatusPending is a task that has not started.
	StatusPending
	// StatusInProgress is a task currently being worked on.
	StatusInProgress
	// StatusDone is a completed task.
	StatusDone
	// StatusBlocked is a task waiting on something outside its dependency list.
	StatusBlocked
	// StatusCancelled is a task that was abandoned.
	StatusCancelled
)

var statusNames = map[Status]string{
	StatusUnknown:    "unknown",
	StatusPending:    "pending",
	StatusInProgress: "in_progress",
	StatusDone:       "done",
	StatusBlocked:    "blocked",
	StatusCancelled:  "cancelled",
}

// String returns the canonical snake_case name of the status.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return statusNames[StatusUnknown]
}

// ParseStatus maps a status string to a Status. Matching ignores case and
// treats '-', ' ' and '_' as equivalent, so "In Progress", "in-progress" and
// "IN_PROGRESS" all parse to StatusInProgress. Unrecognized strings return
// StatusUnknown.
func ParseStatus(s string) Status {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	switch key {
	case "", "pending", "todo", "to_do", "open", "new", "not_started", "backlog":
		return StatusPending
	case "in_progress", "inprogress", "doing", "active", "running", "started", "in_review", "review":
		return StatusInProgress
	case "done", "completed", "complete", "finished", "closed", "resolved":
		return StatusDone
	case "blocked", "waiting", "on_hold":
		return StatusBlocked
	case "cancelled", "canceled", "abandoned", "wont_do":
		return StatusCancelled
	default:
		return StatusUnknown
	}
}

// MarshalText encodes the status as its canonical name.
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText decodes any accepted status spelling. It never fails.
func (s *Status) UnmarshalText(text []byte) error {
	*s = ParseStatus(string(text))
	return nil
}

// TaskRef is a normalized reference to another task by id.
//
// On the wire a reference is either a bare string or an object with an "id"
// field; both decode to the same TaskRef.
type TaskRef string

// ID returns the referenced task id.
func (r TaskRef) ID() string { return string(r) }

// UnmarshalJSON accepts "a" and {"id": "a"}.
func (r *TaskRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = TaskRef(id)
		return nil
	}
	var obj struct {
		ID *string `json:"id"`
	}
	if err := json.Unmarshal(data, &obj); err != nil || obj.ID == nil {
		return fmt.Errorf("%w: %s", ErrInvalidRef, data)
	}
	*r = TaskRef(*obj.ID)
	return nil
}

// UnmarshalYAML accepts a scalar id or a mapping with an "id" key.
func (r *TaskRef) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*r = TaskRef(value.Value)
		return nil
	case yaml.MappingNode:
		var obj struct {
			ID *string `yaml:"id"`
		}
		if err := value.Decode(&obj); err != nil {
			return err
		}
		if obj.ID == nil {
			return fmt.Errorf("%w (line %d)", ErrInvalidRef, value.Line)
		}
		*r = TaskRef(*obj.ID)
		return nil
	default:
		return fmt.Errorf("%w (line %d)", ErrInvalidRef, value.Line)
	}
}

// Task is one todo in a mission. The graph core never modifies a Task.
type Task struct {
	ID           string    `json:"id" yaml:"id"`
	Title        string    `json:"title,omitempty" yaml:"title,omitempty"`
	Status       Status    `json:"status" yaml:"status"`
	Dependencies []TaskRef `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`

	// Blocked and ReadyToStart are computed by the external task model and
	// carried through for display.
	Blocked      bool `json:"blocked,omitempty" yaml:"blocked,omitempty"`
	ReadyToStart bool `json:"ready_to_start,omitempty" yaml:"ready_to_start,omitempty"`
}

// DependencyIDs returns the task's dependency references as bare ids, in
// their original order. Duplicates and unknown ids are preserved.
func (t Task) DependencyIDs() []string {
	ids := make([]string, len(t.Dependencies))
	for i, ref := range t.Dependencies {
		ids[i] = ref.ID()
	}
	return ids
}

// DependsOn reports whether id appears in the task's dependency list.
func (t Task) DependsOn(id string) bool {
	for _, ref := range t.Dependencies {
		if ref.ID() == id {
			return true
		}
	}
	return false
}

// Snapshot is the full task list of a mission at one point in time.
type Snapshot struct {
	MissionID string `json:"mission_id,omitempty" yaml:"mission_id,omitempty"`
	Tasks     []Task `json:"tasks" yaml:"tasks"`
}

// Task returns the first task with the given id.
func (s Snapshot) Task(id string) (Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}
