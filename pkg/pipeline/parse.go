package pipeline

import (
	"bytes"
	"errors"
	"os"

	apierrors "github.com/matzehuels/missiongraph/pkg/errors"
	"github.com/matzehuels/missiongraph/pkg/tasks"
)

// Source names where a snapshot comes from. Exactly one of Path or Data is
// used; Path wins when both are set.
type Source struct {
	Path string // Snapshot file (.json, .yaml, .yml)
	Data []byte // Inline JSON or YAML document

	// MissionID overrides the snapshot's mission_id when set.
	MissionID string
}

// Parse reads a snapshot. Missing files report FILE_NOT_FOUND and malformed
// documents INVALID_FORMAT.
func Parse(src Source) (tasks.Snapshot, error) {
	var (
		snap tasks.Snapshot
		err  error
	)
	switch {
	case src.Path != "":
		snap, err = tasks.ReadSnapshotFile(src.Path)
		if errors.Is(err, os.ErrNotExist) {
			return tasks.Snapshot{}, apierrors.Wrap(apierrors.ErrCodeFileNotFound, err, "snapshot %s", src.Path)
		}
	case len(src.Data) > 0:
		snap, err = tasks.ReadSnapshot(bytes.NewReader(src.Data))
	default:
		return tasks.Snapshot{}, apierrors.New(apierrors.ErrCodeInvalidInput, "snapshot path or document is required")
	}
	if err != nil {
		return tasks.Snapshot{}, apierrors.Wrap(apierrors.ErrCodeInvalidFormat, err, "parse snapshot")
	}

	if src.MissionID != "" {
		snap.MissionID = src.MissionID
	}
	return snap, nil
}
