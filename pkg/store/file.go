package store

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	apierrors "github.com/matzehuels/missiongraph/pkg/errors"
	"github.com/matzehuels/missiongraph/pkg/tasks"
)

// FileStore keeps each mission in <dir>/<mission>.yaml. Existing .yml and
// .json files keep their name and format; new missions are written as YAML.
//
// Every write replaces the mission file atomically, so a reader in another
// process sees either the previous or the next document. Edits from separate
// processes are not merged: the last write wins.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates a store rooted at dir, creating the directory if
// needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, apierrors.Wrap(apierrors.ErrCodeStoreUnavailable, err, "create store directory %s", dir)
	}
	return &FileStore{dir: dir}, nil
}

var extensions = []string{".yaml", ".yml", ".json"}

// path returns the file holding missionID, or the YAML path if none exists.
func (s *FileStore) path(missionID string) (string, bool) {
	for _, ext := range extensions {
		p := filepath.Join(s.dir, missionID+ext)
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
	}
	return filepath.Join(s.dir, missionID+".yaml"), false
}

// Snapshot reads the mission file.
func (s *FileStore) Snapshot(ctx context.Context, missionID string) (tasks.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(missionID)
}

func (s *FileStore) read(missionID string) (tasks.Snapshot, error) {
	if err := apierrors.ValidateID("mission", missionID); err != nil {
		return tasks.Snapshot{}, err
	}
	p, ok := s.path(missionID)
	if !ok {
		return tasks.Snapshot{}, apierrors.New(apierrors.ErrCodeMissionNotFound, "mission %q not found", missionID)
	}
	snap, err := tasks.ReadSnapshotFile(p)
	if err != nil {
		return tasks.Snapshot{}, apierrors.Wrap(apierrors.ErrCodeInvalidFormat, err, "read mission %q", missionID)
	}
	snap.MissionID = missionID
	return snap, nil
}

func (s *FileStore) write(snap tasks.Snapshot) error {
	p, _ := s.path(snap.MissionID)
	if err := tasks.WriteSnapshotFile(snap, p); err != nil {
		return apierrors.Wrap(apierrors.ErrCodeStoreUnavailable, err, "write mission %q", snap.MissionID)
	}
	return nil
}

// Put writes the mission file.
func (s *FileStore) Put(ctx context.Context, snap tasks.Snapshot) error {
	if err := apierrors.ValidateID("mission", snap.MissionID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(snap)
}

// Missions lists the mission files in the directory.
func (s *FileStore) Missions(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, apierrors.Wrap(apierrors.ErrCodeStoreUnavailable, err, "list %s", s.dir)
	}
	var ids []string
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if e.IsDir() || !slices.Contains(extensions, ext) {
			continue
		}
		id := strings.TrimSuffix(e.Name(), ext)
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

// AddDependency appends source to target's dependency list. Both tasks
// must exist.
func (s *FileStore) AddDependency(ctx context.Context, missionID, source, target string) error {
	return s.edit(missionID, source, target, true, func(t *tasks.Task) {
		if !t.DependsOn(source) {
			t.Dependencies = append(t.Dependencies, tasks.TaskRef(source))
		}
	})
}

// RemoveDependency removes every reference to source from target's
// dependency list. Source need not exist, so dangling references can be
// removed.
func (s *FileStore) RemoveDependency(ctx context.Context, missionID, source, target string) error {
	return s.edit(missionID, source, target, false, func(t *tasks.Task) {
		t.Dependencies = slices.DeleteFunc(t.Dependencies, func(r tasks.TaskRef) bool { return r.ID() == source })
	})
}

func (s *FileStore) edit(missionID, source, target string, requireSource bool, apply func(*tasks.Task)) error {
	if err := apierrors.ValidateDependency(source, target); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.read(missionID)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(snap.Tasks, func(t tasks.Task) bool { return t.ID == target })
	if i < 0 {
		return apierrors.New(apierrors.ErrCodeTaskNotFound, "task %q not found in mission %q", target, missionID)
	}
	if _, ok := snap.Task(source); requireSource && !ok {
		return apierrors.New(apierrors.ErrCodeTaskNotFound, "task %q not found in mission %q", source, missionID)
	}
	apply(&snap.Tasks[i])
	return s.write(snap)
}

// Close does nothing for file stores.
func (s *FileStore) Close(ctx context.Context) error { return nil }

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
