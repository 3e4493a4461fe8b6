package store

import (
	"context"
	"fmt"
	"slices"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	apierrors "github.com/matzehuels/missiongraph/pkg/errors"
	"github.com/matzehuels/missiongraph/pkg/tasks"
)

// DefaultCollection is the collection MongoStore uses when none is set.
const DefaultCollection = "tasks"

// MongoConfig configures a MongoStore.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// MongoStore keeps one document per task. Documents are keyed by
// (mission_id, task_id) and ordered by position.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// taskDoc is the stored form of a task.
type taskDoc struct {
	MissionID    string   `bson:"mission_id"`
	TaskID       string   `bson:"task_id"`
	Position     int      `bson:"position"`
	Title        string   `bson:"title,omitempty"`
	Status       string   `bson:"status"`
	Dependencies []string `bson:"dependencies"`
	Blocked      bool     `bson:"blocked,omitempty"`
	ReadyToStart bool     `bson:"ready_to_start,omitempty"`
}

func docFromTask(missionID string, pos int, t tasks.Task) taskDoc {
	deps := t.DependencyIDs()
	if deps == nil {
		deps = []string{}
	}
	return taskDoc{
		MissionID:    missionID,
		TaskID:       t.ID,
		Position:     pos,
		Title:        t.Title,
		Status:       t.Status.String(),
		Dependencies: deps,
		Blocked:      t.Blocked,
		ReadyToStart: t.ReadyToStart,
	}
}

func (d taskDoc) task() tasks.Task {
	t := tasks.Task{
		ID:           d.TaskID,
		Title:        d.Title,
		Status:       tasks.ParseStatus(d.Status),
		Blocked:      d.Blocked,
		ReadyToStart: d.ReadyToStart,
	}
	for _, dep := range d.Dependencies {
		t.Dependencies = append(t.Dependencies, tasks.TaskRef(dep))
	}
	return t
}

// NewMongoStore connects to MongoDB, verifies the connection, and ensures
// the (mission_id, task_id) index exists.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, apierrors.Wrap(apierrors.ErrCodeStoreUnavailable, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, apierrors.Wrap(apierrors.ErrCodeStoreUnavailable, err, "ping mongodb")
	}

	s := &MongoStore{client: client, coll: client.Database(cfg.Database).Collection(cfg.Collection)}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "mission_id", Value: 1}, {Key: "task_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return apierrors.Wrap(apierrors.ErrCodeStoreUnavailable, err, "create task index")
	}
	return nil
}

func taskFilter(missionID, taskID string) bson.D {
	return bson.D{{Key: "mission_id", Value: missionID}, {Key: "task_id", Value: taskID}}
}

// Snapshot loads the mission's tasks ordered by position.
func (s *MongoStore) Snapshot(ctx context.Context, missionID string) (tasks.Snapshot, error) {
	if err := apierrors.ValidateID("mission", missionID); err != nil {
		return tasks.Snapshot{}, err
	}
	cur, err := s.coll.Find(ctx,
		bson.D{{Key: "mission_id", Value: missionID}},
		options.Find().SetSort(bson.D{{Key: "position", Value: 1}}),
	)
	if err != nil {
		return tasks.Snapshot{}, apierrors.Wrap(apierrors.ErrCodeStoreUnavailable, err, "find mission %q", missionID)
	}
	var docs []taskDoc
	if err := cur.All(ctx, &docs); err != nil {
		return tasks.Snapshot{}, apierrors.Wrap(apierrors.ErrCodeStoreUnavailable, err, "decode mission %q", missionID)
	}
	if len(docs) == 0 {
		return tasks.Snapshot{}, apierrors.New(apierrors.ErrCodeMissionNotFound, "mission %q not found", missionID)
	}

	snap := tasks.Snapshot{MissionID: missionID, Tasks: make([]tasks.Task, len(docs))}
	for i, d := range docs {
		snap.Tasks[i] = d.task()
	}
	return snap, nil
}

// Put replaces the mission's documents. The replacement is not atomic:
// readers may briefly observe an empty mission.
func (s *MongoStore) Put(ctx context.Context, snap tasks.Snapshot) error {
	if err := apierrors.ValidateID("mission", snap.MissionID); err != nil {
		return err
	}
	if _, err := s.coll.DeleteMany(ctx, bson.D{{Key: "mission_id", Value: snap.MissionID}}); err != nil {
		return apierrors.Wrap(apierrors.ErrCodeStoreUnavailable, err, "clear mission %q", snap.MissionID)
	}
	if len(snap.Tasks) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(snap.Tasks))
	docs := make([]any, 0, len(snap.Tasks))
	for i, t := range snap.Tasks {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		docs = append(docs, docFromTask(snap.MissionID, i, t))
	}
	if _, err := s.coll.InsertMany(ctx, docs); err != nil {
		return apierrors.Wrap(apierrors.ErrCodeStoreUnavailable, err, "insert mission %q", snap.MissionID)
	}
	return nil
}

// Missions lists distinct mission IDs.
func (s *MongoStore) Missions(ctx context.Context) ([]string, error) {
	values, err := s.coll.Distinct(ctx, "mission_id", bson.D{})
	if err != nil {
		return nil, apierrors.Wrap(apierrors.ErrCodeStoreUnavailable, err, "list missions")
	}
	ids := make([]string, 0, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

// AddDependency adds source to target's dependencies with $addToSet.
// Both tasks must exist.
func (s *MongoStore) AddDependency(ctx context.Context, missionID, source, target string) error {
	if err := apierrors.ValidateDependency(source, target); err != nil {
		return err
	}
	n, err := s.coll.CountDocuments(ctx, taskFilter(missionID, source))
	if err != nil {
		return apierrors.Wrap(apierrors.ErrCodeStoreUnavailable, err, "find task %q", source)
	}
	if n == 0 {
		return s.notFound(ctx, missionID, source)
	}
	update := bson.D{{Key: "$addToSet", Value: bson.D{{Key: "dependencies", Value: source}}}}
	return s.update(ctx, missionID, target, update)
}

// RemoveDependency removes source from target's dependencies with $pull.
func (s *MongoStore) RemoveDependency(ctx context.Context, missionID, source, target string) error {
	if err := apierrors.ValidateDependency(source, target); err != nil {
		return err
	}
	update := bson.D{{Key: "$pull", Value: bson.D{{Key: "dependencies", Value: source}}}}
	return s.update(ctx, missionID, target, update)
}

func (s *MongoStore) update(ctx context.Context, missionID, target string, update bson.D) error {
	res, err := s.coll.UpdateOne(ctx, taskFilter(missionID, target), update)
	if err != nil {
		return apierrors.Wrap(apierrors.ErrCodeStoreUnavailable, err, "update task %q", target)
	}
	if res.MatchedCount == 0 {
		return s.notFound(ctx, missionID, target)
	}
	return nil
}

// notFound distinguishes a missing mission from a missing task.
func (s *MongoStore) notFound(ctx context.Context, missionID, taskID string) error {
	n, err := s.coll.CountDocuments(ctx, bson.D{{Key: "mission_id", Value: missionID}}, options.Count().SetLimit(1))
	if err != nil {
		return apierrors.Wrap(apierrors.ErrCodeStoreUnavailable, err, "find mission %q", missionID)
	}
	if n == 0 {
		return apierrors.New(apierrors.ErrCodeMissionNotFound, "mission %q not found", missionID)
	}
	return apierrors.New(apierrors.ErrCodeTaskNotFound, "task %q not found in mission %q", taskID, missionID)
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect mongodb: %w", err)
	}
	return nil
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
