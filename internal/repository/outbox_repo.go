package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mindpath/internal/model"
)

// OutboxRepo handles the durable analysis task queue. Intake enqueues a
// pending task next to the Submission write; the worker claims and
// completes tasks, so a restart cannot lose a scheduled analysis.
type OutboxRepo interface {
	Enqueue(ctx context.Context, submissionID string) error
	// ClaimNextPending atomically flips the oldest pending task to
	// running and returns it; nil when the queue is drained.
	ClaimNextPending(ctx context.Context) (*model.AnalysisTask, error)
	MarkDone(ctx context.Context, taskID string) error
	MarkFailed(ctx context.Context, taskID string, reason string) error
	EnsureIndexes(ctx context.Context) error
}

type outboxRepo struct {
	collection *mongo.Collection
}

// NewOutboxRepo creates a new analysis outbox repository
func NewOutboxRepo(db *mongo.Database) OutboxRepo {
	return &outboxRepo{
		collection: db.Collection("analysis_outbox"),
	}
}

func (r *outboxRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.M{"submissionId": 1},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: 1}},
		},
	})
	return err
}

func (r *outboxRepo) Enqueue(ctx context.Context, submissionID string) error {
	now := time.Now()
	task := &model.AnalysisTask{
		ID:           primitive.NewObjectID().Hex(),
		SubmissionID: submissionID,
		Status:       model.TaskPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := r.collection.InsertOne(ctx, task)
	if mongo.IsDuplicateKeyError(err) {
		// Double-submit of the same submission; the existing task wins.
		return nil
	}
	return err
}

func (r *outboxRepo) ClaimNextPending(ctx context.Context) (*model.AnalysisTask, error) {
	opts := options.FindOneAndUpdate().
		SetSort(bson.M{"createdAt": 1}).
		SetReturnDocument(options.After)

	update := bson.M{
		"$set": bson.M{"status": model.TaskRunning, "updatedAt": time.Now()},
		"$inc": bson.M{"attempts": 1},
	}

	var task model.AnalysisTask
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"status": model.TaskPending}, update, opts).Decode(&task)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *outboxRepo) MarkDone(ctx context.Context, taskID string) error {
	return r.setStatus(ctx, taskID, model.TaskDone, "")
}

func (r *outboxRepo) MarkFailed(ctx context.Context, taskID string, reason string) error {
	return r.setStatus(ctx, taskID, model.TaskFailed, reason)
}

func (r *outboxRepo) setStatus(ctx context.Context, taskID, status, reason string) error {
	set := bson.M{"status": status, "updatedAt": time.Now()}
	if reason != "" {
		set["lastError"] = reason
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": taskID}, bson.M{"$set": set})
	return err
}
