package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mindpath/internal/model"
)

// ErrDuplicateResult is returned when a second terminal result is
// inserted for the same submission. Callers treat it as insert-or-ignore.
var ErrDuplicateResult = errors.New("analysis result already exists for submission")

// ResultRepo handles MongoDB operations for analysis results
type ResultRepo interface {
	// Create inserts the result. A unique index on submissionId
	// guarantees at most one terminal result per submission;
	// a duplicate insert returns ErrDuplicateResult.
	Create(ctx context.Context, result *model.AnalysisResult) error
	GetBySubmissionID(ctx context.Context, submissionID string) (*model.AnalysisResult, error)
	EnsureIndexes(ctx context.Context) error
}

type resultRepo struct {
	collection *mongo.Collection
}

// NewResultRepo creates a new analysis result repository
func NewResultRepo(db *mongo.Database) ResultRepo {
	return &resultRepo{
		collection: db.Collection("analysis_results"),
	}
}

func (r *resultRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"submissionId": 1},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *resultRepo) Create(ctx context.Context, result *model.AnalysisResult) error {
	if result.CreatedAt.IsZero() {
		result.CreatedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, result)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateResult
	}
	return err
}

func (r *resultRepo) GetBySubmissionID(ctx context.Context, submissionID string) (*model.AnalysisResult, error) {
	var result model.AnalysisResult
	err := r.collection.FindOne(ctx, bson.M{"submissionId": submissionID}).Decode(&result)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}
