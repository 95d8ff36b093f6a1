package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"mindpath/internal/model"
)

// AnswerRepo handles MongoDB operations for answers
type AnswerRepo interface {
	CreateMany(ctx context.Context, answers []*model.Answer) error
	GetBySubmissionID(ctx context.Context, submissionID string) ([]*model.Answer, error)
}

type answerRepo struct {
	collection *mongo.Collection
}

// NewAnswerRepo creates a new answer repository
func NewAnswerRepo(db *mongo.Database) AnswerRepo {
	return &answerRepo{
		collection: db.Collection("answers"),
	}
}

func (r *answerRepo) CreateMany(ctx context.Context, answers []*model.Answer) error {
	if len(answers) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(answers))
	for _, a := range answers {
		if a.ID == "" {
			a.ID = primitive.NewObjectID().Hex()
		}
		docs = append(docs, a)
	}

	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

func (r *answerRepo) GetBySubmissionID(ctx context.Context, submissionID string) ([]*model.Answer, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"submissionId": submissionID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var answers []*model.Answer
	if err = cursor.All(ctx, &answers); err != nil {
		return nil, err
	}
	return answers, nil
}
