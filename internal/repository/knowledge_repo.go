package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"mindpath/internal/model"
)

// KnowledgeRepo handles MongoDB reads of the knowledge base. Writes
// happen through an admin surface that is not part of this service;
// Create exists only for seeding.
type KnowledgeRepo interface {
	Create(ctx context.Context, entry *model.KnowledgeEntry) error
	GetByModelTag(ctx context.Context, tag string) ([]*model.KnowledgeEntry, error)
	Search(ctx context.Context, query string) ([]*model.KnowledgeEntry, error)
}

type knowledgeRepo struct {
	collection *mongo.Collection
}

// NewKnowledgeRepo creates a new knowledge repository
func NewKnowledgeRepo(db *mongo.Database) KnowledgeRepo {
	return &knowledgeRepo{
		collection: db.Collection("knowledge_entries"),
	}
}

func (r *knowledgeRepo) Create(ctx context.Context, entry *model.KnowledgeEntry) error {
	if entry.ID == "" {
		entry.ID = primitive.NewObjectID().Hex()
	}

	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

func (r *knowledgeRepo) GetByModelTag(ctx context.Context, tag string) ([]*model.KnowledgeEntry, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"modelTag": tag})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*model.KnowledgeEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *knowledgeRepo) Search(ctx context.Context, query string) ([]*model.KnowledgeEntry, error) {
	regex := primitive.Regex{Pattern: query, Options: "i"}
	filter := bson.M{"$or": []bson.M{
		{"title": regex},
		{"content": regex},
		{"category": regex},
	}}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*model.KnowledgeEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
