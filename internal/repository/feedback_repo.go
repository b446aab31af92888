package repository

import (
	"context"
	"time"
	"versequest/internal/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type FeedbackRepo interface {
	Insert(ctx context.Context, feedback *model.Feedback) error
	List(ctx context.Context) ([]model.Feedback, error)
	Delete(ctx context.Context, id string) error
}

type feedbackRepo struct {
	collection *mongo.Collection
}

func NewFeedbackRepo(db *mongo.Database) FeedbackRepo {
	return &feedbackRepo{
		collection: db.Collection("feedback"),
	}
}

func (r *feedbackRepo) Insert(ctx context.Context, feedback *model.Feedback) error {
	if feedback.ID == "" {
		feedback.ID = uuid.New().String()
	}
	if feedback.CreatedAt.IsZero() {
		feedback.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, feedback)
	return err
}

func (r *feedbackRepo) List(ctx context.Context) ([]model.Feedback, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []model.Feedback
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *feedbackRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
