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

type ScoreRepo interface {
	Insert(ctx context.Context, score *model.Score) error
	Top(ctx context.Context, limit int) ([]model.Score, error)
	List(ctx context.Context) ([]model.Score, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}

type scoreRepo struct {
	collection *mongo.Collection
}

func NewScoreRepo(db *mongo.Database) ScoreRepo {
	return &scoreRepo{
		collection: db.Collection("leaderboard"),
	}
}

func (r *scoreRepo) Insert(ctx context.Context, score *model.Score) error {
	if score.ID == "" {
		score.ID = uuid.New().String()
	}
	if score.CreatedAt.IsZero() {
		score.CreatedAt = time.Now()
	}
	_, err := r.collection.InsertOne(ctx, score)
	return err
}

func (r *scoreRepo) Top(ctx context.Context, limit int) ([]model.Score, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "score", Value: -1}, {Key: "createdAt", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var scores []model.Score
	if err := cursor.All(ctx, &scores); err != nil {
		return nil, err
	}
	return scores, nil
}

// List returns every saved score, newest first.
func (r *scoreRepo) List(ctx context.Context) ([]model.Score, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var scores []model.Score
	if err := cursor.All(ctx, &scores); err != nil {
		return nil, err
	}
	return scores, nil
}

func (r *scoreRepo) Delete(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *scoreRepo) DeleteAll(ctx context.Context) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{})
	return err
}
