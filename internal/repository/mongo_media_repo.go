package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tirtheshjaintj/StoryMania-Backend/internal/models"
)

type mongoMediaRepo struct {
	col *mongo.Collection
}

func NewMongoMediaRepo(db *mongo.Database, collection string) MediaRepository {
	col := db.Collection(collection)
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "story_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return &mongoMediaRepo{col: col}
}

// AppendImages adds urls to the story's media document, creating it on
// first upload. One document per story.
func (r *mongoMediaRepo) AppendImages(ctx context.Context, storyID primitive.ObjectID, urls []string) error {
	now := time.Now().UTC()
	update := bson.M{
		"$push":        bson.M{"images": bson.M{"$each": urls}},
		"$set":         bson.M{"updated_at": now},
		"$setOnInsert": bson.M{"created_at": now},
	}
	_, err := r.col.UpdateOne(ctx, bson.M{"story_id": storyID}, update, options.Update().SetUpsert(true))
	return err
}

func (r *mongoMediaRepo) FindByStoryID(ctx context.Context, storyID primitive.ObjectID) (*models.Media, error) {
	var m models.Media
	err := r.col.FindOne(ctx, bson.M{"story_id": storyID}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *mongoMediaRepo) FindByStoryIDs(ctx context.Context, storyIDs []primitive.ObjectID) ([]models.Media, error) {
	cur, err := r.col.Find(ctx, bson.M{"story_id": bson.M{"$in": storyIDs}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Media
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *mongoMediaRepo) RemoveImage(ctx context.Context, storyID primitive.ObjectID, url string) error {
	update := bson.M{
		"$pull": bson.M{"images": url},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	res, err := r.col.UpdateOne(ctx, bson.M{"story_id": storyID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoMediaRepo) DeleteByStoryID(ctx context.Context, storyID primitive.ObjectID) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"story_id": storyID})
	return err
}
