package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Iftekhar-007/real-estate-server/apperr"
	"github.com/Iftekhar-007/real-estate-server/models"
)

type MongoReviewStore struct {
	collection *mongo.Collection
}

func NewMongoReviewStore(collection *mongo.Collection) *MongoReviewStore {
	return &MongoReviewStore{collection: collection}
}

func (s *MongoReviewStore) Insert(ctx context.Context, r *models.Review) (primitive.ObjectID, error) {
	r.ID = primitive.NewObjectID()
	if r.ReviewTime.IsZero() {
		r.ReviewTime = time.Now()
	}
	if _, err := s.collection.InsertOne(ctx, r); err != nil {
		return primitive.NilObjectID, err
	}
	return r.ID, nil
}

func (s *MongoReviewStore) ListAll(ctx context.Context) ([]models.Review, error) {
	return s.find(ctx, bson.M{})
}

func (s *MongoReviewStore) ListByProperty(ctx context.Context, propertyID string) ([]models.Review, error) {
	return s.find(ctx, bson.M{"propertyId": propertyID})
}

func (s *MongoReviewStore) ListByReviewer(ctx context.Context, email string) ([]models.Review, error) {
	return s.find(ctx, bson.M{"reviewerEmail": email})
}

func (s *MongoReviewStore) find(ctx context.Context, filter bson.M) ([]models.Review, error) {
	opts := options.Find().SetSort(bson.M{"reviewTime": -1})
	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	for cursor.Next(ctx) {
		var r models.Review
		if err := cursor.Decode(&r); err != nil {
			continue
		}
		reviews = append(reviews, r)
	}
	return reviews, cursor.Err()
}

func (s *MongoReviewStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("review not found")
	}
	return nil
}

var _ ReviewStore = (*MongoReviewStore)(nil)
