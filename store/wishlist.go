package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Iftekhar-007/real-estate-server/apperr"
	"github.com/Iftekhar-007/real-estate-server/models"
)

type MongoWishlistStore struct {
	collection *mongo.Collection
}

func NewMongoWishlistStore(collection *mongo.Collection) *MongoWishlistStore {
	return &MongoWishlistStore{collection: collection}
}

func (s *MongoWishlistStore) Insert(ctx context.Context, item *models.WishlistItem) (primitive.ObjectID, error) {
	item.ID = primitive.NewObjectID()
	item.CreatedAt = time.Now()
	if _, err := s.collection.InsertOne(ctx, item); err != nil {
		return primitive.NilObjectID, err
	}
	return item.ID, nil
}

func (s *MongoWishlistStore) Exists(ctx context.Context, userEmail, propertyID string) (bool, error) {
	count, err := s.collection.CountDocuments(ctx, bson.M{
		"userEmail":  userEmail,
		"propertyId": propertyID,
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *MongoWishlistStore) ListByUser(ctx context.Context, userEmail string) ([]models.WishlistItem, error) {
	cursor, err := s.collection.Find(ctx, bson.M{"userEmail": userEmail})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []models.WishlistItem
	for cursor.Next(ctx) {
		var item models.WishlistItem
		if err := cursor.Decode(&item); err != nil {
			continue
		}
		items = append(items, item)
	}
	return items, cursor.Err()
}

func (s *MongoWishlistStore) Delete(ctx context.Context, id primitive.ObjectID, userEmail string) error {
	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": id, "userEmail": userEmail})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("wishlist item not found")
	}
	return nil
}

var _ WishlistStore = (*MongoWishlistStore)(nil)
