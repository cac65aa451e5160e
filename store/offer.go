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

type MongoOfferStore struct {
	collection *mongo.Collection
}

func NewMongoOfferStore(collection *mongo.Collection) *MongoOfferStore {
	return &MongoOfferStore{collection: collection}
}

func (s *MongoOfferStore) Insert(ctx context.Context, o *models.Offer) (primitive.ObjectID, error) {
	o.ID = primitive.NewObjectID()
	o.CreatedAt = time.Now()
	if _, err := s.collection.InsertOne(ctx, o); err != nil {
		return primitive.NilObjectID, err
	}
	return o.ID, nil
}

func (s *MongoOfferStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Offer, error) {
	var o models.Offer
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound("offer not found")
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Exists runs the same (propertyId, buyerEmail) predicate SubmitOffer uses
// for its duplicate check.
func (s *MongoOfferStore) Exists(ctx context.Context, propertyID, buyerEmail string) (bool, error) {
	count, err := s.collection.CountDocuments(ctx, bson.M{
		"propertyId": propertyID,
		"buyerEmail": buyerEmail,
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *MongoOfferStore) ListByBuyer(ctx context.Context, buyerEmail string) ([]models.Offer, error) {
	return s.find(ctx, bson.M{"buyerEmail": buyerEmail})
}

func (s *MongoOfferStore) ListByAgent(ctx context.Context, agentEmail string) ([]models.Offer, error) {
	return s.find(ctx, bson.M{"agentEmail": agentEmail})
}

func (s *MongoOfferStore) ListBoughtByAgent(ctx context.Context, agentEmail string) ([]models.Offer, error) {
	return s.find(ctx, bson.M{"agentEmail": agentEmail, "status": models.OfferBought})
}

func (s *MongoOfferStore) HasBought(ctx context.Context, propertyID string) (bool, error) {
	count, err := s.collection.CountDocuments(ctx, bson.M{
		"propertyId": propertyID,
		"status":     models.OfferBought,
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *MongoOfferStore) find(ctx context.Context, filter bson.M) ([]models.Offer, error) {
	cursor, err := s.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var offers []models.Offer
	for cursor.Next(ctx) {
		var o models.Offer
		if err := cursor.Decode(&o); err != nil {
			continue
		}
		offers = append(offers, o)
	}
	return offers, cursor.Err()
}

func (s *MongoOfferStore) MarkAccepted(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return s.transition(ctx,
		bson.M{"_id": id, "status": models.OfferPending},
		bson.M{"$set": bson.M{"status": models.OfferAccepted}},
	)
}

func (s *MongoOfferStore) MarkRejected(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return s.transition(ctx,
		bson.M{"_id": id, "status": models.OfferPending},
		bson.M{"$set": bson.M{"status": models.OfferRejected}},
	)
}

func (s *MongoOfferStore) MarkBought(ctx context.Context, id primitive.ObjectID, trxID string) (bool, error) {
	return s.transition(ctx,
		bson.M{"_id": id, "status": models.OfferAccepted},
		bson.M{"$set": bson.M{"status": models.OfferBought, "transactionId": trxID}},
	)
}

func (s *MongoOfferStore) transition(ctx context.Context, filter, update bson.M) (bool, error) {
	res, err := s.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (s *MongoOfferStore) RejectOthers(ctx context.Context, propertyID string, winnerID primitive.ObjectID) (int64, error) {
	res, err := s.collection.UpdateMany(ctx,
		bson.M{
			"propertyId": propertyID,
			"_id":        bson.M{"$ne": winnerID},
			"status":     models.OfferPending,
		},
		bson.M{"$set": bson.M{"status": models.OfferRejected}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

var _ OfferStore = (*MongoOfferStore)(nil)
