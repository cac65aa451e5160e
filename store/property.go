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

type MongoPropertyStore struct {
	collection *mongo.Collection
}

func NewMongoPropertyStore(collection *mongo.Collection) *MongoPropertyStore {
	return &MongoPropertyStore{collection: collection}
}

func (s *MongoPropertyStore) Insert(ctx context.Context, p *models.Property) (primitive.ObjectID, error) {
	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	if _, err := s.collection.InsertOne(ctx, p); err != nil {
		return primitive.NilObjectID, err
	}
	return p.ID, nil
}

func (s *MongoPropertyStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	var p models.Property
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound("property not found")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *MongoPropertyStore) List(ctx context.Context) ([]models.Property, error) {
	return s.find(ctx, bson.M{}, nil)
}

func (s *MongoPropertyStore) ListByAgent(ctx context.Context, agentEmail string) ([]models.Property, error) {
	return s.find(ctx, bson.M{"agentEmail": agentEmail}, nil)
}

func (s *MongoPropertyStore) ListApproved(ctx context.Context) ([]models.Property, error) {
	return s.find(ctx, bson.M{"verificationStatus": models.VerificationApproved}, nil)
}

func (s *MongoPropertyStore) ListAdvertised(ctx context.Context, limit int64) ([]models.Property, error) {
	opts := options.Find().SetLimit(limit)
	// Missing advertised fields on old documents read as false here.
	return s.find(ctx, bson.M{
		"advertised":         true,
		"verificationStatus": models.VerificationApproved,
	}, opts)
}

func (s *MongoPropertyStore) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Property, error) {
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = s.collection.Find(ctx, filter, opts)
	} else {
		cursor, err = s.collection.Find(ctx, filter)
	}
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var properties []models.Property
	for cursor.Next(ctx) {
		var p models.Property
		if err := cursor.Decode(&p); err != nil {
			continue
		}
		properties = append(properties, p)
	}
	return properties, cursor.Err()
}

func (s *MongoPropertyStore) SetVerification(ctx context.Context, id primitive.ObjectID, decision models.VerificationStatus) error {
	if !models.ValidDecision(decision) {
		return apperr.InvalidState("invalid verification status")
	}
	res, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"verificationStatus": decision, "updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("property not found")
	}
	return nil
}

func (s *MongoPropertyStore) SetAdvertised(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"advertised": true, "updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("property not found")
	}
	return nil
}

func (s *MongoPropertyStore) UpdateFields(ctx context.Context, id primitive.ObjectID, upd models.PropertyUpdate) error {
	res, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"title":     upd.Title,
			"location":  upd.Location,
			"basePrice": upd.BasePrice,
			"maxPrice":  upd.MaxPrice,
			"updatedAt": time.Now(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("property not found")
	}
	return nil
}

func (s *MongoPropertyStore) Delete(ctx context.Context, id primitive.ObjectID, agentEmail string) error {
	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": id, "agentEmail": agentEmail})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("property not found or not owned by caller")
	}
	return nil
}

func (s *MongoPropertyStore) DeleteByAgent(ctx context.Context, agentEmail string) (int64, error) {
	res, err := s.collection.DeleteMany(ctx, bson.M{"agentEmail": agentEmail})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *MongoPropertyStore) ClaimWinner(ctx context.Context, id primitive.ObjectID, offerID string) (bool, error) {
	res, err := s.collection.UpdateOne(ctx,
		bson.M{
			"_id":           id,
			"acceptedOffer": bson.M{"$in": bson.A{"", nil, offerID}},
		},
		bson.M{"$set": bson.M{"acceptedOffer": offerID, "updatedAt": time.Now()}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (s *MongoPropertyStore) ReleaseWinner(ctx context.Context, id primitive.ObjectID, offerID string) error {
	_, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": id, "acceptedOffer": offerID},
		bson.M{"$set": bson.M{"acceptedOffer": "", "updatedAt": time.Now()}},
	)
	return err
}

func (s *MongoPropertyStore) MarkSold(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"saleStatus": models.SaleSold, "updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("property not found")
	}
	return nil
}

var _ PropertyStore = (*MongoPropertyStore)(nil)
