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

type MongoUserStore struct {
	collection *mongo.Collection
}

func NewMongoUserStore(collection *mongo.Collection) *MongoUserStore {
	return &MongoUserStore{collection: collection}
}

func (s *MongoUserStore) Insert(ctx context.Context, u *models.User) (primitive.ObjectID, error) {
	u.ID = primitive.NewObjectID()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	if _, err := s.collection.InsertOne(ctx, u); err != nil {
		return primitive.NilObjectID, err
	}
	return u.ID, nil
}

func (s *MongoUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.collection.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *MongoUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *MongoUserStore) List(ctx context.Context) ([]models.User, error) {
	return s.find(ctx, bson.M{})
}

func (s *MongoUserStore) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	return s.find(ctx, bson.M{"role": role})
}

func (s *MongoUserStore) find(ctx context.Context, filter bson.M) ([]models.User, error) {
	cursor, err := s.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	for cursor.Next(ctx) {
		var u models.User
		if err := cursor.Decode(&u); err != nil {
			continue
		}
		u.Password = ""
		users = append(users, u)
	}
	return users, cursor.Err()
}

func (s *MongoUserStore) SetRole(ctx context.Context, id primitive.ObjectID, role models.Role) error {
	res, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"role": role, "updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

func (s *MongoUserStore) MarkFraud(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	u, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Transition matches on role=agent so a concurrent promotion or a repeat
	// call cannot double-apply.
	res, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": id, "role": models.RoleAgent},
		bson.M{"$set": bson.M{"role": models.RoleFraud, "updated_at": time.Now()}},
	)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, apperr.InvalidState("only agents can be marked as fraud")
	}
	u.Role = models.RoleFraud
	u.Password = ""
	return u, nil
}

func (s *MongoUserStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

var _ UserStore = (*MongoUserStore)(nil)
