package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/restolink/api/internal/model"
)

// GetUserByEmail fetches an account by email. Returns
// mongo.ErrNoDocuments when the email is unknown.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := s.db.Collection(collUsers).FindOne(ctx, bson.M{"email": email}).Decode(&u)
	return u, err
}

// GetUserByID fetches an account by id.
func (s *Store) GetUserByID(ctx context.Context, id string) (model.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return model.User{}, err
	}
	var u model.User
	err = s.db.Collection(collUsers).FindOne(ctx, bson.M{"_id": oid}).Decode(&u)
	return u, err
}

// CreateUser inserts an account. Used by the seed command.
func (s *Store) CreateUser(ctx context.Context, u model.User) (model.User, error) {
	u.CreatedAt = time.Now().UTC()
	res, err := s.db.Collection(collUsers).InsertOne(ctx, u)
	if err != nil {
		return model.User{}, err
	}
	u.ID = res.InsertedID.(primitive.ObjectID)
	return u, nil
}
