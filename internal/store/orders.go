package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/restolink/api/internal/model"
)

// CreatePendingOrder inserts a submitted-but-unapproved order.
func (s *Store) CreatePendingOrder(ctx context.Context, p model.PendingOrder) (model.PendingOrder, error) {
	p.CreatedAt = time.Now().UTC()
	res, err := s.db.Collection(collPendingOrders).InsertOne(ctx, p)
	if err != nil {
		return model.PendingOrder{}, err
	}
	p.ID = res.InsertedID.(primitive.ObjectID)
	return p, nil
}

// GetPendingOrder fetches a pending order by id.
func (s *Store) GetPendingOrder(ctx context.Context, id string) (model.PendingOrder, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return model.PendingOrder{}, err
	}
	var p model.PendingOrder
	err = s.db.Collection(collPendingOrders).FindOne(ctx, bson.M{"_id": oid}).Decode(&p)
	return p, err
}

// DeletePendingOrder removes the pending record. Deleting an id that is
// already gone is not an error.
func (s *Store) DeletePendingOrder(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = s.db.Collection(collPendingOrders).DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

// CreateOrder inserts an approved order and returns it with the generated id.
func (s *Store) CreateOrder(ctx context.Context, o model.Order) (model.Order, error) {
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.Collection(collOrders).InsertOne(ctx, o)
	if err != nil {
		return model.Order{}, err
	}
	o.ID = res.InsertedID.(primitive.ObjectID)
	return o, nil
}

// GetOrder fetches an order by id.
func (s *Store) GetOrder(ctx context.Context, id string) (model.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return model.Order{}, err
	}
	var o model.Order
	err = s.db.Collection(collOrders).FindOne(ctx, bson.M{"_id": oid}).Decode(&o)
	return o, err
}

// ListOrders returns the owner's orders, newest first.
func (s *Store) ListOrders(ctx context.Context, ownerID string) ([]model.Order, error) {
	cur, err := s.db.Collection(collOrders).Find(ctx, bson.M{"owner_id": ownerID}, newestFirst(0))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var orders []model.Order
	if err := cur.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// SetOrderPaymentStatus updates payment_status on an order.
func (s *Store) SetOrderPaymentStatus(ctx context.Context, id, status string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = s.db.Collection(collOrders).UpdateByID(ctx, oid, bson.M{
		"$set": bson.M{"payment_status": status},
	})
	return err
}
