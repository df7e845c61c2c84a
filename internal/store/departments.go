package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/restolink/api/internal/enum"
	"github.com/restolink/api/internal/model"
)

// CreateDepartmentOrder inserts one department's slice of an order.
func (s *Store) CreateDepartmentOrder(ctx context.Context, d model.DepartmentOrder) (model.DepartmentOrder, error) {
	if d.Status == "" {
		d.Status = enum.DepartmentOrderPending
	}
	d.CreatedAt = time.Now().UTC()
	res, err := s.db.Collection(collDepartmentOrders).InsertOne(ctx, d)
	if err != nil {
		return model.DepartmentOrder{}, err
	}
	d.ID = res.InsertedID.(primitive.ObjectID)
	return d, nil
}

// ListDepartmentOrders returns an owner's queue for one department,
// newest first.
func (s *Store) ListDepartmentOrders(ctx context.Context, ownerID, department string) ([]model.DepartmentOrder, error) {
	filter := bson.M{"owner_id": ownerID, "department": department}
	cur, err := s.db.Collection(collDepartmentOrders).Find(ctx, filter, newestFirst(0))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var records []model.DepartmentOrder
	if err := cur.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// CompleteDepartmentOrder marks the (orderID, department) record completed
// and stamps the completion time. Returns the number of matched records;
// zero means there was nothing to complete.
func (s *Store) CompleteDepartmentOrder(ctx context.Context, orderID, department string) (int64, error) {
	filter := bson.M{"order_id": orderID, "department": department}
	res, err := s.db.Collection(collDepartmentOrders).UpdateOne(ctx, filter, bson.M{
		"$set": bson.M{
			"status":       enum.DepartmentOrderCompleted,
			"completed_at": time.Now().UTC(),
		},
	})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}
