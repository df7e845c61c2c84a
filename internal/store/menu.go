package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/restolink/api/internal/enum"
	"github.com/restolink/api/internal/model"
)

// CreateMenuItem inserts a menu item and returns it with the generated id.
// Department defaults to kitchen; creation time is stamped here.
func (s *Store) CreateMenuItem(ctx context.Context, item model.MenuItem) (model.MenuItem, error) {
	if item.Department == "" {
		item.Department = enum.DepartmentKitchen
	}
	item.CreatedAt = time.Now().UTC()

	res, err := s.db.Collection(collMenuItems).InsertOne(ctx, item)
	if err != nil {
		return model.MenuItem{}, err
	}
	item.ID = res.InsertedID.(primitive.ObjectID)
	return item, nil
}

// ListMenuItems returns every menu item owned by ownerID. Items persisted
// without a department come back tagged kitchen.
func (s *Store) ListMenuItems(ctx context.Context, ownerID string) ([]model.MenuItem, error) {
	cur, err := s.db.Collection(collMenuItems).Find(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var items []model.MenuItem
	if err := cur.All(ctx, &items); err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].Department == "" {
			items[i].Department = enum.DepartmentKitchen
		}
	}
	return items, nil
}

// IncrementMenuItemViews bumps the view counter by one. Scoped to the owner
// like every other menu access; a foreign id matches nothing.
func (s *Store) IncrementMenuItemViews(ctx context.Context, ownerID, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = s.db.Collection(collMenuItems).UpdateOne(ctx, bson.M{"_id": oid, "owner_id": ownerID}, bson.M{
		"$inc": bson.M{"views": 1},
	})
	return err
}

// newestFirst builds find options for newest-first listings.
func newestFirst(limit int64) *options.FindOptions {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	return opts
}
