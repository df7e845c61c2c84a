// Package store holds the typed MongoDB collection wrappers. Each entity
// gets its own file; methods map one-to-one onto single driver calls so the
// service layer above stays mockable through narrow interfaces.
package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	collUsers            = "users"
	collMenuItems        = "menu_items"
	collPendingOrders    = "pending_orders"
	collOrders           = "orders"
	collDepartmentOrders = "department_orders"
	collTableBills       = "table_bills"
)

// Store wraps a Mongo database handle with typed accessors.
type Store struct {
	db *mongo.Database
}

// New returns a Store over the given database.
func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

// Connect dials Mongo and verifies the connection with a ping.
func Connect(ctx context.Context, uri, database string) (*mongo.Client, *Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, New(client.Database(database)), nil
}
