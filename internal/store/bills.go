package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/restolink/api/internal/enum"
	"github.com/restolink/api/internal/model"
)

// FindActiveBill returns the single active bill for (owner, table), or
// (nil, nil) when none exists. Absence is a normal answer, not an error.
func (s *Store) FindActiveBill(ctx context.Context, ownerID string, table int) (*model.TableBill, error) {
	filter := bson.M{"owner_id": ownerID, "table": table, "status": enum.BillStatusActive}
	var bill model.TableBill
	err := s.db.Collection(collTableBills).FindOne(ctx, filter).Decode(&bill)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bill, nil
}

// CreateBill inserts a new active bill.
func (s *Store) CreateBill(ctx context.Context, bill model.TableBill) (model.TableBill, error) {
	now := time.Now().UTC()
	bill.Status = enum.BillStatusActive
	bill.CreatedAt = now
	bill.UpdatedAt = now
	res, err := s.db.Collection(collTableBills).InsertOne(ctx, bill)
	if err != nil {
		return model.TableBill{}, err
	}
	bill.ID = res.InsertedID.(primitive.ObjectID)
	return bill, nil
}

// UpdateBillTotals replaces the item list and running totals on a bill.
// Partial merge on purpose: status and created_at stay untouched.
func (s *Store) UpdateBillTotals(ctx context.Context, id primitive.ObjectID, items []model.OrderItem, subtotal, tax, total float64) error {
	_, err := s.db.Collection(collTableBills).UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"items":      items,
			"subtotal":   subtotal,
			"tax":        tax,
			"total":      total,
			"updated_at": time.Now().UTC(),
		},
	})
	return err
}

// CloseBill marks the active bill for (owner, table) closed. Closing a table
// with no active bill matches nothing and is not an error.
func (s *Store) CloseBill(ctx context.Context, ownerID string, table int) error {
	filter := bson.M{"owner_id": ownerID, "table": table, "status": enum.BillStatusActive}
	_, err := s.db.Collection(collTableBills).UpdateOne(ctx, filter, bson.M{
		"$set": bson.M{
			"status":     enum.BillStatusClosed,
			"updated_at": time.Now().UTC(),
		},
	})
	return err
}
