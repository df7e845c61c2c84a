package ledger_test

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/restolink/api/internal/ledger"
	"github.com/restolink/api/internal/model"
)

func TestBuildDepartmentIndexDefaultsKitchen(t *testing.T) {
	untagged := model.MenuItem{ID: primitive.NewObjectID(), Name: "Carbonara"}
	tagged := model.MenuItem{ID: primitive.NewObjectID(), Name: "Espresso", Department: "bar"}

	index := ledger.BuildDepartmentIndex([]model.MenuItem{untagged, tagged})

	if got := index[untagged.ID.Hex()]; got != "kitchen" {
		t.Errorf("untagged item: got %q, want kitchen", got)
	}
	if got := index[tagged.ID.Hex()]; got != "bar" {
		t.Errorf("tagged item: got %q, want bar", got)
	}
}

func TestPartitionByDepartment(t *testing.T) {
	kitchenID := primitive.NewObjectID().Hex()
	barID := primitive.NewObjectID().Hex()
	index := map[string]string{kitchenID: "kitchen", barID: "bar"}

	items := []model.OrderItem{
		{MenuItemID: kitchenID, Name: "Margherita", Quantity: 1, LineTotal: 9.50},
		{MenuItemID: barID, Name: "Espresso", Quantity: 2, LineTotal: 5.00},
		{MenuItemID: primitive.NewObjectID().Hex(), Name: "Off-menu special", Quantity: 1, LineTotal: 12.00},
	}

	kitchen, bar := ledger.PartitionByDepartment(items, index)

	if len(kitchen) != 2 {
		t.Fatalf("kitchen: got %d items, want 2", len(kitchen))
	}
	if len(bar) != 1 {
		t.Fatalf("bar: got %d items, want 1", len(bar))
	}
	// Unknown ids route to kitchen.
	if kitchen[1].Name != "Off-menu special" {
		t.Errorf("unknown item routed to %q partition", kitchen[1].Name)
	}
	for _, item := range kitchen {
		if item.Department != "kitchen" {
			t.Errorf("kitchen item %s: department stamped %q", item.Name, item.Department)
		}
	}
	if bar[0].Department != "bar" {
		t.Errorf("bar item: department stamped %q", bar[0].Department)
	}
	// The input slice keeps its original (unstamped) departments.
	for _, item := range items {
		if item.Department != "" {
			t.Errorf("input slice mutated: %s stamped %q", item.Name, item.Department)
		}
	}
}

func TestPartitionByDepartmentEmpty(t *testing.T) {
	kitchen, bar := ledger.PartitionByDepartment(nil, map[string]string{})
	if len(kitchen) != 0 || len(bar) != 0 {
		t.Errorf("got %d kitchen / %d bar, want empty", len(kitchen), len(bar))
	}
}
