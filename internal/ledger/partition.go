package ledger

import (
	"github.com/restolink/api/internal/enum"
	"github.com/restolink/api/internal/model"
)

// BuildDepartmentIndex maps menu-item ids to their department tag.
// Items without a tag index as kitchen.
func BuildDepartmentIndex(items []model.MenuItem) map[string]string {
	index := make(map[string]string, len(items))
	for _, item := range items {
		dept := item.Department
		if dept == "" {
			dept = enum.DepartmentKitchen
		}
		index[item.ID.Hex()] = dept
	}
	return index
}

// PartitionByDepartment splits order items into kitchen and bar subsets by
// looking each item up in the department index. Ids missing from the index
// go to the kitchen. Returned items carry their department stamped on the
// denormalized copy; the input slice is not modified.
func PartitionByDepartment(items []model.OrderItem, index map[string]string) (kitchen, bar []model.OrderItem) {
	for _, item := range items {
		dept, ok := index[item.MenuItemID]
		if !ok {
			dept = enum.DepartmentKitchen
		}
		item.Department = dept
		if dept == enum.DepartmentBar {
			bar = append(bar, item)
		} else {
			kitchen = append(kitchen, item)
		}
	}
	return kitchen, bar
}
