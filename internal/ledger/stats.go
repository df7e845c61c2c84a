package ledger

import (
	"context"
	"log"
	"sort"

	"github.com/restolink/api/internal/model"
)

const (
	topItemCount     = 5
	recentOrderCount = 10
	revenueMonths    = 6
)

// ComputeMenuStats derives the owner's aggregate stats from their full order
// and menu history. Unlike every other ledger operation this one never
// propagates a failure: any store error logs and yields a zero MenuStats.
func (l *Ledger) ComputeMenuStats(ctx context.Context, ownerID string) model.MenuStats {
	orders, err := l.order.ListOrders(ctx, ownerID)
	if err != nil {
		log.Printf("ERROR: menu stats: list orders: %v", err)
		return model.MenuStats{}
	}
	menu, err := l.menu.ListMenuItems(ctx, ownerID)
	if err != nil {
		log.Printf("ERROR: menu stats: list menu items: %v", err)
		return model.MenuStats{}
	}

	stats := model.MenuStats{TotalOrders: len(orders)}
	for _, o := range orders {
		stats.TotalRevenue += o.Total
	}
	for _, item := range menu {
		stats.TotalViews += item.Views
	}

	stats.PopularItems = topItems(orders, topItemCount)

	// ListOrders is newest-first, so the recent slice is a prefix.
	recent := len(orders)
	if recent > recentOrderCount {
		recent = recentOrderCount
	}
	stats.RecentOrders = orders[:recent]

	stats.MonthlyRevenue = monthlyRevenue(orders, revenueMonths)
	return stats
}

// topItems ranks item names by cumulative ordered quantity and returns the
// top n. Ties break alphabetically so the ranking is stable.
func topItems(orders []model.Order, n int) []model.PopularItem {
	quantities := make(map[string]int)
	for _, o := range orders {
		for _, item := range o.Items {
			quantities[item.Name] += item.Quantity
		}
	}
	if len(quantities) == 0 {
		return nil
	}

	ranked := make([]model.PopularItem, 0, len(quantities))
	for name, qty := range quantities {
		ranked = append(ranked, model.PopularItem{Name: name, Quantity: qty})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Quantity != ranked[j].Quantity {
			return ranked[i].Quantity > ranked[j].Quantity
		}
		return ranked[i].Name < ranked[j].Name
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// monthlyRevenue groups order totals by "YYYY-MM" and returns the `months`
// most recent keys, ascending.
func monthlyRevenue(orders []model.Order, months int) []model.MonthlyRevenue {
	byMonth := make(map[string]float64)
	for _, o := range orders {
		key := o.CreatedAt.Format("2006-01")
		byMonth[key] += o.Total
	}
	if len(byMonth) == 0 {
		return nil
	}

	keys := make([]string, 0, len(byMonth))
	for key := range byMonth {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	if len(keys) > months {
		keys = keys[len(keys)-months:]
	}

	series := make([]model.MonthlyRevenue, len(keys))
	for i, key := range keys {
		series[i] = model.MonthlyRevenue{Month: key, Revenue: byMonth[key]}
	}
	return series
}
