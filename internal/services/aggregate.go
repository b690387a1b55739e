package services

import (
	"slices"

	"sales-dashboard/internal/models"
)

// Dimension selects the grouping key for grouped metrics.
type Dimension string

const (
	DimensionPlatform Dimension = "platform"
	DimensionCategory Dimension = "category"
	DimensionProduct  Dimension = "product"
)

// DefaultParetoLimit caps the concentration curve for presentation. The
// cumulative percentages are always computed over the full sorted set first.
const DefaultParetoLimit = 50

func dimensionKey(t models.Transaction, dim Dimension) string {
	switch dim {
	case DimensionCategory:
		return t.Category
	case DimensionProduct:
		return t.Product
	default:
		return t.Platform
	}
}

// GroupBy sums net revenue, net quantity and order count per group of the
// chosen dimension, sorted by revenue descending. Rows with an empty key are
// excluded. AOV is 0 for a zero-order group; an empty view yields an empty
// (non-nil) slice.
func GroupBy(view []models.Transaction, dim Dimension) []models.GroupMetric {
	groups := make(map[string]*models.GroupMetric)
	order := make([]string, 0)

	for _, t := range view {
		key := dimensionKey(t, dim)
		if key == "" {
			continue
		}
		g, ok := groups[key]
		if !ok {
			g = &models.GroupMetric{Key: key}
			groups[key] = g
			order = append(order, key)
		}
		g.NetRevenue += t.NetRevenue
		g.NetQuantity += t.NetQuantity
		g.Orders++
	}

	out := make([]models.GroupMetric, 0, len(order))
	for _, key := range order {
		g := groups[key]
		if g.Orders > 0 {
			g.AOV = g.NetRevenue / float64(g.Orders)
		}
		out = append(out, *g)
	}
	slices.SortStableFunc(out, byRevenueDesc)
	return out
}

func byRevenueDesc(a, b models.GroupMetric) int {
	switch {
	case a.NetRevenue > b.NetRevenue:
		return -1
	case a.NetRevenue < b.NetRevenue:
		return 1
	default:
		return 0
	}
}

// Summarize computes the headline KPIs of a view. Empty input yields a
// zero-filled summary, never an error.
func Summarize(view []models.Transaction) models.Summary {
	var s models.Summary
	for _, t := range view {
		s.NetRevenue += t.NetRevenue
		s.NetQuantity += t.NetQuantity
	}
	s.Orders = len(view)
	if s.Orders > 0 {
		s.AOV = s.NetRevenue / float64(s.Orders)
	}
	return s
}

// ReturnRates ranks platforms by return rate ascending, so the cleanest
// channel comes first. Rate is returns over gross sales as a percentage, 0
// when a platform had no gross sales. Ties keep input order (stable sort).
func ReturnRates(view []models.Transaction) []models.PlatformReturnRate {
	groups := make(map[string]*models.PlatformReturnRate)
	order := make([]string, 0)

	for _, t := range view {
		if t.Platform == "" {
			continue
		}
		g, ok := groups[t.Platform]
		if !ok {
			g = &models.PlatformReturnRate{Platform: t.Platform}
			groups[t.Platform] = g
			order = append(order, t.Platform)
		}
		g.GrossSales += t.SaleAmount
		g.GrossReturns += t.ReturnAmount
	}

	out := make([]models.PlatformReturnRate, 0, len(order))
	for _, key := range order {
		g := groups[key]
		if g.GrossSales > 0 {
			g.ReturnRate = g.GrossReturns / g.GrossSales * 100
		}
		out = append(out, *g)
	}
	slices.SortStableFunc(out, func(a, b models.PlatformReturnRate) int {
		switch {
		case a.ReturnRate < b.ReturnRate:
			return -1
		case a.ReturnRate > b.ReturnRate:
			return 1
		default:
			return 0
		}
	})
	return out
}

// Pareto builds the revenue concentration curve over products. Cumulative
// percentages are computed across the entire sorted set before the result is
// truncated to limit entries; truncating first would inflate the tail.
// Percentage is 0 throughout when total revenue is not positive.
func Pareto(view []models.Transaction, limit int) []models.ParetoEntry {
	if limit <= 0 {
		limit = DefaultParetoLimit
	}

	groups := GroupBy(view, DimensionProduct)

	var total float64
	for _, g := range groups {
		total += g.NetRevenue
	}

	out := make([]models.ParetoEntry, 0, len(groups))
	var running float64
	for _, g := range groups {
		running += g.NetRevenue
		e := models.ParetoEntry{
			Product:           g.Key,
			NetRevenue:        g.NetRevenue,
			CumulativeRevenue: running,
		}
		if total > 0 {
			e.CumulativePct = running / total * 100
		}
		out = append(out, e)
	}

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// RevenueRollup groups net revenue by (platform, category) for the
// hierarchical channel view. Pairs with non-positive revenue are dropped;
// the remainder sorts by revenue descending.
func RevenueRollup(view []models.Transaction) []models.RevenueSegment {
	type pair struct{ platform, category string }
	groups := make(map[pair]float64)
	order := make([]pair, 0)

	for _, t := range view {
		if t.Platform == "" || t.Category == "" {
			continue
		}
		p := pair{t.Platform, t.Category}
		if _, ok := groups[p]; !ok {
			order = append(order, p)
		}
		groups[p] += t.NetRevenue
	}

	out := make([]models.RevenueSegment, 0, len(order))
	for _, p := range order {
		if rev := groups[p]; rev > 0 {
			out = append(out, models.RevenueSegment{Platform: p.platform, Category: p.category, NetRevenue: rev})
		}
	}
	slices.SortStableFunc(out, func(a, b models.RevenueSegment) int {
		switch {
		case a.NetRevenue > b.NetRevenue:
			return -1
		case a.NetRevenue < b.NetRevenue:
			return 1
		default:
			return 0
		}
	})
	return out
}

// TopByRevenue returns the k highest-revenue groups of a dimension. Ties
// keep the sorted input order.
func TopByRevenue(view []models.Transaction, dim Dimension, k int) []models.GroupMetric {
	groups := GroupBy(view, dim)
	if len(groups) > k {
		groups = groups[:k]
	}
	return groups
}

// TopByQuantity returns the k highest-volume groups of a dimension.
func TopByQuantity(view []models.Transaction, dim Dimension, k int) []models.GroupMetric {
	groups := GroupBy(view, dim)
	slices.SortStableFunc(groups, func(a, b models.GroupMetric) int {
		switch {
		case a.NetQuantity > b.NetQuantity:
			return -1
		case a.NetQuantity < b.NetQuantity:
			return 1
		default:
			return 0
		}
	})
	if len(groups) > k {
		groups = groups[:k]
	}
	return groups
}

// Highlights picks the star products of a view: distinct active SKUs plus
// the top k products by revenue and by volume.
func Highlights(view []models.Transaction, k int) models.ProductHighlights {
	skus := make(map[string]struct{})
	for _, t := range view {
		if t.SKU != "" {
			skus[t.SKU] = struct{}{}
		}
	}
	return models.ProductHighlights{
		ActiveSKUs: len(skus),
		ByRevenue:  TopByRevenue(view, DimensionProduct, k),
		ByQuantity: TopByQuantity(view, DimensionProduct, k),
	}
}

// MonthlyRevenue sums net revenue per calendar month, sorted chronologically.
// Rows without a parseable date carry no month key and are excluded.
func MonthlyRevenue(view []models.Transaction) []models.MonthlyRevenue {
	sums := make(map[string]float64)
	labels := make(map[string]string)
	for _, t := range view {
		if t.MonthKey == "" {
			continue
		}
		sums[t.MonthKey] += t.NetRevenue
		labels[t.MonthKey] = t.MonthLabel
	}

	out := make([]models.MonthlyRevenue, 0, len(sums))
	for key, rev := range sums {
		out = append(out, models.MonthlyRevenue{Month: key, Label: labels[key], NetRevenue: rev})
	}
	slices.SortFunc(out, func(a, b models.MonthlyRevenue) int {
		switch {
		case a.Month < b.Month:
			return -1
		case a.Month > b.Month:
			return 1
		default:
			return 0
		}
	})
	return out
}
