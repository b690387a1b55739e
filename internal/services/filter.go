package services

import (
	"slices"
	"time"

	"sales-dashboard/internal/models"
)

// Apply narrows the transaction set to the rows matching every active
// dimension of the spec. Filters are conjunctive and applied in the fixed
// cascade order (fiscal year, month, platforms, categories, product, type,
// dispatch, date range); the result set itself is order-independent. The
// source slice is never mutated and an empty result is valid.
func Apply(txns []models.Transaction, spec models.FilterSpec) []models.Transaction {
	out := txns
	if !models.WantsAll(spec.FiscalYear) {
		out = keep(out, func(t models.Transaction) bool { return t.FiscalYear == spec.FiscalYear })
	}
	if !models.WantsAll(spec.Month) {
		out = keep(out, func(t models.Transaction) bool { return t.MonthLabel == spec.Month })
	}
	if !models.WantsAllOf(spec.Platforms) {
		out = keep(out, func(t models.Transaction) bool { return slices.Contains(spec.Platforms, t.Platform) })
	}
	if !models.WantsAllOf(spec.Categories) {
		out = keep(out, func(t models.Transaction) bool { return slices.Contains(spec.Categories, t.Category) })
	}
	if !models.WantsAll(spec.Product) {
		out = keep(out, func(t models.Transaction) bool { return t.Product == spec.Product })
	}
	if !models.WantsAll(spec.TransactionType) {
		out = keep(out, func(t models.Transaction) bool { return t.TransactionType == spec.TransactionType })
	}
	if !models.WantsAll(spec.DispatchStatus) {
		out = keep(out, func(t models.Transaction) bool { return t.DispatchStatus == spec.DispatchStatus })
	}
	if spec.DateFrom != nil || spec.DateTo != nil {
		out = keep(out, func(t models.Transaction) bool { return inDateRange(t, spec.DateFrom, spec.DateTo) })
	}
	return out
}

// keep returns the matching subsequence without touching the input slice.
func keep(txns []models.Transaction, pred func(models.Transaction) bool) []models.Transaction {
	out := make([]models.Transaction, 0, len(txns))
	for _, t := range txns {
		if pred(t) {
			out = append(out, t)
		}
	}
	return out
}

// inDateRange compares at day granularity, inclusive on both endpoints.
// Rows without a parseable date never match an explicit date range.
func inDateRange(t models.Transaction, from, to *time.Time) bool {
	if !t.HasDate() {
		return false
	}
	day := truncateToDay(t.OrderDate)
	if from != nil && day.Before(truncateToDay(*from)) {
		return false
	}
	if to != nil && day.After(truncateToDay(*to)) {
		return false
	}
	return true
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Options computes the legal next-choices per dimension. The cascade narrows
// left to right: fiscal years come from the full set, months from the
// year-narrowed set, platforms from the month-narrowed set, and so on, so a
// selection never offers choices that would yield zero rows. The final row
// set stays order-independent; only the offered choices cascade.
func Options(txns []models.Transaction, spec models.FilterSpec) models.FilterOptions {
	opts := models.FilterOptions{
		FiscalYears: distinct(txns, func(t models.Transaction) string { return t.FiscalYear }, true),
	}
	opts.MinDate, opts.MaxDate = dateBounds(txns)

	narrowed := Apply(txns, models.FilterSpec{FiscalYear: spec.FiscalYear})
	opts.Months = distinct(narrowed, func(t models.Transaction) string { return t.MonthLabel }, true)

	narrowed = Apply(txns, models.FilterSpec{FiscalYear: spec.FiscalYear, Month: spec.Month})
	opts.Platforms = distinct(narrowed, func(t models.Transaction) string { return t.Platform }, false)

	narrowed = Apply(txns, models.FilterSpec{
		FiscalYear: spec.FiscalYear,
		Month:      spec.Month,
		Platforms:  spec.Platforms,
	})
	opts.Categories = distinct(narrowed, func(t models.Transaction) string { return t.Category }, false)

	narrowed = Apply(txns, models.FilterSpec{
		FiscalYear: spec.FiscalYear,
		Month:      spec.Month,
		Platforms:  spec.Platforms,
		Categories: spec.Categories,
	})
	opts.Products = distinct(narrowed, func(t models.Transaction) string { return t.Product }, false)
	opts.TransactionTypes = distinct(narrowed, func(t models.Transaction) string { return t.TransactionType }, false)
	opts.DispatchStatuses = distinct(narrowed, func(t models.Transaction) string { return t.DispatchStatus }, false)

	return opts
}

// distinct collects the non-empty values of one dimension, sorted ascending
// or descending.
func distinct(txns []models.Transaction, key func(models.Transaction) string, desc bool) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, t := range txns {
		v := key(t)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	slices.Sort(out)
	if desc {
		slices.Reverse(out)
	}
	return out
}

func dateBounds(txns []models.Transaction) (*time.Time, *time.Time) {
	var minD, maxD time.Time
	for _, t := range txns {
		if !t.HasDate() {
			continue
		}
		if minD.IsZero() || t.OrderDate.Before(minD) {
			minD = t.OrderDate
		}
		if maxD.IsZero() || t.OrderDate.After(maxD) {
			maxD = t.OrderDate
		}
	}
	if minD.IsZero() {
		return nil, nil
	}
	lo, hi := truncateToDay(minD), truncateToDay(maxD)
	return &lo, &hi
}
