package services

import (
	"time"

	"sales-dashboard/internal/models"
)

// ComparePeriods measures the filtered view against the immediately
// preceding window of equal length. The previous window is cut from the full
// unfiltered dataset restricted by date only, so the comparison stays
// strictly temporal regardless of the active categorical filters.
//
// When the view spans zero or one distinct day, or the previous window holds
// no rows, every delta is nil: "not available" is distinct from +0.0%.
func ComparePeriods(view, full []models.Transaction) models.PeriodComparison {
	cmp := models.PeriodComparison{}

	start, end, ok := dateSpan(view)
	if !ok {
		return cmp
	}

	cmp.Current = periodMetrics(view, start, end)

	spanDays := int(end.Sub(start).Hours() / 24)
	if spanDays <= 0 {
		return cmp
	}

	prevEnd := start.AddDate(0, 0, -1)
	prevStart := start.AddDate(0, 0, -spanDays)
	prev := Apply(full, models.FilterSpec{DateFrom: &prevStart, DateTo: &prevEnd})
	if len(prev) == 0 {
		return cmp
	}

	cmp.Previous = periodMetrics(prev, prevStart, prevEnd)
	cmp.RevenueDelta = pctDelta(cmp.Current.NetRevenue, cmp.Previous.NetRevenue)
	cmp.QuantityDelta = pctDelta(cmp.Current.NetQuantity, cmp.Previous.NetQuantity)
	cmp.OrdersDelta = pctDelta(float64(cmp.Current.Orders), float64(cmp.Previous.Orders))
	cmp.AOVDelta = pctDelta(cmp.Current.AOV, cmp.Previous.AOV)
	cmp.Available = true
	return cmp
}

func periodMetrics(view []models.Transaction, start, end time.Time) models.PeriodMetrics {
	s := Summarize(view)
	return models.PeriodMetrics{
		Start:       start,
		End:         end,
		NetRevenue:  s.NetRevenue,
		NetQuantity: s.NetQuantity,
		Orders:      s.Orders,
		AOV:         s.AOV,
	}
}

// dateSpan finds the day-truncated [min, max] span of the dated rows.
func dateSpan(view []models.Transaction) (time.Time, time.Time, bool) {
	var start, end time.Time
	for _, t := range view {
		if !t.HasDate() {
			continue
		}
		d := truncateToDay(t.OrderDate)
		if start.IsZero() || d.Before(start) {
			start = d
		}
		if end.IsZero() || d.After(end) {
			end = d
		}
	}
	return start, end, !start.IsZero()
}

// pctDelta is nil when the previous value is zero: the percentage is
// undefined, not 0.
func pctDelta(current, previous float64) *float64 {
	if previous == 0 {
		return nil
	}
	d := (current - previous) / previous * 100
	return &d
}
