package services

import (
	"math"
	"testing"

	"sales-dashboard/internal/models"
)

func TestGroupBy_SumsMatchViewTotal(t *testing.T) {
	txns := sampleTxns()
	summary := Summarize(txns)

	for _, dim := range []Dimension{DimensionPlatform, DimensionCategory, DimensionProduct} {
		var total float64
		for _, g := range GroupBy(txns, dim) {
			total += g.NetRevenue
		}
		if math.Abs(total-summary.NetRevenue) > 1e-9 {
			t.Errorf("dimension %s: group revenue sum %v != view total %v", dim, total, summary.NetRevenue)
		}
	}
}

func TestGroupBy_SortedByRevenueDesc(t *testing.T) {
	groups := GroupBy(sampleTxns(), DimensionPlatform)
	for i := 1; i < len(groups); i++ {
		if groups[i].NetRevenue > groups[i-1].NetRevenue {
			t.Errorf("groups not sorted by revenue desc: %v", groups)
		}
	}
}

func TestGroupBy_AOV(t *testing.T) {
	txns := []models.Transaction{
		{Platform: "A", NetRevenue: 600, NetQuantity: 6},
		{Platform: "A", NetRevenue: 400, NetQuantity: 4},
		{Platform: "B", NetRevenue: 500, NetQuantity: 5},
	}
	groups := GroupBy(txns, DimensionPlatform)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Key != "A" || groups[0].AOV != 500 {
		t.Errorf("AOV(A) = %v, want 500", groups[0].AOV)
	}
	if groups[1].Key != "B" || groups[1].AOV != 500 {
		t.Errorf("AOV(B) = %v, want 500", groups[1].AOV)
	}
}

func TestGroupBy_SkipsEmptyKeys(t *testing.T) {
	txns := []models.Transaction{
		{Platform: "", NetRevenue: 100},
		{Platform: "A", NetRevenue: 50},
	}
	groups := GroupBy(txns, DimensionPlatform)
	if len(groups) != 1 || groups[0].Key != "A" {
		t.Errorf("rows with an empty key must be excluded: %v", groups)
	}
}

func TestGroupBy_EmptyView(t *testing.T) {
	groups := GroupBy(nil, DimensionProduct)
	if groups == nil || len(groups) != 0 {
		t.Errorf("empty view should yield empty slice, got %v", groups)
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleTxns())
	if s.Orders != 5 {
		t.Errorf("Orders = %d, want 5", s.Orders)
	}
	want := 90.0 + 250 + 60 + 60 + 40
	if math.Abs(s.NetRevenue-want) > 1e-9 {
		t.Errorf("NetRevenue = %v, want %v", s.NetRevenue, want)
	}
	if s.AOV != s.NetRevenue/5 {
		t.Errorf("AOV = %v, want %v", s.AOV, s.NetRevenue/5)
	}
}

func TestSummarize_EmptyView(t *testing.T) {
	s := Summarize(nil)
	if s.NetRevenue != 0 || s.NetQuantity != 0 || s.Orders != 0 || s.AOV != 0 {
		t.Errorf("empty view should be zero-filled, got %+v", s)
	}
}

func TestReturnRates_AscendingBestFirst(t *testing.T) {
	txns := []models.Transaction{
		{Platform: "High", SaleAmount: 100, ReturnAmount: 30},
		{Platform: "Low", SaleAmount: 100, ReturnAmount: 5},
		{Platform: "Mid", SaleAmount: 200, ReturnAmount: 20},
	}
	rates := ReturnRates(txns)
	if len(rates) != 3 {
		t.Fatalf("expected 3 platforms, got %d", len(rates))
	}
	if rates[0].Platform != "Low" || rates[2].Platform != "High" {
		t.Errorf("expected ascending return rates, got %v", rates)
	}
	if rates[0].ReturnRate != 5 {
		t.Errorf("ReturnRate(Low) = %v, want 5", rates[0].ReturnRate)
	}
}

func TestReturnRates_ZeroGrossSales(t *testing.T) {
	txns := []models.Transaction{
		{Platform: "Ghost", SaleAmount: 0, ReturnAmount: 0},
	}
	rates := ReturnRates(txns)
	if len(rates) != 1 || rates[0].ReturnRate != 0 {
		t.Errorf("zero gross sales must give rate 0, got %v", rates)
	}
}

func TestReturnRates_StableTies(t *testing.T) {
	txns := []models.Transaction{
		{Platform: "First", SaleAmount: 100, ReturnAmount: 10},
		{Platform: "Second", SaleAmount: 200, ReturnAmount: 20},
	}
	rates := ReturnRates(txns)
	if rates[0].Platform != "First" || rates[1].Platform != "Second" {
		t.Errorf("equal rates should keep input order, got %v", rates)
	}
}

func TestPareto_CumulativePctOverFullSet(t *testing.T) {
	txns := []models.Transaction{
		{Product: "P1", NetRevenue: 500},
		{Product: "P2", NetRevenue: 300},
		{Product: "P3", NetRevenue: 200},
	}

	// Truncation happens after the cumulative percentages are computed
	// over the full sorted set, so a limit of 2 still shows P2 at 80%.
	entries := Pareto(txns, 2)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries after truncation, got %d", len(entries))
	}
	if entries[0].Product != "P1" || entries[0].CumulativePct != 50 {
		t.Errorf("entry 0 = %+v, want P1 at 50%%", entries[0])
	}
	if entries[1].Product != "P2" || entries[1].CumulativePct != 80 {
		t.Errorf("entry 1 = %+v, want P2 at 80%%", entries[1])
	}
}

func TestPareto_LastEntryReaches100(t *testing.T) {
	entries := Pareto(sampleTxns(), DefaultParetoLimit)
	if len(entries) == 0 {
		t.Fatal("expected entries")
	}
	last := entries[len(entries)-1]
	if math.Abs(last.CumulativePct-100) > 1e-9 {
		t.Errorf("last cumulative pct = %v, want 100", last.CumulativePct)
	}
}

func TestPareto_ZeroTotalRevenue(t *testing.T) {
	txns := []models.Transaction{
		{Product: "P1", NetRevenue: 0},
		{Product: "P2", NetRevenue: 0},
	}
	for _, e := range Pareto(txns, 10) {
		if e.CumulativePct != 0 {
			t.Errorf("pct should be 0 when total revenue is 0, got %v", e.CumulativePct)
		}
	}
}

func TestPareto_EmptyView(t *testing.T) {
	if got := Pareto(nil, 10); len(got) != 0 {
		t.Errorf("empty view should yield no entries, got %v", got)
	}
}

func TestRevenueRollup_DropsNonPositive(t *testing.T) {
	txns := []models.Transaction{
		{Platform: "A", Category: "X", NetRevenue: 100},
		{Platform: "A", Category: "Y", NetRevenue: -20},
		{Platform: "B", Category: "X", NetRevenue: 0},
		{Platform: "B", Category: "Y", NetRevenue: 50},
	}
	segments := RevenueRollup(txns)
	if len(segments) != 2 {
		t.Fatalf("expected 2 positive segments, got %v", segments)
	}
	if segments[0].Platform != "A" || segments[0].Category != "X" {
		t.Errorf("expected A/X first by revenue, got %+v", segments[0])
	}
}

func TestRevenueRollup_SkipsMissingKeys(t *testing.T) {
	txns := []models.Transaction{
		{Platform: "A", Category: "", NetRevenue: 100},
		{Platform: "", Category: "X", NetRevenue: 100},
	}
	if got := RevenueRollup(txns); len(got) != 0 {
		t.Errorf("rows missing either key must be excluded, got %v", got)
	}
}

func TestTopByRevenueAndQuantity(t *testing.T) {
	txns := []models.Transaction{
		{Product: "Cheap", NetRevenue: 10, NetQuantity: 100},
		{Product: "Premium", NetRevenue: 1000, NetQuantity: 2},
		{Product: "Mid", NetRevenue: 500, NetQuantity: 50},
	}

	top := TopByRevenue(txns, DimensionProduct, 1)
	if len(top) != 1 || top[0].Key != "Premium" {
		t.Errorf("TopByRevenue = %v, want Premium", top)
	}

	top = TopByQuantity(txns, DimensionProduct, 2)
	if len(top) != 2 || top[0].Key != "Cheap" {
		t.Errorf("TopByQuantity = %v, want Cheap first", top)
	}
}

func TestHighlights(t *testing.T) {
	txns := []models.Transaction{
		{Product: "Cheap", SKU: "C-1", NetRevenue: 10, NetQuantity: 100},
		{Product: "Premium", SKU: "P-1", NetRevenue: 1000, NetQuantity: 2},
		{Product: "Premium", SKU: "P-1", NetRevenue: 500, NetQuantity: 1},
		{Product: "NoSKU", NetRevenue: 5, NetQuantity: 1},
	}

	h := Highlights(txns, 1)
	if h.ActiveSKUs != 2 {
		t.Errorf("ActiveSKUs = %d, want 2 distinct SKUs", h.ActiveSKUs)
	}
	if len(h.ByRevenue) != 1 || h.ByRevenue[0].Key != "Premium" {
		t.Errorf("ByRevenue = %v, want Premium", h.ByRevenue)
	}
	if len(h.ByQuantity) != 1 || h.ByQuantity[0].Key != "Cheap" {
		t.Errorf("ByQuantity = %v, want Cheap", h.ByQuantity)
	}
}

func TestMonthlyRevenue_SortedChronologically(t *testing.T) {
	txns := sampleTxns()
	months := MonthlyRevenue(txns)
	if len(months) != 3 {
		t.Fatalf("expected 3 months, got %v", months)
	}
	if months[0].Month != "2023-11" || months[2].Month != "2024-05" {
		t.Errorf("months not chronological: %v", months)
	}
}

func TestMonthlyRevenue_ExcludesUndatedRows(t *testing.T) {
	txns := []models.Transaction{
		{MonthKey: "", NetRevenue: 999},
		{MonthKey: "2024-04", MonthLabel: "April 2024", NetRevenue: 100},
	}
	months := MonthlyRevenue(txns)
	if len(months) != 1 || months[0].NetRevenue != 100 {
		t.Errorf("undated rows must not appear in monthly buckets: %v", months)
	}
}

func BenchmarkGroupBy(b *testing.B) {
	txns := make([]models.Transaction, 0, 10000)
	for i := 0; i < 10000; i++ {
		txns = append(txns, models.Transaction{
			Platform:   "Platform" + string(rune('A'+i%20)),
			NetRevenue: float64(i),
		})
	}

	b.ResetTimer()
	for b.Loop() {
		_ = GroupBy(txns, DimensionPlatform)
	}
}

func BenchmarkPareto(b *testing.B) {
	txns := make([]models.Transaction, 0, 10000)
	for i := 0; i < 10000; i++ {
		txns = append(txns, models.Transaction{
			Product:    "Product" + string(rune('A'+i%200)),
			NetRevenue: float64(i % 500),
		})
	}

	b.ResetTimer()
	for b.Loop() {
		_ = Pareto(txns, DefaultParetoLimit)
	}
}
