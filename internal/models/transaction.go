package models

import "time"

// Transaction is one normalized sales line item. Derived fields are computed
// once at load time and never mutated afterwards. A zero OrderDate means the
// raw date could not be parsed; the time-derived fields are empty for that
// row and it is excluded from time-bucketed aggregations only.
type Transaction struct {
	OrderDate       time.Time
	Platform        string
	Category        string
	Product         string
	SKU             string
	TransactionType string
	DispatchStatus  string
	SaleAmount      float64
	SaleQty         float64
	ReturnAmount    float64
	ReturnQty       float64

	NetRevenue  float64
	NetQuantity float64
	FiscalYear  string
	MonthLabel  string
	MonthKey    string
}

// HasDate reports whether the raw order date was parseable.
func (t Transaction) HasDate() bool {
	return !t.OrderDate.IsZero()
}

type GroupMetric struct {
	Key         string  `json:"key"`
	NetRevenue  float64 `json:"net_revenue"`
	NetQuantity float64 `json:"net_quantity"`
	Orders      int     `json:"orders"`
	AOV         float64 `json:"aov"`
}

type Summary struct {
	NetRevenue  float64 `json:"net_revenue"`
	NetQuantity float64 `json:"net_quantity"`
	Orders      int     `json:"orders"`
	AOV         float64 `json:"aov"`
}

type PlatformReturnRate struct {
	Platform     string  `json:"platform"`
	GrossSales   float64 `json:"gross_sales"`
	GrossReturns float64 `json:"gross_returns"`
	ReturnRate   float64 `json:"return_rate"`
}

type ParetoEntry struct {
	Product           string  `json:"product"`
	NetRevenue        float64 `json:"net_revenue"`
	CumulativeRevenue float64 `json:"cumulative_revenue"`
	CumulativePct     float64 `json:"cumulative_pct"`
}

// RevenueSegment is one (platform, category) node of the revenue rollup.
// Segments with non-positive revenue are not representable and are dropped.
type RevenueSegment struct {
	Platform   string  `json:"platform"`
	Category   string  `json:"category"`
	NetRevenue float64 `json:"net_revenue"`
}

type MonthlyRevenue struct {
	Month      string  `json:"month"`
	Label      string  `json:"label"`
	NetRevenue float64 `json:"net_revenue"`
}

// ProductHighlights feeds the star-product cards: the catalog breadth of the
// view plus its leaders by revenue and by volume.
type ProductHighlights struct {
	ActiveSKUs int           `json:"active_skus"`
	ByRevenue  []GroupMetric `json:"by_revenue"`
	ByQuantity []GroupMetric `json:"by_quantity"`
}

type PeriodMetrics struct {
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	NetRevenue  float64   `json:"net_revenue"`
	NetQuantity float64   `json:"net_quantity"`
	Orders      int       `json:"orders"`
	AOV         float64   `json:"aov"`
}

// PeriodComparison pairs the current period with the immediately preceding
// window of equal length. Delta pointers are nil when the comparison is not
// available (no previous data, or a zero previous value); consumers render
// that as "—", never as +0.0%.
type PeriodComparison struct {
	Current       PeriodMetrics `json:"current"`
	Previous      PeriodMetrics `json:"previous"`
	RevenueDelta  *float64      `json:"revenue_delta"`
	QuantityDelta *float64      `json:"quantity_delta"`
	OrdersDelta   *float64      `json:"orders_delta"`
	AOVDelta      *float64      `json:"aov_delta"`
	Available     bool          `json:"available"`
}
