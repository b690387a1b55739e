package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"sales-dashboard/internal/models"
)

// LoadError is the only fatal outcome of a load attempt: the source file is
// unreadable, empty, or carries none of the identifying columns. Row-level
// anomalies (bad dates, malformed numerics) are absorbed into the normalized
// records instead.
type LoadError struct {
	Source string
	Reason string
	Cause  error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("load %s: %s: %v", e.Source, e.Reason, e.Cause)
	}
	return fmt.Sprintf("load %s: %s", e.Source, e.Reason)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// IsLoadError reports whether err is (or wraps) a LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}

// Canonical column identifiers used by the remap table.
const (
	colDate         = "date"
	colPlatform     = "platform"
	colCategory     = "category"
	colProduct      = "product"
	colSKU          = "sku"
	colSaleAmount   = "sale_amount"
	colReturnAmount = "return_amount"
	colSaleQty      = "sale_qty"
	colReturnQty    = "return_qty"
	colTxnType      = "transaction_type"
	colDispatch     = "dispatch_status"
)

// columnAliases maps each canonical field to the raw header names it may
// appear under. Headers are matched after trimming, order-independent;
// unrecognized headers are ignored and absent fields stay zero for every row.
var columnAliases = map[string][]string{
	colDate:         {"Final Order date", "Order Date", "Date"},
	colPlatform:     {"Main Parties", "Platform"},
	colCategory:     {"Group Name", "Category"},
	colProduct:      {"Item Desc", "Product"},
	colSKU:          {"Alias", "SKU"},
	colSaleAmount:   {"Sale (Amt.)", "Sale Amount"},
	colReturnAmount: {"Sale Return (Amt.)", "Return Amount"},
	colSaleQty:      {"Sale (Qty.)", "Sale Quantity"},
	colReturnQty:    {"Sale Return (Qty.)", "Return Quantity"},
	colTxnType:      {"Transaction Type", "Type"},
	colDispatch:     {"Dispatch Status", "Status"},
}

// Date layouts accepted from the raw file, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02-01-2006",
	"02/01/2006",
}

const (
	normalizeBatchSize = 10000
	normalizeWorkers   = 8
)

// NormalizeResult carries the canonical transaction sequence plus the
// row-level anomaly counters absorbed during the load.
type NormalizeResult struct {
	Transactions    []models.Transaction
	BadDates        int
	CoercedNumerics int
}

// NormalizeFile reads a CSV source and produces the canonical transaction
// sequence. It fails only with a *LoadError; every row-level problem is
// recovered silently per the anomaly policy.
func NormalizeFile(ctx context.Context, path string) (*NormalizeResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Source: path, Reason: "cannot open source file", Cause: err}
	}
	defer f.Close()

	res, err := Normalize(ctx, f)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Source = path
		}
		return nil, err
	}
	return res, nil
}

// Normalize consumes a CSV stream. Exported separately so uploads and tests
// can feed any reader.
func Normalize(ctx context.Context, r io.Reader) (*NormalizeResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &LoadError{Reason: "source is empty"}
	}
	if err != nil {
		return nil, &LoadError{Reason: "cannot read header row", Cause: err}
	}

	cols := mapColumns(header)
	if !hasIdentifyingColumns(cols) {
		return nil, &LoadError{Reason: "no identifying columns (date, platform, category, product) found"}
	}

	rows := make([][]string, 0, normalizeBatchSize)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &LoadError{Reason: "cannot read source rows", Cause: err}
		}
		rows = append(rows, rec)
	}

	return normalizeRows(ctx, rows, cols)
}

// mapColumns resolves the header row against the alias table. First match
// wins per canonical field.
func mapColumns(header []string) map[string]int {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if _, seen := byName[name]; !seen {
			byName[name] = i
		}
	}

	cols := make(map[string]int, len(columnAliases))
	for field, aliases := range columnAliases {
		for _, alias := range aliases {
			if idx, ok := byName[alias]; ok {
				cols[field] = idx
				break
			}
		}
	}
	return cols
}

func hasIdentifyingColumns(cols map[string]int) bool {
	for _, field := range []string{colDate, colPlatform, colCategory, colProduct} {
		if _, ok := cols[field]; ok {
			return true
		}
	}
	return false
}

// normalizeRows converts raw rows batch-parallel while keeping input order.
// Row conversion never fails; anomaly counters are summed across batches.
func normalizeRows(ctx context.Context, rows [][]string, cols map[string]int) (*NormalizeResult, error) {
	txns := make([]models.Transaction, len(rows))
	anomalies := make([]rowAnomalies, (len(rows)+normalizeBatchSize-1)/normalizeBatchSize)

	var g errgroup.Group
	g.SetLimit(normalizeWorkers)

	for b := 0; b*normalizeBatchSize < len(rows); b++ {
		start := b * normalizeBatchSize
		end := min(start+normalizeBatchSize, len(rows))
		batch := b
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var counts rowAnomalies
			for i := start; i < end; i++ {
				txns[i] = normalizeRow(rows[i], cols, &counts)
			}
			anomalies[batch] = counts
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &NormalizeResult{Transactions: txns}
	for _, c := range anomalies {
		res.BadDates += c.badDates
		res.CoercedNumerics += c.coercedNumerics
	}
	return res, nil
}

type rowAnomalies struct {
	badDates        int
	coercedNumerics int
}

func normalizeRow(rec []string, cols map[string]int, counts *rowAnomalies) models.Transaction {
	tx := models.Transaction{
		Platform:        cell(rec, cols, colPlatform),
		Category:        cell(rec, cols, colCategory),
		Product:         cell(rec, cols, colProduct),
		SKU:             cell(rec, cols, colSKU),
		TransactionType: cell(rec, cols, colTxnType),
		DispatchStatus:  cell(rec, cols, colDispatch),
	}

	tx.SaleAmount = numericCell(rec, cols, colSaleAmount, counts)
	tx.ReturnAmount = numericCell(rec, cols, colReturnAmount, counts)
	tx.SaleQty = numericCell(rec, cols, colSaleQty, counts)
	tx.ReturnQty = numericCell(rec, cols, colReturnQty, counts)

	tx.NetRevenue = tx.SaleAmount - tx.ReturnAmount
	tx.NetQuantity = tx.SaleQty - tx.ReturnQty

	if raw := cell(rec, cols, colDate); raw != "" {
		if d, ok := parseDate(raw); ok {
			tx.OrderDate = d
			tx.FiscalYear = fiscalYear(d)
			tx.MonthLabel = d.Format("January 2006")
			tx.MonthKey = d.Format("2006-01")
		} else {
			counts.badDates++
		}
	} else if _, hasCol := cols[colDate]; hasCol {
		counts.badDates++
	}

	return tx
}

func cell(rec []string, cols map[string]int, field string) string {
	idx, ok := cols[field]
	if !ok || idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[idx])
}

// numericCell coerces a missing or malformed numeric cell to 0. A malformed
// cell must never abort the load; only non-empty unparseable values count as
// coercion anomalies.
func numericCell(rec []string, cols map[string]int, field string, counts *rowAnomalies) float64 {
	raw := cell(rec, cols, field)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		counts.coercedNumerics++
		return 0
	}
	return v
}

func parseDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, raw); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// fiscalYear labels the March-February accounting year a date falls in:
// months March onward belong to FY{Y}-{Y+1}, January and February to the
// year that started the previous March.
func fiscalYear(d time.Time) string {
	y := d.Year()
	if d.Month() < time.March {
		y--
	}
	return fmt.Sprintf("FY%d-%02d", y, (y+1)%100)
}
