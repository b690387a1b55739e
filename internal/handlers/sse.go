package handlers

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

const (
	maxTableRows = 50
	topProducts  = 10
)

var productTableTemplate = template.Must(template.New("productTable").Parse(`
<div id="product-content">
<table class="modern-table">
<thead><tr><th>Product</th><th>Net Revenue</th><th>Net Qty</th><th>Orders</th><th>AOV</th></tr></thead>
<tbody>
{{range $i, $item := .Data}}{{if lt $i $.MaxRows}}<tr>
<td>{{.Key}}</td>
<td><strong>₹{{printf "%.0f" .NetRevenue}}</strong></td>
<td>{{printf "%.0f" .NetQuantity}}</td>
<td>{{.Orders}}</td>
<td>₹{{printf "%.0f" .AOV}}</td>
</tr>{{end}}{{end}}
</tbody>
</table>
</div>`))

var insightListTemplate = template.Must(template.New("insightList").Parse(`
<div id="insight-content">
<ul class="insight-list">
{{range .}}<li>{{.}}</li>
{{end}}</ul>
</div>`))

type SSEHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

type tableData struct {
	Data    []models.GroupMetric
	MaxRows int
}

func renderProductTable(data []models.GroupMetric) (string, error) {
	var buf strings.Builder
	if len(data) > maxTableRows {
		data = data[:maxTableRows]
	}
	err := productTableTemplate.Execute(&buf, tableData{Data: data, MaxRows: maxTableRows})
	return buf.String(), err
}

func renderInsightList(insights []string) (string, error) {
	var buf strings.Builder
	err := insightListTemplate.Execute(&buf, insights)
	return buf.String(), err
}

func (h *SSEHandlers) HandleInsights(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	view := services.Apply(h.analytics.Snapshot().Transactions, parseFilterSpec(r))
	html, err := renderInsightList(services.Insights(view))
	if err != nil {
		h.logger.Error("render insight list", "error", err)
		return
	}

	sse.PatchElements(html)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleProductTable(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	view := services.Apply(h.analytics.Snapshot().Transactions, parseFilterSpec(r))
	html, err := renderProductTable(services.GroupBy(view, services.DimensionProduct))
	if err != nil {
		h.logger.Error("render product table", "error", err)
		return
	}

	sse.PatchElements(html)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// HandleRefreshAll pushes every dashboard panel in one stream: the KPI and
// chart signals plus the rendered insight and product fragments.
func (h *SSEHandlers) HandleRefreshAll(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	spec := parseFilterSpec(r)
	full := h.analytics.Snapshot().Transactions
	view := services.Apply(full, spec)

	html, err := renderInsightList(services.Insights(view))
	if err != nil {
		h.logger.Error("render insight list", "error", err)
		return
	}
	sse.PatchElements(html)

	html, err = renderProductTable(services.GroupBy(view, services.DimensionProduct))
	if err != nil {
		h.logger.Error("render product table", "error", err)
		return
	}
	sse.PatchElements(html)

	signals, err := json.Marshal(map[string]any{
		"summary":         services.Summarize(view),
		"platformMetrics": services.GroupBy(view, services.DimensionPlatform),
		"returnRates":     services.ReturnRates(view),
		"monthlyRevenue":  services.MonthlyRevenue(view),
		"pareto":          services.Pareto(view, services.DefaultParetoLimit),
		"rollup":          services.RevenueRollup(view),
		"starProducts":    services.Highlights(view, topProducts),
		"trend":           services.ComparePeriods(view, full),
		"filterOptions":   services.Options(full, spec),
	})
	if err != nil {
		h.logger.Error("marshal dashboard signals", "error", err)
		return
	}
	sse.PatchSignals(signals)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
