package services

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"sales-dashboard/internal/models"
)

// NoDataInsight is the single finding emitted for an empty view.
const NoDataInsight = "No data matches the selected filters."

var insightPrinter = message.NewPrinter(language.English)

// Insights derives the ordered list of headline findings for a view. Each
// finding is independently omitted when its dimension is absent from the
// data; an empty view yields exactly the no-data finding.
func Insights(view []models.Transaction) []string {
	if len(view) == 0 {
		return []string{NoDataInsight}
	}

	insights := make([]string, 0, 4)

	summary := Summarize(view)
	insights = append(insights, fmt.Sprintf("Average Order Value: %s", formatCurrency(summary.AOV)))

	if platforms := GroupBy(view, DimensionPlatform); len(platforms) > 0 {
		top := platforms[0]
		insights = append(insights, fmt.Sprintf("Top Platform: %s (%s)", top.Key, formatCurrency(top.NetRevenue)))
	}

	var grossSales, grossReturns float64
	for _, t := range view {
		grossSales += t.SaleAmount
		grossReturns += t.ReturnAmount
	}
	rate := 0.0
	if grossSales > 0 {
		rate = grossReturns / grossSales * 100
	}
	insights = append(insights, fmt.Sprintf("Return Rate: %.1f%%", rate))

	if products := GroupBy(view, DimensionProduct); len(products) > 0 {
		top := products[0]
		insights = append(insights, fmt.Sprintf("Best Seller: %s (%s)", top.Key, formatCurrency(top.NetRevenue)))
	}

	return insights
}

// formatCurrency renders a rupee amount with thousands grouping and no
// decimals, matching the dashboard's metric cards.
func formatCurrency(v float64) string {
	return insightPrinter.Sprintf("₹%.0f", v)
}
