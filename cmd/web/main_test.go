package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/server"
	"sales-dashboard/internal/services"
)

func newTestAnalytics() *services.Analytics {
	a := services.NewAnalytics()
	a.SetData([]models.Transaction{
		{
			OrderDate:   time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
			Platform:    "Amazon",
			Category:    "Apparel",
			Product:     "Blue Shirt",
			SaleAmount:  100,
			SaleQty:     2,
			NetRevenue:  100,
			NetQuantity: 2,
			FiscalYear:  "FY2024-25",
			MonthLabel:  "April 2024",
			MonthKey:    "2024-04",
		},
		{
			OrderDate:   time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC),
			Platform:    "Flipkart",
			Category:    "Footwear",
			Product:     "Sandal",
			SaleAmount:  60,
			SaleQty:     1,
			NetRevenue:  60,
			NetQuantity: 1,
			FiscalYear:  "FY2024-25",
			MonthLabel:  "May 2024",
			MonthKey:    "2024-05",
		},
	})
	return a
}

func newTestServer() *server.Server {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return server.NewServer(newTestAnalytics(), logger, &server.TemplateHandlers{
		Dashboard: handleDashboard,
	})
}

func TestHandleDashboard(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handleDashboard(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "insight-content") || !strings.Contains(body, "product-content") {
		t.Error("dashboard shell should carry both live panels")
	}
	if !strings.Contains(body, "/sse/refresh-all") {
		t.Error("dashboard shell should bootstrap via the refresh-all stream")
	}
}

func TestServerRoutes(t *testing.T) {
	srv := newTestServer()

	routes := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/admin/stats", http.StatusOK},
		{http.MethodGet, "/api/summary", http.StatusOK},
		{http.MethodGet, "/api/platform-metrics", http.StatusOK},
		{http.MethodGet, "/api/category-metrics", http.StatusOK},
		{http.MethodGet, "/api/product-metrics", http.StatusOK},
		{http.MethodGet, "/api/return-rates", http.StatusOK},
		{http.MethodGet, "/api/pareto", http.StatusOK},
		{http.MethodGet, "/api/rollup", http.StatusOK},
		{http.MethodGet, "/api/monthly-revenue", http.StatusOK},
		{http.MethodGet, "/api/star-products", http.StatusOK},
		{http.MethodGet, "/api/trend", http.StatusOK},
		{http.MethodGet, "/api/insights", http.StatusOK},
		{http.MethodGet, "/api/filter-options", http.StatusOK},
		{http.MethodGet, "/sse/insights", http.StatusOK},
		{http.MethodGet, "/sse/product-table", http.StatusOK},
		{http.MethodGet, "/sse/refresh-all", http.StatusOK},
		{http.MethodPost, "/admin/reload", http.StatusBadRequest},
		{http.MethodGet, "/admin/reload", http.StatusMethodNotAllowed},
		{http.MethodPost, "/api/summary", http.StatusMethodNotAllowed},
	}

	for _, tt := range routes {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()
			srv.ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d: %s", w.Code, tt.status, w.Body.String())
			}
		})
	}
}

func TestServer_SummaryEndToEnd(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/summary?platform=Amazon", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	var envelope struct {
		Data    models.Summary `json:"data"`
		Success bool           `json:"success"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !envelope.Success {
		t.Fatal("expected success: true")
	}
	if envelope.Data.Orders != 1 || envelope.Data.NetRevenue != 100 {
		t.Errorf("filtered summary = %+v, want 1 order at 100", envelope.Data)
	}
}

func TestServer_FilterOptionsEndToEnd(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/filter-options", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	var envelope struct {
		Data    models.FilterOptions `json:"data"`
		Success bool                 `json:"success"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(envelope.Data.Platforms) != 2 {
		t.Errorf("Platforms = %v, want both platforms", envelope.Data.Platforms)
	}
	if len(envelope.Data.FiscalYears) != 1 || envelope.Data.FiscalYears[0] != "FY2024-25" {
		t.Errorf("FiscalYears = %v", envelope.Data.FiscalYears)
	}
}
