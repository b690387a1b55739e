package server

import (
	"log/slog"
	"net/http"

	"sales-dashboard/internal/handlers"
	"sales-dashboard/internal/services"
)

type Server struct {
	analytics   *services.Analytics
	mux         *http.ServeMux
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
}

type TemplateHandlers struct {
	Dashboard http.HandlerFunc
}

func NewServer(analytics *services.Analytics, logger *slog.Logger, templateHandlers *TemplateHandlers) *Server {
	s := &Server{
		analytics:   analytics,
		mux:         http.NewServeMux(),
		logger:      logger,
		apiHandlers: handlers.NewAPIHandlers(analytics, logger),
		sseHandlers: handlers.NewSSEHandlers(analytics, logger),
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	// Dashboard shell
	s.mux.HandleFunc("GET /", templateHandlers.Dashboard)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)
	s.mux.HandleFunc("POST /admin/reload", s.apiHandlers.HandleReload)

	// REST API: every endpoint accepts the FilterSpec query encoding.
	s.mux.HandleFunc("GET /api/summary", s.apiHandlers.HandleSummary)
	s.mux.HandleFunc("GET /api/platform-metrics", s.apiHandlers.HandlePlatformMetrics)
	s.mux.HandleFunc("GET /api/category-metrics", s.apiHandlers.HandleCategoryMetrics)
	s.mux.HandleFunc("GET /api/product-metrics", s.apiHandlers.HandleProductMetrics)
	s.mux.HandleFunc("GET /api/return-rates", s.apiHandlers.HandleReturnRates)
	s.mux.HandleFunc("GET /api/pareto", s.apiHandlers.HandlePareto)
	s.mux.HandleFunc("GET /api/rollup", s.apiHandlers.HandleRollup)
	s.mux.HandleFunc("GET /api/monthly-revenue", s.apiHandlers.HandleMonthlyRevenue)
	s.mux.HandleFunc("GET /api/star-products", s.apiHandlers.HandleStarProducts)
	s.mux.HandleFunc("GET /api/trend", s.apiHandlers.HandleTrend)
	s.mux.HandleFunc("GET /api/insights", s.apiHandlers.HandleInsights)
	s.mux.HandleFunc("GET /api/filter-options", s.apiHandlers.HandleFilterOptions)

	// Datastar SSE endpoints for the live dashboard
	s.mux.HandleFunc("GET /sse/insights", s.sseHandlers.HandleInsights)
	s.mux.HandleFunc("GET /sse/product-table", s.sseHandlers.HandleProductTable)
	s.mux.HandleFunc("GET /sse/refresh-all", s.sseHandlers.HandleRefreshAll)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
