package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
)

const cacheControl = "public, max-age=60"

var cacheHeaders = map[string]string{"Cache-Control": cacheControl}

type APIHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewAPIHandlers(analytics *services.Analytics, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

// parseFilterSpec decodes the filter selection from the query string. Every
// parameter is optional; absent parameters leave their dimension unfiltered.
func parseFilterSpec(r *http.Request) models.FilterSpec {
	q := r.URL.Query()
	spec := models.FilterSpec{
		FiscalYear:      q.Get("fy"),
		Month:           q.Get("month"),
		Platforms:       q["platform"],
		Categories:      q["category"],
		Product:         q.Get("product"),
		TransactionType: q.Get("type"),
		DispatchStatus:  q.Get("dispatch"),
	}
	if from, err := time.Parse("2006-01-02", q.Get("from")); err == nil {
		spec.DateFrom = &from
	}
	if to, err := time.Parse("2006-01-02", q.Get("to")); err == nil {
		spec.DateTo = &to
	}
	return spec
}

// view applies the request's filter spec to the current dataset snapshot and
// returns both the filtered view and the full set it was cut from.
func (h *APIHandlers) view(r *http.Request) ([]models.Transaction, []models.Transaction) {
	full := h.analytics.Snapshot().Transactions
	return services.Apply(full, parseFilterSpec(r)), full
}

func (h *APIHandlers) HandleSummary(w http.ResponseWriter, r *http.Request) {
	view, _ := h.view(r)
	errors.WriteSuccessWithHeaders(w, services.Summarize(view), cacheHeaders)
}

func (h *APIHandlers) HandlePlatformMetrics(w http.ResponseWriter, r *http.Request) {
	view, _ := h.view(r)
	errors.WriteSuccessWithHeaders(w, services.GroupBy(view, services.DimensionPlatform), cacheHeaders)
}

func (h *APIHandlers) HandleCategoryMetrics(w http.ResponseWriter, r *http.Request) {
	view, _ := h.view(r)
	errors.WriteSuccessWithHeaders(w, services.GroupBy(view, services.DimensionCategory), cacheHeaders)
}

func (h *APIHandlers) HandleProductMetrics(w http.ResponseWriter, r *http.Request) {
	view, _ := h.view(r)
	errors.WriteSuccessWithHeaders(w, services.GroupBy(view, services.DimensionProduct), cacheHeaders)
}

func (h *APIHandlers) HandleReturnRates(w http.ResponseWriter, r *http.Request) {
	view, _ := h.view(r)
	errors.WriteSuccessWithHeaders(w, services.ReturnRates(view), cacheHeaders)
}

func (h *APIHandlers) HandlePareto(w http.ResponseWriter, r *http.Request) {
	limit := services.DefaultParetoLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	view, _ := h.view(r)
	errors.WriteSuccessWithHeaders(w, services.Pareto(view, limit), cacheHeaders)
}

func (h *APIHandlers) HandleRollup(w http.ResponseWriter, r *http.Request) {
	view, _ := h.view(r)
	errors.WriteSuccessWithHeaders(w, services.RevenueRollup(view), cacheHeaders)
}

func (h *APIHandlers) HandleStarProducts(w http.ResponseWriter, r *http.Request) {
	view, _ := h.view(r)
	errors.WriteSuccessWithHeaders(w, services.Highlights(view, topProducts), cacheHeaders)
}

func (h *APIHandlers) HandleMonthlyRevenue(w http.ResponseWriter, r *http.Request) {
	view, _ := h.view(r)
	errors.WriteSuccessWithHeaders(w, services.MonthlyRevenue(view), cacheHeaders)
}

func (h *APIHandlers) HandleTrend(w http.ResponseWriter, r *http.Request) {
	view, full := h.view(r)
	errors.WriteSuccessWithHeaders(w, services.ComparePeriods(view, full), cacheHeaders)
}

func (h *APIHandlers) HandleInsights(w http.ResponseWriter, r *http.Request) {
	view, _ := h.view(r)
	errors.WriteSuccessWithHeaders(w, services.Insights(view), cacheHeaders)
}

func (h *APIHandlers) HandleFilterOptions(w http.ResponseWriter, r *http.Request) {
	full := h.analytics.Snapshot().Transactions
	errors.WriteSuccessWithHeaders(w, services.Options(full, parseFilterSpec(r)), cacheHeaders)
}

// HandleReload replaces the current dataset from a new source file. A failed
// load reports its cause and leaves the previous dataset in place.
func (h *APIHandlers) HandleReload(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	file := r.URL.Query().Get("file")
	if file == "" {
		errors.WriteError(w, h.logger, errors.Validation("missing required parameter: file"), requestID)
		return
	}

	if err := h.analytics.Load(r.Context(), file); err != nil {
		if services.IsLoadError(err) {
			errors.WriteError(w, h.logger, errors.LoadFailed(err, err.Error()), requestID)
		} else {
			errors.WriteError(w, h.logger, errors.Wrap(err, errors.CodeInternal, "dataset load failed"), requestID)
		}
		return
	}

	errors.WriteSuccess(w, h.analytics.Stats())
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	})
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.analytics.Stats())
}
