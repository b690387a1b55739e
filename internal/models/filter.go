package models

import "time"

// AllSentinel is the selection value that leaves a dimension unfiltered.
const AllSentinel = "All"

// FilterSpec is the active filter selection for one interaction. It is
// rebuilt from the request on every call and never persisted. An empty or
// "All" value on any dimension is a no-op for that dimension.
type FilterSpec struct {
	FiscalYear      string     `json:"fiscal_year"`
	Month           string     `json:"month"`
	Platforms       []string   `json:"platforms"`
	Categories      []string   `json:"categories"`
	Product         string     `json:"product"`
	TransactionType string     `json:"transaction_type"`
	DispatchStatus  string     `json:"dispatch_status"`
	DateFrom        *time.Time `json:"date_from"`
	DateTo          *time.Time `json:"date_to"`
}

// WantsAll reports whether a single-select value is the no-op sentinel.
func WantsAll(v string) bool {
	return v == "" || v == AllSentinel
}

// WantsAllOf reports whether a multi-select is the no-op sentinel: empty, or
// containing "All".
func WantsAllOf(vs []string) bool {
	if len(vs) == 0 {
		return true
	}
	for _, v := range vs {
		if v == AllSentinel {
			return true
		}
	}
	return false
}

// FilterOptions is the set of legal next-choices per dimension, computed
// against the dataset already narrowed by the earlier selections of the
// cascade. It carries no rendering concerns.
type FilterOptions struct {
	FiscalYears      []string   `json:"fiscal_years"`
	Months           []string   `json:"months"`
	Platforms        []string   `json:"platforms"`
	Categories       []string   `json:"categories"`
	Products         []string   `json:"products"`
	TransactionTypes []string   `json:"transaction_types"`
	DispatchStatuses []string   `json:"dispatch_statuses"`
	MinDate          *time.Time `json:"min_date"`
	MaxDate          *time.Time `json:"max_date"`
}
