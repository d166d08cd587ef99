package http

import (
	"bytes"
	"io"
	"net/http"
	"strconv"

	"expenses/internal/charts"
	"expenses/internal/core"
	"expenses/internal/export"
	applog "expenses/internal/log"
	"expenses/internal/services"
)

type chartKind string

const (
	chartCategories chartKind = "categories"
	chartMonthly    chartKind = "monthly"
)

type exportFormat int

const (
	exportXLSX exportFormat = iota
	exportCSV
)

type analyticsData struct {
	page
	services.Analytics
	Error string
}

type budgetData struct {
	page
	Summary     core.BudgetSummary
	BudgetInput string
	Message     string
	Level       string
	Error       string
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	data := analyticsData{page: page{Title: "Expense Analytics", Active: "analytics"}}

	a, err := s.svc.Analytics(r.Context())
	if err != nil {
		data.Error = "Could not load analytics: " + userMessage(err)
		s.render(w, r, http.StatusInternalServerError, "analytics.html", data)
		return
	}
	data.Analytics = a
	s.render(w, r, http.StatusOK, "analytics.html", data)
}

// handleChart serves a PNG from the chart cache, rendering it on a miss
func (s *Server) handleChart(kind chartKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := applog.FromContext(ctx)

		png, ok := s.chartCache.Get(string(kind))
		if !ok {
			gen := s.chartGen.Load()
			a, err := s.svc.Analytics(ctx)
			if err != nil {
				http.Error(w, "chart data unavailable", http.StatusInternalServerError)
				return
			}

			var buf bytes.Buffer
			switch kind {
			case chartCategories:
				err = charts.CategoryBar(&buf, a.Categories)
			case chartMonthly:
				err = charts.MonthlyLine(&buf, a.Trend)
			}
			if err != nil {
				logger.ErrorContext(ctx, "Failed to render chart",
					applog.FieldOperation, applog.OpRender, "chart", string(kind), applog.FieldError, err)
				http.Error(w, "chart rendering failed", http.StatusInternalServerError)
				return
			}
			png = buf.Bytes()
			if s.chartGen.Load() == gen {
				s.chartCache.Set(string(kind), png)
			}
		}

		w.Header().Set("Content-Type", charts.ContentType)
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Content-Length", strconv.Itoa(len(png)))
		_, _ = w.Write(png)
	}
}

func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	data := budgetData{
		page:        page{Title: "Monthly Budget", Active: "budget"},
		BudgetInput: s.budget.Decimal().StringFixed(2),
	}

	budget, err := ParseBudget(query, s.budget)
	if err != nil {
		data.BudgetInput = query.Get("budget")
		data.Error = "Budget must be a non-negative number"
		s.render(w, r, http.StatusBadRequest, "budget.html", data)
		return
	}
	data.BudgetInput = budget.Decimal().StringFixed(2)

	summary, err := s.svc.Budget(r.Context(), budget, s.now())
	if err != nil {
		data.Error = "Could not load expenses: " + userMessage(err)
		s.render(w, r, http.StatusInternalServerError, "budget.html", data)
		return
	}
	data.Summary = summary
	data.Message, data.Level = budgetMessage(summary.Status)
	s.render(w, r, http.StatusOK, "budget.html", data)
}

// budgetMessage returns the status line and its notice class
func budgetMessage(status core.BudgetStatus) (string, string) {
	switch status {
	case core.BudgetOver:
		return "You crossed your budget.", "error"
	case core.BudgetLow:
		return "Budget running low.", "warning"
	default:
		return "Budget is under control.", "success"
	}
}

// handleExport streams the filtered history as a download
func (s *Server) handleExport(format exportFormat) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := applog.FromContext(ctx)

		records, err := s.svc.ListExpenses(ctx, ParseFilter(r.URL.Query()))
		if err != nil {
			InternalServerError("Could not load expenses: " + userMessage(err)).Write(w)
			return
		}

		var (
			buf         bytes.Buffer
			contentType string
			filename    string
			write       func(io.Writer, []core.Expense) error
		)
		switch format {
		case exportCSV:
			contentType, filename, write = export.ContentTypeCSV, "expenses.csv", export.WriteCSV
		default:
			contentType, filename, write = export.ContentTypeXLSX, "expenses.xlsx", export.WriteXLSX
		}

		if err := write(&buf, records); err != nil {
			logger.ErrorContext(ctx, "Failed to build export",
				applog.FieldOperation, applog.OpExport, applog.FieldError, err)
			InternalServerError("Export failed").Write(w)
			return
		}

		logger.InfoContext(ctx, "Expenses exported",
			applog.FieldOperation, applog.OpExport, "file", filename, "rows", len(records))

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		_, _ = buf.WriteTo(w)
	}
}
