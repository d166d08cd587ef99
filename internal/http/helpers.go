package http

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"expenses/internal/core"
	applog "expenses/internal/log"
	"expenses/internal/storage"
)

// page carries the fields shared by every full-page template
type page struct {
	Title  string
	Active string
}

func (s *Server) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"money": func(m core.Money) string { return m.Format(s.currency) },
		"date":  func(d core.Date) string { return d.String() },
		"selected": func(list []string, v string) bool {
			for _, x := range list {
				if x == v {
					return true
				}
			}
			return false
		},
	}
}

// render executes name into a buffer first so a template error never
// leaves a half-written page behind.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed",
			"template", name, applog.FieldError, err)
		InternalServerError("Error rendering page").Write(w)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// isHTMX reports whether the request was issued by htmx and expects a fragment
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// userMessage maps an error to text safe to show in the page
func userMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidAmount), errors.Is(err, core.ErrNegativeAmount):
		return "Amount must be a non-negative number"
	case errors.Is(err, core.ErrZeroDate), errors.Is(err, errInvalidDate):
		return "Date must be in YYYY-MM-DD format"
	case errors.Is(err, core.ErrEmptyCategory):
		return "Category is required"
	case errors.Is(err, core.ErrEmptyPaymentMode):
		return "Payment mode is required"
	case errors.Is(err, core.ErrDescriptionTooLong):
		return "Description is too long (max 200 characters)"
	case errors.Is(err, errInvalidID):
		return "Expense ID must be a positive number"
	case errors.Is(err, storage.ErrStorageFailure):
		return "The expense database is unavailable"
	default:
		return "Something went wrong"
	}
}

// sanitizeInput drops control characters other than tab and newlines and trims whitespace
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
