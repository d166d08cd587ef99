package http

import (
	"net/http"
	"net/url"
	"strconv"

	"expenses/internal/core"
	applog "expenses/internal/log"
)

const (
	msgExpenseAdded   = "Expense added successfully."
	msgExpenseDeleted = "Expense deleted."
)

type indexData struct {
	page
	Today        string
	Categories   []string
	PaymentModes []string
	Currency     string
	Added        bool
	Error        string
	Form         url.Values
}

type historyData struct {
	page
	Rows         []core.Expense
	Total        core.Money
	Empty        bool
	Categories   []string
	PaymentModes []string
	Filter       core.Filter
	ExportXLSX   string
	ExportCSV    string
	DeletedID    string
	Error        string
}

func (s *Server) newIndexData() indexData {
	return indexData{
		page:         page{Title: "Add Expense", Active: "add"},
		Today:        core.DateOf(s.now()).String(),
		Categories:   core.DefaultCategories,
		PaymentModes: core.PaymentModes,
		Currency:     s.currency,
		Form:         url.Values{},
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := s.newIndexData()
	data.Added = r.URL.Query().Get("added") == "1"
	s.render(w, r, http.StatusOK, "index.html", data)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := applog.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		logger.WarnContext(ctx, "Parse form error", applog.FieldError, err)
		BadRequestError("Invalid request format").Write(w)
		return
	}

	e, err := ParseExpenseForm(r.PostForm, core.DateOf(s.now()))
	if err != nil {
		logger.InfoContext(ctx, "Rejected expense input",
			applog.FieldOperation, applog.OpCreate, applog.FieldError, err)
		s.createFailed(w, r, http.StatusUnprocessableEntity, userMessage(err))
		return
	}

	id, err := s.svc.CreateExpense(ctx, e)
	if err != nil {
		s.createFailed(w, r, http.StatusInternalServerError, "Error saving expense: "+userMessage(err))
		return
	}
	s.invalidateCharts()

	if !isHTMX(r) {
		http.Redirect(w, r, "/?added=1", http.StatusSeeOther)
		return
	}
	NewHTMXResponse().
		TriggerExpenseCreated(id).
		TriggerFormReset().
		TriggerSuccessNotification(msgExpenseAdded).
		BodyHTML(MessageFragment("success", msgExpenseAdded)).
		Write(w)
}

// createFailed answers htmx with a fragment and plain forms with the
// re-rendered form keeping the submitted values.
func (s *Server) createFailed(w http.ResponseWriter, r *http.Request, status int, message string) {
	if isHTMX(r) {
		ErrorResponse(status, message).TriggerErrorNotification(message).Write(w)
		return
	}
	data := s.newIndexData()
	data.Error = message
	data.Form = r.PostForm
	s.render(w, r, status, "index.html", data)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := ParseFilter(query)
	data := historyData{
		page:       page{Title: "Expense History", Active: "history"},
		Filter:     filter,
		ExportXLSX: exportURL("/export.xlsx", query),
		ExportCSV:  exportURL("/export.csv", query),
		DeletedID:  query.Get("deleted"),
	}

	all, err := s.svc.ListExpenses(r.Context(), core.Filter{})
	if err != nil {
		data.Error = "Could not load expenses: " + userMessage(err)
		s.render(w, r, http.StatusInternalServerError, "expenses.html", data)
		return
	}

	data.Empty = len(all) == 0
	data.Categories = core.Categories(all)
	data.PaymentModes = core.PaymentModesIn(all)
	data.Rows = filter.Apply(all)
	data.Total = core.Total(data.Rows)
	s.render(w, r, http.StatusOK, "expenses.html", data)
}

// exportURL carries the active filter over to the download links
func exportURL(path string, query url.Values) string {
	keep := url.Values{}
	for _, key := range []string{"category", "payment"} {
		for _, v := range query[key] {
			keep.Add(key, v)
		}
	}
	if len(keep) == 0 {
		return path
	}
	return path + "?" + keep.Encode()
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := applog.FromContext(ctx)

	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		logger.WarnContext(ctx, "Parse delete request error", applog.FieldError, err)
		BadRequestError("Invalid request format").Write(w)
		return
	}

	id, err := ParseID(parser.Get("id"))
	if err != nil {
		BadRequestError(userMessage(err)).Write(w)
		return
	}

	if err := s.svc.DeleteExpense(ctx, id); err != nil {
		InternalServerError("Error deleting expense: " + userMessage(err)).
			TriggerErrorNotification("Error deleting expense").
			Write(w)
		return
	}
	s.invalidateCharts()

	logger.InfoContext(ctx, "Expense deleted",
		applog.FieldOperation, applog.OpDelete, applog.FieldExpenseID, id)

	if !isHTMX(r) {
		http.Redirect(w, r, "/expenses?deleted="+strconv.FormatInt(id, 10), http.StatusSeeOther)
		return
	}
	NewHTMXResponse().
		TriggerExpenseDeleted(id).
		TriggerHistoryRefresh().
		TriggerSuccessNotification(msgExpenseDeleted).
		BodyHTML(MessageFragment("success", msgExpenseDeleted)).
		Write(w)
}
