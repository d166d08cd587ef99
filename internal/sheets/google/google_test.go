package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"expenses/internal/core"
	applog "expenses/internal/log"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// fakeSheetsAPI answers the handful of Sheets REST calls the client makes.
type fakeSheetsAPI struct {
	mu       sync.Mutex
	column   [][]any
	appended [][]any
	batch    *gsheet.BatchUpdateSpreadsheetRequest
}

func (f *fakeSheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := r.URL.Path
	switch {
	case strings.HasSuffix(path, ":append"):
		var vr gsheet.ValueRange
		_ = json.NewDecoder(r.Body).Decode(&vr)
		f.appended = append(f.appended, vr.Values...)
		writeJSON(w, map[string]any{"updates": map[string]any{"updatedRange": "Expenses!A2:F2"}})
	case strings.HasSuffix(path, ":batchUpdate"):
		var req gsheet.BatchUpdateSpreadsheetRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.batch = &req
		writeJSON(w, map[string]any{})
	case strings.Contains(path, "/values/"):
		writeJSON(w, map[string]any{"values": f.column})
	default:
		writeJSON(w, map[string]any{"sheets": []any{
			map[string]any{"properties": map[string]any{"sheetId": 11, "title": "Other"}},
			map[string]any{"properties": map[string]any{"sheetId": 22, "title": "Expenses"}},
		}})
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, api *fakeSheetsAPI) *Client {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()),
		goption.WithoutAuthentication())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	cfg := applog.DefaultConfig()
	cfg.Output = io.Discard
	return newClient(svc, "spreadsheet", "Expenses", applog.New(cfg))
}

func TestClient_AppendExpense(t *testing.T) {
	api := &fakeSheetsAPI{}
	c := newTestClient(t, api)

	ref, err := c.AppendExpense(context.Background(), core.Expense{
		ID:          9,
		Date:        core.NewDate(2024, 3, 1),
		Category:    "Bills",
		Amount:      core.Money{Cents: 1000},
		PaymentMode: "UPI",
	})
	if err != nil {
		t.Fatalf("AppendExpense: %v", err)
	}
	if ref != "Expenses!A2:F2" {
		t.Errorf("ref = %q", ref)
	}
	if len(api.appended) != 1 || len(api.appended[0]) != 6 {
		t.Fatalf("unexpected appended rows: %v", api.appended)
	}
}

func TestClient_DeleteExpense(t *testing.T) {
	api := &fakeSheetsAPI{column: [][]any{{"ID"}, {"4"}, {"9"}}}
	c := newTestClient(t, api)

	if err := c.DeleteExpense(context.Background(), 9); err != nil {
		t.Fatalf("DeleteExpense: %v", err)
	}
	if api.batch == nil || len(api.batch.Requests) != 1 {
		t.Fatalf("expected one batch request, got %+v", api.batch)
	}
	rng := api.batch.Requests[0].DeleteDimension.Range
	if rng.SheetId != 22 || rng.StartIndex != 2 || rng.EndIndex != 3 || rng.Dimension != "ROWS" {
		t.Fatalf("unexpected delete range: %+v", rng)
	}
}

func TestClient_DeleteMissingRowIsNoop(t *testing.T) {
	api := &fakeSheetsAPI{column: [][]any{{"ID"}, {"4"}}}
	c := newTestClient(t, api)

	if err := c.DeleteExpense(context.Background(), 9); err != nil {
		t.Fatalf("DeleteExpense: %v", err)
	}
	if api.batch != nil {
		t.Fatal("no batch update expected for a missing row")
	}
}

func TestClient_EnsureHeaderSkipsExisting(t *testing.T) {
	api := &fakeSheetsAPI{column: [][]any{{"ID", "Date"}}}
	c := newTestClient(t, api)
	if err := c.EnsureHeader(context.Background()); err != nil {
		t.Fatalf("EnsureHeader: %v", err)
	}
}

func TestNewClient_ConfigErrors(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"missing spreadsheet", Config{SheetName: "Expenses"}, "missing spreadsheet id"},
		{"missing sheet", Config{SpreadsheetID: "x"}, "missing sheet name"},
		{"missing credentials", Config{SpreadsheetID: "x", SheetName: "Expenses"}, "missing service account credentials"},
		{"unreadable file", Config{SpreadsheetID: "x", SheetName: "Expenses", ServiceAccountFile: filepath.Join(t.TempDir(), "nope.json")}, "read service account file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(ctx, tt.cfg, nil)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want %q", err, tt.want)
			}
		})
	}
}
