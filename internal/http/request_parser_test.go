package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"expenses/internal/core"
)

func TestParseExpenseForm(t *testing.T) {
	today := core.NewDate(2024, 3, 20)
	tests := []struct {
		name    string
		form    url.Values
		wantErr error
		want    core.Expense
	}{
		{
			name: "all fields",
			form: url.Values{"date": {"2024-01-05"}, "amount": {"12.345"}, "category": {"Food"}, "payment": {"Card"}, "description": {"pizza"}},
			want: core.Expense{Date: core.NewDate(2024, 1, 5), Amount: core.Money{Cents: 1235}, Category: "Food", PaymentMode: "Card", Description: "pizza"},
		},
		{
			name: "empty date defaults to today and zero amount is valid",
			form: url.Values{"amount": {"0"}, "category": {"Others"}, "payment": {"UPI"}},
			want: core.Expense{Date: today, Category: "Others", PaymentMode: "UPI"},
		},
		{
			name: "control characters are stripped",
			form: url.Values{"amount": {"1"}, "category": {"Food\x00"}, "payment": {"Cash"}, "description": {"a\x07b"}},
			want: core.Expense{Date: today, Amount: core.Money{Cents: 100}, Category: "Food", PaymentMode: "Cash", Description: "ab"},
		},
		{
			name:    "bad date",
			form:    url.Values{"date": {"20/03/2024"}, "amount": {"1"}, "category": {"Food"}, "payment": {"Cash"}},
			wantErr: errInvalidDate,
		},
		{
			name:    "negative amount",
			form:    url.Values{"amount": {"-1"}, "category": {"Food"}, "payment": {"Cash"}},
			wantErr: core.ErrInvalidAmount,
		},
		{
			name:    "long description",
			form:    url.Values{"amount": {"1"}, "category": {"Food"}, "payment": {"Cash"}, "description": {strings.Repeat("x", 201)}},
			wantErr: core.ErrDescriptionTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseExpenseForm(tt.form, today)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %+v\nwant %+v", got, tt.want)
			}
		})
	}
}

func TestParseFilterAndBudget(t *testing.T) {
	q := url.Values{"category": {"Food", " ", "Rent"}, "payment": {""}}
	f := ParseFilter(q)
	if len(f.Categories) != 2 || f.Categories[1] != "Rent" {
		t.Fatalf("categories = %v", f.Categories)
	}
	if f.PaymentModes != nil {
		t.Fatalf("blank payment values should not filter: %v", f.PaymentModes)
	}

	def := core.Money{Cents: 1500000}
	if got, err := ParseBudget(url.Values{}, def); err != nil || got != def {
		t.Fatalf("default budget = %v, %v", got, err)
	}
	if got, err := ParseBudget(url.Values{"budget": {"999.5"}}, def); err != nil || got.Cents != 99950 {
		t.Fatalf("budget = %v, %v", got, err)
	}
	if _, err := ParseBudget(url.Values{"budget": {"-1"}}, def); err == nil {
		t.Fatal("negative budget accepted")
	}
}

func TestParseID(t *testing.T) {
	if id, err := ParseID(" 42 "); err != nil || id != 42 {
		t.Fatalf("ParseID = %d, %v", id, err)
	}
	for _, s := range []string{"", "0", "-1", "1.5", "x"} {
		if _, err := ParseID(s); !errors.Is(err, errInvalidID) {
			t.Errorf("ParseID(%q) err = %v", s, err)
		}
	}
}

func TestRequestBodyParser(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		isJSON bool
		want   string
	}{
		{"json number", `{"id": 7}`, true, "7"},
		{"json string", `{"id": " 8 "}`, true, "8"},
		{"form", "id=9&other=x", false, "9"},
		{"empty", "", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			p := NewRequestBodyParser(req)
			if err := p.Parse(); err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if p.IsJSON() != tt.isJSON {
				t.Fatalf("IsJSON = %v", p.IsJSON())
			}
			if got := p.Get("id"); got != tt.want {
				t.Fatalf("Get(id) = %q, want %q", got, tt.want)
			}
		})
	}

	bad := NewRequestBodyParser(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"id":`)))
	if err := bad.Parse(); err == nil {
		t.Fatal("expected error for truncated JSON")
	}
}
