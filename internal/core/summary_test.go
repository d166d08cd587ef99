package core

import (
	"testing"
	"time"
)

func exp(date, category string, cents int64, payment string) Expense {
	d, err := ParseDate(date)
	if err != nil {
		panic(err)
	}
	return Expense{Date: d, Category: category, Amount: Money{Cents: cents}, PaymentMode: payment}
}

func sampleExpenses() []Expense {
	return []Expense{
		exp("2024-03-20", "Food", 25050, "Cash"),
		exp("2024-03-15", "Rent", 1200000, "Net Banking"),
		exp("2024-03-02", "Food", 10000, "UPI"),
		exp("2024-02-28", "Transport", 4000, "Card"),
		exp("2023-12-31", "Food", 999, "Cash"),
	}
}

func TestTotal(t *testing.T) {
	if got := Total(nil); got.Cents != 0 {
		t.Fatalf("Total(nil) = %d, want 0", got.Cents)
	}
	if got := Total(sampleExpenses()); got.Cents != 25050+1200000+10000+4000+999 {
		t.Fatalf("Total = %d", got.Cents)
	}
}

func TestByCategoryConservesTotal(t *testing.T) {
	inputs := [][]Expense{nil, sampleExpenses(), {exp("2024-01-01", "", 5, "")}}
	for i, records := range inputs {
		var sum int64
		for _, m := range ByCategory(records) {
			sum += m.Cents
		}
		if sum != Total(records).Cents {
			t.Fatalf("case %d: category sum %d != total %d", i, sum, Total(records).Cents)
		}
	}

	got := ByCategory(sampleExpenses())
	if len(got) != 3 || got["Food"].Cents != 25050+10000+999 {
		t.Fatalf("unexpected categories: %v", got)
	}
}

func TestCategoryTotalsOrder(t *testing.T) {
	got := CategoryTotals(sampleExpenses())
	want := []string{"Food", "Rent", "Transport"}
	if len(got) != len(want) {
		t.Fatalf("got %d categories, want %d", len(got), len(want))
	}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("position %d = %q, want %q", i, got[i].Name, name)
		}
	}
}

func TestByMonthAndTrend(t *testing.T) {
	records := sampleExpenses()
	byMonth := ByMonth(records)
	mar := Month{Year: 2024, Month: time.March}
	if byMonth[mar].Cents != 25050+1200000+10000 {
		t.Fatalf("march total = %d", byMonth[mar].Cents)
	}
	if n := DistinctMonthCount(records); n != 3 {
		t.Fatalf("DistinctMonthCount = %d, want 3", n)
	}
	if n := DistinctMonthCount(nil); n != 0 {
		t.Fatalf("DistinctMonthCount(nil) = %d, want 0", n)
	}

	trend := MonthlyTrend(records)
	wantOrder := []string{"2023-12", "2024-02", "2024-03"}
	for i, m := range wantOrder {
		if trend[i].Month.String() != m {
			t.Errorf("trend[%d] = %s, want %s", i, trend[i].Month, m)
		}
	}
}

func TestRemainingBudgetAndStatus(t *testing.T) {
	mar := Month{Year: 2024, Month: time.March}
	tests := []struct {
		name      string
		records   []Expense
		budget    int64
		remaining int64
		status    BudgetStatus
	}{
		{
			name:      "overspend",
			records:   []Expense{exp("2024-03-01", "Rent", 100000, "Cash"), exp("2024-03-05", "Food", 20000, "UPI")},
			budget:    100000,
			remaining: -20000,
			status:    BudgetOver,
		},
		{
			name:      "low at fifteen percent",
			records:   []Expense{exp("2024-03-01", "Rent", 85000, "Cash")},
			budget:    100000,
			remaining: 15000,
			status:    BudgetLow,
		},
		{
			name:      "exactly twenty percent is ok",
			records:   []Expense{exp("2024-03-01", "Rent", 80000, "Cash")},
			budget:    100000,
			remaining: 20000,
			status:    BudgetOK,
		},
		{
			name:      "exactly spent is low",
			records:   []Expense{exp("2024-03-01", "Rent", 100000, "Cash")},
			budget:    100000,
			remaining: 0,
			status:    BudgetLow,
		},
		{
			name:      "other months ignored",
			records:   []Expense{exp("2024-02-29", "Rent", 500000, "Cash")},
			budget:    100000,
			remaining: 100000,
			status:    BudgetOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			budget := Money{Cents: tt.budget}
			remaining := RemainingBudget(tt.records, budget, mar)
			if remaining.Cents != tt.remaining {
				t.Fatalf("remaining = %d, want %d", remaining.Cents, tt.remaining)
			}
			if s := BudgetStatusFor(remaining, budget); s != tt.status {
				t.Fatalf("status = %s, want %s", s, tt.status)
			}
		})
	}
}

func TestTopCategory(t *testing.T) {
	if _, ok := TopCategory(nil); ok {
		t.Fatal("expected no top category for empty input")
	}

	mar := FilterMonth(sampleExpenses(), Month{Year: 2024, Month: time.March})
	if name, ok := TopCategory(mar); !ok || name != "Rent" {
		t.Fatalf("TopCategory = %q, %v", name, ok)
	}

	tied := []Expense{
		exp("2024-03-03", "Bills", 500, "Cash"),
		exp("2024-03-02", "Food", 300, "Cash"),
		exp("2024-03-01", "Food", 200, "Cash"),
	}
	if name, _ := TopCategory(tied); name != "Bills" {
		t.Fatalf("tie should go to first encountered, got %q", name)
	}
}

func TestBudgetOverview(t *testing.T) {
	mar := Month{Year: 2024, Month: time.March}
	ov := BudgetOverview(sampleExpenses(), Money{Cents: 1500000}, mar)
	if ov.Spent.Cents != 1235050 {
		t.Fatalf("spent = %d", ov.Spent.Cents)
	}
	if ov.Remaining.Cents != 264950 || ov.Status != BudgetLow {
		t.Fatalf("remaining = %d status = %s", ov.Remaining.Cents, ov.Status)
	}
	if ov.Progress != 82 {
		t.Fatalf("progress = %d, want 82", ov.Progress)
	}
	if !ov.HasTop || ov.TopCategory != "Rent" {
		t.Fatalf("top = %q %v", ov.TopCategory, ov.HasTop)
	}

	empty := BudgetOverview(nil, Money{Cents: 1500000}, mar)
	if empty.HasTop || empty.Progress != 0 || empty.Status != BudgetOK {
		t.Fatalf("unexpected empty overview: %+v", empty)
	}

	over := BudgetOverview(sampleExpenses(), Money{Cents: 0}, mar)
	if over.Progress != 100 || over.Status != BudgetOver {
		t.Fatalf("unexpected zero-budget overview: %+v", over)
	}
}

func TestFilterApply(t *testing.T) {
	records := sampleExpenses()
	if got := (Filter{}).Apply(records); len(got) != len(records) {
		t.Fatalf("empty filter dropped records: %d", len(got))
	}
	got := Filter{Categories: []string{"Food"}, PaymentModes: []string{"Cash"}}.Apply(records)
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	for _, e := range got {
		if e.Category != "Food" || e.PaymentMode != "Cash" {
			t.Fatalf("unexpected record: %+v", e)
		}
	}

	if cats := Categories(records); len(cats) != 3 || cats[0] != "Food" {
		t.Fatalf("Categories = %v", cats)
	}
	if modes := PaymentModesIn(records); len(modes) != 4 || modes[0] != "Cash" {
		t.Fatalf("PaymentModesIn = %v", modes)
	}
}
