package charts

import (
	"bytes"
	"image/png"
	"testing"
	"time"

	"expenses/internal/core"
)

func assertPNG(t *testing.T, data []byte) {
	t.Helper()
	if !bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")) {
		t.Fatalf("output is not a PNG (%d bytes)", len(data))
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("decode png: %v", err)
	}
}

func TestCategoryBar(t *testing.T) {
	tests := []struct {
		name string
		data []core.CategoryAmount
	}{
		{"empty", nil},
		{"categories", []core.CategoryAmount{
			{Name: "Food", Amount: core.Money{Cents: 25050}},
			{Name: "Rent", Amount: core.Money{Cents: 1200000}},
			{Name: "", Amount: core.Money{Cents: 100}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := CategoryBar(&buf, tt.data); err != nil {
				t.Fatalf("CategoryBar: %v", err)
			}
			assertPNG(t, buf.Bytes())
		})
	}
}

func TestMonthlyLine(t *testing.T) {
	tests := []struct {
		name string
		data []core.MonthAmount
	}{
		{"empty", nil},
		{"single month", []core.MonthAmount{{Month: core.Month{Year: 2024, Month: time.March}, Amount: core.Money{Cents: 500}}}},
		{"trend", []core.MonthAmount{
			{Month: core.Month{Year: 2023, Month: time.December}, Amount: core.Money{Cents: 999}},
			{Month: core.Month{Year: 2024, Month: time.January}, Amount: core.Money{Cents: 4000}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := MonthlyLine(&buf, tt.data); err != nil {
				t.Fatalf("MonthlyLine: %v", err)
			}
			assertPNG(t, buf.Bytes())
		})
	}
}
