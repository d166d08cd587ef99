// Package charts renders the analytics page images.
package charts

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"expenses/internal/core"
)

const (
	Width       = 8 * vg.Inch
	Height      = 4 * vg.Inch
	ContentType = "image/png"
)

var barColor = color.RGBA{R: 0x25, G: 0x63, B: 0xeb, A: 0xff}

// CategoryBar renders one bar per category, in the given order.
func CategoryBar(w io.Writer, data []core.CategoryAmount) error {
	p := plot.New()
	p.Title.Text = "Spending by category"
	p.Y.Label.Text = "Amount"
	p.Y.Min = 0

	if len(data) == 0 {
		p.Y.Max = 1
		return render(w, p)
	}

	values := make(plotter.Values, len(data))
	names := make([]string, len(data))
	for i, c := range data {
		values[i] = c.Amount.Float()
		names[i] = label(c.Name)
	}

	bars, err := plotter.NewBarChart(values, vg.Points(24))
	if err != nil {
		return fmt.Errorf("bar chart: %w", err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(names...)

	return render(w, p)
}

// MonthlyLine renders the month totals as a line with markers, oldest first.
func MonthlyLine(w io.Writer, data []core.MonthAmount) error {
	p := plot.New()
	p.Title.Text = "Monthly spending trend"
	p.Y.Label.Text = "Amount"
	p.Y.Min = 0

	if len(data) == 0 {
		p.Y.Max = 1
		return render(w, p)
	}

	pts := make(plotter.XYs, len(data))
	labels := make([]string, len(data))
	for i, m := range data {
		pts[i].X = float64(i)
		pts[i].Y = m.Amount.Float()
		labels[i] = m.Month.String()
	}

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("line chart: %w", err)
	}
	line.Color = barColor
	points.Color = barColor
	p.Add(line, points, plotter.NewGrid())
	p.NominalX(labels...)

	return render(w, p)
}

func render(w io.Writer, p *plot.Plot) error {
	wt, err := p.WriterTo(Width, Height, "png")
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}

func label(name string) string {
	if name == "" {
		return "(none)"
	}
	return name
}
