package render

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"CoinTicker/internal/model"
)

func prices(ps ...float64) []model.PriceSample {
	out := make([]model.PriceSample, len(ps))
	for i, p := range ps {
		out[i] = model.PriceSample{Symbol: "XRP", PriceUSD: p}
	}
	return out
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAxisBounds_PadsTenPercentOfRange(t *testing.T) {
	lo, hi, ok := AxisBounds(prices(1.0, 1.2, 0.9), 0.1)
	if !ok {
		t.Fatal("expected bounds")
	}
	if !almostEqual(lo, 0.87) || !almostEqual(hi, 1.23) {
		t.Errorf("expected [0.87, 1.23], got [%.6f, %.6f]", lo, hi)
	}
}

func TestAxisBounds_Empty(t *testing.T) {
	if _, _, ok := AxisBounds(nil, 0.1); ok {
		t.Error("expected no bounds for empty series")
	}
}

func TestAxisBounds_FlatSeries(t *testing.T) {
	lo, hi, ok := AxisBounds(prices(2, 2), 0.1)
	if !ok || !almostEqual(lo, 1.8) || !almostEqual(hi, 2.2) {
		t.Errorf("expected [1.8, 2.2], got [%.4f, %.4f] ok=%v", lo, hi, ok)
	}

	lo, hi, _ = AxisBounds(prices(0), 0.1)
	if lo != -1 || hi != 1 {
		t.Errorf("expected [-1, 1] for zero series, got [%.4f, %.4f]", lo, hi)
	}
}

func TestFormatSample(t *testing.T) {
	s := model.PriceSample{
		Symbol:       "XRP",
		Timestamp:    time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		PriceUSD:     0.52,
		PriceEUR:     0.48,
		Change24hPct: 1.23,
	}
	got := FormatSample(s)

	for _, want := range []string{
		"XRP Price Information:",
		"USD Price: $0.5200",
		"EUR Price: €0.4800",
		"24h Change (USD): 1.23%",
		"Last Updated: 2024-01-01 12:00:00 UTC",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, got)
		}
	}
	if strings.Count(got, rule) != 2 {
		t.Errorf("expected two rule lines, got:\n%s", got)
	}
}

func TestFormatSample_NegativeChange(t *testing.T) {
	got := FormatSample(model.PriceSample{Symbol: "XRP", Change24hPct: -3.456})
	if !strings.Contains(got, "24h Change (USD): -3.46%") {
		t.Errorf("unexpected change line:\n%s", got)
	}
}

func TestTextRenderer(t *testing.T) {
	var out bytes.Buffer
	r := NewTextRenderer(&out)
	if err := r.Render(context.Background(), prices(0.52)[0]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "USD Price: $0.5200") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestTextRenderer_WriteError(t *testing.T) {
	r := NewTextRenderer(failingWriter{})
	if err := r.Render(context.Background(), prices(1)[0]); err == nil {
		t.Fatal("expected write error")
	}
}

func TestChartRenderer_TracksBoundsAndCapacity(t *testing.T) {
	c := NewChartRenderer(3, 0.1, 2)
	if c.View().OK {
		t.Fatal("expected empty view before first render")
	}

	for _, s := range prices(5, 1.0, 1.2, 0.9) {
		if err := c.Render(context.Background(), s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	v := c.View()
	if len(v.Points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(v.Points))
	}
	if v.Points[0].PriceUSD != 1.0 {
		t.Errorf("expected oldest sample evicted, first point is %.2f", v.Points[0].PriceUSD)
	}
	if !almostEqual(v.Min, 0.87) || !almostEqual(v.Max, 1.23) {
		t.Errorf("expected [0.87, 1.23], got [%.4f, %.4f]", v.Min, v.Max)
	}
	if len(v.Average) != 3 || !almostEqual(v.Average[1], 1.1) || !almostEqual(v.Average[2], 1.05) {
		t.Errorf("unexpected moving average: %v", v.Average)
	}
	last, ok := v.Last()
	if !ok || last.PriceUSD != 0.9 {
		t.Errorf("expected last point 0.9, got %.2f", last.PriceUSD)
	}
}

func TestChartRenderer_Warm(t *testing.T) {
	c := NewChartRenderer(2, 0.1, 2)
	c.Warm(prices(1, 2, 3))

	got := c.Samples()
	if len(got) != 2 || got[0].PriceUSD != 2 || got[1].PriceUSD != 3 {
		t.Errorf("unexpected warm contents: %+v", got)
	}
	if !c.View().OK {
		t.Error("expected view after warm")
	}
}

func TestChartView_Project(t *testing.T) {
	v := ChartView{Points: prices(1, 2, 3), Min: 1, Max: 3, OK: true}

	x, y := v.Project(0, 10, 20, 100, 50)
	if x != 10 || y != 70 {
		t.Errorf("first point: expected (10, 70), got (%.1f, %.1f)", x, y)
	}
	x, y = v.Project(2, 10, 20, 100, 50)
	if x != 110 || y != 20 {
		t.Errorf("last point: expected (110, 20), got (%.1f, %.1f)", x, y)
	}
	x, y = v.Project(1, 10, 20, 100, 50)
	if x != 60 || y != 45 {
		t.Errorf("middle point: expected (60, 45), got (%.1f, %.1f)", x, y)
	}

	v.Average = []float64{1, 1.5, 2}
	x, y = v.ProjectAverage(1, 10, 20, 100, 50)
	if x != 60 || y != 57.5 {
		t.Errorf("average point: expected (60, 57.5), got (%.1f, %.1f)", x, y)
	}
}

func TestChartView_Breaks(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	pts := prices(1, 2, 3, 4)
	for i, offset := range []time.Duration{0, time.Minute, 30 * time.Minute, 31 * time.Minute} {
		pts[i].Timestamp = base.Add(offset)
	}
	v := ChartView{Points: pts}

	got := v.Breaks(10 * time.Minute)
	want := []bool{false, false, true, false}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	for i, b := range v.Breaks(0) {
		if b {
			t.Errorf("index %d: zero gap should never break", i)
		}
	}
}
