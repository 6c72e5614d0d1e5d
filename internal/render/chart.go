package render

import (
	"context"
	"sync"
	"time"

	"CoinTicker/internal/buffer"
	"CoinTicker/internal/calculator"
	"CoinTicker/internal/model"
)

// ChartView is the immutable state a chart frame is drawn from.
type ChartView struct {
	Points  []model.PriceSample
	Average []float64 // trailing SMA of PriceUSD, aligned with Points
	Min     float64
	Max     float64
	OK      bool
}

// Last returns the newest point, if any.
func (v ChartView) Last() (model.PriceSample, bool) {
	if len(v.Points) == 0 {
		return model.PriceSample{}, false
	}
	return v.Points[len(v.Points)-1], true
}

// Project maps point i onto a w×h plot area whose top-left corner is (x0, y0).
// Points are spread evenly along x, the first at x0 and the last at x0+w.
func (v ChartView) Project(i int, x0, y0, w, h float64) (x, y float64) {
	n := len(v.Points)
	switch {
	case n <= 1:
		x = x0 + w/2
	default:
		x = x0 + float64(i)/float64(n-1)*w
	}
	if v.Max-v.Min <= 0 {
		return x, y0 + h/2
	}
	return x, v.scaleY(v.Points[i].PriceUSD, y0, h)
}

// ProjectAverage is Project for the moving-average series.
func (v ChartView) ProjectAverage(i int, x0, y0, w, h float64) (x, y float64) {
	x, _ = v.Project(i, x0, y0, w, h)
	if v.Max-v.Min <= 0 {
		return x, y0 + h/2
	}
	return x, v.scaleY(v.Average[i], y0, h)
}

func (v ChartView) scaleY(price, y0, h float64) float64 {
	return y0 + h - (price-v.Min)/(v.Max-v.Min)*h
}

// ChartRenderer keeps the last N samples and the axis bounds for the chart window.
type ChartRenderer struct {
	buf       *buffer.Ring
	padding   float64
	avgPeriod int

	mu   sync.RWMutex
	view ChartView
}

// NewChartRenderer keeps up to capacity samples; the overlay averages the last avgPeriod of them.
func NewChartRenderer(capacity int, padding float64, avgPeriod int) *ChartRenderer {
	if avgPeriod <= 0 {
		avgPeriod = 1
	}
	return &ChartRenderer{buf: buffer.New(capacity), padding: padding, avgPeriod: avgPeriod}
}

func (c *ChartRenderer) Name() string { return "chart" }

// Render pushes s into the buffer and recomputes the view.
func (c *ChartRenderer) Render(_ context.Context, s model.PriceSample) error {
	c.buf.Push(s)
	c.refresh()
	return nil
}

// Warm preloads historical samples, oldest first, without rendering each one.
func (c *ChartRenderer) Warm(samples []model.PriceSample) {
	for _, s := range samples {
		c.buf.Push(s)
	}
	c.refresh()
}

// View returns the current chart state.
func (c *ChartRenderer) View() ChartView {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.view
}

// Capacity is the number of samples the chart keeps.
func (c *ChartRenderer) Capacity() int { return c.buf.Cap() }

// Samples returns the buffered samples, oldest first.
func (c *ChartRenderer) Samples() []model.PriceSample {
	return c.buf.All()
}

func (c *ChartRenderer) refresh() {
	points := c.buf.All()
	lo, hi, ok := AxisBounds(points, c.padding)
	avg := calculator.RollingSMA(usdPrices(points), c.avgPeriod)

	c.mu.Lock()
	c.view = ChartView{Points: points, Average: avg, Min: lo, Max: hi, OK: ok}
	c.mu.Unlock()
}

// Breaks reports, for each point, whether the line should restart there because the
// previous point is more than gap older. gap <= 0 never breaks.
func (v ChartView) Breaks(gap time.Duration) []bool {
	out := make([]bool, len(v.Points))
	if gap <= 0 {
		return out
	}
	for i := 1; i < len(v.Points); i++ {
		out[i] = v.Points[i].Timestamp.Sub(v.Points[i-1].Timestamp) > gap
	}
	return out
}
