package render

import (
	"math"

	"CoinTicker/internal/calculator"
	"CoinTicker/internal/model"
)

// AxisBounds returns the visible USD price range padded by padding*(max-min) on both sides.
// A flat series is padded by padding*|min| (or 1 when min is 0). ok is false for an empty series.
func AxisBounds(samples []model.PriceSample, padding float64) (lo, hi float64, ok bool) {
	hi, lo, err := calculator.Range(usdPrices(samples))
	if err != nil {
		return 0, 0, false
	}

	pad := (hi - lo) * padding
	if pad == 0 {
		pad = math.Abs(lo) * padding
		if pad == 0 {
			pad = 1
		}
	}
	return lo - pad, hi + pad, true
}

func usdPrices(samples []model.PriceSample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.PriceUSD
	}
	return out
}
