// Package render turns price samples into console text or chart state.
package render

import (
	"context"

	"CoinTicker/internal/model"
)

// Renderer consumes one sample per tick.
type Renderer interface {
	Name() string
	Render(ctx context.Context, s model.PriceSample) error
}
