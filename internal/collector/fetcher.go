package collector

import (
	"context"

	"CoinTicker/internal/model"
)

// Fetcher retrieves one price sample per call. Implementations return a *FetchError on failure.
type Fetcher interface {
	Fetch(ctx context.Context) (model.PriceSample, error)
	Name() string
}
