package recorder

import "CoinTicker/internal/model"

// Recorder persists sample history so the chart window survives restarts.
type Recorder interface {
	RecordSample(s *model.PriceSample) error
	// Recent returns up to limit of the newest samples for symbol, oldest first.
	Recent(symbol string, limit int) ([]model.PriceSample, error)
	Close() error
}
