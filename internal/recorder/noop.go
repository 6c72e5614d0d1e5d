package recorder

import "CoinTicker/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordSample(_ *model.PriceSample) error { return nil }
func (n *NoopRecorder) Recent(_ string, _ int) ([]model.PriceSample, error) {
	return nil, nil
}
func (n *NoopRecorder) Close() error { return nil }
