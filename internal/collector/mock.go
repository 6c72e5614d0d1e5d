package collector

import (
	"context"
	"sync"
	"time"

	"CoinTicker/internal/model"
)

// MockFetcher returns controllable data for development and testing.
// With Prices set it walks the list, repeating the last entry; Err, when set, fails every call.
type MockFetcher struct {
	Symbol string
	Prices []float64
	Err    error

	mu    sync.Mutex
	calls int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) Fetch(_ context.Context) (model.PriceSample, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.Err != nil {
		return model.PriceSample{}, m.Err
	}

	price := 0.5 + float64(m.calls%20)*0.001
	if len(m.Prices) > 0 {
		idx := m.calls - 1
		if idx >= len(m.Prices) {
			idx = len(m.Prices) - 1
		}
		price = m.Prices[idx]
	}
	return model.PriceSample{
		Symbol:       m.Symbol,
		Timestamp:    time.Now().UTC(),
		PriceUSD:     price,
		PriceEUR:     price * 0.92,
		Change24hPct: 0,
	}, nil
}

// Calls reports how many times Fetch was invoked.
func (m *MockFetcher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
