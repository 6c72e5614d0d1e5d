package notifier

import (
	"context"
	"time"

	"CoinTicker/internal/model"
)

// Renderer forwards each tick's sample to Telegram.
type Renderer struct {
	Notifier   *TelegramNotifier
	MaxRetries int
	Backoff    time.Duration
}

// NewRenderer wraps n with the default retry policy (3 retries, 1s base backoff).
func NewRenderer(n *TelegramNotifier) *Renderer {
	return &Renderer{Notifier: n, MaxRetries: 3, Backoff: time.Second}
}

func (r *Renderer) Name() string { return "telegram" }

func (r *Renderer) Render(ctx context.Context, s model.PriceSample) error {
	return r.Notifier.SendWithRetry(ctx, FormatSample(s), r.MaxRetries, r.Backoff)
}
