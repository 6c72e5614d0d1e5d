package render

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"CoinTicker/internal/model"
)

const rule = "--------------------------------------------------"

// FormatSample formats a sample as the fixed multi-line console block.
func FormatSample(s model.PriceSample) string {
	symbol := s.Symbol
	if symbol == "" {
		symbol = "Coin"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("\n%s Price Information:\n", symbol))
	b.WriteString(rule + "\n")
	b.WriteString(fmt.Sprintf("USD Price: $%s\n", decimal.NewFromFloat(s.PriceUSD).StringFixed(4)))
	b.WriteString(fmt.Sprintf("EUR Price: €%s\n", decimal.NewFromFloat(s.PriceEUR).StringFixed(4)))
	b.WriteString(fmt.Sprintf("24h Change (USD): %s%%\n", decimal.NewFromFloat(s.Change24hPct).StringFixed(2)))
	b.WriteString(fmt.Sprintf("Last Updated: %s UTC\n", s.Timestamp.UTC().Format("2006-01-02 15:04:05")))
	b.WriteString(rule + "\n")
	return b.String()
}

// TextRenderer writes each sample to an output stream.
type TextRenderer struct {
	w io.Writer
}

func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w}
}

func (t *TextRenderer) Name() string { return "text" }

func (t *TextRenderer) Render(_ context.Context, s model.PriceSample) error {
	if _, err := io.WriteString(t.w, FormatSample(s)); err != nil {
		return fmt.Errorf("write sample: %w", err)
	}
	return nil
}
