package model

import "time"

// PriceSample is one parsed price observation. It is passed by value and never mutated after the fetcher builds it.
type PriceSample struct {
	Symbol       string    `json:"symbol"`
	Timestamp    time.Time `json:"timestamp"`
	PriceUSD     float64   `json:"price_usd"`
	PriceEUR     float64   `json:"price_eur"`
	Change24hPct float64   `json:"change_24h_pct"`
}
