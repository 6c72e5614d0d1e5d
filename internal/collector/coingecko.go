package collector

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"CoinTicker/internal/model"
)

const (
	// maxErrorBody caps how much of a non-2xx response body ends up in the error message.
	maxErrorBody = 512
	// maxBody caps how much of any response is read.
	maxBody = 1 << 20
)

// CoinGeckoFetcher implements Fetcher using the CoinGecko simple price endpoint.
type CoinGeckoFetcher struct {
	BaseURL string
	APIKey  string
	CoinID  string
	Symbol  string
	Client  *http.Client
}

// NewCoinGeckoFetcher creates a fetcher with optional proxy support. A zero timeout disables the client timeout.
func NewCoinGeckoFetcher(baseURL, apiKey, coinID, symbol, proxyURL string, timeout time.Duration) *CoinGeckoFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &CoinGeckoFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		CoinID:  coinID,
		Symbol:  symbol,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

func (f *CoinGeckoFetcher) Name() string { return "coingecko" }

// quote is one asset entry of the simple price response. Pointers detect missing fields.
type quote struct {
	USD           *float64 `json:"usd"`
	EUR           *float64 `json:"eur"`
	USD24hChange  *float64 `json:"usd_24h_change"`
	LastUpdatedAt *int64   `json:"last_updated_at"`
}

func (f *CoinGeckoFetcher) endpoint() string {
	q := url.Values{}
	q.Set("ids", f.CoinID)
	q.Set("vs_currencies", "usd,eur")
	q.Set("include_24hr_change", "true")
	q.Set("include_last_updated_at", "true")
	return f.BaseURL + "/simple/price?" + q.Encode()
}

// Fetch requests the current quote. Every failure is returned as a *FetchError.
func (f *CoinGeckoFetcher) Fetch(ctx context.Context) (model.PriceSample, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.endpoint(), nil)
	if err != nil {
		return model.PriceSample{}, networkError(err)
	}
	req.Header.Set("Accept", "application/json")
	if f.APIKey != "" {
		req.Header.Set("x-cg-demo-api-key", f.APIKey)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return model.PriceSample{}, networkError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody+1))
	if err != nil {
		return model.PriceSample{}, networkError(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return model.PriceSample{}, statusError(resp.StatusCode, string(body))
	}
	if len(body) > maxBody {
		return model.PriceSample{}, parseError("response exceeds %d bytes", maxBody)
	}

	return parseQuote(body, f.CoinID, f.Symbol)
}

func parseQuote(body []byte, coinID, symbol string) (model.PriceSample, error) {
	var result map[string]quote
	if err := json.Unmarshal(body, &result); err != nil {
		return model.PriceSample{}, parseError("decode response: %w", err)
	}
	q, ok := result[coinID]
	if !ok {
		return model.PriceSample{}, parseError("asset %q missing from response", coinID)
	}
	switch {
	case q.USD == nil:
		return model.PriceSample{}, parseError("field usd missing for %q", coinID)
	case q.EUR == nil:
		return model.PriceSample{}, parseError("field eur missing for %q", coinID)
	case q.USD24hChange == nil:
		return model.PriceSample{}, parseError("field usd_24h_change missing for %q", coinID)
	case q.LastUpdatedAt == nil:
		return model.PriceSample{}, parseError("field last_updated_at missing for %q", coinID)
	}

	return model.PriceSample{
		Symbol:       symbol,
		Timestamp:    time.Unix(*q.LastUpdatedAt, 0).UTC(),
		PriceUSD:     *q.USD,
		PriceEUR:     *q.EUR,
		Change24hPct: *q.USD24hChange,
	}, nil
}
