package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ErrUpstream covers any failure reported by the market-data provider itself,
// as opposed to transport errors reaching it.
var ErrUpstream = errors.New("market data provider error")

type Config struct {
	APIKey    string
	BaseURL   string
	Exchanges string
	Timeout   time.Duration
}

// Client proxies the Twelve Data REST API for symbol search and time-series
// quotes. Responses are passed through without caching.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	exchanges  string
}

func NewClient(cfg Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		exchanges:  cfg.Exchanges,
	}
}

type SymbolMatch struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Currency string `json:"currency"`
	Type     string `json:"type"`
}

type Candle struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

type symbolSearchResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    []struct {
		Symbol         string `json:"symbol"`
		InstrumentName string `json:"instrument_name"`
		Exchange       string `json:"exchange"`
		Currency       string `json:"currency"`
		Type           string `json:"instrument_type"`
	} `json:"data"`
}

type timeSeriesResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Values  []struct {
		Datetime string `json:"datetime"`
		Open     string `json:"open"`
		High     string `json:"high"`
		Low      string `json:"low"`
		Close    string `json:"close"`
		Volume   string `json:"volume"`
	} `json:"values"`
}

func (c *Client) SearchSymbols(ctx context.Context, query string) ([]SymbolMatch, error) {
	params := url.Values{}
	params.Set("symbol", query)
	params.Set("exchange", c.exchanges)
	params.Set("type", "stock")
	params.Set("apikey", c.apiKey)

	var resp symbolSearchResponse
	if err := c.get(ctx, "/symbol_search", params, &resp); err != nil {
		return nil, err
	}
	if resp.Status == "error" {
		return nil, fmt.Errorf("%w: %s", ErrUpstream, resp.Message)
	}

	matches := make([]SymbolMatch, 0, len(resp.Data))
	for _, d := range resp.Data {
		matches = append(matches, SymbolMatch{
			Symbol:   d.Symbol,
			Name:     d.InstrumentName,
			Exchange: d.Exchange,
			Currency: d.Currency,
			Type:     d.Type,
		})
	}

	return matches, nil
}

func (c *Client) TimeSeries(ctx context.Context, symbol, interval string, outputSize int) ([]Candle, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("interval", interval)
	params.Set("outputsize", strconv.Itoa(outputSize))
	params.Set("apikey", c.apiKey)

	var resp timeSeriesResponse
	if err := c.get(ctx, "/time_series", params, &resp); err != nil {
		return nil, err
	}
	if resp.Status == "error" {
		return nil, fmt.Errorf("%w: %s", ErrUpstream, resp.Message)
	}

	candles := make([]Candle, 0, len(resp.Values))
	for _, v := range resp.Values {
		open, _ := strconv.ParseFloat(v.Open, 64)
		high, _ := strconv.ParseFloat(v.High, 64)
		low, _ := strconv.ParseFloat(v.Low, 64)
		closePrice, _ := strconv.ParseFloat(v.Close, 64)
		volume, _ := strconv.ParseInt(v.Volume, 10, 64)

		candles = append(candles, Candle{
			Date:   v.Datetime,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: volume,
		})
	}

	return candles, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach market data provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d", ErrUpstream, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
