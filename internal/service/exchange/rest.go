package exchange

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"PumpPulse/internal/domain/models"
	drepo "PumpPulse/internal/domain/repository"
	xhttp "PumpPulse/pkg/http"
)

const tickerPath = "/api/v3/ticker/24hr"

// RESTClient implements ExchangeClient against a Binance-compatible 24hr
// ticker endpoint. Most exchanges we pull from expose this shape.
type RESTClient struct {
	name    string
	baseURL string
	http    *xhttp.Client
}

// NewRESTClient creates an ExchangeClient for one exchange.
func NewRESTClient(name, baseURL string, timeout time.Duration) drepo.ExchangeClient {
	return &RESTClient{
		name:    name,
		baseURL: baseURL,
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

// Name returns the exchange name.
func (c *RESTClient) Name() string { return c.name }

type tickerRow struct {
	Symbol             string `json:"symbol"`
	LastPrice          string `json:"lastPrice"`
	Volume             string `json:"volume"`
	PriceChangePercent string `json:"priceChangePercent"`
	HighPrice          string `json:"highPrice"`
	LowPrice           string `json:"lowPrice"`
	CloseTime          int64  `json:"closeTime"` // ms
}

// GetAllTickers fetches the full 24hr ticker snapshot.
func (c *RESTClient) GetAllTickers(ctx context.Context) ([]models.Ticker, error) {
	var rows []tickerRow
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + tickerPath,
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("%s tickers: %w", c.name, err)
	}

	out := make([]models.Ticker, 0, len(rows))
	for _, r := range rows {
		price, err := strconv.ParseFloat(r.LastPrice, 64)
		if err != nil || r.Symbol == "" {
			// malformed row, skip
			continue
		}
		ts := time.Now()
		if r.CloseTime > 0 {
			ts = time.UnixMilli(r.CloseTime)
		}
		out = append(out, models.Ticker{
			Symbol:    r.Symbol,
			Price:     price,
			Volume24h: parseFloatOr(r.Volume, 0),
			Change24h: parseFloatOr(r.PriceChangePercent, 0),
			High24h:   parseFloatOr(r.HighPrice, price),
			Low24h:    parseFloatOr(r.LowPrice, price),
			Timestamp: ts,
		})
	}
	return out, nil
}

func parseFloatOr(s string, def float64) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}
