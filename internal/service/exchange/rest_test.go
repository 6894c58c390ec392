package exchange

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGetAllTickers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != tickerPath {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"symbol":"BTCUSDT","lastPrice":"50000.5","volume":"1200","priceChangePercent":"3.2","highPrice":"51000","lowPrice":"49000","closeTime":1700000000000},
			{"symbol":"ETHUSDT","lastPrice":"3000","volume":"8000","priceChangePercent":"-1.1","highPrice":"3100","lowPrice":"2900","closeTime":1700000000000},
			{"symbol":"BADROW","lastPrice":"not-a-number"}
		]`))
	}))
	defer srv.Close()

	c := NewRESTClient("binance", srv.URL, 5*time.Second)
	if c.Name() != "binance" {
		t.Fatalf("unexpected name %s", c.Name())
	}

	tickers, err := c.GetAllTickers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tickers) != 2 {
		t.Fatalf("expected 2 tickers (malformed row skipped), got %d", len(tickers))
	}

	btc := tickers[0]
	if btc.Symbol != "BTCUSDT" || btc.Price != 50000.5 || btc.Volume24h != 1200 {
		t.Fatalf("unexpected ticker: %+v", btc)
	}
	if btc.Change24h != 3.2 || btc.High24h != 51000 || btc.Low24h != 49000 {
		t.Fatalf("unexpected ticker stats: %+v", btc)
	}
}

func TestGetAllTickersServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewRESTClient("kraken", srv.URL, 5*time.Second)
	if _, err := c.GetAllTickers(context.Background()); err == nil {
		t.Fatal("expected error on 502")
	}
}
