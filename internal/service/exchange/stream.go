package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"PumpPulse/internal/domain/models"
	drepo "PumpPulse/internal/domain/repository"

	"github.com/gorilla/websocket"
)

// Stream implements a TickerStream backed by a Binance-style miniTicker
// WebSocket feed.
type Stream struct {
	name           string
	websocketURL   string
	symbols        []string
	reconnectDelay time.Duration
	pingInterval   time.Duration

	conn      *websocket.Conn
	connected bool
}

// NewStream creates a TickerStream for one exchange.
func NewStream(name, websocketURL string, symbols []string, reconnectDelay, pingInterval time.Duration) drepo.TickerStream {
	return &Stream{
		name:           name,
		websocketURL:   websocketURL,
		symbols:        symbols,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
	}
}

// Connect establishes the WebSocket connection.
func (s *Stream) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.websocketURL, nil)
	if err != nil {
		return fmt.Errorf("%s stream connect: %w", s.name, err)
	}
	s.conn = conn
	s.connected = true
	log.Printf("%s stream: connected", s.name)
	return nil
}

// Subscribe subscribes to miniTicker streams for the configured symbols.
func (s *Stream) Subscribe(ctx context.Context) error {
	if s.conn == nil || !s.connected {
		return fmt.Errorf("%s stream not connected", s.name)
	}
	params := make([]string, 0, len(s.symbols))
	for _, sym := range s.symbols {
		params = append(params, strings.ToLower(sym)+"@miniTicker")
	}
	msg := map[string]interface{}{"method": "SUBSCRIBE", "params": params, "id": 1}
	if err := s.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	log.Printf("%s stream: subscribed %d symbols", s.name, len(params))
	return nil
}

type miniTicker struct {
	Event  string `json:"e"`
	Symbol string `json:"s"`
	Close  string `json:"c"`
	Open   string `json:"o"`
	High   string `json:"h"`
	Low    string `json:"l"`
	Volume string `json:"v"`
	Time   int64  `json:"E"` // ms
}

// Read streams Ticker events and errors. The channels close when the read
// loop exits.
func (s *Stream) Read(ctx context.Context) (<-chan *models.Ticker, <-chan error) {
	tickers := make(chan *models.Ticker, 1024)
	errs := make(chan error, 1)

	// ping loop
	go func() {
		ticker := time.NewTicker(s.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if s.conn != nil {
					_ = s.conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(tickers)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if s.conn == nil {
					errs <- fmt.Errorf("%s stream conn nil", s.name)
					return
				}
				_, b, err := s.conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("%s stream read: %w", s.name, err)
					return
				}
				var m miniTicker
				if err := json.Unmarshal(b, &m); err != nil {
					// ignore non-ticker frames
					continue
				}
				if m.Event != "24hrMiniTicker" || m.Symbol == "" {
					continue
				}
				t := s.toTicker(m)
				if t == nil {
					continue
				}
				select {
				case tickers <- t:
				default:
					// drop on backpressure
				}
			}
		}
	}()

	return tickers, errs
}

func (s *Stream) toTicker(m miniTicker) *models.Ticker {
	price, err := strconv.ParseFloat(m.Close, 64)
	if err != nil || price <= 0 {
		return nil
	}
	open := parseFloatOr(m.Open, 0)
	change := 0.0
	if open > 0 {
		change = (price - open) / open * 100
	}
	ts := time.Now()
	if m.Time > 0 {
		ts = time.UnixMilli(m.Time)
	}
	return &models.Ticker{
		Symbol:    m.Symbol,
		Price:     price,
		Volume24h: parseFloatOr(m.Volume, 0),
		Change24h: change,
		High24h:   parseFloatOr(m.High, price),
		Low24h:    parseFloatOr(m.Low, price),
		Timestamp: ts,
	}
}

// Reconnect closes and reconnects.
func (s *Stream) Reconnect(ctx context.Context) error {
	_ = s.Close()
	time.Sleep(s.reconnectDelay)
	if err := s.Connect(ctx); err != nil {
		return err
	}
	return s.Subscribe(ctx)
}

// Close closes the WS connection.
func (s *Stream) Close() error {
	s.connected = false
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// IsConnected indicates status.
func (s *Stream) IsConnected() bool { return s.connected }
