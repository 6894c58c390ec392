package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"PumpPulse/internal/domain/models"
	domrepo "PumpPulse/internal/domain/repository"
	pkgch "PumpPulse/pkg/clickhouse"
	applogger "PumpPulse/pkg/logger"
)

// SignalStore implements SignalRepository backed by ClickHouse.
//
// Signals live in a ReplacingMergeTree keyed by id: a status change inserts a
// superseding row with a higher version, and reads go through FINAL so the
// latest row wins. This keeps writes append-only, which is what ClickHouse is
// good at.
type SignalStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

// NewSignalStore creates a SignalRepository.
func NewSignalStore(ch *pkgch.Client, database string, l *applogger.Logger) domrepo.SignalRepository {
	return &SignalStore{
		db:    ch.DB(),
		table: database + ".signals",
		l:     l,
	}
}

// SchemaStatements returns idempotent DDL for the signal and history tables.
func SchemaStatements(database string) []string {
	return []string{
		fmt.Sprintf(`CREATE DATABASE IF NOT EXISTS %s`, database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.signals (
			id String,
			symbol String,
			exchange String,
			direction String,
			entry_price Float64,
			stop_loss Float64,
			take_profit_1 Float64,
			take_profit_2 Float64,
			take_profit_3 Float64,
			confidence Float64,
			triggers String,
			min_tier String,
			status String,
			result_pnl Nullable(Float64),
			closed_at Nullable(DateTime64(3)),
			created_at DateTime64(3),
			version UInt64
		) ENGINE = ReplacingMergeTree(version)
		ORDER BY id`, database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.agg_tickers (
			ts DateTime64(3),
			symbol String,
			price Float64,
			volume_24h Float64,
			change_24h Float64,
			high_24h Float64,
			low_24h Float64,
			exchanges String
		) ENGINE = MergeTree()
		PARTITION BY toYYYYMMDD(ts)
		ORDER BY (symbol, ts)
		TTL toDateTime(ts) + INTERVAL 30 DAY`, database),
	}
}

const signalColumns = `id, symbol, exchange, direction, entry_price, stop_loss,
	take_profit_1, take_profit_2, take_profit_3, confidence, triggers,
	min_tier, status, result_pnl, closed_at, created_at`

// Create inserts a new signal row.
func (s *SignalStore) Create(ctx context.Context, sig *models.Signal) error {
	return s.insert(ctx, sig, uint64(sig.CreatedAt.UnixMilli()))
}

// UpdateStatus inserts a superseding row for the signal's current state.
func (s *SignalStore) UpdateStatus(ctx context.Context, sig *models.Signal) error {
	return s.insert(ctx, sig, uint64(time.Now().UnixMilli()))
}

func (s *SignalStore) insert(ctx context.Context, sig *models.Signal, version uint64) error {
	triggers, err := json.Marshal(sig.AITriggers)
	if err != nil {
		return fmt.Errorf("marshal triggers: %w", err)
	}

	q := fmt.Sprintf(`INSERT INTO %s (%s, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, s.table, signalColumns)
	_, err = s.db.ExecContext(ctx, q,
		sig.ID,
		sig.Symbol,
		sig.Exchange,
		string(sig.Direction),
		sig.EntryPrice,
		sig.StopLoss,
		sig.TakeProfit1,
		sig.TakeProfit2,
		sig.TakeProfit3,
		sig.AIConfidence,
		string(triggers),
		string(sig.MinTier),
		string(sig.Status),
		sig.ResultPnl,
		sig.ClosedAt,
		sig.CreatedAt,
		version,
	)
	if err != nil {
		s.l.Error("clickhouse signal insert error",
			applogger.String("signal_id", sig.ID),
			applogger.String("status", string(sig.Status)),
			applogger.Error(err),
		)
		return fmt.Errorf("insert signal: %w", err)
	}
	return nil
}

// GetByID returns one signal or nil when unknown.
func (s *SignalStore) GetByID(ctx context.Context, id string) (*models.Signal, error) {
	q := fmt.Sprintf(`SELECT %s FROM %s FINAL WHERE id = ?`, signalColumns, s.table)
	rows, err := s.db.QueryContext(ctx, q, id)
	if err != nil {
		return nil, fmt.Errorf("get signal: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	sig, err := scanSignal(rows)
	if err != nil {
		return nil, err
	}
	return sig, rows.Err()
}

// ListActive returns every active signal.
func (s *SignalStore) ListActive(ctx context.Context) ([]*models.Signal, error) {
	q := fmt.Sprintf(`SELECT %s FROM %s FINAL
		WHERE status = 'active'
		ORDER BY created_at ASC`, signalColumns, s.table)
	return s.list(ctx, q)
}

// ListByStatus returns signals in one status, newest first.
func (s *SignalStore) ListByStatus(ctx context.Context, status models.SignalStatus, limit int) ([]*models.Signal, error) {
	q := fmt.Sprintf(`SELECT %s FROM %s FINAL
		WHERE status = ?
		ORDER BY created_at DESC
		LIMIT ?`, signalColumns, s.table)
	return s.list(ctx, q, string(status), limit)
}

func (s *SignalStore) list(ctx context.Context, q string, args ...interface{}) ([]*models.Signal, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		s.l.Error("clickhouse signal query error", applogger.Error(err))
		return nil, fmt.Errorf("list signals: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Signal, 0, 64)
	for rows.Next() {
		sig, err := scanSignal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sig)
	}
	return out, rows.Err()
}

func scanSignal(rows *sql.Rows) (*models.Signal, error) {
	var (
		sig      models.Signal
		triggers string
	)
	err := rows.Scan(
		&sig.ID,
		&sig.Symbol,
		&sig.Exchange,
		&sig.Direction,
		&sig.EntryPrice,
		&sig.StopLoss,
		&sig.TakeProfit1,
		&sig.TakeProfit2,
		&sig.TakeProfit3,
		&sig.AIConfidence,
		&triggers,
		&sig.MinTier,
		&sig.Status,
		&sig.ResultPnl,
		&sig.ClosedAt,
		&sig.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan signal: %w", err)
	}
	if triggers != "" {
		if err := json.Unmarshal([]byte(triggers), &sig.AITriggers); err != nil {
			return nil, fmt.Errorf("unmarshal triggers: %w", err)
		}
	}
	return &sig, nil
}

// Health pings the connection pool.
func (s *SignalStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// TickerHistoryStore archives aggregated tickers into ClickHouse.
type TickerHistoryStore struct {
	db    *sql.DB
	table string
}

// NewTickerHistoryStore creates a TickerHistory.
func NewTickerHistoryStore(ch *pkgch.Client, database string) domrepo.TickerHistory {
	return &TickerHistoryStore{db: ch.DB(), table: database + ".agg_tickers"}
}

// StoreBatch inserts aggregated rows in chunks to limit round-trips.
func (s *TickerHistoryStore) StoreBatch(ctx context.Context, tickers []models.AggregatedTicker) error {
	if len(tickers) == 0 {
		return nil
	}
	const chunkSize = 2000
	for start := 0; start < len(tickers); start += chunkSize {
		end := start + chunkSize
		if end > len(tickers) {
			end = len(tickers)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*8)
		for _, t := range tickers[start:end] {
			if t.Symbol == "" {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args,
				t.Timestamp,
				t.Symbol,
				t.Price,
				t.Volume24h,
				t.Change24h,
				t.High24h,
				t.Low24h,
				strings.Join(t.Exchanges, ","),
			)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (ts, symbol, price, volume_24h, change_24h, high_24h, low_24h, exchanges) VALUES %s",
			s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("insert ticker batch: %w", err)
		}
	}
	return nil
}
